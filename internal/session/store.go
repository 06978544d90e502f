package session

// #region imports
import (
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	_ "modernc.org/sqlite"

	"github.com/danielpatrickdp/triage-engine/internal/facts"
	"github.com/danielpatrickdp/triage-engine/internal/question"
)

// #endregion

// #region schema
const schema = `
CREATE TABLE IF NOT EXISTS sessions (
	session_id    TEXT PRIMARY KEY,
	facts_json    TEXT NOT NULL,
	asked_json    TEXT NOT NULL,
	last_asked    TEXT NOT NULL DEFAULT '',
	last_reply    TEXT NOT NULL DEFAULT '',
	repeat_count  INTEGER NOT NULL DEFAULT 0,
	completed     INTEGER NOT NULL DEFAULT 0,
	matched_rule  TEXT NOT NULL DEFAULT '',
	tier          TEXT NOT NULL DEFAULT '',
	created_at    TEXT NOT NULL,
	updated_at    TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS turns (
	id            INTEGER PRIMARY KEY AUTOINCREMENT,
	session_id    TEXT NOT NULL,
	input         TEXT NOT NULL,
	reply         TEXT NOT NULL,
	done          INTEGER NOT NULL DEFAULT 0,
	tier          TEXT NOT NULL DEFAULT '',
	created_at    TEXT NOT NULL,
	FOREIGN KEY (session_id) REFERENCES sessions(session_id)
);
`

// #endregion schema

// #region store-struct
// Store persists sessions and their turn log in SQLite. It sits at the
// caller boundary: the engine never touches it while holding work.
type Store struct {
	db *sql.DB
}

// #endregion store-struct

// #region constructor
// NewStore opens a SQLite database and runs migrations.
func NewStore(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		return nil, fmt.Errorf("pragma: %w", err)
	}
	if _, err := db.Exec("PRAGMA foreign_keys=ON"); err != nil {
		return nil, fmt.Errorf("pragma fk: %w", err)
	}
	if _, err := db.Exec(schema); err != nil {
		return nil, fmt.Errorf("migrate: %w", err)
	}
	return &Store{db: db}, nil
}

// Close closes the underlying database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// #endregion constructor

// #region save

// Save upserts the full session row.
func (s *Store) Save(sess Session) error {
	factsJSON, err := json.Marshal(sess.Facts)
	if err != nil {
		return fmt.Errorf("marshal facts: %w", err)
	}
	askedJSON, err := json.Marshal(askedList(sess.Asked))
	if err != nil {
		return fmt.Errorf("marshal asked: %w", err)
	}
	completed := 0
	if sess.Completed {
		completed = 1
	}
	_, err = s.db.Exec(`
		INSERT INTO sessions
		(session_id, facts_json, asked_json, last_asked, last_reply,
		 repeat_count, completed, matched_rule, tier, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(session_id) DO UPDATE SET
			facts_json = excluded.facts_json,
			asked_json = excluded.asked_json,
			last_asked = excluded.last_asked,
			last_reply = excluded.last_reply,
			repeat_count = excluded.repeat_count,
			completed = excluded.completed,
			matched_rule = excluded.matched_rule,
			tier = excluded.tier,
			updated_at = excluded.updated_at`,
		sess.ID, string(factsJSON), string(askedJSON), string(sess.LastAsked),
		sess.LastReply, sess.RepeatCount, completed, sess.MatchedRuleID,
		sess.Tier.String(),
		sess.CreatedAt.Format(time.RFC3339Nano),
		sess.UpdatedAt.Format(time.RFC3339Nano),
	)
	if err != nil {
		return fmt.Errorf("save session: %w", err)
	}
	return nil
}

func askedList(asked map[question.ID]bool) []string {
	out := make([]string, 0, len(asked))
	for id, v := range asked {
		if v {
			out = append(out, string(id))
		}
	}
	return out
}

// #endregion save

// #region get

// Get loads a persisted session by id.
func (s *Store) Get(id string) (Session, error) {
	var sess Session
	var factsJSON, askedJSON, lastAsked, tier, createdStr, updatedStr string
	var completed int

	err := s.db.QueryRow(`
		SELECT session_id, facts_json, asked_json, last_asked, last_reply,
		       repeat_count, completed, matched_rule, tier, created_at, updated_at
		FROM sessions WHERE session_id = ?`, id,
	).Scan(&sess.ID, &factsJSON, &askedJSON, &lastAsked, &sess.LastReply,
		&sess.RepeatCount, &completed, &sess.MatchedRuleID, &tier,
		&createdStr, &updatedStr)
	if err != nil {
		return Session{}, fmt.Errorf("get session %s: %w", id, err)
	}

	if err := json.Unmarshal([]byte(factsJSON), &sess.Facts); err != nil {
		return Session{}, fmt.Errorf("unmarshal facts: %w", err)
	}
	var asked []string
	if err := json.Unmarshal([]byte(askedJSON), &asked); err != nil {
		return Session{}, fmt.Errorf("unmarshal asked: %w", err)
	}
	sess.Asked = make(map[question.ID]bool, len(asked))
	for _, a := range asked {
		sess.Asked[question.ID(a)] = true
	}
	sess.LastAsked = question.ID(lastAsked)
	sess.Completed = completed == 1
	sess.Tier = facts.ParseTier(tier)
	sess.CreatedAt, _ = time.Parse(time.RFC3339Nano, createdStr)
	sess.UpdatedAt, _ = time.Parse(time.RFC3339Nano, updatedStr)
	return sess, nil
}

// #endregion get

// #region turn-log

// TurnRecord is one row of the per-session turn log.
type TurnRecord struct {
	SessionID string
	Input     string
	Reply     string
	Done      bool
	Tier      string
	CreatedAt time.Time
}

// RecordTurn appends one processed turn to the log.
func (s *Store) RecordTurn(rec TurnRecord) error {
	done := 0
	if rec.Done {
		done = 1
	}
	_, err := s.db.Exec(`
		INSERT INTO turns (session_id, input, reply, done, tier, created_at)
		VALUES (?, ?, ?, ?, ?, ?)`,
		rec.SessionID, rec.Input, rec.Reply, done, rec.Tier,
		rec.CreatedAt.Format(time.RFC3339Nano),
	)
	if err != nil {
		return fmt.Errorf("record turn: %w", err)
	}
	return nil
}

// ListTurns returns the turn log for one session in arrival order.
func (s *Store) ListTurns(sessionID string) ([]TurnRecord, error) {
	rows, err := s.db.Query(`
		SELECT session_id, input, reply, done, tier, created_at
		FROM turns WHERE session_id = ? ORDER BY id ASC`, sessionID)
	if err != nil {
		return nil, fmt.Errorf("list turns: %w", err)
	}
	defer rows.Close()

	var out []TurnRecord
	for rows.Next() {
		var rec TurnRecord
		var done int
		var createdStr string
		if err := rows.Scan(&rec.SessionID, &rec.Input, &rec.Reply, &done, &rec.Tier, &createdStr); err != nil {
			return nil, fmt.Errorf("scan turn: %w", err)
		}
		rec.Done = done == 1
		rec.CreatedAt, _ = time.Parse(time.RFC3339Nano, createdStr)
		out = append(out, rec)
	}
	return out, rows.Err()
}

// ListSessions returns the most recently updated session ids.
func (s *Store) ListSessions(limit int) ([]Session, error) {
	rows, err := s.db.Query(`
		SELECT session_id FROM sessions ORDER BY updated_at DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("list sessions: %w", err)
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scan session id: %w", err)
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	out := make([]Session, 0, len(ids))
	for _, id := range ids {
		sess, err := s.Get(id)
		if err != nil {
			return nil, err
		}
		out = append(out, sess)
	}
	return out, nil
}

// #endregion turn-log
