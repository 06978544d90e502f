package session

// #region imports
import (
	"time"

	"github.com/danielpatrickdp/triage-engine/internal/facts"
	"github.com/danielpatrickdp/triage-engine/internal/question"
)

// #endregion

// #region session

// Session is the per-conversation mutable state. One session per user
// conversation; never shared across users. Turns must be applied in
// arrival order, which the Manager enforces with a per-session lock.
type Session struct {
	ID            string
	Facts         facts.Facts
	Asked         map[question.ID]bool
	LastAsked     question.ID
	LastReply     string
	RepeatCount   int
	Completed     bool
	MatchedRuleID string
	Tier          facts.Tier
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// Reset clears everything except the id, for an explicit new complaint.
func (s *Session) Reset() {
	s.Facts = facts.Facts{}
	s.Asked = make(map[question.ID]bool)
	s.LastAsked = ""
	s.LastReply = ""
	s.RepeatCount = 0
	s.Completed = false
	s.MatchedRuleID = ""
	s.Tier = facts.TierNone
	s.UpdatedAt = time.Now().UTC()
}

// #endregion
