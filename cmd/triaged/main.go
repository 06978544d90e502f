package main

import (
	"context"
	"encoding/json"
	"flag"
	"log"
	"net/http"
	"os"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/joho/godotenv"

	"github.com/danielpatrickdp/triage-engine/internal/differential"
	"github.com/danielpatrickdp/triage-engine/internal/genai"
	"github.com/danielpatrickdp/triage-engine/internal/interview"
	"github.com/danielpatrickdp/triage-engine/internal/orchestrator"
	"github.com/danielpatrickdp/triage-engine/internal/rules"
	"github.com/danielpatrickdp/triage-engine/internal/session"
)

// #region main
func main() {
	_ = godotenv.Load()

	addr := flag.String("addr", envOr("TRIAGE_ADDR", ":8080"), "listen address")
	rulesPath := flag.String("rules", envOr("TRIAGE_RULES", "configs/rules.csv"), "rule table CSV")
	interviewDir := flag.String("interviews", envOr("TRIAGE_INTERVIEWS", "configs/interviews"), "interview config directory")
	dbPath := flag.String("db", envOr("TRIAGE_DB", "triage.db"), "session database path")
	flag.Parse()

	store, err := session.NewStore(*dbPath)
	if err != nil {
		log.Fatalf("failed to open store: %v", err)
	}
	defer store.Close()

	srv := &server{
		engine:     orchestrator.NewEngine(rules.NewEngine(rules.LoadFile(*rulesPath)), session.NewManager()),
		registry:   interview.NewRegistry(*interviewDir),
		store:      store,
		interviews: interview.NewManager(),
	}
	if p, err := genai.NewOpenAIPolisher(); err == nil {
		srv.polisher = p
		log.Println("[SERVER] reply polisher enabled")
	} else {
		log.Printf("[SERVER] reply polisher disabled: %v", err)
	}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(30 * time.Second))

	r.Post("/session", srv.createSession)
	r.Post("/turn", srv.processTurn)
	r.Get("/session/{id}", srv.getSession)
	r.Get("/complaints", srv.listComplaints)
	r.Post("/interview", srv.startInterview)
	r.Post("/interview/{id}/turn", srv.interviewTurn)
	r.Post("/differential", srv.synthesize)

	log.Printf("[SERVER] listening on %s (rules=%s db=%s)", *addr, *rulesPath, *dbPath)
	if err := http.ListenAndServe(*addr, r); err != nil {
		log.Fatalf("server error: %v", err)
	}
}

// #endregion main

// #region server

type server struct {
	engine     *orchestrator.Engine
	registry   *interview.Registry
	store      *session.Store
	polisher   genai.Polisher
	interviews *interview.Manager
}

func (s *server) createSession(w http.ResponseWriter, r *http.Request) {
	sess := s.engine.Sessions().Create()
	writeJSON(w, http.StatusCreated, map[string]string{"session_id": sess.ID})
}

type turnRequest struct {
	SessionID string `json:"session_id"`
	Text      string `json:"text"`
	// Boosts are caller-side score multipliers keyed by condition name,
	// for demographic context the engine cannot derive itself.
	Boosts map[string]float64 `json:"boosts,omitempty"`
}

func (s *server) processTurn(w http.ResponseWriter, r *http.Request) {
	var req turnRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.SessionID == "" || req.Text == "" {
		writeError(w, http.StatusBadRequest, "session_id and text are required")
		return
	}

	res := s.engine.ProcessTurnWithContext(req.SessionID, req.Text, rules.Context{Boosts: req.Boosts})
	res.Reply = s.polish(r.Context(), res.Reply)

	if err := s.persist(req.Text, res); err != nil {
		log.Printf("[SERVER] persist turn: %v", err)
	}
	writeJSON(w, http.StatusOK, res)
}

func (s *server) getSession(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	sess, ok := s.engine.Sessions().Snapshot(id)
	if !ok {
		var err error
		sess, err = s.store.Get(id)
		if err != nil {
			writeError(w, http.StatusNotFound, "unknown session")
			return
		}
	}
	writeJSON(w, http.StatusOK, sess)
}

// persist mirrors live session state into SQLite and appends the turn log.
func (s *server) persist(input string, res orchestrator.TurnResult) error {
	sess, ok := s.engine.Sessions().Snapshot(res.SessionID)
	if !ok {
		return nil
	}
	if err := s.store.Save(sess); err != nil {
		return err
	}
	return s.store.RecordTurn(session.TurnRecord{
		SessionID: res.SessionID,
		Input:     input,
		Reply:     res.Reply,
		Done:      res.Done,
		Tier:      res.Tier,
		CreatedAt: time.Now().UTC(),
	})
}

func (s *server) polish(ctx context.Context, reply string) string {
	if s.polisher == nil {
		return reply
	}
	return genai.Fallback(s.polisher.Polish(ctx, reply), reply)
}

// #endregion server

// #region interviews

func (s *server) listComplaints(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string][]string{"complaints": s.registry.Complaints()})
}

type startInterviewRequest struct {
	Complaint string `json:"complaint"`
}

func (s *server) startInterview(w http.ResponseWriter, r *http.Request) {
	var req startInterviewRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Complaint == "" {
		writeError(w, http.StatusBadRequest, "complaint is required")
		return
	}
	cfg, ok := s.registry.Get(req.Complaint)
	if !ok {
		writeError(w, http.StatusNotFound, "unknown complaint")
		return
	}

	iv := interview.New(cfg)
	reply := iv.Start()
	id := s.interviews.Add(iv)

	writeJSON(w, http.StatusCreated, map[string]any{
		"interview_id": id,
		"reply":        reply,
	})
}

func (s *server) interviewTurn(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	var req struct {
		Text string `json:"text"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Text == "" {
		writeError(w, http.StatusBadRequest, "text is required")
		return
	}

	var reply interview.Reply
	ok := s.interviews.With(id, func(iv *interview.Interview) {
		reply = iv.ProcessTurn(req.Text)
	})
	if !ok {
		writeError(w, http.StatusNotFound, "unknown interview")
		return
	}
	reply.Text = s.polish(r.Context(), reply.Text)
	writeJSON(w, http.StatusOK, reply)
}

// #endregion interviews

// #region differential

type differentialRequest struct {
	InterviewIDs []string                  `json:"interview_ids"`
	Demographics differential.Demographics `json:"demographics"`
}

func (s *server) synthesize(w http.ResponseWriter, r *http.Request) {
	var req differentialRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || len(req.InterviewIDs) == 0 {
		writeError(w, http.StatusBadRequest, "interview_ids are required")
		return
	}

	var completed []differential.CompletedInterview
	for _, id := range req.InterviewIDs {
		var done bool
		var ci differential.CompletedInterview
		ok := s.interviews.With(id, func(iv *interview.Interview) {
			done = iv.Completed()
			if done {
				ci = differential.FromInterview(iv)
			}
		})
		if !ok {
			writeError(w, http.StatusNotFound, "unknown interview "+id)
			return
		}
		if !done {
			writeError(w, http.StatusConflict, "interview "+id+" is not complete")
			return
		}
		completed = append(completed, ci)
	}

	writeJSON(w, http.StatusOK, differential.Synthesize(completed, req.Demographics))
}

// #endregion differential

// #region helpers

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("[SERVER] encode response: %v", err)
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// #endregion helpers
