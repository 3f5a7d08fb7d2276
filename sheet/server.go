// Package sheet provides a local stand-in for the spreadsheet script
// endpoint. It accepts the same GET submissions, appends rows to an
// in-memory sheet and answers with the script's JSON envelope.
package sheet

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"sync"
	"time"
)

// Header is the first row of the sheet.
var Header = []string{"Timestamp", "Name", "Email", "Age"}

// Row is one appended submission.
type Row struct {
	Timestamp string
	Name      string
	Email     string
	Age       string
}

// Server is the stand-in script endpoint.
type Server struct {
	mux    *http.ServeMux
	logger *slog.Logger
	now    func() time.Time

	mu   sync.Mutex
	rows []Row
}

// NewServer creates a server with an empty sheet. A nil logger discards logs.
func NewServer(logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	s := &Server{
		mux:    http.NewServeMux(),
		logger: logger,
		now:    time.Now,
	}
	s.registerHandlers()
	return s
}

// Handler returns the http.Handler for the server.
func (s *Server) Handler() http.Handler {
	return s.mux
}

// Rows returns a copy of the appended rows, header excluded.
func (s *Server) Rows() []Row {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]Row(nil), s.rows...)
}

func (s *Server) registerHandlers() {
	s.mux.HandleFunc("/health", s.handleHealth)
	s.mux.HandleFunc("/exec", s.handleExec)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"status":"ok"}`))
}

// handleExec mirrors the script's doGet: test and debug flags short-circuit,
// name and email are required, everything else is appended as a row.
func (s *Server) handleExec(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		s.respond(w, Envelope{Success: false, Error: "method not allowed"})
		return
	}

	q := r.URL.Query()

	if isTrue(q.Get("test")) {
		s.respond(w, Envelope{Success: true, Message: "Test request received"})
		return
	}

	if isTrue(q.Get("debug")) {
		params := make(map[string]string, len(q))
		for k := range q {
			params[k] = q.Get(k)
		}
		s.respond(w, Envelope{Success: true, Message: "Debug", Params: params})
		return
	}

	var missing []string
	for _, key := range []string{"name", "email"} {
		if strings.TrimSpace(q.Get(key)) == "" {
			missing = append(missing, key)
		}
	}
	if len(missing) > 0 {
		s.logger.Info("rejected submission", "missing", missing)
		s.respond(w, Envelope{Success: false, Error: "Missing required fields: " + strings.Join(missing, ", ")})
		return
	}

	row := Row{
		Timestamp: q.Get("timestamp"),
		Name:      q.Get("name"),
		Email:     q.Get("email"),
		Age:       q.Get("age"),
	}
	if row.Timestamp == "" {
		row.Timestamp = s.now().UTC().Format(time.RFC3339)
	}

	s.mu.Lock()
	s.rows = append(s.rows, row)
	count := len(s.rows)
	s.mu.Unlock()

	s.logger.Info("row appended", "row_count", count)
	s.respond(w, Envelope{Success: true, Message: "Row added", RowCount: count})
}

// respond writes the envelope with status 200 regardless of outcome, the
// way script web apps do.
func (s *Server) respond(w http.ResponseWriter, env Envelope) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if err := json.NewEncoder(w).Encode(env); err != nil {
		s.logger.Warn("writing response", "error", err)
	}
}

func isTrue(v string) bool {
	return strings.EqualFold(strings.TrimSpace(v), "true")
}
