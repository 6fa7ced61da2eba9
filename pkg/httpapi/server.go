package httpapi

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"

	"github.com/0xmhha/labseat/pkg/board"
	"github.com/0xmhha/labseat/pkg/ledger"
	"github.com/0xmhha/labseat/pkg/logger"
	"github.com/0xmhha/labseat/pkg/roster"
	"github.com/0xmhha/labseat/pkg/seat"
)

// Server routes HTTP requests to a board.
type Server struct {
	board  *board.Board
	logger logger.Logger
	router *mux.Router
}

// New creates a server for b.
func New(b *board.Board, log logger.Logger) *Server {
	if log == nil {
		log = logger.Noop()
	}
	s := &Server{
		board:  b,
		logger: log.Component("http"),
	}
	s.router = s.routes()
	return s
}

func (s *Server) routes() *mux.Router {
	r := mux.NewRouter()

	r.HandleFunc("/health", s.health).Methods(http.MethodGet)

	r.HandleFunc("/seats", s.listSeats).Methods(http.MethodGet)
	r.HandleFunc("/seats/move", s.moveSeat).Methods(http.MethodPost)
	r.HandleFunc("/seats/random", s.assignRandom).Methods(http.MethodPost)
	r.HandleFunc("/seats/reset", s.resetSeats).Methods(http.MethodPost)
	r.HandleFunc("/seats/{seat}/assign", s.assignSeat).Methods(http.MethodPost)
	r.HandleFunc("/seats/{seat}/leave", s.leaveSeat).Methods(http.MethodPost)
	r.HandleFunc("/seats/{seat}/away", s.toggleAway).Methods(http.MethodPost)

	r.HandleFunc("/members", s.listMembers).Methods(http.MethodGet)
	r.HandleFunc("/members/available", s.availableMembers).Methods(http.MethodGet)
	r.HandleFunc("/members", s.addMember).Methods(http.MethodPost)
	r.HandleFunc("/members/{id}", s.removeMember).Methods(http.MethodDelete)

	r.HandleFunc("/sessions", s.listSessions).Methods(http.MethodGet)
	r.HandleFunc("/sessions", s.addSession).Methods(http.MethodPost)
	r.HandleFunc("/sessions/{id}", s.updateSession).Methods(http.MethodPut)
	r.HandleFunc("/sessions/{id}", s.removeSession).Methods(http.MethodDelete)

	r.HandleFunc("/weeks", s.weeks).Methods(http.MethodGet)
	r.HandleFunc("/leaderboard", s.leaderboard).Methods(http.MethodGet)
	r.HandleFunc("/stays/current", s.currentStays).Methods(http.MethodGet)
	r.HandleFunc("/timeline", s.timeline).Methods(http.MethodGet)
	r.HandleFunc("/heatmap", s.heatmap).Methods(http.MethodGet)

	r.HandleFunc("/notifications", s.notifications).Methods(http.MethodGet)
	r.HandleFunc("/notifications/consume", s.consumeNotifications).Methods(http.MethodPost)

	r.HandleFunc("/export", s.export).Methods(http.MethodGet)
	r.HandleFunc("/import", s.importDocument).Methods(http.MethodPost)
	r.HandleFunc("/tick", s.tick).Methods(http.MethodPost)

	return r
}

// ServeHTTP implements http.Handler without access logging.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// Handler wraps the router with panic recovery and an access log in
// Apache combined format written to accessLog.
func (s *Server) Handler(accessLog io.Writer) http.Handler {
	recovery := handlers.RecoveryHandler(handlers.PrintRecoveryStack(false))
	return recovery(handlers.CombinedLoggingHandler(accessLog, s.router))
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.logger.Warn("failed to write response", "error", err)
	}
}

func (s *Server) writeError(w http.ResponseWriter, err error) {
	status := statusFor(err)
	if status >= http.StatusInternalServerError {
		s.logger.Error("request failed", "error", err)
	}
	s.writeJSON(w, status, errorResponse{Error: err.Error()})
}

// statusFor maps board errors to HTTP statuses.
func statusFor(err error) int {
	switch {
	case errors.Is(err, errNotFound),
		errors.Is(err, seat.ErrUnknownSeat),
		errors.Is(err, board.ErrUnknownMember),
		errors.Is(err, roster.ErrMemberNotFound),
		errors.Is(err, ledger.ErrSessionNotFound):
		return http.StatusNotFound
	case errors.Is(err, errInternal):
		return http.StatusInternalServerError
	default:
		return http.StatusBadRequest
	}
}

// decode reads a JSON request body into v.
func decode(r *http.Request, w http.ResponseWriter, v interface{}) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err := dec.Decode(v); err != nil {
		return fmt.Errorf("%w: %v", errBadBody, err)
	}
	return nil
}
