package httpapi

import (
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"github.com/0xmhha/labseat/pkg/aggregator"
	"github.com/0xmhha/labseat/pkg/board"
	"github.com/0xmhha/labseat/pkg/calendar"
	"github.com/0xmhha/labseat/pkg/exchange"
	"github.com/0xmhha/labseat/pkg/ledger"
	"github.com/0xmhha/labseat/pkg/notify"
	"github.com/0xmhha/labseat/pkg/roster"
)

func (s *Server) health(w http.ResponseWriter, _ *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) listSeats(w http.ResponseWriter, _ *http.Request) {
	s.writeJSON(w, http.StatusOK, s.board.Seats())
}

func (s *Server) assignSeat(w http.ResponseWriter, r *http.Request) {
	var req memberRequest
	if err := decode(r, w, &req); err != nil {
		s.writeError(w, err)
		return
	}

	a, err := s.board.Assign(mux.Vars(r)["seat"], req.MemberID)
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, a)
}

func (s *Server) assignRandom(w http.ResponseWriter, r *http.Request) {
	var req memberRequest
	if err := decode(r, w, &req); err != nil {
		s.writeError(w, err)
		return
	}

	a, err := s.board.AssignRandom(req.MemberID)
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, a)
}

func (s *Server) leaveSeat(w http.ResponseWriter, r *http.Request) {
	a, err := s.board.Leave(mux.Vars(r)["seat"])
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, a)
}

func (s *Server) toggleAway(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["seat"]
	status, err := s.board.ToggleAway(id)
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, statusResponse{SeatID: id, Status: string(status)})
}

func (s *Server) moveSeat(w http.ResponseWriter, r *http.Request) {
	var req moveRequest
	if err := decode(r, w, &req); err != nil {
		s.writeError(w, err)
		return
	}

	swap, err := s.board.Move(req.From, req.To)
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, moveResponse{
		From:      swap.From,
		To:        swap.To,
		Mover:     swap.Mover,
		Displaced: swap.Displaced,
	})
}

func (s *Server) resetSeats(w http.ResponseWriter, _ *http.Request) {
	s.writeJSON(w, http.StatusOK, resetResponse{Cleared: s.board.ResetSeats()})
}

func (s *Server) listMembers(w http.ResponseWriter, _ *http.Request) {
	s.writeJSON(w, http.StatusOK, nonNilMembers(s.board.Members()))
}

func (s *Server) availableMembers(w http.ResponseWriter, _ *http.Request) {
	s.writeJSON(w, http.StatusOK, nonNilMembers(s.board.AvailableMembers()))
}

func (s *Server) addMember(w http.ResponseWriter, r *http.Request) {
	var req addMemberRequest
	if err := decode(r, w, &req); err != nil {
		s.writeError(w, err)
		return
	}

	m, err := s.board.AddMember(req.Name, req.Category)
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusCreated, m)
}

func (s *Server) removeMember(w http.ResponseWriter, r *http.Request) {
	if err := s.board.RemoveMember(mux.Vars(r)["id"]); err != nil {
		s.writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) listSessions(w http.ResponseWriter, _ *http.Request) {
	s.writeJSON(w, http.StatusOK, exchange.EncodeSessions(s.board.Sessions()))
}

func (s *Server) addSession(w http.ResponseWriter, r *http.Request) {
	var body sessionBody
	if err := decode(r, w, &body); err != nil {
		s.writeError(w, err)
		return
	}

	start, end := body.times()
	created, err := s.board.AddSession(body.UserID, body.SeatID, start, end)
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusCreated, exchange.EncodeSessions([]ledger.Session{created})[0])
}

func (s *Server) updateSession(w http.ResponseWriter, r *http.Request) {
	var body sessionBody
	if err := decode(r, w, &body); err != nil {
		s.writeError(w, err)
		return
	}

	start, end := body.times()
	patch := ledger.Patch{MemberID: body.UserID, SeatID: body.SeatID, Start: start, End: end}
	if err := s.board.UpdateSession(mux.Vars(r)["id"], patch); err != nil {
		s.writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) removeSession(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	if !s.board.RemoveSession(id) {
		s.writeError(w, fmt.Errorf("session %s: %w", id, errNotFound))
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) weeks(w http.ResponseWriter, _ *http.Request) {
	s.writeJSON(w, http.StatusOK, s.board.Histogram())
}

func (s *Server) leaderboard(w http.ResponseWriter, r *http.Request) {
	week := calendar.WeekKey(r.URL.Query().Get("week"))
	s.writeJSON(w, http.StatusOK, s.board.Leaderboard(week))
}

func (s *Server) currentStays(w http.ResponseWriter, _ *http.Request) {
	s.writeJSON(w, http.StatusOK, s.board.CurrentWeekStays())
}

func (s *Server) timeline(w http.ResponseWriter, r *http.Request) {
	date := r.URL.Query().Get("date")
	slices, err := s.board.Timeline(date)
	if err != nil {
		s.writeError(w, err)
		return
	}
	if date == "" {
		date = s.board.Calendar().DateKey(s.board.Now())
	}
	s.writeJSON(w, http.StatusOK, timelineResponse{Date: date, Seats: slices})
}

func (s *Server) heatmap(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	var (
		rng aggregator.Range
		err error
	)
	if from := q.Get("from"); from != "" {
		rng, err = s.board.DateRange(from, q.Get("to"))
	} else {
		preset := board.Preset(q.Get("preset"))
		if preset == "" {
			preset = board.PresetThisWeek
		}
		rng, err = s.board.PresetRange(preset)
	}
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, s.board.Heatmap(rng))
}

func (s *Server) notifications(w http.ResponseWriter, _ *http.Request) {
	s.writeJSON(w, http.StatusOK, notificationsResponse{Notifications: nonNil(s.board.Notifications())})
}

func (s *Server) consumeNotifications(w http.ResponseWriter, _ *http.Request) {
	s.writeJSON(w, http.StatusOK, notificationsResponse{Notifications: nonNil(s.board.ConsumeNotifications())})
}

func (s *Server) export(w http.ResponseWriter, _ *http.Request) {
	raw, err := s.board.Export()
	if err != nil {
		s.writeError(w, fmt.Errorf("%w: %v", errInternal, err))
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="labseat-%s.json"`, s.board.Calendar().DateKey(s.board.Now())))
	if _, err := w.Write(raw); err != nil {
		s.logger.Warn("failed to write export", "error", err)
	}
}

func (s *Server) importDocument(w http.ResponseWriter, r *http.Request) {
	raw, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err != nil {
		s.writeError(w, fmt.Errorf("%w: %v", errBadBody, err))
		return
	}

	res := s.board.Import(raw)
	status := http.StatusOK
	if !res.Success {
		status = http.StatusBadRequest
	}
	s.writeJSON(w, status, res)
}

func (s *Server) tick(w http.ResponseWriter, _ *http.Request) {
	out := s.board.Tick(s.board.Now())
	s.writeJSON(w, http.StatusOK, tickResponse{
		At:        out.At.UnixMilli(),
		Rollover:  out.Decision.Rollover,
		Week:      string(out.Decision.Week),
		Reset:     out.Decision.Reset,
		ResetDate: out.Decision.ResetDate,
		Closed:    out.Closed,
		Reopened:  out.Reopened,
		Cleared:   out.Cleared,
	})
}

// times converts the millisecond fields of a session body.
func (b sessionBody) times() (time.Time, *time.Time) {
	var start time.Time
	if b.Start > 0 {
		start = time.UnixMilli(b.Start)
	}
	if b.End == nil {
		return start, nil
	}
	end := time.UnixMilli(*b.End)
	return start, &end
}

func nonNilMembers(members []roster.Member) []roster.Member {
	if members == nil {
		return []roster.Member{}
	}
	return members
}

func nonNil(notes []notify.Notification) []notify.Notification {
	if notes == nil {
		return []notify.Notification{}
	}
	return notes
}
