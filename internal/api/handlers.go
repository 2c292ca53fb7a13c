package api

import (
	"errors"
	"net/http"
	"time"

	"github.com/Tiliavir/timeclock/internal/i18n"
	"github.com/Tiliavir/timeclock/internal/model"
	"github.com/Tiliavir/timeclock/internal/timecalc"
)

type errorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

type submitRequest struct {
	Time      string `json:"time"`
	Direction string `json:"direction" validate:"required,oneof=In Out in out"`
}

type workdayRequest struct {
	Hours float64 `json:"hours" validate:"required,gt=0"`
}

type languageRequest struct {
	Language string `json:"language" validate:"required,oneof=en it"`
}

type eventsResponse struct {
	Events        []model.ClockEvent `json:"events"`
	NextDirection model.Direction    `json:"nextDirection"`
	State         string             `json:"state"`
}

type mutationResponse struct {
	OK      bool           `json:"ok"`
	Warning string         `json:"warning,omitempty"`
	Metrics *model.Metrics `json:"metrics,omitempty"`
}

type workdayResponse struct {
	Hours  float64 `json:"hours"`
	Length string  `json:"length"`
}

// Snapshot is the payload of GET /api/metrics and of every live update.
type Snapshot struct {
	Metrics       model.Metrics      `json:"metrics"`
	Events        []model.ClockEvent `json:"events"`
	NextDirection model.Direction    `json:"nextDirection"`
	WorkdayHours  float64            `json:"workdayHours"`
	StopTime      string             `json:"stopTime,omitempty"`
	Total         string             `json:"total"`
}

// BuildSnapshot derives the live payload from the session at now.
func (s *Server) BuildSnapshot(now time.Time) Snapshot {
	m := s.sess.Metrics(now)
	snap := Snapshot{
		Metrics:       m,
		Events:        s.sess.Events(),
		NextDirection: s.sess.NextDirection(),
		WorkdayHours:  s.sess.WorkdayLength(),
		Total:         timecalc.FormatHoursMinutes(m.TotalWorked),
	}
	if m.ProjectedStop != nil {
		snap.StopTime = timecalc.FormatClock(*m.ProjectedStop)
	}
	return snap
}

func (s *Server) health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{"status": "ok"})
}

func (s *Server) listEvents(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, eventsResponse{
		Events:        s.sess.Events(),
		NextDirection: s.sess.NextDirection(),
		State:         s.sess.State().String(),
	})
}

func (s *Server) postEvent(w http.ResponseWriter, r *http.Request) {
	var req submitRequest
	if err := decode(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "InvalidRequest", err.Error())
		return
	}
	if err := s.validate.Struct(req); err != nil {
		s.fail(w, r, model.ErrInvalidDirection)
		return
	}
	dir, err := model.ParseDirection(req.Direction)
	if err != nil {
		s.fail(w, r, err)
		return
	}

	err = s.sess.SubmitEvent(req.Time, dir)
	s.metrics.ObserveSubmission(model.ErrorKind(err))
	if err != nil && !errors.Is(err, model.ErrPersistence) {
		s.fail(w, r, err)
		return
	}
	s.logger(r).Info("clock event submitted", "direction", dir, "time", req.Time)

	m := s.sess.Metrics(s.sess.Now())
	writeJSON(w, http.StatusCreated, mutationResponse{OK: true, Warning: s.warning(err), Metrics: &m})
}

func (s *Server) getMetrics(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.BuildSnapshot(s.sess.Now()))
}

func (s *Server) reset(w http.ResponseWriter, r *http.Request) {
	err := s.sess.ResetDay()
	s.logger(r).Info("event log reset")
	writeJSON(w, http.StatusOK, mutationResponse{OK: true, Warning: s.warning(err)})
}

func (s *Server) getRollover(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]bool{"rollover": s.sess.CheckRollover(s.sess.Now())})
}

func (s *Server) postRollover(w http.ResponseWriter, r *http.Request) {
	did, err := s.sess.Rollover(s.sess.Now())
	writeJSON(w, http.StatusOK, map[string]any{"rolledOver": did, "warning": s.warning(err)})
}

func (s *Server) getWorkday(w http.ResponseWriter, r *http.Request) {
	hours := s.sess.WorkdayLength()
	writeJSON(w, http.StatusOK, workdayResponse{Hours: hours, Length: timecalc.FormatWorkdayLength(hours)})
}

func (s *Server) putWorkday(w http.ResponseWriter, r *http.Request) {
	var req workdayRequest
	if err := decode(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "InvalidRequest", err.Error())
		return
	}
	if err := s.validate.Struct(req); err != nil {
		s.fail(w, r, model.ErrInvalidWorkdayLength)
		return
	}
	err := s.sess.SetWorkdayLength(req.Hours)
	if err != nil && !errors.Is(err, model.ErrPersistence) {
		s.fail(w, r, err)
		return
	}
	s.logger(r).Info("workday length changed", "hours", req.Hours)
	writeJSON(w, http.StatusOK, workdayResponse{Hours: req.Hours, Length: timecalc.FormatWorkdayLength(req.Hours)})
}

func (s *Server) getLanguage(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, languageRequest{Language: s.sess.Language()})
}

func (s *Server) putLanguage(w http.ResponseWriter, r *http.Request) {
	var req languageRequest
	if err := decode(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "InvalidRequest", err.Error())
		return
	}
	if err := s.validate.Struct(req); err != nil {
		writeError(w, http.StatusUnprocessableEntity, "InvalidLanguage", err.Error())
		return
	}
	err := s.sess.SetLanguage(req.Language)
	writeJSON(w, http.StatusOK, map[string]string{"language": s.sess.Language(), "warning": s.warning(err)})
}

// fail maps a taxonomy error to 422 with a localised message.
func (s *Server) fail(w http.ResponseWriter, r *http.Request, err error) {
	kind := model.ErrorKind(err)
	status := http.StatusUnprocessableEntity
	if kind == "" {
		kind = "Internal"
		status = http.StatusInternalServerError
		s.logger(r).Error("unexpected error", "error", err)
	}
	writeError(w, status, kind, i18n.T(s.sess.Language(), kind))
}

func (s *Server) warning(err error) string {
	if err == nil {
		return ""
	}
	return i18n.T(s.sess.Language(), i18n.MsgPersistenceFailure)
}
