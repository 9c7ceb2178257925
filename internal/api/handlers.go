package api

import (
	"errors"
	"net/http"

	apperrors "github.com/sharunsuvarna92-pm/Day-Spent-Well/internal/errors"
	"github.com/sharunsuvarna92-pm/Day-Spent-Well/internal/models"
	"github.com/sharunsuvarna92-pm/Day-Spent-Well/internal/planner"
	"github.com/sharunsuvarna92-pm/Day-Spent-Well/internal/report"
	"github.com/sharunsuvarna92-pm/Day-Spent-Well/internal/scheduler"
	"github.com/sharunsuvarna92-pm/Day-Spent-Well/internal/tracker"
)

// sync re-reads the open session so a request acts on what other processes
// did since the last one, and moves a today view past midnight.
func (s *Server) sync(r *http.Request) error {
	if err := s.tracker.Refresh(r.Context()); err != nil && !errors.Is(err, tracker.ErrBusy) {
		return err
	}
	return nil
}

// GET /api/dashboard switches the viewed date first when ?date is given.
func (s *Server) handleDashboard(w http.ResponseWriter, r *http.Request) {
	var err error
	if date := r.URL.Query().Get("date"); date != "" && date != s.tracker.ViewDate() {
		err = s.tracker.SetViewDate(r.Context(), date)
	} else {
		err = s.sync(r)
	}
	if err != nil {
		s.writeError(w, err)
		return
	}
	d, err := s.tracker.Dashboard(r.Context())
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, d)
}

type viewRequest struct {
	Date string `json:"date"`
}

func (s *Server) handleView(w http.ResponseWriter, r *http.Request) {
	var req viewRequest
	if err := decodeBody(w, r, &req); err != nil {
		s.writeError(w, err)
		return
	}
	if req.Date == "" {
		req.Date = s.tracker.Today()
	}
	if err := s.tracker.SetViewDate(r.Context(), req.Date); err != nil {
		s.writeError(w, err)
		return
	}
	d, err := s.tracker.Dashboard(r.Context())
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, d)
}

type startRequest struct {
	PlanID string `json:"planId"`
}

func (s *Server) handleStart(w http.ResponseWriter, r *http.Request) {
	var req startRequest
	if err := decodeBody(w, r, &req); err != nil {
		s.writeError(w, err)
		return
	}
	if req.PlanID == "" {
		s.writeError(w, apperrors.NewValidationError("planId", "must not be empty"))
		return
	}
	p, err := s.plans.Get(r.Context(), req.PlanID)
	if err != nil {
		s.writeError(w, err)
		return
	}
	if !p.Active {
		s.writeError(w, apperrors.NewValidationError("planId", "plan %s is inactive", p.ID))
		return
	}
	if err := s.sync(r); err != nil {
		s.writeError(w, err)
		return
	}
	rs, err := s.tracker.Start(r.Context(), p.ID, p.ActivityName)
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, rs)
}

type stopRequest struct {
	SessionID string `json:"sessionId,omitempty"`
}

func (s *Server) handleStop(w http.ResponseWriter, r *http.Request) {
	var req stopRequest
	if r.ContentLength != 0 {
		if err := decodeBody(w, r, &req); err != nil {
			s.writeError(w, err)
			return
		}
	}
	if err := s.sync(r); err != nil {
		s.writeError(w, err)
		return
	}
	closed, err := s.tracker.Stop(r.Context(), req.SessionID)
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, closed)
}

type reportResponse struct {
	report.Report
	Suggestions []report.Suggestion `json:"suggestions"`
}

// GET /api/report falls back to the owner's default_report_range setting.
func (s *Server) handleReport(w http.ResponseWriter, r *http.Request) {
	rangeParam := r.URL.Query().Get("range")
	if rangeParam == "" {
		rangeParam = s.defaultRange(r)
	}
	kind, err := scheduler.ParseRangeKind(rangeParam)
	if err != nil {
		s.writeError(w, apperrors.NewValidationError("range", "%v", err))
		return
	}
	res, err := s.reports.Build(r.Context(), kind)
	if err != nil {
		s.writeError(w, err)
		return
	}
	suggestions := report.Suggest(res.Report, res.Plans)
	if suggestions == nil {
		suggestions = []report.Suggestion{}
	}
	writeJSON(w, http.StatusOK, reportResponse{Report: res.Report, Suggestions: suggestions})
}

func (s *Server) defaultRange(r *http.Request) string {
	fallback := string(scheduler.RangeRolling)
	if s.store == nil {
		return fallback
	}
	owner, err := s.plans.Owner(r.Context())
	if err != nil {
		return fallback
	}
	settings, err := s.store.GetSettings(r.Context(), owner)
	if err != nil || settings.DefaultReportRange == "" {
		return fallback
	}
	return settings.DefaultReportRange
}

type plansResponse struct {
	Plans   []models.Plan    `json:"plans"`
	Budgets []planner.Budget `json:"budgets"`
}

// GET /api/plans?day_type=weekday&inactive=true
func (s *Server) handlePlans(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	plans, err := s.plans.List(r.Context(), q.Get("inactive") == "true")
	if err != nil {
		s.writeError(w, err)
		return
	}
	if dt := q.Get("day_type"); dt != "" {
		dayType, err := models.ParseDayType(dt)
		if err != nil {
			s.writeError(w, apperrors.NewValidationError("day_type", "%v", err))
			return
		}
		filtered := plans[:0:0]
		for _, p := range plans {
			if p.DayType == dayType {
				filtered = append(filtered, p)
			}
		}
		plans = filtered
	}
	budgets, err := s.plans.Budgets(r.Context())
	if err != nil {
		s.writeError(w, err)
		return
	}
	if plans == nil {
		plans = []models.Plan{}
	}
	writeJSON(w, http.StatusOK, plansResponse{Plans: plans, Budgets: budgets})
}
