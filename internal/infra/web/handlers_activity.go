package web

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"toy-admin/internal/domain"
	"toy-admin/internal/domain/model"
	"toy-admin/internal/usecase"
)

func idParam(r *http.Request) (int64, error) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("%w: invalid id", domain.ErrInvalidArgument)
	}
	return id, nil
}

// ----- login history -----

type updateLoginRequest struct {
	IsSuspicious *bool `json:"is_suspicious" validate:"required"`
}

func (s *Server) listLogins(w http.ResponseWriter, r *http.Request) {
	offset, limit := pageParams(r)
	suspicious, _ := strconv.ParseBool(r.URL.Query().Get("suspicious"))
	page, err := s.logins.List(r.Context(), suspicious, offset, limit)
	if err != nil {
		writeError(w, r, s.log, err)
		return
	}
	writeOK(w, http.StatusOK, page)
}

func (s *Server) getLogin(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r)
	if err != nil {
		writeError(w, r, s.log, err)
		return
	}
	l, err := s.logins.Get(r.Context(), id)
	if err != nil {
		writeError(w, r, s.log, err)
		return
	}
	writeOK(w, http.StatusOK, l)
}

func (s *Server) updateLogin(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r)
	if err != nil {
		writeError(w, r, s.log, err)
		return
	}
	var req updateLoginRequest
	if !s.decode(w, r, &req) {
		return
	}
	l, err := s.logins.MarkSuspicious(r.Context(), id, *req.IsSuspicious)
	if err != nil {
		writeError(w, r, s.log, err)
		return
	}
	writeOK(w, http.StatusOK, l)
}

func (s *Server) deleteLogin(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r)
	if err != nil {
		writeError(w, r, s.log, err)
		return
	}
	if err := s.logins.Delete(r.Context(), id); err != nil {
		writeError(w, r, s.log, err)
		return
	}
	writeOK(w, http.StatusOK, nil)
}

// ----- bug reports -----

type bugFields struct {
	AppVersion       *string `json:"app_version" validate:"omitempty,max=50"`
	BuildNumber      *string `json:"build_number" validate:"omitempty,max=50"`
	Platform         *string `json:"platform" validate:"omitempty,max=50"`
	OSVersion        *string `json:"os_version" validate:"omitempty,max=50"`
	DeviceModel      *string `json:"device_model" validate:"omitempty,max=100"`
	AppScreen        *string `json:"app_screen" validate:"omitempty,max=100"`
	StepsToReproduce *string `json:"steps_to_reproduce" validate:"omitempty,max=4000"`
	Category         *string `json:"bug_category" validate:"omitempty,oneof=UI Performance Crash Logic Other"`
	ScreenshotURL    *string `json:"screenshot_url" validate:"omitempty,url"`
}

type createBugRequest struct {
	UserID      string `json:"user_id" validate:"omitempty,max=128"`
	Title       string `json:"title" validate:"required,max=200"`
	Description string `json:"description" validate:"required,max=10000"`
	Severity    string `json:"severity" validate:"omitempty,oneof=low medium high critical"`
	Status      string `json:"status" validate:"omitempty,oneof=open in_progress resolved closed"`
	bugFields
}

type updateBugRequest struct {
	Title       *string `json:"title" validate:"omitempty,max=200"`
	Description *string `json:"description" validate:"omitempty,max=10000"`
	Severity    *string `json:"severity" validate:"omitempty,oneof=low medium high critical"`
	Status      *string `json:"status" validate:"omitempty,oneof=open in_progress resolved closed"`
	bugFields
}

func (f bugFields) update() model.BugReportUpdate {
	u := model.BugReportUpdate{
		AppVersion:       f.AppVersion,
		BuildNumber:      f.BuildNumber,
		Platform:         f.Platform,
		OSVersion:        f.OSVersion,
		DeviceModel:      f.DeviceModel,
		AppScreen:        f.AppScreen,
		StepsToReproduce: f.StepsToReproduce,
		ScreenshotURL:    f.ScreenshotURL,
	}
	if f.Category != nil {
		c := model.BugCategory(*f.Category)
		u.Category = &c
	}
	return u
}

func (s *Server) listBugs(w http.ResponseWriter, r *http.Request) {
	offset, limit := pageParams(r)
	q := r.URL.Query()
	bugs, err := s.bugs.List(r.Context(),
		model.BugStatus(q.Get("status")), model.BugSeverity(q.Get("severity")), offset, limit)
	if err != nil {
		writeError(w, r, s.log, err)
		return
	}
	writeOK(w, http.StatusOK, bugs)
}

func (s *Server) createBug(w http.ResponseWriter, r *http.Request) {
	var req createBugRequest
	if !s.decode(w, r, &req) {
		return
	}
	extra := req.bugFields.update()
	b, err := s.bugs.Create(r.Context(), usecase.CreateBugReportRequest{
		UserID:      req.UserID,
		Title:       req.Title,
		Description: req.Description,
		Severity:    model.BugSeverity(req.Severity),
		Status:      model.BugStatus(req.Status),
		Extra:       extra,
	})
	if err != nil {
		writeError(w, r, s.log, err)
		return
	}
	writeOK(w, http.StatusCreated, b)
}

func (s *Server) getBug(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r)
	if err != nil {
		writeError(w, r, s.log, err)
		return
	}
	b, err := s.bugs.Get(r.Context(), id)
	if err != nil {
		writeError(w, r, s.log, err)
		return
	}
	writeOK(w, http.StatusOK, b)
}

func (s *Server) updateBug(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r)
	if err != nil {
		writeError(w, r, s.log, err)
		return
	}
	var req updateBugRequest
	if !s.decode(w, r, &req) {
		return
	}
	u := req.bugFields.update()
	u.Title = req.Title
	u.Description = req.Description
	if req.Severity != nil {
		v := model.BugSeverity(*req.Severity)
		u.Severity = &v
	}
	if req.Status != nil {
		v := model.BugStatus(*req.Status)
		u.Status = &v
	}
	b, err := s.bugs.Update(r.Context(), id, u)
	if err != nil {
		writeError(w, r, s.log, err)
		return
	}
	writeOK(w, http.StatusOK, b)
}

func (s *Server) deleteBug(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r)
	if err != nil {
		writeError(w, r, s.log, err)
		return
	}
	if err := s.bugs.Delete(r.Context(), id); err != nil {
		writeError(w, r, s.log, err)
		return
	}
	writeOK(w, http.StatusOK, nil)
}

// ----- stats -----

func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	st, err := s.stats.Dashboard(r.Context())
	if err != nil {
		writeError(w, r, s.log, err)
		return
	}
	writeOK(w, http.StatusOK, st)
}
