package web

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"toy-admin/internal/domain/model"
	"toy-admin/internal/usecase"
)

type toyFields struct {
	UserID                 *string `json:"user_id" validate:"omitempty,max=128"`
	KidName                *string `json:"kid_name" validate:"omitempty,max=100"`
	KidAge                 *int    `json:"kid_age" validate:"omitempty,min=1,max=18"`
	DOB                    *string `json:"dob" validate:"omitempty,datetime=2006-01-02"`
	ActivationCode         *string `json:"activation_code" validate:"omitempty,numeric,len=6"`
	ToyMacID               *string `json:"toy_mac_id" validate:"omitempty,max=64"`
	AdditionalInstructions *string `json:"additional_instructions" validate:"omitempty,max=4000"`
}

type createToyRequest struct {
	Name     string `json:"name" validate:"required,max=100"`
	RoleType string `json:"role_type" validate:"required"`
	Language string `json:"language" validate:"required"`
	Voice    string `json:"voice" validate:"required"`
	toyFields
}

type updateToyRequest struct {
	Name     *string `json:"name" validate:"omitempty,max=100"`
	RoleType *string `json:"role_type"`
	Language *string `json:"language"`
	Voice    *string `json:"voice"`
	toyFields
}

// update converts the optional fields. dob was already checked by the validator.
func (f toyFields) update() model.ToyUpdate {
	u := model.ToyUpdate{
		UserID:                 f.UserID,
		KidName:                f.KidName,
		KidAge:                 f.KidAge,
		ActivationCode:         f.ActivationCode,
		ToyMacID:               f.ToyMacID,
		AdditionalInstructions: f.AdditionalInstructions,
	}
	if f.DOB != nil {
		if t, err := time.Parse(time.DateOnly, *f.DOB); err == nil {
			u.DOB = &t
		}
	}
	return u
}

func (req updateToyRequest) update() model.ToyUpdate {
	u := req.toyFields.update()
	u.Name = req.Name
	if req.RoleType != nil {
		v := model.RoleType(*req.RoleType)
		u.RoleType = &v
	}
	if req.Language != nil {
		v := model.Language(*req.Language)
		u.Language = &v
	}
	if req.Voice != nil {
		v := model.Voice(*req.Voice)
		u.Voice = &v
	}
	return u
}

func (s *Server) listToys(w http.ResponseWriter, r *http.Request) {
	offset, limit := pageParams(r)
	page, err := s.toys.List(r.Context(), offset, limit)
	if err != nil {
		writeError(w, r, s.log, err)
		return
	}
	writeOK(w, http.StatusOK, page)
}

func (s *Server) createToy(w http.ResponseWriter, r *http.Request) {
	var req createToyRequest
	if !s.decode(w, r, &req) {
		return
	}
	toy, err := s.toys.Create(r.Context(), usecase.CreateToyRequest{
		Name:     req.Name,
		RoleType: model.RoleType(req.RoleType),
		Language: model.Language(req.Language),
		Voice:    model.Voice(req.Voice),
		Extra:    req.toyFields.update(),
	})
	if err != nil {
		writeError(w, r, s.log, err)
		return
	}
	writeOK(w, http.StatusCreated, toy)
}

func (s *Server) getToy(w http.ResponseWriter, r *http.Request) {
	toy, err := s.toys.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, r, s.log, err)
		return
	}
	writeOK(w, http.StatusOK, toy)
}

func (s *Server) updateToy(w http.ResponseWriter, r *http.Request) {
	var req updateToyRequest
	if !s.decode(w, r, &req) {
		return
	}
	toy, err := s.toys.Update(r.Context(), chi.URLParam(r, "id"), req.update())
	if err != nil {
		writeError(w, r, s.log, err)
		return
	}
	writeOK(w, http.StatusOK, toy)
}

func (s *Server) deleteToy(w http.ResponseWriter, r *http.Request) {
	if err := s.toys.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		writeError(w, r, s.log, err)
		return
	}
	writeOK(w, http.StatusOK, nil)
}

// ----- parents -----

type createParentRequest struct {
	UserID            string `json:"user_id" validate:"omitempty,max=128"`
	ParentName        string `json:"parent_name" validate:"omitempty,max=200"`
	ParentEmail       string `json:"parent_email" validate:"omitempty,email"`
	ParentPhoneNumber string `json:"parent_phone_number" validate:"omitempty,max=32"`
}

type updateParentRequest struct {
	ParentName        *string `json:"parent_name" validate:"omitempty,max=200"`
	ParentEmail       *string `json:"parent_email" validate:"omitempty,email"`
	ParentPhoneNumber *string `json:"parent_phone_number" validate:"omitempty,max=32"`
}

func (s *Server) listParents(w http.ResponseWriter, r *http.Request) {
	offset, limit := pageParams(r)
	page, err := s.parents.List(r.Context(), offset, limit)
	if err != nil {
		writeError(w, r, s.log, err)
		return
	}
	writeOK(w, http.StatusOK, page)
}

func (s *Server) createParent(w http.ResponseWriter, r *http.Request) {
	var req createParentRequest
	if !s.decode(w, r, &req) {
		return
	}
	p, err := s.parents.Create(r.Context(), req.UserID, req.ParentName, req.ParentEmail, req.ParentPhoneNumber)
	if err != nil {
		writeError(w, r, s.log, err)
		return
	}
	writeOK(w, http.StatusCreated, p)
}

// getParent includes the toys bound to the parent's account.
func (s *Server) getParent(w http.ResponseWriter, r *http.Request) {
	p, err := s.parents.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, r, s.log, err)
		return
	}
	writeOK(w, http.StatusOK, p)
}

func (s *Server) updateParent(w http.ResponseWriter, r *http.Request) {
	var req updateParentRequest
	if !s.decode(w, r, &req) {
		return
	}
	p, err := s.parents.Update(r.Context(), chi.URLParam(r, "id"), model.ParentProfileUpdate{
		ParentName:        req.ParentName,
		ParentEmail:       req.ParentEmail,
		ParentPhoneNumber: req.ParentPhoneNumber,
	})
	if err != nil {
		writeError(w, r, s.log, err)
		return
	}
	writeOK(w, http.StatusOK, p)
}

func (s *Server) deleteParent(w http.ResponseWriter, r *http.Request) {
	if err := s.parents.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		writeError(w, r, s.log, err)
		return
	}
	writeOK(w, http.StatusOK, nil)
}
