package web

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"toy-admin/internal/domain/model"
	"toy-admin/internal/usecase"
)

type createDeviceRequest struct {
	MacID          string `json:"mac_id" validate:"omitempty,max=64"`
	ActivationCode string `json:"activation_code" validate:"omitempty,numeric,len=6"`
	IsActive       bool   `json:"is_active"`
}

type updateDeviceRequest struct {
	IsActive         *bool   `json:"is_active"`
	ActivationCode   *string `json:"activation_code" validate:"omitempty,numeric,len=6"`
	RegenerateCode   bool    `json:"regenerate_code"`
	RegenerateSecret bool    `json:"regenerate_secret"`
}

func (s *Server) listDevices(w http.ResponseWriter, r *http.Request) {
	offset, limit := pageParams(r)
	page, err := s.devices.List(r.Context(), offset, limit)
	if err != nil {
		writeError(w, r, s.log, err)
		return
	}
	writeOK(w, http.StatusOK, page)
}

// createDevice returns the plaintext secret once; only its hash is stored.
func (s *Server) createDevice(w http.ResponseWriter, r *http.Request) {
	var req createDeviceRequest
	if !s.decode(w, r, &req) {
		return
	}
	out, err := s.devices.Register(r.Context(), usecase.RegisterDeviceRequest{
		MacID:          req.MacID,
		ActivationCode: req.ActivationCode,
		IsActive:       req.IsActive,
	})
	if err != nil {
		writeError(w, r, s.log, err)
		return
	}
	writeOK(w, http.StatusCreated, out)
}

func (s *Server) getDevice(w http.ResponseWriter, r *http.Request) {
	d, err := s.devices.Get(r.Context(), chi.URLParam(r, "macID"))
	if err != nil {
		writeError(w, r, s.log, err)
		return
	}
	writeOK(w, http.StatusOK, d)
}

func (s *Server) updateDevice(w http.ResponseWriter, r *http.Request) {
	var req updateDeviceRequest
	if !s.decode(w, r, &req) {
		return
	}
	out, err := s.devices.Update(r.Context(), chi.URLParam(r, "macID"), model.DeviceCredentialUpdate{
		IsActive:         req.IsActive,
		ActivationCode:   req.ActivationCode,
		RegenerateCode:   req.RegenerateCode,
		RegenerateSecret: req.RegenerateSecret,
	})
	if err != nil {
		writeError(w, r, s.log, err)
		return
	}
	writeOK(w, http.StatusOK, out)
}

func (s *Server) deleteDevice(w http.ResponseWriter, r *http.Request) {
	if err := s.devices.Delete(r.Context(), chi.URLParam(r, "macID")); err != nil {
		writeError(w, r, s.log, err)
		return
	}
	writeOK(w, http.StatusOK, nil)
}
