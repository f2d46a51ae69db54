package handler

import (
	"net/http"

	"github.com/go-faster/errors"

	"github.com/agrikart/agrikart/internal/domain/identity"
)

type identityResponse struct {
	ID          string `json:"id"`
	Username    string `json:"username"`
	Email       string `json:"email"`
	Address     string `json:"address,omitempty"`
	PhoneNumber string `json:"phoneNumber,omitempty"`
	Admin       bool   `json:"admin"`
}

func toIdentityResponse(id identity.Identity) identityResponse {
	return identityResponse{
		ID:          id.ID,
		Username:    id.Username,
		Email:       id.Email,
		Address:     id.Address,
		PhoneNumber: id.PhoneNumber,
		Admin:       id.Admin,
	}
}

func (h *Handler) login(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if !decodeBody(w, r, &req) {
		return
	}

	id, err := h.identities.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		if errors.Is(err, identity.ErrInvalidCredentials) {
			writeError(w, http.StatusUnauthorized, "invalid_credentials", err.Error())
			return
		}
		writeError(w, http.StatusInternalServerError, "login_failed", err.Error())
		return
	}
	writeJSON(w, http.StatusOK, toIdentityResponse(id))
}

func (h *Handler) signup(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Username    string `json:"username"`
		Email       string `json:"email"`
		Password    string `json:"password"`
		Address     string `json:"address"`
		PhoneNumber string `json:"phoneNumber"`
	}
	if !decodeBody(w, r, &req) {
		return
	}
	if req.Username == "" || req.Email == "" || req.Password == "" {
		writeError(w, http.StatusBadRequest, "missing_fields", "username, email, and password are required")
		return
	}

	id, err := h.identities.Signup(r.Context(), req.Username, req.Email, req.Password, req.Address, req.PhoneNumber)
	if err != nil {
		if errors.Is(err, identity.ErrEmailTaken) {
			writeError(w, http.StatusConflict, "email_taken", err.Error())
			return
		}
		writeError(w, http.StatusInternalServerError, "signup_failed", err.Error())
		return
	}
	writeJSON(w, http.StatusCreated, toIdentityResponse(id))
}

func (h *Handler) logout(w http.ResponseWriter, r *http.Request) {
	h.identities.SignOut(r.Context())
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) me(w http.ResponseWriter, _ *http.Request) {
	id, ok := h.identities.Current()
	if !ok {
		writeError(w, http.StatusUnauthorized, "not_signed_in", "no active session")
		return
	}
	writeJSON(w, http.StatusOK, toIdentityResponse(id))
}

func (h *Handler) updateProfile(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Username    *string `json:"username"`
		Address     *string `json:"address"`
		PhoneNumber *string `json:"phoneNumber"`
	}
	if !decodeBody(w, r, &req) {
		return
	}

	id, err := h.identities.UpdateProfile(r.Context(), identity.Patch{
		Username:    req.Username,
		Address:     req.Address,
		PhoneNumber: req.PhoneNumber,
	})
	if err != nil {
		if errors.Is(err, identity.ErrNotAuthenticated) {
			writeError(w, http.StatusUnauthorized, "not_signed_in", err.Error())
			return
		}
		writeError(w, http.StatusInternalServerError, "profile_update_failed", err.Error())
		return
	}
	writeJSON(w, http.StatusOK, toIdentityResponse(id))
}
