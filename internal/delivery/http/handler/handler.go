package handler

import (
	"errors"
	"net/http"

	"hospital-portal/internal/domain/apperror"
	"hospital-portal/internal/domain/entity"
	"hospital-portal/internal/session"
	"hospital-portal/internal/usecase"
	"hospital-portal/pkg/response"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
)

// statusFor maps an application error to its HTTP status.
func statusFor(err error) int {
	if errors.Is(err, usecase.ErrEmailAlreadyExists) || errors.Is(err, usecase.ErrEmailReserved) {
		return http.StatusConflict
	}

	switch apperror.KindOf(err) {
	case apperror.KindAuth:
		return http.StatusUnauthorized
	case apperror.KindProfileResolution:
		return http.StatusServiceUnavailable
	case apperror.KindIncompleteSchedule, apperror.KindValidation:
		return http.StatusBadRequest
	case apperror.KindStorage:
		return http.StatusBadGateway
	case apperror.KindNotFound:
		return http.StatusNotFound
	case apperror.KindForbidden:
		return http.StatusForbidden
	case apperror.KindInvalidTransition:
		return http.StatusConflict
	}
	return http.StatusInternalServerError
}

// writeError answers with the status of err. Internal errors never leak
// their message; fallback is shown instead.
func writeError(w http.ResponseWriter, err error, fallback string) {
	status := statusFor(err)
	if status == http.StatusInternalServerError {
		response.InternalServerError(w, fallback)
		return
	}
	response.Error(w, status, apperror.MessageOf(err, fallback), nil)
}

func pathID(r *http.Request, name string) (uuid.UUID, bool) {
	id, err := uuid.Parse(mux.Vars(r)[name])
	return id, err == nil
}

// currentProfile returns the resolved profile of the caller. Routes using it
// sit behind RequireRole, so a profile is always present there.
func currentProfile(r *http.Request) (*entity.UserProfile, bool) {
	snap := session.FromContext(r.Context()).Current()
	if snap.Profile == nil {
		return nil, false
	}
	return snap.Profile, true
}
