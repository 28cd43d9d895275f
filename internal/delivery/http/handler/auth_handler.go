package handler

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"hospital-portal/internal/converter"
	"hospital-portal/internal/delivery/dto"
	"hospital-portal/internal/session"
	"hospital-portal/internal/usecase"
	"hospital-portal/pkg/response"
	"hospital-portal/pkg/validator"
)

type AuthHandler struct {
	identityUsecase usecase.IdentityUsecase
	validator       *validator.CustomValidator
}

func NewAuthHandler(identityUsecase usecase.IdentityUsecase, validator *validator.CustomValidator) *AuthHandler {
	return &AuthHandler{
		identityUsecase: identityUsecase,
		validator:       validator,
	}
}

// Signup handles patient self registration
// @Summary Register a new patient
// @Description Create an account and its patient profile. The role cannot be chosen.
// @Tags Auth
// @Accept json
// @Produce json
// @Param request body dto.SignupRequest true "Signup Request"
// @Success 201 {object} response.Response
// @Failure 400 {object} response.Response
// @Failure 409 {object} response.Response
// @Router /auth/signup [post]
func (h *AuthHandler) Signup(w http.ResponseWriter, r *http.Request) {
	var req dto.SignupRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid request body", nil)
		return
	}

	if err := h.validator.Validate(&req); err != nil {
		response.ValidationError(w, h.validator.FormatValidationErrors(err))
		return
	}

	result, err := h.identityUsecase.Signup(r.Context(), &req)
	if err != nil {
		writeError(w, err, "Failed to register user")
		return
	}

	response.Success(w, http.StatusCreated, "User registered successfully", result)
}

// Login handles user login
// @Summary Login user
// @Description Login with email and password. The response carries the resolved profile.
// @Tags Auth
// @Accept json
// @Produce json
// @Param request body dto.LoginRequest true "Login Request"
// @Success 200 {object} response.Response
// @Failure 400 {object} response.Response
// @Failure 401 {object} response.Response
// @Failure 503 {object} response.Response
// @Router /auth/login [post]
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req dto.LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid request body", nil)
		return
	}

	if err := h.validator.Validate(&req); err != nil {
		response.ValidationError(w, h.validator.FormatValidationErrors(err))
		return
	}

	result, err := h.identityUsecase.Login(r.Context(), &req)
	if err != nil {
		writeError(w, err, "Failed to login")
		return
	}

	response.Success(w, http.StatusOK, "Login successful", result)
}

// Logout handles user logout
// @Summary Logout user
// @Description Revoke the access token and optionally the refresh token
// @Tags Auth
// @Security BearerAuth
// @Produce json
// @Success 200 {object} response.Response
// @Failure 401 {object} response.Response
// @Router /auth/logout [post]
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	var req dto.LogoutRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
		response.Error(w, http.StatusBadRequest, "Invalid request body", nil)
		return
	}

	if err := h.identityUsecase.Logout(r.Context(), session.FromContext(r.Context()), req.RefreshToken); err != nil {
		writeError(w, err, "Failed to logout")
		return
	}

	response.Success(w, http.StatusOK, "Logout successful", nil)
}

// RefreshToken handles token refresh
// @Summary Refresh access token
// @Description Exchange a refresh token for a new token pair
// @Tags Auth
// @Accept json
// @Produce json
// @Param request body dto.RefreshTokenRequest true "Refresh Token Request"
// @Success 200 {object} response.Response
// @Failure 401 {object} response.Response
// @Router /auth/refresh-token [post]
func (h *AuthHandler) RefreshToken(w http.ResponseWriter, r *http.Request) {
	var req dto.RefreshTokenRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid request body", nil)
		return
	}

	if err := h.validator.Validate(&req); err != nil {
		response.ValidationError(w, h.validator.FormatValidationErrors(err))
		return
	}

	tokens, err := h.identityUsecase.RefreshToken(r.Context(), &req)
	if err != nil {
		writeError(w, err, "Failed to refresh token")
		return
	}

	response.Success(w, http.StatusOK, "Token refreshed successfully", tokens)
}

// Session returns the caller's session snapshot
// @Summary Current session
// @Description Identity, resolved profile and loading state of the caller
// @Tags Auth
// @Security BearerAuth
// @Produce json
// @Success 200 {object} response.Response
// @Failure 401 {object} response.Response
// @Failure 503 {object} response.Response
// @Router /auth/me [get]
func (h *AuthHandler) Session(w http.ResponseWriter, r *http.Request) {
	snap := session.FromContext(r.Context()).Current()
	if !snap.Authenticated() {
		response.Unauthorized(w, "")
		return
	}
	if snap.Err != nil {
		writeError(w, snap.Err, "Failed to resolve user profile")
		return
	}

	resp := dto.SessionResponse{
		Identity: converter.IdentityToResponse(*snap.Identity),
		Loading:  snap.Loading,
	}
	if snap.Profile != nil {
		resp.User = converter.UserToResponse(snap.Profile)
		resp.LoginPath = snap.Profile.Role.LoginPath()
	}

	response.Success(w, http.StatusOK, "Session retrieved successfully", resp)
}
