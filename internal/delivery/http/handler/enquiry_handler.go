package handler

import (
	"encoding/json"
	"net/http"

	"hospital-portal/internal/delivery/dto"
	"hospital-portal/internal/usecase"
	"hospital-portal/pkg/response"
	"hospital-portal/pkg/validator"
)

type EnquiryHandler struct {
	enquiryUsecase usecase.EnquiryUsecase
	validator      *validator.CustomValidator
}

func NewEnquiryHandler(enquiryUsecase usecase.EnquiryUsecase, validator *validator.CustomValidator) *EnquiryHandler {
	return &EnquiryHandler{
		enquiryUsecase: enquiryUsecase,
		validator:      validator,
	}
}

// SubmitEnquiry handles the public contact form
// @Summary Submit an enquiry
// @Tags Enquiries
// @Accept json
// @Produce json
// @Param request body dto.EnquiryRequest true "Enquiry"
// @Success 201 {object} response.Response
// @Failure 400 {object} response.Response
// @Failure 429 {object} response.Response
// @Router /enquiries [post]
func (h *EnquiryHandler) SubmitEnquiry(w http.ResponseWriter, r *http.Request) {
	var req dto.EnquiryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid request body", nil)
		return
	}

	if err := h.validator.Validate(&req); err != nil {
		response.ValidationError(w, h.validator.FormatValidationErrors(err))
		return
	}

	enquiry, err := h.enquiryUsecase.Submit(r.Context(), &req)
	if err != nil {
		writeError(w, err, "Failed to submit enquiry")
		return
	}

	response.Success(w, http.StatusCreated, "Enquiry submitted successfully", enquiry)
}

// @Summary List enquiries
// @Tags Admin
// @Security BearerAuth
// @Produce json
// @Success 200 {object} response.Response
// @Router /admin/enquiries [get]
func (h *EnquiryHandler) ListEnquiries(w http.ResponseWriter, r *http.Request) {
	enquiries, err := h.enquiryUsecase.List(r.Context())
	if err != nil {
		writeError(w, err, "Failed to get enquiries")
		return
	}

	response.Success(w, http.StatusOK, "Enquiries retrieved successfully", enquiries)
}
