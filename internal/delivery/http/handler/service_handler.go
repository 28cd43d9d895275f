package handler

import (
	"encoding/json"
	"net/http"

	"hospital-portal/internal/delivery/dto"
	"hospital-portal/internal/usecase"
	"hospital-portal/pkg/response"
	"hospital-portal/pkg/validator"
)

type ServiceHandler struct {
	serviceUsecase usecase.ServiceUsecase
	validator      *validator.CustomValidator
}

func NewServiceHandler(serviceUsecase usecase.ServiceUsecase, validator *validator.CustomValidator) *ServiceHandler {
	return &ServiceHandler{
		serviceUsecase: serviceUsecase,
		validator:      validator,
	}
}

// ListServices handles listing hospital services
// @Summary List services
// @Tags Services
// @Produce json
// @Param search query string false "Search term"
// @Success 200 {object} response.Response
// @Router /services [get]
func (h *ServiceHandler) ListServices(w http.ResponseWriter, r *http.Request) {
	services, err := h.serviceUsecase.List(r.Context(), r.URL.Query().Get("search"))
	if err != nil {
		writeError(w, err, "Failed to get services")
		return
	}

	response.Success(w, http.StatusOK, "Services retrieved successfully", services)
}

// @Summary Get service
// @Tags Services
// @Produce json
// @Param id path string true "Service ID"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /services/{id} [get]
func (h *ServiceHandler) GetService(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "id")
	if !ok {
		response.Error(w, http.StatusBadRequest, "Invalid service ID", nil)
		return
	}

	service, err := h.serviceUsecase.Get(r.Context(), id)
	if err != nil {
		writeError(w, err, "Failed to get service")
		return
	}

	response.Success(w, http.StatusOK, "Service retrieved successfully", service)
}

// @Summary Create service
// @Tags Admin
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param request body dto.ServiceRequest true "Service Request"
// @Success 201 {object} response.Response
// @Failure 400 {object} response.Response
// @Router /admin/services [post]
func (h *ServiceHandler) CreateService(w http.ResponseWriter, r *http.Request) {
	admin, ok := currentProfile(r)
	if !ok {
		response.Unauthorized(w, "")
		return
	}

	var req dto.ServiceRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid request body", nil)
		return
	}

	if err := h.validator.Validate(&req); err != nil {
		response.ValidationError(w, h.validator.FormatValidationErrors(err))
		return
	}

	service, err := h.serviceUsecase.Create(r.Context(), admin.ID, &req)
	if err != nil {
		writeError(w, err, "Failed to create service")
		return
	}

	response.Success(w, http.StatusCreated, "Service created successfully", service)
}

// @Summary Update service
// @Tags Admin
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param id path string true "Service ID"
// @Param request body dto.ServiceRequest true "Service Request"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /admin/services/{id} [put]
func (h *ServiceHandler) UpdateService(w http.ResponseWriter, r *http.Request) {
	admin, ok := currentProfile(r)
	if !ok {
		response.Unauthorized(w, "")
		return
	}

	id, ok := pathID(r, "id")
	if !ok {
		response.Error(w, http.StatusBadRequest, "Invalid service ID", nil)
		return
	}

	var req dto.ServiceRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid request body", nil)
		return
	}

	if err := h.validator.Validate(&req); err != nil {
		response.ValidationError(w, h.validator.FormatValidationErrors(err))
		return
	}

	service, err := h.serviceUsecase.Update(r.Context(), admin.ID, id, &req)
	if err != nil {
		writeError(w, err, "Failed to update service")
		return
	}

	response.Success(w, http.StatusOK, "Service updated successfully", service)
}

// @Summary Delete service
// @Tags Admin
// @Security BearerAuth
// @Produce json
// @Param id path string true "Service ID"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /admin/services/{id} [delete]
func (h *ServiceHandler) DeleteService(w http.ResponseWriter, r *http.Request) {
	admin, ok := currentProfile(r)
	if !ok {
		response.Unauthorized(w, "")
		return
	}

	id, ok := pathID(r, "id")
	if !ok {
		response.Error(w, http.StatusBadRequest, "Invalid service ID", nil)
		return
	}

	if err := h.serviceUsecase.Delete(r.Context(), admin.ID, id); err != nil {
		writeError(w, err, "Failed to delete service")
		return
	}

	response.Success(w, http.StatusOK, "Service deleted successfully", nil)
}
