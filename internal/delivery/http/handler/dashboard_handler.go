package handler

import (
	"io"
	"net/http"

	"hospital-portal/internal/infrastructure/imagehost"
	"hospital-portal/internal/usecase"
	"hospital-portal/pkg/response"
)

type DashboardHandler struct {
	dashboardUsecase usecase.DashboardUsecase
}

func NewDashboardHandler(dashboardUsecase usecase.DashboardUsecase) *DashboardHandler {
	return &DashboardHandler{
		dashboardUsecase: dashboardUsecase,
	}
}

// Stats handles the admin overview counters
// @Summary Dashboard statistics
// @Tags Admin
// @Security BearerAuth
// @Produce json
// @Success 200 {object} response.Response
// @Router /admin/stats [get]
func (h *DashboardHandler) Stats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.dashboardUsecase.Stats(r.Context())
	if err != nil {
		writeError(w, err, "Failed to get statistics")
		return
	}

	response.Success(w, http.StatusOK, "Statistics retrieved successfully", stats)
}

// @Summary List users
// @Tags Admin
// @Security BearerAuth
// @Produce json
// @Param search query string false "Email, name or role"
// @Success 200 {object} response.Response
// @Router /admin/users [get]
func (h *DashboardHandler) Users(w http.ResponseWriter, r *http.Request) {
	users, err := h.dashboardUsecase.Users(r.Context(), r.URL.Query().Get("search"))
	if err != nil {
		writeError(w, err, "Failed to get users")
		return
	}

	response.Success(w, http.StatusOK, "Users retrieved successfully", users)
}

// UploadImage handles doctor photo and service image uploads
// @Summary Upload an image
// @Description Multipart form with "image". JPEG, PNG or WebP up to 5 MB.
// @Tags Admin
// @Security BearerAuth
// @Accept multipart/form-data
// @Produce json
// @Param image formData file true "Image"
// @Success 201 {object} response.Response
// @Failure 400 {object} response.Response
// @Failure 502 {object} response.Response
// @Router /admin/images [post]
func (h *DashboardHandler) UploadImage(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, imagehost.MaxImageSize+multipartOverhead)
	if err := r.ParseMultipartForm(multipartOverhead); err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid multipart form or image too large", nil)
		return
	}
	defer r.MultipartForm.RemoveAll()

	file, header, err := r.FormFile("image")
	if err != nil {
		response.ValidationError(w, map[string]string{"image": "image is required"})
		return
	}
	defer file.Close()

	data, err := io.ReadAll(io.LimitReader(file, imagehost.MaxImageSize+1))
	if err != nil {
		response.Error(w, http.StatusBadRequest, "Failed to read image", nil)
		return
	}

	uploaded, err := h.dashboardUsecase.UploadImage(r.Context(), header.Filename, data)
	if err != nil {
		writeError(w, err, "Failed to upload image")
		return
	}

	response.Success(w, http.StatusCreated, "Image uploaded successfully", uploaded)
}
