package dto

type StatsResponse struct {
	Doctors      int64 `json:"doctors"`
	Patients     int64 `json:"patients"`
	Appointments int64 `json:"appointments"`
	Services     int64 `json:"services"`
}

type ImageUploadResponse struct {
	URL string `json:"url"`
}

// AdminLiveView is pushed to admin live subscribers after every change.
type AdminLiveView struct {
	Stats        StatsResponse                `json:"stats"`
	Appointments AdminAppointmentListResponse `json:"appointments"`
}
