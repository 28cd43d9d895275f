package http

import (
	"net/http"

	"hospital-portal/internal/delivery/http/handler"
	"hospital-portal/internal/delivery/http/middleware"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type Router struct {
	router             *mux.Router
	authHandler        *handler.AuthHandler
	doctorHandler      *handler.DoctorHandler
	serviceHandler     *handler.ServiceHandler
	appointmentHandler *handler.AppointmentHandler
	enquiryHandler     *handler.EnquiryHandler
	dashboardHandler   *handler.DashboardHandler
	auditLogHandler    *handler.AuditLogHandler
	liveHandler        *handler.LiveHandler
	authMiddleware     *middleware.AuthMiddleware
	corsMiddleware     *middleware.CORSMiddleware
	loggingMiddleware  *middleware.LoggingMiddleware
	metricsMiddleware  *middleware.MetricsMiddleware
	rateLimiter        *middleware.RateLimiter
	gatherer           prometheus.Gatherer
	files              http.Handler
}

type RouterConfig struct {
	AuthHandler        *handler.AuthHandler
	DoctorHandler      *handler.DoctorHandler
	ServiceHandler     *handler.ServiceHandler
	AppointmentHandler *handler.AppointmentHandler
	EnquiryHandler     *handler.EnquiryHandler
	DashboardHandler   *handler.DashboardHandler
	AuditLogHandler    *handler.AuditLogHandler
	LiveHandler        *handler.LiveHandler
	AuthMiddleware     *middleware.AuthMiddleware
	CORSMiddleware     *middleware.CORSMiddleware
	LoggingMiddleware  *middleware.LoggingMiddleware
	MetricsMiddleware  *middleware.MetricsMiddleware
	RateLimiter        *middleware.RateLimiter
	// Gatherer backs /metrics.
	Gatherer prometheus.Gatherer
	// Files serves stored documents under /files/. Nil disables the route.
	Files http.Handler
}

func NewRouter(cfg RouterConfig) *Router {
	return &Router{
		router:             mux.NewRouter(),
		authHandler:        cfg.AuthHandler,
		doctorHandler:      cfg.DoctorHandler,
		serviceHandler:     cfg.ServiceHandler,
		appointmentHandler: cfg.AppointmentHandler,
		enquiryHandler:     cfg.EnquiryHandler,
		dashboardHandler:   cfg.DashboardHandler,
		auditLogHandler:    cfg.AuditLogHandler,
		liveHandler:        cfg.LiveHandler,
		authMiddleware:     cfg.AuthMiddleware,
		corsMiddleware:     cfg.CORSMiddleware,
		loggingMiddleware:  cfg.LoggingMiddleware,
		metricsMiddleware:  cfg.MetricsMiddleware,
		rateLimiter:        cfg.RateLimiter,
		gatherer:           cfg.Gatherer,
		files:              cfg.Files,
	}
}

func (r *Router) Setup() *mux.Router {
	// Preflight requests match no API route; answer them here so CORS runs.
	r.router.Methods(http.MethodOptions).HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})
	r.router.Handle("/metrics", promhttp.HandlerFor(r.gatherer, promhttp.HandlerOpts{})).Methods(http.MethodGet)
	if r.files != nil {
		r.router.PathPrefix("/files/").Handler(http.StripPrefix("/files/", r.files)).Methods(http.MethodGet)
	}

	// API versioning
	api := r.router.PathPrefix("/api/v1").Subrouter()

	// Health check
	api.HandleFunc("/health", r.healthCheck).Methods(http.MethodGet)

	// Auth routes (public)
	auth := api.PathPrefix("/auth").Subrouter()
	auth.Handle("/signup", r.rateLimiter.RateLimit(http.HandlerFunc(r.authHandler.Signup))).Methods(http.MethodPost)
	auth.Handle("/login", r.rateLimiter.RateLimit(http.HandlerFunc(r.authHandler.Login))).Methods(http.MethodPost)
	auth.HandleFunc("/refresh-token", r.authHandler.RefreshToken).Methods(http.MethodPost)

	// Auth routes (protected)
	authProtected := api.PathPrefix("/auth").Subrouter()
	authProtected.Use(r.authMiddleware.Authenticate)
	authProtected.HandleFunc("/logout", r.authHandler.Logout).Methods(http.MethodPost)
	authProtected.HandleFunc("/me", r.authHandler.Session).Methods(http.MethodGet)

	// Public catalog
	api.HandleFunc("/doctors", r.doctorHandler.ListDoctors).Methods(http.MethodGet)
	api.HandleFunc("/doctors/{id}", r.doctorHandler.GetDoctor).Methods(http.MethodGet)
	api.HandleFunc("/services", r.serviceHandler.ListServices).Methods(http.MethodGet)
	api.HandleFunc("/services/{id}", r.serviceHandler.GetService).Methods(http.MethodGet)

	// Public forms. A signed in caller is identified but not required.
	api.Handle("/appointments", r.publicForm(r.appointmentHandler.BookAppointment)).Methods(http.MethodPost)
	api.Handle("/enquiries", r.publicForm(r.enquiryHandler.SubmitEnquiry)).Methods(http.MethodPost)

	// Live views, any role. The topic follows from the caller's profile.
	api.Handle("/live", r.authMiddleware.Authenticate(http.HandlerFunc(r.liveHandler.Connect))).Methods(http.MethodGet)

	// Admin routes (protected - admin only)
	admin := api.PathPrefix("/admin").Subrouter()
	admin.Use(r.authMiddleware.Authenticate)
	admin.Use(middleware.RequireAdmin)

	admin.HandleFunc("/stats", r.dashboardHandler.Stats).Methods(http.MethodGet)
	admin.HandleFunc("/users", r.dashboardHandler.Users).Methods(http.MethodGet)
	admin.HandleFunc("/images", r.dashboardHandler.UploadImage).Methods(http.MethodPost)

	admin.HandleFunc("/doctors", r.doctorHandler.CreateDoctor).Methods(http.MethodPost)
	admin.HandleFunc("/doctors", r.doctorHandler.ListDoctors).Methods(http.MethodGet)
	admin.HandleFunc("/doctors/{id}", r.doctorHandler.GetDoctor).Methods(http.MethodGet)
	admin.HandleFunc("/doctors/{id}", r.doctorHandler.UpdateDoctor).Methods(http.MethodPut)
	admin.HandleFunc("/doctors/{id}", r.doctorHandler.DeleteDoctor).Methods(http.MethodDelete)

	admin.HandleFunc("/services", r.serviceHandler.CreateService).Methods(http.MethodPost)
	admin.HandleFunc("/services/{id}", r.serviceHandler.UpdateService).Methods(http.MethodPut)
	admin.HandleFunc("/services/{id}", r.serviceHandler.DeleteService).Methods(http.MethodDelete)

	admin.HandleFunc("/appointments", r.appointmentHandler.AdminAppointments).Methods(http.MethodGet)
	admin.HandleFunc("/appointments/{id}/cancel", r.appointmentHandler.CancelAppointment).Methods(http.MethodPost)

	admin.HandleFunc("/enquiries", r.enquiryHandler.ListEnquiries).Methods(http.MethodGet)

	admin.HandleFunc("/audit-logs", r.auditLogHandler.ListAuditLogs).Methods(http.MethodGet)
	admin.HandleFunc("/audit-logs/{id}", r.auditLogHandler.GetAuditLog).Methods(http.MethodGet)

	// Doctor routes (protected - doctor only)
	doctor := api.PathPrefix("/doctor").Subrouter()
	doctor.Use(r.authMiddleware.Authenticate)
	doctor.Use(middleware.RequireDoctor)

	doctor.HandleFunc("/appointments", r.appointmentHandler.DoctorAppointments).Methods(http.MethodGet)
	doctor.HandleFunc("/appointments/{id}/confirm", r.appointmentHandler.ConfirmAppointment).Methods(http.MethodPost)
	doctor.HandleFunc("/appointments/{id}/reschedule", r.appointmentHandler.RescheduleAppointment).Methods(http.MethodPost)
	doctor.HandleFunc("/appointments/{id}/complete", r.appointmentHandler.CompleteAppointment).Methods(http.MethodPost)
	doctor.HandleFunc("/appointments/{id}/comment", r.appointmentHandler.AddComment).Methods(http.MethodPut)
	doctor.HandleFunc("/appointments/{id}/documents", r.appointmentHandler.UploadDocument).Methods(http.MethodPost)

	// Patient routes (protected - patient only)
	patient := api.PathPrefix("/patient").Subrouter()
	patient.Use(r.authMiddleware.Authenticate)
	patient.Use(middleware.RequirePatient)

	patient.HandleFunc("/dashboard", r.appointmentHandler.PatientDashboard).Methods(http.MethodGet)

	r.router.Use(r.loggingMiddleware.Handle)
	r.router.Use(r.metricsMiddleware.Handle)
	// Add CORS middleware
	r.router.Use(r.corsMiddleware.Handle)

	return r.router
}

func (r *Router) publicForm(h http.HandlerFunc) http.Handler {
	return r.rateLimiter.RateLimit(r.authMiddleware.Identify(h))
}

func (r *Router) healthCheck(w http.ResponseWriter, req *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"status": "ok"}`))
}
