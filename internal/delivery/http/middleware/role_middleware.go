package middleware

import (
	"net/http"

	"hospital-portal/internal/access"
	"hospital-portal/internal/domain/entity"
	"hospital-portal/internal/session"
	"hospital-portal/pkg/response"
)

// RequireRole gates a route on the profile role of the session set by AuthMiddleware.
func RequireRole(role entity.Role) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			decision := access.Decide(session.FromContext(r.Context()).Current(), role)

			switch decision.Outcome {
			case access.Granted:
				next.ServeHTTP(w, r)
			case access.RedirectLogin:
				response.Redirect(w, http.StatusUnauthorized, "Login required", decision.Location)
			case access.RedirectUnauthorized:
				response.Redirect(w, http.StatusForbidden, "You don't have permission to access this resource", decision.Location)
			case access.Pending:
				response.ServiceUnavailable(w, "Profile is still loading", "1")
			default:
				response.ServiceUnavailable(w, "Unable to load user profile", "")
			}
		})
	}
}

func RequireAdmin(next http.Handler) http.Handler {
	return RequireRole(entity.RoleAdmin)(next)
}

func RequireDoctor(next http.Handler) http.Handler {
	return RequireRole(entity.RoleDoctor)(next)
}

func RequirePatient(next http.Handler) http.Handler {
	return RequireRole(entity.RolePatient)(next)
}
