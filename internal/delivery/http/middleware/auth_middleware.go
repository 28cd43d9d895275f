package middleware

import (
	"context"
	"net/http"
	"strings"

	"hospital-portal/internal/domain/apperror"
	"hospital-portal/internal/session"
	"hospital-portal/pkg/response"

	"github.com/sirupsen/logrus"
)

// SessionOpener turns an access token into an unstarted session.
type SessionOpener interface {
	OpenSession(ctx context.Context, accessToken string) (*session.Session, error)
}

type AuthMiddleware struct {
	log    *logrus.Logger
	opener SessionOpener
}

func NewAuthMiddleware(log *logrus.Logger, opener SessionOpener) *AuthMiddleware {
	return &AuthMiddleware{
		log:    log,
		opener: opener,
	}
}

// Authenticate requires a valid access token and stores the started session
// in the request context. A failed profile resolution does not reject the
// request here; the role gate turns it into Blocked.
func (m *AuthMiddleware) Authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token, ok := bearerToken(r)
		if !ok {
			response.Unauthorized(w, "Authorization header is required")
			return
		}

		sess, err := m.opener.OpenSession(r.Context(), token)
		if err != nil {
			if apperror.Is(err, apperror.KindAuth) {
				response.Unauthorized(w, apperror.MessageOf(err, "Invalid or expired token"))
				return
			}
			m.log.Warnf("Failed to open session: %+v", err)
			response.InternalServerError(w, "Failed to validate token")
			return
		}

		if err := sess.Start(r.Context()); err != nil {
			m.log.WithField("path", r.URL.Path).Warnf("Failed to resolve profile: %+v", err)
		}

		next.ServeHTTP(w, r.WithContext(session.NewContext(r.Context(), sess)))
	})
}

// Identify is Authenticate for public routes: a missing or rejected token
// leaves the caller anonymous.
func (m *AuthMiddleware) Identify(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		sess := session.Anonymous()

		if token, ok := bearerToken(r); ok {
			opened, err := m.opener.OpenSession(r.Context(), token)
			switch {
			case err == nil:
				if err := opened.Start(r.Context()); err != nil {
					m.log.Warnf("Failed to resolve profile: %+v", err)
				}
				sess = opened
			case !apperror.Is(err, apperror.KindAuth):
				m.log.Warnf("Failed to open session: %+v", err)
			}
		}

		next.ServeHTTP(w, r.WithContext(session.NewContext(r.Context(), sess)))
	})
}

// bearerToken reads "Authorization: Bearer <token>". Browsers cannot set
// headers on websocket upgrades, so the access_token query parameter is
// accepted as well.
func bearerToken(r *http.Request) (string, bool) {
	if header := r.Header.Get("Authorization"); header != "" {
		parts := strings.Split(header, " ")
		if len(parts) != 2 || parts[0] != "Bearer" || parts[1] == "" {
			return "", false
		}
		return parts[1], true
	}

	if token := r.URL.Query().Get("access_token"); token != "" {
		return token, true
	}
	return "", false
}
