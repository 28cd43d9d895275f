package middleware

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"hospital-portal/internal/domain/apperror"
	"hospital-portal/internal/domain/entity"
	"hospital-portal/internal/session"
	"hospital-portal/pkg/metrics"
	"hospital-portal/pkg/response"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/time/rate"
)

type stubResolver struct {
	profile *entity.UserProfile
	err     error
}

func (s *stubResolver) ResolveProfile(_ context.Context, identity entity.Identity) (*entity.UserProfile, error) {
	if s.err != nil {
		return nil, s.err
	}
	profile := *s.profile
	profile.ID = identity.ID
	return &profile, nil
}

func (s *stubResolver) ForgetProfile(uuid.UUID) {}

type stubOpener struct {
	resolver *stubResolver
	tokens   map[string]entity.Identity
	err      error
}

func (o *stubOpener) OpenSession(_ context.Context, token string) (*session.Session, error) {
	if o.err != nil {
		return nil, o.err
	}
	identity, ok := o.tokens[token]
	if !ok {
		return nil, apperror.Auth("invalid or expired token")
	}
	return session.New(o.resolver, &identity, "tid"), nil
}

func newTestLogger() *logrus.Logger {
	log := logrus.New()
	log.SetOutput(io.Discard)
	return log
}

func newOpener(role entity.Role, resolveErr error) *stubOpener {
	return &stubOpener{
		resolver: &stubResolver{profile: &entity.UserProfile{Email: "a@b.com", Role: role}, err: resolveErr},
		tokens:   map[string]entity.Identity{"good": {ID: uuid.New(), Email: "a@b.com"}},
	}
}

func decode(t *testing.T, rec *httptest.ResponseRecorder) response.Response {
	t.Helper()
	var body response.Response
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body
}

func protected(opener SessionOpener, role entity.Role) http.Handler {
	m := NewAuthMiddleware(newTestLogger(), opener)
	return m.Authenticate(RequireRole(role)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		snap := session.FromContext(r.Context()).Current()
		response.Success(w, http.StatusOK, "ok", snap.Profile.Role)
	})))
}

func TestAuthenticate_MissingToken(t *testing.T) {
	rec := httptest.NewRecorder()
	protected(newOpener(entity.RoleAdmin, nil), entity.RoleAdmin).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestAuthenticate_InvalidToken(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer nope")
	rec := httptest.NewRecorder()
	protected(newOpener(entity.RoleAdmin, nil), entity.RoleAdmin).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "invalid or expired token", decode(t, rec).Message)
}

func TestAuthenticate_StoreFailure(t *testing.T) {
	opener := newOpener(entity.RoleAdmin, nil)
	opener.err = errors.New("redis down")

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer good")
	rec := httptest.NewRecorder()
	protected(opener, entity.RoleAdmin).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}

func TestAuthenticate_QueryToken(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/?access_token=good", nil)
	rec := httptest.NewRecorder()
	protected(newOpener(entity.RoleDoctor, nil), entity.RoleDoctor).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestRequireRole(t *testing.T) {
	tests := []struct {
		name       string
		role       entity.Role
		resolveErr error
		required   entity.Role
		wantStatus int
		wantPath   string
	}{
		{"matching role", entity.RoleAdmin, nil, entity.RoleAdmin, http.StatusOK, ""},
		{"patient on admin surface", entity.RolePatient, nil, entity.RoleAdmin, http.StatusForbidden, "/unauthorized"},
		{"doctor on patient surface", entity.RoleDoctor, nil, entity.RolePatient, http.StatusForbidden, "/unauthorized"},
		{"resolution failed", "", errors.New("db down"), entity.RolePatient, http.StatusServiceUnavailable, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			req.Header.Set("Authorization", "Bearer good")
			rec := httptest.NewRecorder()
			protected(newOpener(tt.role, tt.resolveErr), tt.required).ServeHTTP(rec, req)

			assert.Equal(t, tt.wantStatus, rec.Code)
			if tt.wantPath != "" {
				assert.Equal(t, tt.wantPath, decode(t, rec).Redirect)
			}
		})
	}
}

func TestRequireRole_AnonymousGoesToRoleLogin(t *testing.T) {
	handler := RequireDoctor(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("handler must not run")
	}))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "/doctor/login", decode(t, rec).Redirect)
}

func TestIdentify(t *testing.T) {
	m := NewAuthMiddleware(newTestLogger(), newOpener(entity.RolePatient, nil))

	var got session.Snapshot
	handler := m.Identify(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = session.FromContext(r.Context()).Current()
	}))

	handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))
	assert.False(t, got.Authenticated())

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer bad")
	handler.ServeHTTP(httptest.NewRecorder(), req)
	assert.False(t, got.Authenticated())

	req = httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer good")
	handler.ServeHTTP(httptest.NewRecorder(), req)
	require.True(t, got.Authenticated())
	assert.Equal(t, entity.RolePatient, got.Profile.Role)
}

func TestCORS_Preflight(t *testing.T) {
	called := false
	handler := NewCORSMiddleware("").Handle(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
	}))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodOptions, "/", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.False(t, called)
	assert.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))
	assert.Contains(t, rec.Header().Get("Access-Control-Allow-Methods"), "PATCH")
}

func TestRateLimiter_PerClient(t *testing.T) {
	rl := NewRateLimiter(RateLimiterConfig{Rate: rate.Limit(0.001), Burst: 2})
	handler := rl.RateLimit(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusCreated)
	}))

	send := func(ip string) int {
		req := httptest.NewRequest(http.MethodPost, "/", nil)
		req.RemoteAddr = ip + ":5000"
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		return rec.Code
	}

	assert.Equal(t, http.StatusCreated, send("10.0.0.1"))
	assert.Equal(t, http.StatusCreated, send("10.0.0.1"))
	assert.Equal(t, http.StatusTooManyRequests, send("10.0.0.1"))
	assert.Equal(t, http.StatusCreated, send("10.0.0.2"))
}

func TestRateLimiter_IgnoresForwardedForByDefault(t *testing.T) {
	rl := NewRateLimiter(RateLimiterConfig{Rate: rate.Limit(0.001), Burst: 1})
	handler := rl.RateLimit(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusCreated)
	}))

	send := func(forwarded string) int {
		req := httptest.NewRequest(http.MethodPost, "/", nil)
		req.RemoteAddr = "10.0.0.9:5000"
		req.Header.Set("X-Forwarded-For", forwarded)
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		return rec.Code
	}

	assert.Equal(t, http.StatusCreated, send("1.1.1.1"))
	assert.Equal(t, http.StatusTooManyRequests, send("2.2.2.2"))
	assert.Equal(t, http.StatusTooManyRequests, send("3.3.3.3, 10.0.0.9"))
}

func TestRateLimiter_TrustProxyKeysOnForwardedFor(t *testing.T) {
	rl := NewRateLimiter(RateLimiterConfig{Rate: rate.Limit(0.001), Burst: 1, TrustProxy: true})
	handler := rl.RateLimit(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusCreated)
	}))

	send := func(forwarded string) int {
		req := httptest.NewRequest(http.MethodPost, "/", nil)
		req.RemoteAddr = "10.0.0.9:5000"
		if forwarded != "" {
			req.Header.Set("X-Forwarded-For", forwarded)
		}
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		return rec.Code
	}

	assert.Equal(t, http.StatusCreated, send("1.1.1.1, 10.0.0.9"))
	assert.Equal(t, http.StatusTooManyRequests, send("1.1.1.1"))
	assert.Equal(t, http.StatusCreated, send("2.2.2.2"))
	assert.Equal(t, http.StatusCreated, send(""))
}

func TestMetricsMiddleware_UsesRouteTemplate(t *testing.T) {
	m := metrics.NewNop()
	router := mux.NewRouter()
	router.Use(NewMetricsMiddleware(m).Handle)
	router.HandleFunc("/doctors/{id}", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	})

	router.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/doctors/1", nil))
	router.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/doctors/2", nil))

	assert.Equal(t, float64(2), testutil.ToFloat64(m.HTTPRequests.WithLabelValues(http.MethodGet, "/doctors/{id}", "404")))
}

func TestLoggingMiddleware_SetsRequestID(t *testing.T) {
	handler := NewLoggingMiddleware(newTestLogger()).Handle(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	}))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, http.StatusTeapot, rec.Code)
	assert.NotEmpty(t, rec.Header().Get(RequestIDHeader))
}
