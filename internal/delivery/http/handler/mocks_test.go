package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"hospital-portal/internal/delivery/dto"
	"hospital-portal/internal/domain/entity"
	"hospital-portal/internal/session"
	"hospital-portal/internal/usecase"
	"hospital-portal/pkg/response"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockIdentityUsecase struct {
	mock.Mock
}

func (m *MockIdentityUsecase) ResolveProfile(ctx context.Context, identity entity.Identity) (*entity.UserProfile, error) {
	args := m.Called(ctx, identity)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.UserProfile), args.Error(1)
}

func (m *MockIdentityUsecase) ForgetProfile(id uuid.UUID) {
	m.Called(id)
}

func (m *MockIdentityUsecase) Signup(ctx context.Context, req *dto.SignupRequest) (*dto.AuthResponse, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.AuthResponse), args.Error(1)
}

func (m *MockIdentityUsecase) Login(ctx context.Context, req *dto.LoginRequest) (*dto.AuthResponse, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.AuthResponse), args.Error(1)
}

func (m *MockIdentityUsecase) Logout(ctx context.Context, sess *session.Session, refreshToken string) error {
	return m.Called(ctx, sess, refreshToken).Error(0)
}

func (m *MockIdentityUsecase) RefreshToken(ctx context.Context, req *dto.RefreshTokenRequest) (*dto.TokenResponse, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.TokenResponse), args.Error(1)
}

func (m *MockIdentityUsecase) OpenSession(ctx context.Context, accessToken string) (*session.Session, error) {
	args := m.Called(ctx, accessToken)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*session.Session), args.Error(1)
}

func (m *MockIdentityUsecase) EnsureAdminAccount(ctx context.Context) error {
	return m.Called(ctx).Error(0)
}

type MockAppointmentUsecase struct {
	mock.Mock
}

func (m *MockAppointmentUsecase) result(args mock.Arguments) (*dto.AppointmentResponse, error) {
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.AppointmentResponse), args.Error(1)
}

func (m *MockAppointmentUsecase) Book(ctx context.Context, req *dto.BookAppointmentRequest, caller *entity.Identity) (*dto.AppointmentResponse, error) {
	return m.result(m.Called(ctx, req, caller))
}

func (m *MockAppointmentUsecase) Confirm(ctx context.Context, doctorID, id uuid.UUID, req *dto.ScheduleRequest) (*dto.AppointmentResponse, error) {
	return m.result(m.Called(ctx, doctorID, id, req))
}

func (m *MockAppointmentUsecase) Reschedule(ctx context.Context, doctorID, id uuid.UUID, req *dto.ScheduleRequest) (*dto.AppointmentResponse, error) {
	return m.result(m.Called(ctx, doctorID, id, req))
}

func (m *MockAppointmentUsecase) Complete(ctx context.Context, doctorID, id uuid.UUID) (*dto.AppointmentResponse, error) {
	return m.result(m.Called(ctx, doctorID, id))
}

func (m *MockAppointmentUsecase) Cancel(ctx context.Context, adminID, id uuid.UUID) (*dto.AppointmentResponse, error) {
	return m.result(m.Called(ctx, adminID, id))
}

func (m *MockAppointmentUsecase) AttachDocument(ctx context.Context, doctorID, id uuid.UUID, doc usecase.Document) (*dto.AppointmentResponse, error) {
	return m.result(m.Called(ctx, doctorID, id, doc))
}

func (m *MockAppointmentUsecase) AddComment(ctx context.Context, doctorID, id uuid.UUID, req *dto.CommentRequest) (*dto.AppointmentResponse, error) {
	return m.result(m.Called(ctx, doctorID, id, req))
}

func (m *MockAppointmentUsecase) AdminView(ctx context.Context, filter dto.AppointmentFilter) (*dto.AdminAppointmentListResponse, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.AdminAppointmentListResponse), args.Error(1)
}

func (m *MockAppointmentUsecase) DoctorView(ctx context.Context, doctorID uuid.UUID, filter dto.AppointmentFilter) (*dto.DoctorAppointmentListResponse, error) {
	args := m.Called(ctx, doctorID, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.DoctorAppointmentListResponse), args.Error(1)
}

func (m *MockAppointmentUsecase) PatientView(ctx context.Context, userID uuid.UUID) (*dto.PatientDashboardResponse, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.PatientDashboardResponse), args.Error(1)
}

type MockDoctorUsecase struct {
	mock.Mock
}

func (m *MockDoctorUsecase) List(ctx context.Context, search string) (*dto.DoctorListResponse, error) {
	args := m.Called(ctx, search)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.DoctorListResponse), args.Error(1)
}

func (m *MockDoctorUsecase) Get(ctx context.Context, id uuid.UUID) (*dto.DoctorResponse, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.DoctorResponse), args.Error(1)
}

func (m *MockDoctorUsecase) Create(ctx context.Context, adminID uuid.UUID, req *dto.CreateDoctorRequest) (*dto.DoctorResponse, error) {
	args := m.Called(ctx, adminID, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.DoctorResponse), args.Error(1)
}

func (m *MockDoctorUsecase) Update(ctx context.Context, adminID, id uuid.UUID, req *dto.UpdateDoctorRequest) (*dto.DoctorResponse, error) {
	args := m.Called(ctx, adminID, id, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.DoctorResponse), args.Error(1)
}

func (m *MockDoctorUsecase) Delete(ctx context.Context, adminID, id uuid.UUID) error {
	return m.Called(ctx, adminID, id).Error(0)
}

type MockDashboardUsecase struct {
	mock.Mock
}

func (m *MockDashboardUsecase) Stats(ctx context.Context) (*dto.StatsResponse, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.StatsResponse), args.Error(1)
}

func (m *MockDashboardUsecase) Users(ctx context.Context, search string) (*dto.UserListResponse, error) {
	args := m.Called(ctx, search)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.UserListResponse), args.Error(1)
}

func (m *MockDashboardUsecase) UploadImage(ctx context.Context, filename string, data []byte) (*dto.ImageUploadResponse, error) {
	args := m.Called(ctx, filename, data)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.ImageUploadResponse), args.Error(1)
}

type MockAuditLogUsecase struct {
	mock.Mock
}

func (m *MockAuditLogUsecase) List(ctx context.Context, limit int) (*dto.AuditLogListResponse, error) {
	args := m.Called(ctx, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.AuditLogListResponse), args.Error(1)
}

func (m *MockAuditLogUsecase) Get(ctx context.Context, id int64) (*dto.AuditLogResponse, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.AuditLogResponse), args.Error(1)
}

// fixedResolver resolves every identity to one profile.
type fixedResolver struct {
	profile *entity.UserProfile
	err     error
}

func (f fixedResolver) ResolveProfile(context.Context, entity.Identity) (*entity.UserProfile, error) {
	return f.profile, f.err
}

func (f fixedResolver) ForgetProfile(uuid.UUID) {}

// asUser attaches a started session for a profile with role to req.
func asUser(t *testing.T, req *http.Request, role entity.Role) (*http.Request, *entity.UserProfile) {
	t.Helper()
	profile := &entity.UserProfile{ID: uuid.New(), Email: string(role) + "@example.com", Role: role}
	sess := session.New(fixedResolver{profile: profile}, &entity.Identity{ID: profile.ID, Email: profile.Email}, "tid")
	require.NoError(t, sess.Start(req.Context()))
	return req.WithContext(session.NewContext(req.Context(), sess)), profile
}

func decodeResponse(t *testing.T, rec *httptest.ResponseRecorder) response.Response {
	t.Helper()
	var body response.Response
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body
}
