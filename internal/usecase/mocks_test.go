package usecase

import (
	"context"
	"io"
	"time"

	"hospital-portal/internal/domain/entity"
	"hospital-portal/internal/domain/repository"
	"hospital-portal/internal/live"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/mock"
)

func newTestLogger() *logrus.Logger {
	log := logrus.New()
	log.SetOutput(io.Discard)
	return log
}

// ---------------------------------------------------------------------------
// Repositories
// ---------------------------------------------------------------------------

type MockAccountRepository struct {
	mock.Mock
}

func (m *MockAccountRepository) Create(ctx context.Context, account *entity.Account) error {
	return m.Called(ctx, account).Error(0)
}

func (m *MockAccountRepository) CreateWithProfile(ctx context.Context, account *entity.Account, profile *entity.UserProfile) error {
	return m.Called(ctx, account, profile).Error(0)
}

func (m *MockAccountRepository) FindByEmail(ctx context.Context, email string) (*entity.Account, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Account), args.Error(1)
}

func (m *MockAccountRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.Account, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Account), args.Error(1)
}

type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.UserProfile, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.UserProfile), args.Error(1)
}

func (m *MockUserRepository) CreateIfAbsent(ctx context.Context, profile *entity.UserProfile) (bool, error) {
	args := m.Called(ctx, profile)
	return args.Bool(0), args.Error(1)
}

func (m *MockUserRepository) FindAll(ctx context.Context) ([]entity.UserProfile, error) {
	args := m.Called(ctx)
	return args.Get(0).([]entity.UserProfile), args.Error(1)
}

func (m *MockUserRepository) CountByRole(ctx context.Context, role entity.Role) (int64, error) {
	args := m.Called(ctx, role)
	return args.Get(0).(int64), args.Error(1)
}

type MockDoctorRepository struct {
	mock.Mock
}

func (m *MockDoctorRepository) Provision(ctx context.Context, account *entity.Account, doctor *entity.Doctor, profile *entity.UserProfile) error {
	return m.Called(ctx, account, doctor, profile).Error(0)
}

func (m *MockDoctorRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.Doctor, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Doctor), args.Error(1)
}

func (m *MockDoctorRepository) Exists(ctx context.Context, id uuid.UUID) (bool, error) {
	args := m.Called(ctx, id)
	return args.Bool(0), args.Error(1)
}

func (m *MockDoctorRepository) FindAll(ctx context.Context) ([]entity.Doctor, error) {
	args := m.Called(ctx)
	return args.Get(0).([]entity.Doctor), args.Error(1)
}

func (m *MockDoctorRepository) Update(ctx context.Context, doctor *entity.Doctor) error {
	return m.Called(ctx, doctor).Error(0)
}

func (m *MockDoctorRepository) Delete(ctx context.Context, id uuid.UUID) (int64, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockDoctorRepository) Count(ctx context.Context) (int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(int64), args.Error(1)
}

type MockAppointmentRepository struct {
	mock.Mock
}

func (m *MockAppointmentRepository) Create(ctx context.Context, appointment *entity.Appointment) error {
	return m.Called(ctx, appointment).Error(0)
}

func (m *MockAppointmentRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.Appointment, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Appointment), args.Error(1)
}

func (m *MockAppointmentRepository) FindAll(ctx context.Context) ([]entity.Appointment, error) {
	args := m.Called(ctx)
	return args.Get(0).([]entity.Appointment), args.Error(1)
}

func (m *MockAppointmentRepository) FindByDoctorID(ctx context.Context, doctorID uuid.UUID) ([]entity.Appointment, error) {
	args := m.Called(ctx, doctorID)
	return args.Get(0).([]entity.Appointment), args.Error(1)
}

func (m *MockAppointmentRepository) FindByUserID(ctx context.Context, userID uuid.UUID) ([]entity.Appointment, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).([]entity.Appointment), args.Error(1)
}

func (m *MockAppointmentRepository) UpdateFields(ctx context.Context, id uuid.UUID, scope repository.AppointmentScope, fields map[string]interface{}) (int64, error) {
	args := m.Called(ctx, id, scope, fields)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockAppointmentRepository) Count(ctx context.Context) (int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(int64), args.Error(1)
}

type MockServiceRepository struct {
	mock.Mock
}

func (m *MockServiceRepository) Create(ctx context.Context, service *entity.Service) error {
	return m.Called(ctx, service).Error(0)
}

func (m *MockServiceRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.Service, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Service), args.Error(1)
}

func (m *MockServiceRepository) FindAll(ctx context.Context) ([]entity.Service, error) {
	args := m.Called(ctx)
	return args.Get(0).([]entity.Service), args.Error(1)
}

func (m *MockServiceRepository) Update(ctx context.Context, service *entity.Service) error {
	return m.Called(ctx, service).Error(0)
}

func (m *MockServiceRepository) Delete(ctx context.Context, id uuid.UUID) (int64, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockServiceRepository) Count(ctx context.Context) (int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(int64), args.Error(1)
}

type MockEnquiryRepository struct {
	mock.Mock
}

func (m *MockEnquiryRepository) Create(ctx context.Context, enquiry *entity.Enquiry) error {
	return m.Called(ctx, enquiry).Error(0)
}

func (m *MockEnquiryRepository) FindAll(ctx context.Context) ([]entity.Enquiry, error) {
	args := m.Called(ctx)
	return args.Get(0).([]entity.Enquiry), args.Error(1)
}

type MockAuditLogRepository struct {
	mock.Mock
}

func (m *MockAuditLogRepository) Create(ctx context.Context, log *entity.AuditLog) error {
	return m.Called(ctx, log).Error(0)
}

func (m *MockAuditLogRepository) FindAll(ctx context.Context, limit int) ([]entity.AuditLog, error) {
	args := m.Called(ctx, limit)
	return args.Get(0).([]entity.AuditLog), args.Error(1)
}

func (m *MockAuditLogRepository) FindByID(ctx context.Context, id int64) (*entity.AuditLog, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.AuditLog), args.Error(1)
}

type MockTokenRepository struct {
	mock.Mock
}

func (m *MockTokenRepository) Store(ctx context.Context, kind repository.TokenKind, userID uuid.UUID, tokenID string, ttl time.Duration) error {
	return m.Called(ctx, kind, userID, tokenID, ttl).Error(0)
}

func (m *MockTokenRepository) Exists(ctx context.Context, kind repository.TokenKind, userID uuid.UUID, tokenID string) (bool, error) {
	args := m.Called(ctx, kind, userID, tokenID)
	return args.Bool(0), args.Error(1)
}

func (m *MockTokenRepository) Revoke(ctx context.Context, kind repository.TokenKind, userID uuid.UUID, tokenID string) error {
	return m.Called(ctx, kind, userID, tokenID).Error(0)
}

func (m *MockTokenRepository) RevokeAll(ctx context.Context, userID uuid.UUID) error {
	return m.Called(ctx, userID).Error(0)
}

// ---------------------------------------------------------------------------
// Collaborators
// ---------------------------------------------------------------------------

// MockAuditService accepts every call unless expectations are set.
type MockAuditService struct {
	mock.Mock
	strict bool
}

func (m *MockAuditService) LogCreate(ctx context.Context, actor *uuid.UUID, action, entityName, entityID string, newValue interface{}) {
	if m.strict {
		m.Called(ctx, actor, action, entityName, entityID, newValue)
	}
}

func (m *MockAuditService) LogUpdate(ctx context.Context, actor *uuid.UUID, action, entityName, entityID string, oldValue, newValue interface{}) {
	if m.strict {
		m.Called(ctx, actor, action, entityName, entityID, oldValue, newValue)
	}
}

func (m *MockAuditService) LogDelete(ctx context.Context, actor *uuid.UUID, action, entityName, entityID string, oldValue interface{}) {
	if m.strict {
		m.Called(ctx, actor, action, entityName, entityID, oldValue)
	}
}

// recordingPublisher keeps every published change.
type recordingPublisher struct {
	changes []live.Change
}

func (p *recordingPublisher) Publish(_ context.Context, change live.Change) error {
	p.changes = append(p.changes, change)
	return nil
}

type MockMailer struct {
	mock.Mock
}

func (m *MockMailer) Send(ctx context.Context, to, subject, body string) error {
	return m.Called(ctx, to, subject, body).Error(0)
}

type MockUploader struct {
	mock.Mock
}

func (m *MockUploader) Upload(ctx context.Context, filename string, data []byte) (string, error) {
	args := m.Called(ctx, filename, data)
	return args.String(0), args.Error(1)
}
