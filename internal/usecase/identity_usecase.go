package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"hospital-portal/config"
	"hospital-portal/internal/converter"
	"hospital-portal/internal/delivery/dto"
	"hospital-portal/internal/domain/apperror"
	"hospital-portal/internal/domain/entity"
	"hospital-portal/internal/domain/repository"
	"hospital-portal/internal/infrastructure/cache"
	"hospital-portal/internal/live"
	"hospital-portal/internal/service"
	"hospital-portal/internal/session"
	"hospital-portal/pkg/jwt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"
)

var (
	ErrEmailAlreadyExists = apperror.Auth("email already exists")
	ErrEmailReserved      = apperror.Auth("email reserved")
	ErrInvalidCredentials = apperror.Auth("invalid email or password")
	ErrInvalidToken       = apperror.Auth("invalid or expired token")
	ErrTokenRevoked       = apperror.Auth("token has been revoked")
)

// IdentityUsecase maps identities to profiles and manages their tokens.
type IdentityUsecase interface {
	session.Resolver

	Signup(ctx context.Context, req *dto.SignupRequest) (*dto.AuthResponse, error)
	Login(ctx context.Context, req *dto.LoginRequest) (*dto.AuthResponse, error)
	Logout(ctx context.Context, sess *session.Session, refreshToken string) error
	RefreshToken(ctx context.Context, req *dto.RefreshTokenRequest) (*dto.TokenResponse, error)
	// OpenSession checks an access token against the allow-list and returns
	// an unstarted session for its identity.
	OpenSession(ctx context.Context, accessToken string) (*session.Session, error)
	EnsureAdminAccount(ctx context.Context) error
}

type identityUsecase struct {
	log          *logrus.Logger
	accountRepo  repository.AccountRepository
	userRepo     repository.UserRepository
	doctorRepo   repository.DoctorRepository
	tokenRepo    repository.TokenRepository
	jwtService   *jwt.JWTService
	profiles     *cache.ProfileCache
	auditService service.AuditService
	publisher    live.Publisher
	admin        config.AdminConfig
}

func NewIdentityUsecase(
	log *logrus.Logger,
	accountRepo repository.AccountRepository,
	userRepo repository.UserRepository,
	doctorRepo repository.DoctorRepository,
	tokenRepo repository.TokenRepository,
	jwtService *jwt.JWTService,
	profiles *cache.ProfileCache,
	auditService service.AuditService,
	publisher live.Publisher,
	admin config.AdminConfig,
) IdentityUsecase {
	return &identityUsecase{
		log:          log,
		accountRepo:  accountRepo,
		userRepo:     userRepo,
		doctorRepo:   doctorRepo,
		tokenRepo:    tokenRepo,
		jwtService:   jwtService,
		profiles:     profiles,
		auditService: auditService,
		publisher:    publisher,
		admin:        admin,
	}
}

// ResolveProfile returns the profile of identity, creating it on first sight.
// The role is derived once, at creation, and never recomputed.
func (u *identityUsecase) ResolveProfile(ctx context.Context, identity entity.Identity) (*entity.UserProfile, error) {
	if profile, ok := u.profiles.Get(identity.ID); ok {
		return profile, nil
	}

	profile, err := u.userRepo.FindByID(ctx, identity.ID)
	if err != nil {
		u.log.Warnf("Failed to find user profile: %+v", err)
		return nil, apperror.ProfileResolution(err)
	}
	if profile != nil {
		u.profiles.Set(profile)
		return profile, nil
	}

	role, err := u.deriveRole(ctx, identity)
	if err != nil {
		u.log.Warnf("Failed to derive role: %+v", err)
		return nil, apperror.ProfileResolution(err)
	}

	profile = &entity.UserProfile{
		ID:    identity.ID,
		Email: identity.Email,
		Role:  role,
	}
	created, err := u.userRepo.CreateIfAbsent(ctx, profile)
	if err != nil {
		u.log.Warnf("Failed to create user profile: %+v", err)
		return nil, apperror.ProfileResolution(err)
	}
	if !created {
		// another request created it first
		profile, err = u.userRepo.FindByID(ctx, identity.ID)
		if err != nil || profile == nil {
			u.log.Warnf("Failed to re-read user profile: %+v", err)
			return nil, apperror.ProfileResolution(err)
		}
	} else {
		u.auditService.LogCreate(ctx, &identity.ID, entity.AuditActionProfileCreate, "user", identity.ID.String(), profile)
		publish(ctx, u.log, u.publisher, live.Change{Collection: live.CollectionUsers, ID: identity.ID.String()})
	}

	u.profiles.Set(profile)
	return profile, nil
}

func (u *identityUsecase) deriveRole(ctx context.Context, identity entity.Identity) (entity.Role, error) {
	if u.admin.Email != "" && identity.Email == u.admin.Email {
		return entity.RoleAdmin, nil
	}
	isDoctor, err := u.doctorRepo.Exists(ctx, identity.ID)
	if err != nil {
		return "", err
	}
	if isDoctor {
		return entity.RoleDoctor, nil
	}
	return entity.RolePatient, nil
}

func (u *identityUsecase) ForgetProfile(id uuid.UUID) {
	u.profiles.Delete(id)
}

func (u *identityUsecase) Signup(ctx context.Context, req *dto.SignupRequest) (*dto.AuthResponse, error) {
	email := strings.TrimSpace(req.Email)
	if u.admin.Email != "" && email == u.admin.Email {
		return nil, ErrEmailReserved
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		u.log.Warnf("Failed to hash password: %+v", err)
		return nil, err
	}

	account := &entity.Account{
		ID:           uuid.New(),
		Email:        email,
		PasswordHash: string(hashedPassword),
	}
	profile := &entity.UserProfile{
		ID:    account.ID,
		Email: account.Email,
		Role:  entity.RolePatient,
		Name:  strings.TrimSpace(req.Name),
		Phone: strings.TrimSpace(req.Phone),
	}
	if err := u.accountRepo.CreateWithProfile(ctx, account, profile); err != nil {
		if isDuplicateKeyError(err, "email") {
			return nil, ErrEmailAlreadyExists
		}
		u.log.Warnf("Failed to create account: %+v", err)
		return nil, err
	}
	u.profiles.Set(profile)

	u.auditService.LogCreate(ctx, &account.ID, entity.AuditActionUserSignup, "user", account.ID.String(), converter.UserToResponse(profile))
	publish(ctx, u.log, u.publisher, live.Change{Collection: live.CollectionUsers, ID: account.ID.String()})

	tokens, err := u.issueTokens(ctx, account.Identity())
	if err != nil {
		return nil, err
	}

	return &dto.AuthResponse{Tokens: *tokens, User: *converter.UserToResponse(profile)}, nil
}

func (u *identityUsecase) Login(ctx context.Context, req *dto.LoginRequest) (*dto.AuthResponse, error) {
	account, err := u.accountRepo.FindByEmail(ctx, strings.TrimSpace(req.Email))
	if err != nil {
		u.log.Warnf("Failed to find account by email: %+v", err)
		return nil, err
	}
	if account == nil {
		return nil, ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(account.PasswordHash), []byte(req.Password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	profile, err := u.ResolveProfile(ctx, account.Identity())
	if err != nil {
		return nil, err
	}

	tokens, err := u.issueTokens(ctx, account.Identity())
	if err != nil {
		return nil, err
	}

	return &dto.AuthResponse{Tokens: *tokens, User: *converter.UserToResponse(profile)}, nil
}

// Logout revokes the session's access token and, when it belongs to the same
// identity, the given refresh token. The session is stopped either way.
func (u *identityUsecase) Logout(ctx context.Context, sess *session.Session, refreshToken string) error {
	snap := sess.Current()
	defer sess.Stop()

	if !snap.Authenticated() {
		return nil
	}

	if snap.TokenID != "" {
		if err := u.tokenRepo.Revoke(ctx, repository.AccessTokenKind, snap.Identity.ID, snap.TokenID); err != nil {
			u.log.Warnf("Failed to revoke access token: %+v", err)
			return err
		}
	}

	if refreshToken != "" {
		claims, err := u.jwtService.ValidateToken(refreshToken)
		if err == nil && claims.TokenType == jwt.RefreshToken && claims.UserID == snap.Identity.ID {
			if err := u.tokenRepo.Revoke(ctx, repository.RefreshTokenKind, claims.UserID, claims.TokenID); err != nil {
				u.log.Warnf("Failed to revoke refresh token: %+v", err)
				return err
			}
		}
	}

	return nil
}

func (u *identityUsecase) RefreshToken(ctx context.Context, req *dto.RefreshTokenRequest) (*dto.TokenResponse, error) {
	claims, err := u.jwtService.ValidateToken(req.RefreshToken)
	if err != nil {
		return nil, ErrInvalidToken
	}
	if claims.TokenType != jwt.RefreshToken {
		return nil, ErrInvalidToken
	}

	exists, err := u.tokenRepo.Exists(ctx, repository.RefreshTokenKind, claims.UserID, claims.TokenID)
	if err != nil {
		u.log.Warnf("Failed to check refresh token: %+v", err)
		return nil, err
	}
	if !exists {
		return nil, ErrTokenRevoked
	}

	if err := u.tokenRepo.Revoke(ctx, repository.RefreshTokenKind, claims.UserID, claims.TokenID); err != nil {
		u.log.Warnf("Failed to delete old refresh token: %+v", err)
		return nil, err
	}

	return u.issueTokens(ctx, entity.Identity{ID: claims.UserID, Email: claims.Email})
}

func (u *identityUsecase) OpenSession(ctx context.Context, accessToken string) (*session.Session, error) {
	claims, err := u.jwtService.ValidateToken(accessToken)
	if err != nil || claims.TokenType != jwt.AccessToken {
		return nil, ErrInvalidToken
	}

	exists, err := u.tokenRepo.Exists(ctx, repository.AccessTokenKind, claims.UserID, claims.TokenID)
	if err != nil {
		u.log.Warnf("Failed to check access token: %+v", err)
		return nil, err
	}
	if !exists {
		return nil, ErrTokenRevoked
	}

	identity := &entity.Identity{ID: claims.UserID, Email: claims.Email}
	return session.New(u, identity, claims.TokenID), nil
}

// EnsureAdminAccount creates the account of the reserved admin address when a
// password is configured and no account exists yet. Its profile becomes admin
// on first resolution.
func (u *identityUsecase) EnsureAdminAccount(ctx context.Context) error {
	if u.admin.Email == "" || u.admin.Password == "" {
		return nil
	}

	existing, err := u.accountRepo.FindByEmail(ctx, u.admin.Email)
	if err != nil {
		return fmt.Errorf("failed to look up admin account: %w", err)
	}
	if existing != nil {
		return nil
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(u.admin.Password), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("failed to hash admin password: %w", err)
	}

	account := &entity.Account{ID: uuid.New(), Email: u.admin.Email, PasswordHash: string(hashedPassword)}
	if err := u.accountRepo.Create(ctx, account); err != nil {
		if isDuplicateKeyError(err, "email") {
			return nil
		}
		return fmt.Errorf("failed to create admin account: %w", err)
	}

	u.log.WithField("email", account.Email).Info("Admin account created")
	return nil
}

func (u *identityUsecase) issueTokens(ctx context.Context, identity entity.Identity) (*dto.TokenResponse, error) {
	accessToken, accessTokenID, err := u.jwtService.GenerateAccessToken(identity.ID, identity.Email)
	if err != nil {
		u.log.Warnf("Failed to generate access token: %+v", err)
		return nil, err
	}

	refreshToken, refreshTokenID, err := u.jwtService.GenerateRefreshToken(identity.ID, identity.Email)
	if err != nil {
		u.log.Warnf("Failed to generate refresh token: %+v", err)
		return nil, err
	}

	if err := u.tokenRepo.Store(ctx, repository.AccessTokenKind, identity.ID, accessTokenID, u.jwtService.GetAccessExpiry()); err != nil {
		u.log.Warnf("Failed to store access token: %+v", err)
		return nil, err
	}
	if err := u.tokenRepo.Store(ctx, repository.RefreshTokenKind, identity.ID, refreshTokenID, u.jwtService.GetRefreshExpiry()); err != nil {
		u.log.Warnf("Failed to store refresh token: %+v", err)
		return nil, err
	}

	return &dto.TokenResponse{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		ExpiresIn:    int64(u.jwtService.GetAccessExpiry().Seconds()),
	}, nil
}

// isDuplicateKeyError checks if the error is a PostgreSQL unique constraint violation
// containing the specified constraint name
func isDuplicateKeyError(err error, constraintName string) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		// PostgreSQL error code 23505 = unique_violation
		if pgErr.Code == "23505" && strings.Contains(strings.ToLower(pgErr.ConstraintName), strings.ToLower(constraintName)) {
			return true
		}
	}
	return false
}

// publish announces a committed change. Failures only delay live views.
func publish(ctx context.Context, log *logrus.Logger, publisher live.Publisher, change live.Change) {
	if err := publisher.Publish(ctx, change); err != nil {
		log.WithField("collection", change.Collection).Warnf("Failed to publish change: %+v", err)
	}
}
