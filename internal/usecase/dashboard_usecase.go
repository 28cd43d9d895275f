package usecase

import (
	"context"
	"strings"

	"hospital-portal/internal/converter"
	"hospital-portal/internal/delivery/dto"
	"hospital-portal/internal/domain/entity"
	"hospital-portal/internal/domain/repository"
	"hospital-portal/internal/infrastructure/imagehost"
	"hospital-portal/internal/projection"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
)

// DashboardUsecase serves the admin overview pages.
type DashboardUsecase interface {
	Stats(ctx context.Context) (*dto.StatsResponse, error)
	Users(ctx context.Context, search string) (*dto.UserListResponse, error)
	UploadImage(ctx context.Context, filename string, data []byte) (*dto.ImageUploadResponse, error)
}

type dashboardUsecase struct {
	log             *logrus.Logger
	userRepo        repository.UserRepository
	doctorRepo      repository.DoctorRepository
	appointmentRepo repository.AppointmentRepository
	serviceRepo     repository.ServiceRepository
	uploader        imagehost.Uploader
}

func NewDashboardUsecase(
	log *logrus.Logger,
	userRepo repository.UserRepository,
	doctorRepo repository.DoctorRepository,
	appointmentRepo repository.AppointmentRepository,
	serviceRepo repository.ServiceRepository,
	uploader imagehost.Uploader,
) DashboardUsecase {
	return &dashboardUsecase{
		log:             log,
		userRepo:        userRepo,
		doctorRepo:      doctorRepo,
		appointmentRepo: appointmentRepo,
		serviceRepo:     serviceRepo,
		uploader:        uploader,
	}
}

// Stats counts doctors, patients, appointments and services concurrently.
func (u *dashboardUsecase) Stats(ctx context.Context) (*dto.StatsResponse, error) {
	var stats dto.StatsResponse
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() (err error) {
		stats.Doctors, err = u.doctorRepo.Count(gctx)
		return err
	})
	g.Go(func() (err error) {
		stats.Patients, err = u.userRepo.CountByRole(gctx, entity.RolePatient)
		return err
	})
	g.Go(func() (err error) {
		stats.Appointments, err = u.appointmentRepo.Count(gctx)
		return err
	})
	g.Go(func() (err error) {
		stats.Services, err = u.serviceRepo.Count(gctx)
		return err
	})

	if err := g.Wait(); err != nil {
		u.log.Warnf("Failed to count dashboard stats: %+v", err)
		return nil, err
	}
	return &stats, nil
}

func (u *dashboardUsecase) Users(ctx context.Context, search string) (*dto.UserListResponse, error) {
	users, err := u.userRepo.FindAll(ctx)
	if err != nil {
		u.log.Warnf("Failed to find users: %+v", err)
		return nil, err
	}

	filtered := projection.FilterUsers(users, search)
	return &dto.UserListResponse{
		Users:  converter.UsersToResponses(filtered),
		Total:  len(filtered),
		Counts: projection.CountByRole(users),
	}, nil
}

// UploadImage publishes a doctor or service image to the image host.
func (u *dashboardUsecase) UploadImage(ctx context.Context, filename string, data []byte) (*dto.ImageUploadResponse, error) {
	if err := imagehost.ValidateImage(data); err != nil {
		return nil, err
	}

	url, err := u.uploader.Upload(ctx, strings.TrimSpace(filename), data)
	if err != nil {
		u.log.Warnf("Failed to upload image: %+v", err)
		return nil, err
	}
	return &dto.ImageUploadResponse{URL: url}, nil
}
