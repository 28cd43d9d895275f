package usecase

import (
	"context"
	"fmt"
	"strings"

	"hospital-portal/internal/converter"
	"hospital-portal/internal/delivery/dto"
	"hospital-portal/internal/domain/apperror"
	"hospital-portal/internal/domain/entity"
	"hospital-portal/internal/domain/repository"
	"hospital-portal/internal/infrastructure/mailer"
	"hospital-portal/internal/live"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

type EnquiryUsecase interface {
	Submit(ctx context.Context, req *dto.EnquiryRequest) (*dto.EnquiryResponse, error)
	List(ctx context.Context) (*dto.EnquiryListResponse, error)
}

type enquiryUsecase struct {
	log         *logrus.Logger
	enquiryRepo repository.EnquiryRepository
	mailer      mailer.Mailer
	notifyTo    string
	publisher   live.Publisher
}

// NewEnquiryUsecase builds the contact form use case. When notifyTo is empty
// no notification is sent.
func NewEnquiryUsecase(
	log *logrus.Logger,
	enquiryRepo repository.EnquiryRepository,
	m mailer.Mailer,
	notifyTo string,
	publisher live.Publisher,
) EnquiryUsecase {
	return &enquiryUsecase{
		log:         log,
		enquiryRepo: enquiryRepo,
		mailer:      m,
		notifyTo:    notifyTo,
		publisher:   publisher,
	}
}

func (u *enquiryUsecase) Submit(ctx context.Context, req *dto.EnquiryRequest) (*dto.EnquiryResponse, error) {
	enquiry := &entity.Enquiry{
		ID:      uuid.New(),
		Name:    strings.TrimSpace(req.Name),
		Email:   strings.TrimSpace(req.Email),
		Phone:   strings.TrimSpace(req.Phone),
		Message: strings.TrimSpace(req.Message),
		Status:  entity.EnquiryStatusNew,
	}
	if enquiry.Name == "" || enquiry.Email == "" || enquiry.Message == "" {
		return nil, apperror.Validation("name, email and message are required")
	}

	if err := u.enquiryRepo.Create(ctx, enquiry); err != nil {
		u.log.Warnf("Failed to create enquiry: %+v", err)
		return nil, err
	}

	if u.notifyTo != "" {
		subject := fmt.Sprintf("New enquiry from %s", enquiry.Name)
		body := fmt.Sprintf("Name: %s\nEmail: %s\nPhone: %s\n\n%s", enquiry.Name, enquiry.Email, enquiry.Phone, enquiry.Message)
		if err := u.mailer.Send(ctx, u.notifyTo, subject, body); err != nil {
			u.log.Warnf("Failed to send enquiry notification: %+v", err)
		}
	}

	publish(ctx, u.log, u.publisher, live.Change{Collection: live.CollectionEnquiries, ID: enquiry.ID.String()})

	return converter.EnquiryToResponse(enquiry), nil
}

func (u *enquiryUsecase) List(ctx context.Context) (*dto.EnquiryListResponse, error) {
	enquiries, err := u.enquiryRepo.FindAll(ctx)
	if err != nil {
		u.log.Warnf("Failed to find enquiries: %+v", err)
		return nil, err
	}
	return &dto.EnquiryListResponse{
		Enquiries: converter.EnquiriesToResponses(enquiries),
		Total:     len(enquiries),
	}, nil
}
