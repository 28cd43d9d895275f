package live

import (
	"errors"
	"strings"

	"hospital-portal/internal/domain/entity"

	"github.com/google/uuid"
)

const TopicAdmin = "admin"

var ErrInvalidTopic = errors.New("invalid live topic")

func DoctorTopic(id uuid.UUID) string {
	return string(entity.RoleDoctor) + ":" + id.String()
}

func PatientTopic(id uuid.UUID) string {
	return string(entity.RolePatient) + ":" + id.String()
}

// TopicFor assigns the only topic a profile may listen to.
func TopicFor(profile *entity.UserProfile) string {
	switch {
	case profile.IsAdmin():
		return TopicAdmin
	case profile.IsDoctor():
		return DoctorTopic(profile.ID)
	default:
		return PatientTopic(profile.ID)
	}
}

// ParseTopic splits a topic into the role it serves and the owner id.
func ParseTopic(topic string) (entity.Role, uuid.UUID, error) {
	if topic == TopicAdmin {
		return entity.RoleAdmin, uuid.Nil, nil
	}
	role, raw, ok := strings.Cut(topic, ":")
	if !ok {
		return "", uuid.Nil, ErrInvalidTopic
	}
	r := entity.Role(role)
	if r != entity.RoleDoctor && r != entity.RolePatient {
		return "", uuid.Nil, ErrInvalidTopic
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		return "", uuid.Nil, ErrInvalidTopic
	}
	return r, id, nil
}

func topicKind(topic string) string {
	kind, _, _ := strings.Cut(topic, ":")
	return kind
}
