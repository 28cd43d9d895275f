// Package live pushes recomputed dashboard views to connected clients
// whenever the stored data changes.
package live

import (
	"context"

	"github.com/google/uuid"
)

type Collection string

const (
	CollectionAppointments Collection = "appointments"
	CollectionDoctors      Collection = "doctors"
	CollectionServices     Collection = "services"
	CollectionUsers        Collection = "users"
	CollectionEnquiries    Collection = "enquiries"
)

// Change notifies that one record of a collection was written.
type Change struct {
	Collection Collection `json:"collection"`
	ID         string     `json:"id"`
	UserID     *uuid.UUID `json:"userId,omitempty"`
	DoctorID   *uuid.UUID `json:"doctorId,omitempty"`
}

// Publisher announces changes after a successful write.
type Publisher interface {
	Publish(ctx context.Context, change Change) error
}

// Subscriber delivers changes until ctx is cancelled.
type Subscriber interface {
	Subscribe(ctx context.Context) (<-chan Change, error)
}

// Topics lists the live topics whose view depends on the changed record.
func (c Change) Topics() []string {
	topics := []string{TopicAdmin}
	if c.DoctorID != nil {
		topics = append(topics, DoctorTopic(*c.DoctorID))
	}
	if c.UserID != nil {
		topics = append(topics, PatientTopic(*c.UserID))
	}
	return topics
}

// NopPublisher drops every change.
type NopPublisher struct{}

func (NopPublisher) Publish(context.Context, Change) error { return nil }
