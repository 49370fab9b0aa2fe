package domain

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Event is the aggregate root: an announcement users can register
// attendance for. Participants keep insertion order and are unique by fid.
// The creator is not required to also appear in participants. Events are
// never deleted and participants are never removed.
// swagger:model Event
type Event struct {
	ID           primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	Title        string             `json:"title" bson:"title"`
	Description  string             `json:"description" bson:"description"`
	Creator      Identity           `json:"creator" bson:"creator"`
	Participants []Identity         `json:"participants" bson:"participants"`
	CreatedAt    time.Time          `json:"createdAt" bson:"createdAt"`
	UpdatedAt    time.Time          `json:"updatedAt" bson:"updatedAt"`
}

// NewEvent returns a new Event. ID is set by the repository on insert.
func NewEvent(title, description string, creator Identity, participants []Identity, createdAt, updatedAt time.Time) *Event {
	if participants == nil {
		participants = []Identity{}
	}
	return &Event{
		Title:        title,
		Description:  description,
		Creator:      creator,
		Participants: participants,
		CreatedAt:    createdAt,
		UpdatedAt:    updatedAt,
	}
}

// HasParticipant reports whether an identity with the given fid is already
// registered.
func (e *Event) HasParticipant(fid int64) bool {
	for _, p := range e.Participants {
		if p.FID == fid {
			return true
		}
	}
	return false
}

// EventFilter narrows event queries. Zero values mean "no filter".
type EventFilter struct {
	CreatorFID     int64
	ParticipantFID int64
}

// EventRepository defines storage operations over the events collection.
//
// AppendParticipant is the concurrency-critical operation: the append must
// be a single atomic conditional mutation at the store (append only when no
// entry with the same fid exists), never an application-level
// read-modify-write. It returns (event, true) when the participant was
// appended, (event, false) when the identity was already registered (no
// mutation, updatedAt untouched), and ErrNotFound when the id is malformed
// or matches no event.
type EventRepository interface {
	FindByID(ctx context.Context, id string) (*Event, error)
	// Find returns one page of events matching the filter, newest first,
	// plus a flag reporting whether more pages exist.
	Find(ctx context.Context, filter EventFilter, params PaginationParams) ([]*Event, bool, error)
	Insert(ctx context.Context, event *Event) (*Event, error)
	AppendParticipant(ctx context.Context, id string, p Identity) (*Event, bool, error)
}

// EventService defines event creation and query operations.
type EventService interface {
	Create(ctx context.Context, title, description string, creator Identity, participants []Identity) (*Event, error)
	Get(ctx context.Context, id string) (*Event, error)
	List(ctx context.Context, filter EventFilter, params PaginationParams) ([]*Event, bool, error)
}

// RegistrationService defines attendance registration.
type RegistrationService interface {
	// Register adds the identity to the event's participants. Idempotent:
	// registering an identity that is already a participant succeeds
	// without mutating the event. Returns (event, created, err) where
	// created is true only for a fresh registration.
	Register(ctx context.Context, eventID string, p Identity) (*Event, bool, error)
	// JoinByFID registers a minimal identity carrying only the fid, for
	// callers that cannot supply a full profile.
	JoinByFID(ctx context.Context, eventID string, fid int64) (*Event, bool, error)
}
