package mongodb

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"iamin/internal/domain"
)

type eventRepository struct {
	coll *mongo.Collection
}

// NewEventRepository returns a domain.EventRepository backed by the given
// events collection.
func NewEventRepository(coll *mongo.Collection) domain.EventRepository {
	return &eventRepository{coll: coll}
}

func (r *eventRepository) FindByID(ctx context.Context, id string) (*domain.Event, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		// Malformed ids and missing ids are indistinguishable to callers.
		return nil, domain.ErrNotFound
	}
	return r.findByObjectID(ctx, oid)
}

func (r *eventRepository) findByObjectID(ctx context.Context, oid primitive.ObjectID) (*domain.Event, error) {
	var event domain.Event
	err := r.coll.FindOne(ctx, bson.M{"_id": oid}).Decode(&event)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("find event: %w", err)
	}
	return &event, nil
}

func (r *eventRepository) Find(ctx context.Context, filter domain.EventFilter, params domain.PaginationParams) ([]*domain.Event, bool, error) {
	query := bson.M{}
	if filter.CreatorFID > 0 {
		query["creator.fid"] = filter.CreatorFID
	}
	if filter.ParticipantFID > 0 {
		query["participants.fid"] = filter.ParticipantFID
	}

	// Newest first; _id breaks ties between equal timestamps so pages are
	// stable. Fetch one extra row to compute hasMore.
	opts := options.Find().
		SetSort(bson.D{{Key: "createdAt", Value: -1}, {Key: "_id", Value: -1}}).
		SetSkip(int64(params.Offset())).
		SetLimit(int64(params.PageSize) + 1)

	cursor, err := r.coll.Find(ctx, query, opts)
	if err != nil {
		return nil, false, fmt.Errorf("find events: %w", err)
	}
	defer cursor.Close(ctx)

	events := make([]*domain.Event, 0, params.PageSize)
	if err := cursor.All(ctx, &events); err != nil {
		return nil, false, fmt.Errorf("decode events: %w", err)
	}

	hasMore := len(events) > params.PageSize
	if hasMore {
		events = events[:params.PageSize]
	}
	return events, hasMore, nil
}

func (r *eventRepository) Insert(ctx context.Context, event *domain.Event) (*domain.Event, error) {
	if event.ID.IsZero() {
		event.ID = primitive.NewObjectID()
	}
	if _, err := r.coll.InsertOne(ctx, event); err != nil {
		return nil, fmt.Errorf("insert event: %w", err)
	}
	return event, nil
}

func (r *eventRepository) AppendParticipant(ctx context.Context, id string, p domain.Identity) (*domain.Event, bool, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, false, domain.ErrNotFound
	}

	// Single atomic conditional append: match only when no participant with
	// this fid exists, then push and bump updatedAt. Two concurrent appends
	// by different identities both land; concurrent appends by the same
	// identity match at most once.
	now := time.Now().UTC()
	match := bson.M{
		"_id":              oid,
		"participants.fid": bson.M{"$ne": p.FID},
	}
	update := bson.M{
		"$push": bson.M{"participants": p},
		"$set":  bson.M{"updatedAt": now},
	}
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var event domain.Event
	err = r.coll.FindOneAndUpdate(ctx, match, update, opts).Decode(&event)
	if err == nil {
		return &event, true, nil
	}
	if !errors.Is(err, mongo.ErrNoDocuments) {
		return nil, false, fmt.Errorf("append participant: %w", err)
	}

	// No match means either the event is missing or the fid is already a
	// participant. Re-read to tell the two apart. Events are never deleted,
	// so a re-read that finds the document settles it.
	event2, err := r.findByObjectID(ctx, oid)
	if err != nil {
		return nil, false, err
	}
	if event2.HasParticipant(p.FID) {
		return event2, false, nil
	}
	return nil, false, domain.ErrNotFound
}
