package bookings

import (
	"context"
	"delivery-slot-service/internal/app/contracts"
	"delivery-slot-service/internal/app/models"
	"delivery-slot-service/internal/pkg/constvars"
	"delivery-slot-service/internal/pkg/exceptions"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// BookingMongoRepository stores one document per request. The "active" flag
// mirrors status in (pending, approved) and drives a partial unique index on
// (date, slot), which is what makes concurrent inserts safe.
type BookingMongoRepository struct {
	Collection *mongo.Collection
}

func NewBookingMongoRepository(db *mongo.Client, dbName string) *BookingMongoRepository {
	return &BookingMongoRepository{
		Collection: db.Database(dbName).Collection(constvars.MongoCollectionBookingRequests),
	}
}

var _ contracts.BookingRepository = (*BookingMongoRepository)(nil)

func (r *BookingMongoRepository) EnsureIndexes(ctx context.Context) error {
	_, err := r.Collection.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{
			Keys: bson.D{{Key: "date", Value: 1}, {Key: "slot", Value: 1}},
			Options: options.Index().
				SetName(constvars.MongoUniqueActiveSlotIndex).
				SetUnique(true).
				SetPartialFilterExpression(bson.M{"active": true}),
		},
		{Keys: bson.D{{Key: "requesterId", Value: 1}, {Key: "createdAt", Value: -1}}},
		{Keys: bson.D{{Key: "status", Value: 1}, {Key: "updatedAt", Value: -1}}},
	})
	if err != nil {
		return exceptions.ErrMongoDBCreateIndex(err)
	}
	return nil
}

func mapMongoError(err error, wrap func(error) *exceptions.CustomError) error {
	if mongo.IsTimeout(err) || errors.Is(err, context.DeadlineExceeded) {
		return exceptions.ErrDatastoreTimeout(err)
	}
	return wrap(err)
}

func (r *BookingMongoRepository) InsertIfAbsent(ctx context.Context, candidate *models.BookingRequest) (*models.BookingRequest, error) {
	doc := cloneBooking(candidate)
	doc.Active = doc.Status.IsActive()

	_, err := r.Collection.InsertOne(ctx, doc)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return nil, exceptions.ErrSlotConflict(nil, candidate.Date, candidate.Slot)
		}
		return nil, mapMongoError(err, exceptions.ErrMongoDBInsertDocument)
	}
	return doc, nil
}

func (r *BookingMongoRepository) UpdateStatus(ctx context.Context, bookingID string, from, to models.BookingStatus, reason *string, decidedBy string, now time.Time) (*models.BookingRequest, error) {
	filter := bson.M{"_id": bookingID, "status": from}
	set := bson.M{
		"status":    to,
		"active":    to.IsActive(),
		"decidedBy": decidedBy,
		"updatedAt": now,
	}
	update := bson.M{"$set": set}
	if reason != nil {
		set["rejectionReason"] = *reason
	} else {
		update["$unset"] = bson.M{"rejectionReason": ""}
	}

	booking, err := r.findOneAndUpdate(ctx, filter, update)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, r.explainMissedUpdate(ctx, bookingID, string(to))
	}
	if err != nil {
		return nil, mapMongoError(err, exceptions.ErrMongoDBUpdateDocument)
	}
	return booking, nil
}

func (r *BookingMongoRepository) UpdateSchedule(ctx context.Context, bookingID, newDate, newSlot string, newCategory *string, decidedBy string, now time.Time) (*models.BookingRequest, error) {
	filter := bson.M{"_id": bookingID, "status": models.BookingStatusApproved}
	set := bson.M{
		"date":      newDate,
		"slot":      newSlot,
		"decidedBy": decidedBy,
		"updatedAt": now,
	}
	if newCategory != nil {
		set["deliveryCategory"] = *newCategory
	}

	booking, err := r.findOneAndUpdate(ctx, filter, bson.M{"$set": set})
	switch {
	case err == nil:
		return booking, nil
	case errors.Is(err, mongo.ErrNoDocuments):
		return nil, r.explainMissedUpdate(ctx, bookingID, string(ActionReschedule))
	case mongo.IsDuplicateKeyError(err):
		return nil, exceptions.ErrSlotConflict(nil, newDate, newSlot)
	default:
		return nil, mapMongoError(err, exceptions.ErrMongoDBUpdateDocument)
	}
}

func (r *BookingMongoRepository) findOneAndUpdate(ctx context.Context, filter, update bson.M) (*models.BookingRequest, error) {
	var booking models.BookingRequest
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	if err := r.Collection.FindOneAndUpdate(ctx, filter, update, opts).Decode(&booking); err != nil {
		return nil, err
	}
	return &booking, nil
}

func (r *BookingMongoRepository) explainMissedUpdate(ctx context.Context, bookingID, action string) error {
	var current struct {
		Status string `bson:"status"`
	}
	opts := options.FindOne().SetProjection(bson.M{"status": 1})
	err := r.Collection.FindOne(ctx, bson.M{"_id": bookingID}, opts).Decode(&current)
	switch {
	case errors.Is(err, mongo.ErrNoDocuments):
		return exceptions.ErrBookingNotFound(nil, bookingID)
	case err != nil:
		return mapMongoError(err, exceptions.ErrMongoDBFindDocument)
	default:
		return exceptions.ErrIllegalTransition(nil, action, current.Status)
	}
}

func (r *BookingMongoRepository) ListOccupancy(ctx context.Context, date string) ([]models.Occupancy, error) {
	opts := options.Find().
		SetProjection(bson.M{"_id": 1, "slot": 1, "status": 1}).
		SetSort(bson.D{{Key: "slot", Value: 1}})

	cursor, err := r.Collection.Find(ctx, bson.M{"date": date, "active": true}, opts)
	if err != nil {
		return nil, mapMongoError(err, exceptions.ErrMongoDBFindDocument)
	}
	defer cursor.Close(ctx)

	occupancy := []models.Occupancy{}
	if err := cursor.All(ctx, &occupancy); err != nil {
		return nil, mapMongoError(err, exceptions.ErrMongoDBIterateDocuments)
	}
	return occupancy, nil
}

func (r *BookingMongoRepository) FindByID(ctx context.Context, bookingID string) (*models.BookingRequest, error) {
	var booking models.BookingRequest
	err := r.Collection.FindOne(ctx, bson.M{"_id": bookingID}).Decode(&booking)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, exceptions.ErrBookingNotFound(nil, bookingID)
		}
		return nil, mapMongoError(err, exceptions.ErrMongoDBFindDocument)
	}
	return &booking, nil
}

func buildMongoFilter(filter models.BookingFilter) bson.M {
	query := bson.M{}
	if filter.RequesterID != "" {
		query["requesterId"] = filter.RequesterID
	}
	if filter.Date != "" {
		query["date"] = filter.Date
	}
	if statuses := effectiveStatuses(filter); statuses != nil {
		query["status"] = bson.M{"$in": statusStrings(statuses)}
	}
	return query
}

func mongoSortFor(scope models.BookingScope) bson.D {
	switch scope {
	case models.BookingScopePending:
		return bson.D{{Key: "date", Value: 1}, {Key: "slot", Value: 1}, {Key: "createdAt", Value: 1}}
	case models.BookingScopeHistory:
		return bson.D{{Key: "updatedAt", Value: -1}}
	default:
		return bson.D{{Key: "createdAt", Value: -1}}
	}
}

func (r *BookingMongoRepository) Find(ctx context.Context, filter models.BookingFilter) ([]models.BookingRequest, int, error) {
	filter = normalizePage(filter)
	query := buildMongoFilter(filter)

	total, err := r.Collection.CountDocuments(ctx, query)
	if err != nil {
		return nil, 0, mapMongoError(err, exceptions.ErrMongoDBCountDocuments)
	}

	opts := options.Find().
		SetSort(mongoSortFor(filter.Scope)).
		SetSkip(int64(filter.Offset())).
		SetLimit(int64(filter.PageSize))

	cursor, err := r.Collection.Find(ctx, query, opts)
	if err != nil {
		return nil, 0, mapMongoError(err, exceptions.ErrMongoDBFindDocument)
	}
	defer cursor.Close(ctx)

	bookings := []models.BookingRequest{}
	if err := cursor.All(ctx, &bookings); err != nil {
		return nil, 0, mapMongoError(err, exceptions.ErrMongoDBIterateDocuments)
	}
	return bookings, int(total), nil
}

func (r *BookingMongoRepository) CountByStatus(ctx context.Context) (map[models.BookingStatus]int, error) {
	pipeline := mongo.Pipeline{
		{{Key: "$group", Value: bson.D{
			{Key: "_id", Value: "$status"},
			{Key: "count", Value: bson.D{{Key: "$sum", Value: 1}}},
		}}},
	}

	cursor, err := r.Collection.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, mapMongoError(err, exceptions.ErrMongoDBFindDocument)
	}
	defer cursor.Close(ctx)

	var rows []struct {
		Status string `bson:"_id"`
		Count  int    `bson:"count"`
	}
	if err := cursor.All(ctx, &rows); err != nil {
		return nil, mapMongoError(err, exceptions.ErrMongoDBIterateDocuments)
	}

	counts := make(map[models.BookingStatus]int, len(rows))
	for _, row := range rows {
		counts[models.BookingStatus(row.Status)] = row.Count
	}
	return counts, nil
}
