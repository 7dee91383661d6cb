package repository

import (
	"context"
	"errors"

	"cinema_reservation/model"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const (
	bookingCollection  = "bookings"
	reviewCollection   = "reviews"
	incidentCollection = "incidents"
)

// EnsureIndexes creates the document store indexes. It is safe to call on
// every start.
func EnsureIndexes(ctx context.Context, db *mongo.Database) error {
	indexes := map[string][]mongo.IndexModel{
		bookingCollection: {
			{Keys: bson.D{{Key: "userId", Value: 1}}},
			{Keys: bson.D{{Key: "timeRange.id", Value: 1}}},
			{Keys: bson.D{{Key: "reference", Value: 1}}, Options: options.Index().SetUnique(true)},
		},
		reviewCollection: {
			{Keys: bson.D{{Key: "userId", Value: 1}, {Key: "movieId", Value: 1}}, Options: options.Index().SetUnique(true)},
			{Keys: bson.D{{Key: "movieId", Value: 1}, {Key: "status", Value: 1}}},
		},
		incidentCollection: {
			{Keys: bson.D{{Key: "cinemaId", Value: 1}, {Key: "status", Value: 1}}},
		},
	}
	for coll, models := range indexes {
		if _, err := db.Collection(coll).Indexes().CreateMany(ctx, models); err != nil {
			return err
		}
	}
	return nil
}

func objectID(id string) (primitive.ObjectID, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return primitive.NilObjectID, ErrNotFound
	}
	return oid, nil
}

func findOne[T any](ctx context.Context, coll *mongo.Collection, filter any) (*T, error) {
	var v T
	if err := coll.FindOne(ctx, filter).Decode(&v); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &v, nil
}

func findMany[T any](ctx context.Context, coll *mongo.Collection, filter any) ([]T, error) {
	cursor, err := coll.Find(ctx, filter, options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}}))
	if err != nil {
		return nil, err
	}
	out := make([]T, 0)
	if err := cursor.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func replace(ctx context.Context, coll *mongo.Collection, id primitive.ObjectID, doc any) error {
	res, err := coll.ReplaceOne(ctx, bson.M{"_id": id}, doc)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func deleteByID(ctx context.Context, coll *mongo.Collection, id string) error {
	oid, err := objectID(id)
	if err != nil {
		return err
	}
	res, err := coll.DeleteOne(ctx, bson.M{"_id": oid})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func insertedID(res *mongo.InsertOneResult) primitive.ObjectID {
	if oid, ok := res.InsertedID.(primitive.ObjectID); ok {
		return oid
	}
	return primitive.NilObjectID
}

type MongoBookingStore struct {
	coll *mongo.Collection
}

func NewMongoBookingStore(db *mongo.Database) *MongoBookingStore {
	return &MongoBookingStore{coll: db.Collection(bookingCollection)}
}

func (r *MongoBookingStore) Insert(ctx context.Context, b *model.Booking) error {
	res, err := r.coll.InsertOne(ctx, b)
	if err != nil {
		return err
	}
	b.ID = insertedID(res)
	return nil
}

func (r *MongoBookingStore) Replace(ctx context.Context, b *model.Booking) error {
	return replace(ctx, r.coll, b.ID, b)
}

func (r *MongoBookingStore) FindByID(ctx context.Context, id string) (*model.Booking, error) {
	oid, err := objectID(id)
	if err != nil {
		return nil, err
	}
	return findOne[model.Booking](ctx, r.coll, bson.M{"_id": oid})
}

func (r *MongoBookingStore) FindAll(ctx context.Context) ([]model.Booking, error) {
	return findMany[model.Booking](ctx, r.coll, bson.M{})
}

func (r *MongoBookingStore) FindByUser(ctx context.Context, userId string) ([]model.Booking, error) {
	return findMany[model.Booking](ctx, r.coll, bson.M{"userId": userId})
}

func (r *MongoBookingStore) Delete(ctx context.Context, id string) error {
	return deleteByID(ctx, r.coll, id)
}

func (r *MongoBookingStore) DeleteAll(ctx context.Context) (int64, error) {
	res, err := r.coll.DeleteMany(ctx, bson.M{})
	if err != nil {
		return 0, err
	}
	return res.DeletedCount, nil
}

type MongoReviewStore struct {
	coll *mongo.Collection
}

func NewMongoReviewStore(db *mongo.Database) *MongoReviewStore {
	return &MongoReviewStore{coll: db.Collection(reviewCollection)}
}

func (r *MongoReviewStore) Insert(ctx context.Context, review *model.Review) error {
	res, err := r.coll.InsertOne(ctx, review)
	if mongo.IsDuplicateKeyError(err) {
		return ErrDuplicate
	}
	if err != nil {
		return err
	}
	review.ID = insertedID(res)
	return nil
}

func (r *MongoReviewStore) Replace(ctx context.Context, review *model.Review) error {
	return replace(ctx, r.coll, review.ID, review)
}

func (r *MongoReviewStore) FindByID(ctx context.Context, id string) (*model.Review, error) {
	oid, err := objectID(id)
	if err != nil {
		return nil, err
	}
	return findOne[model.Review](ctx, r.coll, bson.M{"_id": oid})
}

func (r *MongoReviewStore) FindByUserAndMovie(ctx context.Context, userId, movieId string) (*model.Review, error) {
	return findOne[model.Review](ctx, r.coll, bson.M{"userId": userId, "movieId": movieId})
}

func (r *MongoReviewStore) Find(ctx context.Context, f model.ReviewFilter) ([]model.Review, error) {
	filter := bson.M{}
	if f.Status != "" {
		filter["status"] = f.Status
	}
	if f.MovieId != "" {
		filter["movieId"] = f.MovieId
	}
	if f.UserId != "" {
		filter["userId"] = f.UserId
	}
	return findMany[model.Review](ctx, r.coll, filter)
}

func (r *MongoReviewStore) Delete(ctx context.Context, id string) error {
	return deleteByID(ctx, r.coll, id)
}

type MongoIncidentStore struct {
	coll *mongo.Collection
}

func NewMongoIncidentStore(db *mongo.Database) *MongoIncidentStore {
	return &MongoIncidentStore{coll: db.Collection(incidentCollection)}
}

func (r *MongoIncidentStore) Insert(ctx context.Context, i *model.Incident) error {
	res, err := r.coll.InsertOne(ctx, i)
	if err != nil {
		return err
	}
	i.ID = insertedID(res)
	return nil
}

func (r *MongoIncidentStore) Replace(ctx context.Context, i *model.Incident) error {
	return replace(ctx, r.coll, i.ID, i)
}

func (r *MongoIncidentStore) FindByID(ctx context.Context, id string) (*model.Incident, error) {
	oid, err := objectID(id)
	if err != nil {
		return nil, err
	}
	return findOne[model.Incident](ctx, r.coll, bson.M{"_id": oid})
}

func (r *MongoIncidentStore) Find(ctx context.Context, f model.IncidentFilter) ([]model.Incident, error) {
	filter := bson.M{}
	if f.CinemaId != "" {
		filter["cinemaId"] = f.CinemaId
	}
	if f.Status != "" {
		filter["status"] = f.Status
	}
	return findMany[model.Incident](ctx, r.coll, filter)
}

func (r *MongoIncidentStore) Delete(ctx context.Context, id string) error {
	return deleteByID(ctx, r.coll, id)
}
