package models

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const eventsCounterKey = "event_id"

type MongodbRepo struct {
	mongodbClient *mongo.Client
	dbName        string
}

func MongodbNewRepo(mongodbClient *mongo.Client, dbName string) *MongodbRepo {
	return &MongodbRepo{
		mongodbClient: mongodbClient,
		dbName:        dbName,
	}
}

func (mdb *MongodbRepo) GetCollection(ctx context.Context, colName string) (*mongo.Collection, error) {
	if mdb.mongodbClient == nil {
		return nil, ErrClientNotInitialized
	}
	return mdb.mongodbClient.Database(mdb.dbName).Collection(colName), nil
}

// nextEventID hands out sequential integer ids from the counters collection
// so that documents keep the same identity scheme as the SQL table.
func (mdb *MongodbRepo) nextEventID(ctx context.Context) (int64, error) {
	col, err := mdb.GetCollection(ctx, CountersTable)
	if err != nil {
		return 0, err
	}

	opts := options.FindOneAndUpdate().
		SetUpsert(true).
		SetReturnDocument(options.After)

	var counter struct {
		Seq int64 `bson:"seq"`
	}
	err = col.FindOneAndUpdate(ctx,
		bson.M{"_id": eventsCounterKey},
		bson.M{"$inc": bson.M{"seq": int64(1)}},
		opts,
	).Decode(&counter)
	if err != nil {
		return 0, fmt.Errorf("error allocating event id: %w", err)
	}
	return counter.Seq, nil
}

func (mdb *MongodbRepo) CreateEvent(ctx context.Context, event *Event) (*Event, error) {
	col, err := mdb.GetCollection(ctx, EventsTable)
	if err != nil {
		return nil, err
	}

	id, err := mdb.nextEventID(ctx)
	if err != nil {
		return nil, err
	}

	doc := cloneEvent(*event)
	doc.EventID = id
	// BSON dates only keep milliseconds
	doc.CreatedAt = doc.CreatedAt.Truncate(time.Millisecond)
	doc.UpdatedAt = doc.UpdatedAt.Truncate(time.Millisecond)
	if _, err := col.InsertOne(ctx, doc); err != nil {
		return nil, fmt.Errorf("error inserting event: %w", err)
	}
	return &doc, nil
}

func (mdb *MongodbRepo) ListEventsByOwner(ctx context.Context, userID int64) ([]*Event, error) {
	col, err := mdb.GetCollection(ctx, EventsTable)
	if err != nil {
		return nil, err
	}

	cursor, err := col.Find(ctx, bson.M{"user_id": userID}, options.Find().SetSort(bson.D{{Key: "_id", Value: 1}}))
	if err != nil {
		return nil, fmt.Errorf("error finding events: %w", err)
	}
	defer cursor.Close(ctx)

	events := []*Event{}
	if err := cursor.All(ctx, &events); err != nil {
		return nil, fmt.Errorf("error decoding events: %w", err)
	}
	return events, nil
}

func (mdb *MongodbRepo) GetEventByID(ctx context.Context, id int64) (*Event, error) {
	col, err := mdb.GetCollection(ctx, EventsTable)
	if err != nil {
		return nil, err
	}

	var event Event
	err = col.FindOne(ctx, bson.M{"_id": id}).Decode(&event)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("error finding event: %w", err)
	}
	return &event, nil
}

func (mdb *MongodbRepo) SaveEvent(ctx context.Context, event *Event) (*Event, error) {
	col, err := mdb.GetCollection(ctx, EventsTable)
	if err != nil {
		return nil, err
	}

	update := bson.M{
		"$set": bson.M{
			"title":       event.Title,
			"description": event.Description,
			"location":    event.Location,
			"cover_image": event.CoverImage,
			"updated_at":  event.UpdatedAt,
		},
	}

	var saved Event
	err = col.FindOneAndUpdate(ctx, bson.M{"_id": event.EventID}, update,
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&saved)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("error updating event: %w", err)
	}
	return &saved, nil
}

func (mdb *MongodbRepo) DeleteEvent(ctx context.Context, id int64) (int64, error) {
	col, err := mdb.GetCollection(ctx, EventsTable)
	if err != nil {
		return 0, err
	}

	res, err := col.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return 0, fmt.Errorf("error deleting event: %w", err)
	}
	return res.DeletedCount, nil
}
