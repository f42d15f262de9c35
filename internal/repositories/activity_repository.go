package repositories

import (
	"context"
	"time"

	"github.com/mytro-app/backend/internal/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// ActivityRepository defines the interface for the append-only activity
// stream.
type ActivityRepository interface {
	Record(ctx context.Context, entry *models.ActivityLog) error
	GetByUserID(ctx context.Context, userID uint, limit int64) ([]models.ActivityLog, error)
}

// MongoActivityRepository implements ActivityRepository on MongoDB
type MongoActivityRepository struct {
	collection *mongo.Collection
}

// NewMongoActivityRepository creates a new MongoActivityRepository
func NewMongoActivityRepository(db *mongo.Database) *MongoActivityRepository {
	return &MongoActivityRepository{collection: db.Collection("activity_logs")}
}

// Record appends an activity entry.
func (r *MongoActivityRepository) Record(ctx context.Context, entry *models.ActivityLog) error {
	entry.ID = primitive.NewObjectID()
	entry.CreatedAt = time.Now()
	_, err := r.collection.InsertOne(ctx, entry)
	return err
}

// GetByUserID retrieves a user's most recent activity, newest first.
func (r *MongoActivityRepository) GetByUserID(ctx context.Context, userID uint, limit int64) ([]models.ActivityLog, error) {
	var entries []models.ActivityLog
	findOptions := options.Find().SetLimit(limit).SetSort(bson.D{{Key: "created_at", Value: -1}})
	cursor, err := r.collection.Find(ctx, bson.M{"user_id": userID}, findOptions)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	if err = cursor.All(ctx, &entries); err != nil {
		return nil, err
	}
	return entries, nil
}
