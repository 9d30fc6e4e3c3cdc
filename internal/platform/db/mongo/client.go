package mongo

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"

	"github.com/ogurasousui/feedback-exchange/internal/platform/config"
)

// コレクション名です。
const (
	CollectionUsers            = "users"
	CollectionFeedback         = "feedback"
	CollectionFeedbackRequests = "feedback_requests"
	CollectionNotifications    = "notifications"
)

// Connect は MongoDB へ接続し疎通確認を行います。
func Connect(ctx context.Context, cfg config.MongoConfig) (*mongo.Client, error) {
	opts := options.Client().
		ApplyURI(cfg.URI).
		SetConnectTimeout(cfg.ConnectTimeout).
		SetServerSelectionTimeout(cfg.ConnectTimeout)

	client, err := mongo.Connect(ctx, opts)
	if err != nil {
		return nil, fmt.Errorf("mongo: connect: %w", err)
	}

	pingCtx, cancel := context.WithTimeout(ctx, cfg.ConnectTimeout)
	defer cancel()
	if err := client.Ping(pingCtx, readpref.Primary()); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("mongo: ping: %w", err)
	}

	return client, nil
}

// EnsureIndexes は各コレクションの検索・一意制約用インデックスを作成します。既存の場合は何もしません。
func EnsureIndexes(ctx context.Context, db *mongo.Database) error {
	specs := map[string][]mongo.IndexModel{
		CollectionUsers: {
			{Keys: bson.D{{Key: "employee_id", Value: 1}, {Key: "role", Value: 1}}, Options: options.Index().SetUnique(true)},
			{Keys: bson.D{{Key: "employee_id", Value: 1}, {Key: "created_at", Value: 1}}},
		},
		CollectionFeedback: {
			{Keys: bson.D{{Key: "employee_id", Value: 1}, {Key: "created_at", Value: 1}}},
			{Keys: bson.D{{Key: "manager_employee_id", Value: 1}, {Key: "created_at", Value: 1}}},
		},
		CollectionFeedbackRequests: {
			{Keys: bson.D{{Key: "manager_employee_id", Value: 1}, {Key: "created_at", Value: -1}}},
			{Keys: bson.D{{Key: "manager_employee_id", Value: 1}, {Key: "seen", Value: 1}}},
		},
		CollectionNotifications: {
			{Keys: bson.D{{Key: "employee_id", Value: 1}, {Key: "created_at", Value: -1}}},
		},
	}

	for _, name := range []string{CollectionUsers, CollectionFeedback, CollectionFeedbackRequests, CollectionNotifications} {
		if _, err := db.Collection(name).Indexes().CreateMany(ctx, specs[name]); err != nil {
			return fmt.Errorf("mongo: create indexes on %s: %w", name, err)
		}
	}
	return nil
}
