package mongo

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/ogurasousui/feedback-exchange/internal/core/notification"
	mongodb "github.com/ogurasousui/feedback-exchange/internal/platform/db/mongo"
)

// NotificationRepository は MongoDB を利用した通知永続化の実装です。
type NotificationRepository struct {
	coll *mongo.Collection
}

// NewNotificationRepository は NotificationRepository を生成します。
func NewNotificationRepository(db *mongo.Database) *NotificationRepository {
	return &NotificationRepository{coll: db.Collection(mongodb.CollectionNotifications)}
}

// Create は通知を追記します。
func (r *NotificationRepository) Create(ctx context.Context, n *notification.Notification) (*notification.Notification, error) {
	doc := notificationDocument{
		ID:                n.ID,
		EmployeeID:        n.EmployeeID,
		ManagerEmployeeID: n.ManagerEmployeeID,
		ManagerName:       n.ManagerName,
		Message:           n.Message,
		Seen:              n.Seen,
		CreatedAt:         storedTime(n.CreatedAt),
	}
	if _, err := r.coll.InsertOne(ctx, doc); err != nil {
		return nil, err
	}
	return doc.toEntity(), nil
}

// ListByEmployee は受信者の通知を新しい順に返します。
func (r *NotificationRepository) ListByEmployee(ctx context.Context, employeeID string) ([]*notification.Notification, error) {
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}, {Key: "_id", Value: -1}})
	cur, err := r.coll.Find(ctx, bson.D{{Key: "employee_id", Value: employeeID}}, opts)
	if err != nil {
		return nil, err
	}
	var docs []notificationDocument
	if err := cur.All(ctx, &docs); err != nil {
		return nil, err
	}

	items := make([]*notification.Notification, 0, len(docs))
	for _, d := range docs {
		items = append(items, d.toEntity())
	}
	return items, nil
}

// SetSeen は既読フラグを指定値に更新します。
func (r *NotificationRepository) SetSeen(ctx context.Context, id string, seen bool) error {
	res, err := r.coll.UpdateOne(ctx,
		bson.D{{Key: "_id", Value: id}},
		bson.D{{Key: "$set", Value: bson.D{{Key: "seen", Value: seen}}}},
	)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return notification.ErrNotificationNotFound
	}
	return nil
}

// MarkAllSeen は受信者の全通知を既読にし、対象件数を返します。
func (r *NotificationRepository) MarkAllSeen(ctx context.Context, employeeID string) (int64, error) {
	res, err := r.coll.UpdateMany(ctx,
		bson.D{{Key: "employee_id", Value: employeeID}},
		bson.D{{Key: "$set", Value: bson.D{{Key: "seen", Value: true}}}},
	)
	if err != nil {
		return 0, err
	}
	return res.MatchedCount, nil
}
