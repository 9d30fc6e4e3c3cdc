package mongo

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/ogurasousui/feedback-exchange/internal/core/feedbackrequest"
	mongodb "github.com/ogurasousui/feedback-exchange/internal/platform/db/mongo"
)

// FeedbackRequestRepository は MongoDB を利用したフィードバック依頼永続化の実装です。
type FeedbackRequestRepository struct {
	coll *mongo.Collection
}

// NewFeedbackRequestRepository は FeedbackRequestRepository を生成します。
func NewFeedbackRequestRepository(db *mongo.Database) *FeedbackRequestRepository {
	return &FeedbackRequestRepository{coll: db.Collection(mongodb.CollectionFeedbackRequests)}
}

// Create は依頼を新規作成します。
func (r *FeedbackRequestRepository) Create(ctx context.Context, req *feedbackrequest.Request) (*feedbackrequest.Request, error) {
	doc := feedbackRequestDocument{
		ID:                req.ID,
		EmployeeID:        req.EmployeeID,
		ManagerEmployeeID: req.ManagerEmployeeID,
		Message:           req.Message,
		Seen:              req.Seen,
		CreatedAt:         storedTime(req.CreatedAt),
	}
	if _, err := r.coll.InsertOne(ctx, doc); err != nil {
		return nil, err
	}
	return doc.toEntity(), nil
}

// ListByManager はマネージャー宛ての依頼を新しい順に返します。
func (r *FeedbackRequestRepository) ListByManager(ctx context.Context, managerID string) ([]*feedbackrequest.Request, error) {
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}, {Key: "_id", Value: -1}})
	cur, err := r.coll.Find(ctx, bson.D{{Key: "manager_employee_id", Value: managerID}}, opts)
	if err != nil {
		return nil, err
	}
	var docs []feedbackRequestDocument
	if err := cur.All(ctx, &docs); err != nil {
		return nil, err
	}

	items := make([]*feedbackrequest.Request, 0, len(docs))
	for _, d := range docs {
		items = append(items, d.toEntity())
	}
	return items, nil
}

// MarkSeen は依頼を既読にします。
func (r *FeedbackRequestRepository) MarkSeen(ctx context.Context, id string) error {
	res, err := r.coll.UpdateOne(ctx,
		bson.D{{Key: "_id", Value: id}},
		bson.D{{Key: "$set", Value: bson.D{{Key: "seen", Value: true}}}},
	)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return feedbackrequest.ErrRequestNotFound
	}
	return nil
}

// CountUnseen はマネージャー宛ての未読依頼数を返します。
func (r *FeedbackRequestRepository) CountUnseen(ctx context.Context, managerID string) (int64, error) {
	return r.coll.CountDocuments(ctx, bson.D{
		{Key: "manager_employee_id", Value: managerID},
		{Key: "seen", Value: false},
	})
}
