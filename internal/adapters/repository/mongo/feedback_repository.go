package mongo

import (
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/ogurasousui/feedback-exchange/internal/core/feedback"
	mongodb "github.com/ogurasousui/feedback-exchange/internal/platform/db/mongo"
)

// FeedbackRepository は MongoDB を利用したフィードバック永続化の実装です。コメントは文書に埋め込まれます。
type FeedbackRepository struct {
	coll *mongo.Collection
}

// NewFeedbackRepository は FeedbackRepository を生成します。
func NewFeedbackRepository(db *mongo.Database) *FeedbackRepository {
	return &FeedbackRepository{coll: db.Collection(mongodb.CollectionFeedback)}
}

// Create はフィードバックを新規作成します。
func (r *FeedbackRepository) Create(ctx context.Context, fb *feedback.Feedback) (*feedback.Feedback, error) {
	doc := newFeedbackDocument(fb)
	if _, err := r.coll.InsertOne(ctx, doc); err != nil {
		return nil, err
	}
	return doc.toEntity(), nil
}

// FindByID は ID でフィードバックを取得します。
func (r *FeedbackRepository) FindByID(ctx context.Context, id string) (*feedback.Feedback, error) {
	var doc feedbackDocument
	if err := r.coll.FindOne(ctx, bson.D{{Key: "_id", Value: id}}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, feedback.ErrFeedbackNotFound
		}
		return nil, err
	}
	return doc.toEntity(), nil
}

// Update は本文系フィールドのみを置き換え、更新後の文書を返します。
func (r *FeedbackRepository) Update(ctx context.Context, fb *feedback.Feedback) (*feedback.Feedback, error) {
	tags := fb.Tags
	if tags == nil {
		tags = []string{}
	}
	update := bson.D{{Key: "$set", Value: bson.D{
		{Key: "strengths", Value: fb.Strengths},
		{Key: "improvement", Value: fb.Improvement},
		{Key: "sentiment", Value: string(fb.Sentiment)},
		{Key: "anonymous", Value: fb.Anonymous},
		{Key: "tags", Value: tags},
	}}}
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var doc feedbackDocument
	if err := r.coll.FindOneAndUpdate(ctx, bson.D{{Key: "_id", Value: fb.ID}}, update, opts).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, feedback.ErrFeedbackNotFound
		}
		return nil, err
	}
	return doc.toEntity(), nil
}

// Delete はフィードバックを削除します。
func (r *FeedbackRepository) Delete(ctx context.Context, id string) error {
	res, err := r.coll.DeleteOne(ctx, bson.D{{Key: "_id", Value: id}})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return feedback.ErrFeedbackNotFound
	}
	return nil
}

// DeleteByManager はマネージャーが作成した全件を削除し、件数を返します。
func (r *FeedbackRepository) DeleteByManager(ctx context.Context, managerID string) (int64, error) {
	res, err := r.coll.DeleteMany(ctx, bson.D{{Key: "manager_employee_id", Value: managerID}})
	if err != nil {
		return 0, err
	}
	return res.DeletedCount, nil
}

// AppendComment は $push で comments 配列の末尾に追加します。
func (r *FeedbackRepository) AppendComment(ctx context.Context, id string, c feedback.Comment) error {
	update := bson.D{{Key: "$push", Value: bson.D{
		{Key: "comments", Value: commentDocument{EmployeeID: c.EmployeeID, Text: c.Text}},
	}}}
	return r.updateOne(ctx, id, update)
}

// SetAcknowledged は確認済みフラグを立てます。
func (r *FeedbackRepository) SetAcknowledged(ctx context.Context, id string) error {
	return r.updateOne(ctx, id, bson.D{{Key: "$set", Value: bson.D{{Key: "acknowledged", Value: true}}}})
}

// ListByEmployee は従業員宛てのフィードバックを作成順に返します。
func (r *FeedbackRepository) ListByEmployee(ctx context.Context, employeeID string) ([]*feedback.Feedback, error) {
	return r.list(ctx, bson.D{{Key: "employee_id", Value: employeeID}})
}

// ListByManager はマネージャーが作成したフィードバックを作成順に返します。
func (r *FeedbackRepository) ListByManager(ctx context.Context, managerID string) ([]*feedback.Feedback, error) {
	return r.list(ctx, bson.D{{Key: "manager_employee_id", Value: managerID}})
}

func (r *FeedbackRepository) updateOne(ctx context.Context, id string, update bson.D) error {
	res, err := r.coll.UpdateOne(ctx, bson.D{{Key: "_id", Value: id}}, update)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return feedback.ErrFeedbackNotFound
	}
	return nil
}

func (r *FeedbackRepository) list(ctx context.Context, filter bson.D) ([]*feedback.Feedback, error) {
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: 1}, {Key: "_id", Value: 1}})
	cur, err := r.coll.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	var docs []feedbackDocument
	if err := cur.All(ctx, &docs); err != nil {
		return nil, err
	}

	items := make([]*feedback.Feedback, 0, len(docs))
	for _, d := range docs {
		items = append(items, d.toEntity())
	}
	return items, nil
}
