package mongo

import (
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/ogurasousui/feedback-exchange/internal/core/user"
	mongodb "github.com/ogurasousui/feedback-exchange/internal/platform/db/mongo"
)

// UserRepository は MongoDB を利用したディレクトリ永続化の実装です。
type UserRepository struct {
	coll *mongo.Collection
}

// NewUserRepository は UserRepository を生成します。
func NewUserRepository(db *mongo.Database) *UserRepository {
	return &UserRepository{coll: db.Collection(mongodb.CollectionUsers)}
}

// Create はユーザーを新規登録します。
func (r *UserRepository) Create(ctx context.Context, u *user.User) (*user.User, error) {
	doc := userDocument{EmployeeID: u.EmployeeID, Name: u.Name, Role: string(u.Role), CreatedAt: storedTime(u.CreatedAt)}
	if _, err := r.coll.InsertOne(ctx, doc); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return nil, user.ErrUserAlreadyExists
		}
		return nil, err
	}
	return doc.toEntity(), nil
}

// Find は ID と任意の役割でユーザーを取得します。役割未指定で複数該当する場合は最初に登録されたものを返します。
func (r *UserRepository) Find(ctx context.Context, employeeID string, role *user.Role) (*user.User, error) {
	filter := bson.D{{Key: "employee_id", Value: employeeID}}
	if role != nil {
		filter = append(filter, bson.E{Key: "role", Value: string(*role)})
	}
	opts := options.FindOne().SetSort(bson.D{{Key: "created_at", Value: 1}, {Key: "role", Value: 1}})

	var doc userDocument
	if err := r.coll.FindOne(ctx, filter, opts).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, user.ErrUserNotFound
		}
		return nil, err
	}
	return doc.toEntity(), nil
}

// List はユーザーを登録順に返します。
func (r *UserRepository) List(ctx context.Context, role *user.Role) ([]*user.User, error) {
	filter := bson.D{}
	if role != nil {
		filter = append(filter, bson.E{Key: "role", Value: string(*role)})
	}
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: 1}, {Key: "employee_id", Value: 1}})

	cur, err := r.coll.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	var docs []userDocument
	if err := cur.All(ctx, &docs); err != nil {
		return nil, err
	}

	users := make([]*user.User, 0, len(docs))
	for _, d := range docs {
		users = append(users, d.toEntity())
	}
	return users, nil
}
