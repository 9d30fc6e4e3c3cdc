package mongo

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/ogurasousui/feedback-exchange/internal/core/feedback"
	"github.com/ogurasousui/feedback-exchange/internal/core/feedbackrequest"
	"github.com/ogurasousui/feedback-exchange/internal/core/notification"
	"github.com/ogurasousui/feedback-exchange/internal/core/user"
)

type userDocument struct {
	ID         primitive.ObjectID `bson:"_id,omitempty"`
	EmployeeID string             `bson:"employee_id"`
	Name       string             `bson:"name"`
	Role       string             `bson:"role"`
	CreatedAt  time.Time          `bson:"created_at"`
}

func (d userDocument) toEntity() *user.User {
	return &user.User{
		EmployeeID: d.EmployeeID,
		Name:       d.Name,
		Role:       user.Role(d.Role),
		CreatedAt:  d.CreatedAt,
	}
}

type commentDocument struct {
	EmployeeID string `bson:"employee_id"`
	Text       string `bson:"text"`
}

// feedbackDocument はコメントを埋め込んだフィードバック文書です。
type feedbackDocument struct {
	ID                string            `bson:"_id"`
	EmployeeID        string            `bson:"employee_id"`
	ManagerEmployeeID string            `bson:"manager_employee_id"`
	Strengths         string            `bson:"strengths"`
	Improvement       string            `bson:"improvement"`
	Sentiment         string            `bson:"sentiment"`
	Anonymous         bool              `bson:"anonymous"`
	Tags              []string          `bson:"tags"`
	Acknowledged      bool              `bson:"acknowledged"`
	Comments          []commentDocument `bson:"comments"`
	CreatedAt         time.Time         `bson:"created_at"`
}

func newFeedbackDocument(fb *feedback.Feedback) feedbackDocument {
	comments := make([]commentDocument, 0, len(fb.Comments))
	for _, c := range fb.Comments {
		comments = append(comments, commentDocument{EmployeeID: c.EmployeeID, Text: c.Text})
	}
	tags := fb.Tags
	if tags == nil {
		tags = []string{}
	}
	return feedbackDocument{
		ID:                fb.ID,
		EmployeeID:        fb.EmployeeID,
		ManagerEmployeeID: fb.ManagerEmployeeID,
		Strengths:         fb.Strengths,
		Improvement:       fb.Improvement,
		Sentiment:         string(fb.Sentiment),
		Anonymous:         fb.Anonymous,
		Tags:              tags,
		Acknowledged:      fb.Acknowledged,
		Comments:          comments,
		CreatedAt:         storedTime(fb.CreatedAt),
	}
}

func (d feedbackDocument) toEntity() *feedback.Feedback {
	comments := make([]feedback.Comment, 0, len(d.Comments))
	for _, c := range d.Comments {
		comments = append(comments, feedback.Comment{EmployeeID: c.EmployeeID, Text: c.Text})
	}
	tags := d.Tags
	if tags == nil {
		tags = []string{}
	}
	return &feedback.Feedback{
		ID:                d.ID,
		EmployeeID:        d.EmployeeID,
		ManagerEmployeeID: d.ManagerEmployeeID,
		Strengths:         d.Strengths,
		Improvement:       d.Improvement,
		Sentiment:         feedback.Sentiment(d.Sentiment),
		Anonymous:         d.Anonymous,
		Tags:              tags,
		Acknowledged:      d.Acknowledged,
		Comments:          comments,
		CreatedAt:         d.CreatedAt,
	}
}

type feedbackRequestDocument struct {
	ID                string    `bson:"_id"`
	EmployeeID        string    `bson:"employee_id"`
	ManagerEmployeeID string    `bson:"manager_employee_id"`
	Message           string    `bson:"message"`
	Seen              bool      `bson:"seen"`
	CreatedAt         time.Time `bson:"created_at"`
}

func (d feedbackRequestDocument) toEntity() *feedbackrequest.Request {
	return &feedbackrequest.Request{
		ID:                d.ID,
		EmployeeID:        d.EmployeeID,
		ManagerEmployeeID: d.ManagerEmployeeID,
		Message:           d.Message,
		Seen:              d.Seen,
		CreatedAt:         d.CreatedAt,
	}
}

type notificationDocument struct {
	ID                string    `bson:"_id"`
	EmployeeID        string    `bson:"employee_id"`
	ManagerEmployeeID string    `bson:"manager_employee_id"`
	ManagerName       string    `bson:"manager_name"`
	Message           string    `bson:"message"`
	Seen              bool      `bson:"seen"`
	CreatedAt         time.Time `bson:"created_at"`
}

func (d notificationDocument) toEntity() *notification.Notification {
	return &notification.Notification{
		ID:                d.ID,
		EmployeeID:        d.EmployeeID,
		ManagerEmployeeID: d.ManagerEmployeeID,
		ManagerName:       d.ManagerName,
		Message:           d.Message,
		Seen:              d.Seen,
		CreatedAt:         d.CreatedAt,
	}
}

// storedTime は BSON の datetime と同じミリ秒精度に丸めます。
func storedTime(t time.Time) time.Time {
	return t.Truncate(time.Millisecond)
}
