package handler

import "github.com/labstack/echo/v4"

// Handlers はルーティング対象のハンドラー群です。
type Handlers struct {
	Users         *UserHandler
	Feedback      *FeedbackHandler
	Requests      *FeedbackRequestHandler
	Notifications *NotificationHandler
}

// Register は /api 配下のグループへ業務ルートを登録します。
func (h Handlers) Register(api *echo.Group) {
	users := api.Group("/users")
	users.POST("", h.Users.RegisterUser)
	users.GET("", h.Users.ListUsers)
	users.GET("/:employee_id", h.Users.GetUser)

	fb := api.Group("/feedback")
	fb.POST("", h.Feedback.Submit)
	fb.POST("/", h.Feedback.Submit)

	fb.POST("/request", h.Requests.RequestFeedback)
	fb.GET("/requests/:manager_id", h.Requests.ListForManager)
	fb.PATCH("/requests/:request_id/seen", h.Requests.MarkSeen)
	fb.GET("/requests/:manager_id/count-unseen", h.Requests.CountUnseen)

	fb.GET("/employee/:employee_id", h.Feedback.ListByEmployee)
	fb.GET("/manager/:manager_id", h.Feedback.ListByManager)
	fb.PATCH("/acknowledge/:feedback_id", h.Feedback.Acknowledge)
	fb.PUT("/:feedback_id", h.Feedback.Update)
	fb.DELETE("/:feedback_id", h.Feedback.Delete)
	fb.DELETE("/manager/:manager_id", h.Feedback.DeleteAllByManager)
	fb.POST("/comment/:feedback_id", h.Feedback.AddComment)
	fb.GET("/export/:employee_id", h.Feedback.Export)

	fb.GET("/notifications/:employee_id", h.Notifications.ListForEmployee)
	fb.PATCH("/notifications/mark-all-seen/:employee_id", h.Notifications.MarkAllSeen)
	fb.PATCH("/notifications/:notification_id", h.Notifications.SetSeen)
}
