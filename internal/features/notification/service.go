package notification

import (
	"context"
)

type NotificationService interface {
	// Notify stores a notification and pushes it to the user's live
	// websocket connections
	Notify(ctx context.Context, userNo int64, title, message, ntype, link string) error
	GetUserNotifications(ctx context.Context, userNo int64, page, limit int64) ([]Notification, int64, error)
	GetUnreadCount(ctx context.Context, userNo int64) (int64, error)
	MarkAsRead(ctx context.Context, id string, userNo int64) error
	MarkAllAsRead(ctx context.Context, userNo int64) error
}

type NotificationServiceImpl struct {
	Repo NotificationRepository
	Hub  *Hub
}

func NewNotificationService(repo NotificationRepository, hub *Hub) NotificationService {
	return &NotificationServiceImpl{
		Repo: repo,
		Hub:  hub,
	}
}

func (s *NotificationServiceImpl) Notify(ctx context.Context, userNo int64, title, message, ntype, link string) error {
	if userNo == 0 {
		return nil
	}

	notification := &Notification{
		UserNo:  userNo,
		Title:   title,
		Message: message,
		Type:    NotificationType(ntype),
		Link:    link,
	}
	if err := s.Repo.Create(ctx, notification); err != nil {
		return err
	}

	s.Hub.Push(userNo, notification)
	return nil
}

func (s *NotificationServiceImpl) GetUserNotifications(ctx context.Context, userNo int64, page, limit int64) ([]Notification, int64, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 10
	}
	return s.Repo.GetByUser(ctx, userNo, page, limit)
}

func (s *NotificationServiceImpl) GetUnreadCount(ctx context.Context, userNo int64) (int64, error) {
	return s.Repo.GetUnreadCount(ctx, userNo)
}

func (s *NotificationServiceImpl) MarkAsRead(ctx context.Context, id string, userNo int64) error {
	return s.Repo.MarkAsRead(ctx, id, userNo)
}

func (s *NotificationServiceImpl) MarkAllAsRead(ctx context.Context, userNo int64) error {
	return s.Repo.MarkAllAsRead(ctx, userNo)
}
