package repositories

import (
	"github.com/mytro-app/backend/internal/models"
	"gorm.io/gorm"
)

// NotificationRepository defines the interface for notification operations
type NotificationRepository interface {
	CreateNotification(notification *models.Notification) error
	GetByRecipientID(recipientID uint, page, limit int) ([]models.Notification, int64, error)
	GetUnreadCount(recipientID uint) (int64, error)
	MarkAsRead(recipientID, notificationID uint) error
	MarkAllAsRead(recipientID uint) error
	DeleteMirror(notificationType string, senderID, recipientID uint, targetPostID, targetCommentID *uint) error
}

type postgresNotificationRepository struct {
	db *gorm.DB
}

func NewPostgresNotificationRepository(db *gorm.DB) NotificationRepository {
	return &postgresNotificationRepository{db: db}
}

func (r *postgresNotificationRepository) CreateNotification(notification *models.Notification) error {
	return r.db.Create(notification).Error
}

func (r *postgresNotificationRepository) GetByRecipientID(recipientID uint, page, limit int) ([]models.Notification, int64, error) {
	var notifications []models.Notification
	var total int64

	if err := r.db.Model(&models.Notification{}).Where("recipient_id = ?", recipientID).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * limit
	err := r.db.Where("recipient_id = ?", recipientID).
		Order("created_at DESC").
		Offset(offset).Limit(limit).
		Find(&notifications).Error

	return notifications, total, err
}

func (r *postgresNotificationRepository) GetUnreadCount(recipientID uint) (int64, error) {
	var count int64
	err := r.db.Model(&models.Notification{}).Where("recipient_id = ? AND is_read = ?", recipientID, false).Count(&count).Error
	return count, err
}

// MarkAsRead marks one notification read. The recipient scope keeps users
// from flipping each other's notifications.
func (r *postgresNotificationRepository) MarkAsRead(recipientID, notificationID uint) error {
	return r.db.Model(&models.Notification{}).
		Where("id = ? AND recipient_id = ?", notificationID, recipientID).
		Update("is_read", true).Error
}

func (r *postgresNotificationRepository) MarkAllAsRead(recipientID uint) error {
	return r.db.Model(&models.Notification{}).
		Where("recipient_id = ? AND is_read = ?", recipientID, false).
		Update("is_read", true).Error
}

// DeleteMirror removes the notification that mirrored a toggled row (like,
// comment like, follow) once that row is gone, so no stale notification
// survives an undo.
func (r *postgresNotificationRepository) DeleteMirror(notificationType string, senderID, recipientID uint, targetPostID, targetCommentID *uint) error {
	q := r.db.Where("type = ? AND sender_id = ? AND recipient_id = ?", notificationType, senderID, recipientID)
	if targetPostID != nil {
		q = q.Where("target_post_id = ?", *targetPostID)
	}
	if targetCommentID != nil {
		q = q.Where("target_comment_id = ?", *targetCommentID)
	}
	return q.Delete(&models.Notification{}).Error
}
