package storage

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"atelier/internal/domain"
)

// InquiryStore is the gorm-backed record store for inquiries
type InquiryStore struct {
	db *gorm.DB
}

// NewInquiryStore creates a new inquiry store
func NewInquiryStore(db *gorm.DB) *InquiryStore {
	return &InquiryStore{db: db}
}

// Create persists a new inquiry. The store assigns the identifier and the
// creation timestamp; both are populated on the passed record.
func (s *InquiryStore) Create(ctx context.Context, inquiry *domain.Inquiry) error {
	if err := s.db.WithContext(ctx).Create(inquiry).Error; err != nil {
		return fmt.Errorf("failed to save inquiry: %w", err)
	}
	return nil
}

// UpdateNotificationStatus records the outcome of the confirmation email
// attempt on the inquiry with the given id. A map is used so false and null
// values are written out rather than skipped.
func (s *InquiryStore) UpdateNotificationStatus(ctx context.Context, id string, status domain.NotificationStatus) error {
	err := s.db.WithContext(ctx).
		Model(&domain.Inquiry{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"notification_sent":     status.Sent,
			"notification_error":    status.Error,
			"notification_response": status.Response,
			"notification_sent_at":  status.SentAt,
		}).Error
	if err != nil {
		return fmt.Errorf("failed to update notification status: %w", err)
	}
	return nil
}

// List returns all inquiries ordered by creation timestamp, newest first
func (s *InquiryStore) List(ctx context.Context) ([]domain.Inquiry, error) {
	var inquiries []domain.Inquiry
	if err := s.db.WithContext(ctx).Order("created_at DESC").Find(&inquiries).Error; err != nil {
		return nil, fmt.Errorf("failed to fetch inquiries: %w", err)
	}
	return inquiries, nil
}

// DeleteByID deletes the inquiry with the given id. Deleting an id that does
// not exist is not an error: zero rows matched reports success.
func (s *InquiryStore) DeleteByID(ctx context.Context, id string) error {
	if err := s.db.WithContext(ctx).Where("id = ?", id).Delete(&domain.Inquiry{}).Error; err != nil {
		return fmt.Errorf("failed to delete inquiry: %w", err)
	}
	return nil
}
