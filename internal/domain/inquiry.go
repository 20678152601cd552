package domain

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Inquiry represents a project inquiry submitted through the public form
type Inquiry struct {
	ID                   string     `gorm:"primaryKey;size:36" json:"id"`
	FullName             string     `gorm:"not null" json:"full_name"`
	Email                string     `gorm:"not null;index" json:"email"`
	Phone                *string    `json:"phone"`
	ServiceType          *string    `json:"service_type"`
	BudgetRange          *string    `json:"budget_range"`
	ProjectDescription   *string    `gorm:"type:text" json:"project_description"`
	NotificationSent     bool       `gorm:"default:false" json:"notification_sent"`
	NotificationError    *string    `json:"notification_error"`
	NotificationResponse *string    `gorm:"type:text" json:"notification_response"`
	NotificationSentAt   *time.Time `json:"notification_sent_at"`
	CreatedAt            time.Time  `json:"created_at"`
}

// NotificationStatus captures the outcome of one confirmation email attempt
type NotificationStatus struct {
	Sent     bool
	Error    *string
	Response *string
	SentAt   *time.Time
}

// TableName specifies the table name for Inquiry
func (Inquiry) TableName() string {
	return "inquiries"
}

// BeforeCreate hook
func (i *Inquiry) BeforeCreate(tx *gorm.DB) error {
	if i.ID == "" {
		i.ID = uuid.NewString()
	}
	if i.CreatedAt.IsZero() {
		i.CreatedAt = time.Now()
	}
	return nil
}
