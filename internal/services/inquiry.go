package services

import (
	"context"
	"fmt"
	"log"
	"regexp"
	"strings"
	"time"

	"atelier/internal/domain"
	"atelier/internal/metrics"
	apperrors "atelier/pkg/errors"
)

const (
	// Bounds on the external calls made during one submission. The store is
	// on the critical path; the confirmation email gets a little longer since
	// its failure never fails the request.
	storeTimeout  = 10 * time.Second
	notifyTimeout = 15 * time.Second
)

var emailRegex = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.\S+$`)

// InquiryStore is the durable record store for inquiries
type InquiryStore interface {
	Create(ctx context.Context, inquiry *domain.Inquiry) error
	UpdateNotificationStatus(ctx context.Context, id string, status domain.NotificationStatus) error
	List(ctx context.Context) ([]domain.Inquiry, error)
	DeleteByID(ctx context.Context, id string) error
}

// Notifier sends a confirmation message and returns an opaque provider response
type Notifier interface {
	Send(ctx context.Context, to, subject, textBody, htmlBody string) (string, error)
}

// SubmissionInput is the raw public form payload
type SubmissionInput struct {
	FullName           string  `json:"fullName"`
	Email              string  `json:"email"`
	Phone              *string `json:"phone"`
	ServiceType        *string `json:"serviceType"`
	BudgetRange        *string `json:"budgetRange"`
	ProjectDescription *string `json:"projectDescription"`
}

// MailResult is the structured outcome of the confirmation email attempt
type MailResult struct {
	Success  bool       `json:"success"`
	SentAt   *time.Time `json:"sentAt"`
	Error    *string    `json:"error"`
	Response *string    `json:"response"`
}

// SubmissionResult is the full response for an accepted submission
type SubmissionResult struct {
	Message string          `json:"message"`
	Inquiry *domain.Inquiry `json:"inquiry"`
	Mail    MailResult      `json:"mail"`
}

// InquiryService orchestrates inquiry submissions and the admin surface
type InquiryService struct {
	store    InquiryStore
	notifier Notifier
}

// NewInquiryService creates a new inquiry service
func NewInquiryService(store InquiryStore, notifier Notifier) *InquiryService {
	return &InquiryService{
		store:    store,
		notifier: notifier,
	}
}

// ValidateSubmission checks the submitted fields and returns human-readable
// error strings in rule order. An empty slice means the input is valid.
// Pure: no side effects.
func ValidateSubmission(in *SubmissionInput) []string {
	var details []string
	if strings.TrimSpace(in.FullName) == "" {
		details = append(details, "Full name is required.")
	}
	if !emailRegex.MatchString(in.Email) {
		details = append(details, "A valid email address is required.")
	}
	return details
}

// Submit runs the full submission workflow: validate, persist, attempt the
// confirmation email, record the attempt's outcome on the stored record and
// report the true outcome to the caller.
//
// The persisted inquiry is the source of truth. The confirmation email is
// best-effort: its failure is captured in the result, never surfaced as a
// request failure. The notification-status write is also best-effort; when it
// fails the returned record still carries the in-memory outcome.
func (s *InquiryService) Submit(ctx context.Context, in *SubmissionInput) (*SubmissionResult, error) {
	log.Printf("[INQUIRY] Submit request: name=%s, email=%s", strings.TrimSpace(in.FullName), strings.TrimSpace(in.Email))

	if details := ValidateSubmission(in); len(details) > 0 {
		log.Printf("[INQUIRY] Submit failed: validation errors: %v", details)
		return nil, apperrors.NewValidation("Validation failed", details)
	}

	inquiry := &domain.Inquiry{
		FullName:           strings.TrimSpace(in.FullName),
		Email:              strings.ToLower(strings.TrimSpace(in.Email)),
		Phone:              in.Phone,
		ServiceType:        in.ServiceType,
		BudgetRange:        in.BudgetRange,
		ProjectDescription: in.ProjectDescription,
	}

	createCtx, cancel := context.WithTimeout(ctx, storeTimeout)
	defer cancel()
	if err := s.store.Create(createCtx, inquiry); err != nil {
		log.Printf("[INQUIRY] Submit failed: store error: %v", err)
		return nil, apperrors.Wrap(apperrors.ErrCodePersistence, "failed to save inquiry", err)
	}

	log.Printf("[INQUIRY] Submit successful: id=%s, email=%s", inquiry.ID, inquiry.Email)
	metrics.RecordInquirySubmission()

	mail := s.sendConfirmation(ctx, inquiry)
	metrics.RecordConfirmationEmail(mail.Success)

	// Reflect the attempt on the record before the best-effort status write
	// so the response reports the real outcome even if that write fails.
	inquiry.NotificationSent = mail.Success
	inquiry.NotificationError = mail.Error
	inquiry.NotificationResponse = mail.Response
	inquiry.NotificationSentAt = mail.SentAt

	status := domain.NotificationStatus{
		Sent:     mail.Success,
		Error:    mail.Error,
		Response: mail.Response,
		SentAt:   mail.SentAt,
	}
	updateCtx, cancelUpdate := context.WithTimeout(ctx, storeTimeout)
	defer cancelUpdate()
	if err := s.store.UpdateNotificationStatus(updateCtx, inquiry.ID, status); err != nil {
		// The inquiry itself is safely stored; one attempt only, no retry.
		log.Printf("[INQUIRY] Warning: failed to record notification status for id=%s: %v", inquiry.ID, err)
	}

	message := "Thank you for your inquiry! A confirmation email is on its way."
	if !mail.Success {
		message = "Thank you for your inquiry! We could not send a confirmation email, but your inquiry was received."
	}

	return &SubmissionResult{
		Message: message,
		Inquiry: inquiry,
		Mail:    mail,
	}, nil
}

// List returns all inquiries, newest first
func (s *InquiryService) List(ctx context.Context) ([]domain.Inquiry, error) {
	listCtx, cancel := context.WithTimeout(ctx, storeTimeout)
	defer cancel()

	inquiries, err := s.store.List(listCtx)
	if err != nil {
		log.Printf("[INQUIRY] List failed: store error: %v", err)
		return nil, apperrors.Wrap(apperrors.ErrCodePersistence, "failed to fetch inquiries", err)
	}

	log.Printf("[INQUIRY] List successful: returned %d inquiries", len(inquiries))
	return inquiries, nil
}

// Delete removes the inquiry with the given id. Deleting an id that does not
// exist reports success, same as the store's zero-rows-matched semantics.
func (s *InquiryService) Delete(ctx context.Context, id string) error {
	deleteCtx, cancel := context.WithTimeout(ctx, storeTimeout)
	defer cancel()

	if err := s.store.DeleteByID(deleteCtx, id); err != nil {
		log.Printf("[INQUIRY] Delete failed: id=%s: %v", id, err)
		return apperrors.Wrap(apperrors.ErrCodePersistence, "failed to delete inquiry", err)
	}

	log.Printf("[INQUIRY] Delete successful: id=%s", id)
	metrics.RecordInquiryDeleted()
	return nil
}

// sendConfirmation attempts the confirmation email and converts any failure
// into a structured result. It never returns an error.
func (s *InquiryService) sendConfirmation(ctx context.Context, inquiry *domain.Inquiry) MailResult {
	subject, textBody, htmlBody := buildConfirmationEmail(inquiry)

	notifyCtx, cancel := context.WithTimeout(ctx, notifyTimeout)
	defer cancel()

	response, err := s.notifier.Send(notifyCtx, inquiry.Email, subject, textBody, htmlBody)
	now := time.Now()
	if err != nil {
		log.Printf("[INQUIRY] Confirmation email failed for id=%s: %v", inquiry.ID, err)
		errText := err.Error()
		return MailResult{
			Success: false,
			SentAt:  &now,
			Error:   &errText,
		}
	}

	log.Printf("[INQUIRY] Confirmation email sent for id=%s", inquiry.ID)
	result := MailResult{
		Success: true,
		SentAt:  &now,
	}
	if response != "" {
		result.Response = &response
	}
	return result
}

// buildConfirmationEmail renders the confirmation message for a persisted
// inquiry, with graceful fallbacks for missing name and description
func buildConfirmationEmail(inquiry *domain.Inquiry) (subject, textBody, htmlBody string) {
	name := strings.TrimSpace(inquiry.FullName)
	if name == "" {
		name = "there"
	}

	description := "(no description provided)"
	if inquiry.ProjectDescription != nil && strings.TrimSpace(*inquiry.ProjectDescription) != "" {
		description = *inquiry.ProjectDescription
	}

	subject = "We received your inquiry"

	textBody = fmt.Sprintf(`Hi %s,

Thank you for reaching out to Atelier Studio. We received your inquiry and will get back to you within two business days.

Your project description:
%s

Best regards,
The Atelier Studio Team`, name, description)

	htmlBody = fmt.Sprintf(`<!DOCTYPE html>
<html lang="en">
<head>
    <meta charset="UTF-8">
    <meta name="viewport" content="width=device-width, initial-scale=1.0">
    <title>We received your inquiry</title>
</head>
<body style="font-family: -apple-system, BlinkMacSystemFont, 'Segoe UI', Roboto, sans-serif; line-height: 1.6; color: #334155;">
    <div style="max-width: 600px; margin: 0 auto; padding: 20px;">
        <h2 style="color: #1C5D99;">Thank you, %s!</h2>

        <p>We received your inquiry and will get back to you within two business days.</p>

        <div style="background: #F8FAFC; padding: 20px; border-left: 4px solid #1C5D99; border-radius: 4px; margin: 20px 0;">
            <h3 style="color: #0D1A2D; margin-top: 0;">Your project description:</h3>
            <p style="white-space: pre-wrap;">%s</p>
        </div>

        <p style="color: #64748B; font-size: 14px;">
            Best regards,<br>
            The Atelier Studio Team
        </p>
    </div>
</body>
</html>`, name, description)

	return subject, textBody, htmlBody
}
