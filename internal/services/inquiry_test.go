package services

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"atelier/internal/domain"
	apperrors "atelier/pkg/errors"
)

type fakeStore struct {
	createErr error
	updateErr error
	listErr   error
	deleteErr error

	created []*domain.Inquiry
	updates map[string]domain.NotificationStatus
	listed  []domain.Inquiry
	deleted []string
}

func newFakeStore() *fakeStore {
	return &fakeStore{updates: make(map[string]domain.NotificationStatus)}
}

func (f *fakeStore) Create(ctx context.Context, inquiry *domain.Inquiry) error {
	if f.createErr != nil {
		return f.createErr
	}
	inquiry.ID = "inq-1"
	inquiry.CreatedAt = time.Now()
	f.created = append(f.created, inquiry)
	return nil
}

func (f *fakeStore) UpdateNotificationStatus(ctx context.Context, id string, status domain.NotificationStatus) error {
	if f.updateErr != nil {
		return f.updateErr
	}
	f.updates[id] = status
	return nil
}

func (f *fakeStore) List(ctx context.Context) ([]domain.Inquiry, error) {
	if f.listErr != nil {
		return nil, f.listErr
	}
	return f.listed, nil
}

func (f *fakeStore) DeleteByID(ctx context.Context, id string) error {
	if f.deleteErr != nil {
		return f.deleteErr
	}
	f.deleted = append(f.deleted, id)
	return nil
}

type fakeNotifier struct {
	response string
	err      error

	sentTo      string
	sentSubject string
	sentText    string
	sentHTML    string
	calls       int
}

func (f *fakeNotifier) Send(ctx context.Context, to, subject, textBody, htmlBody string) (string, error) {
	f.calls++
	f.sentTo = to
	f.sentSubject = subject
	f.sentText = textBody
	f.sentHTML = htmlBody
	if f.err != nil {
		return "", f.err
	}
	return f.response, nil
}

func strPtr(s string) *string { return &s }

func TestValidateSubmission(t *testing.T) {
	tests := []struct {
		name  string
		input SubmissionInput
		want  []string
	}{
		{
			name:  "valid minimal submission",
			input: SubmissionInput{FullName: "Ann", Email: "ann@x.com"},
			want:  nil,
		},
		{
			name:  "missing full name",
			input: SubmissionInput{Email: "ann@x.com"},
			want:  []string{"Full name is required."},
		},
		{
			name:  "whitespace-only full name",
			input: SubmissionInput{FullName: "   ", Email: "ann@x.com"},
			want:  []string{"Full name is required."},
		},
		{
			name:  "malformed email",
			input: SubmissionInput{FullName: "Ann", Email: "not-an-email"},
			want:  []string{"A valid email address is required."},
		},
		{
			name:  "email missing domain dot",
			input: SubmissionInput{FullName: "Ann", Email: "ann@nodot"},
			want:  []string{"A valid email address is required."},
		},
		{
			name:  "both fields invalid, name error first",
			input: SubmissionInput{FullName: "", Email: "bad"},
			want:  []string{"Full name is required.", "A valid email address is required."},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ValidateSubmission(&tt.input)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestSubmit_ValidationFailureNeverTouchesStore(t *testing.T) {
	store := newFakeStore()
	notifier := &fakeNotifier{}
	svc := NewInquiryService(store, notifier)

	result, err := svc.Submit(context.Background(), &SubmissionInput{Email: "bad"})

	require.Error(t, err)
	assert.Nil(t, result)
	var appErr *apperrors.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, apperrors.ErrCodeValidation, appErr.Code)
	assert.Equal(t, []string{"Full name is required.", "A valid email address is required."}, appErr.Details)
	assert.Empty(t, store.created)
	assert.Zero(t, notifier.calls)
}

func TestSubmit_PersistAndNotifySucceed(t *testing.T) {
	store := newFakeStore()
	notifier := &fakeNotifier{response: "250 OK"}
	svc := NewInquiryService(store, notifier)

	result, err := svc.Submit(context.Background(), &SubmissionInput{
		FullName:           "Ann",
		Email:              "Ann@X.com",
		ProjectDescription: strPtr("A small brochure site."),
	})

	require.NoError(t, err)
	require.NotNil(t, result)

	assert.True(t, result.Mail.Success)
	assert.Nil(t, result.Mail.Error)
	require.NotNil(t, result.Mail.Response)
	assert.Equal(t, "250 OK", *result.Mail.Response)
	require.NotNil(t, result.Mail.SentAt)

	require.NotNil(t, result.Inquiry)
	assert.Equal(t, "inq-1", result.Inquiry.ID)
	assert.Equal(t, "Ann", result.Inquiry.FullName)
	assert.Equal(t, "ann@x.com", result.Inquiry.Email)
	assert.True(t, result.Inquiry.NotificationSent)

	// the email went to the persisted address
	assert.Equal(t, "ann@x.com", notifier.sentTo)
	assert.Contains(t, notifier.sentText, "Ann")
	assert.Contains(t, notifier.sentText, "A small brochure site.")

	// the status update targeted the created record
	status, ok := store.updates["inq-1"]
	require.True(t, ok)
	assert.True(t, status.Sent)
	assert.Nil(t, status.Error)
}

func TestSubmit_NotifierFailureStillSucceeds(t *testing.T) {
	store := newFakeStore()
	notifier := &fakeNotifier{err: errors.New("smtp: connection refused")}
	svc := NewInquiryService(store, notifier)

	result, err := svc.Submit(context.Background(), &SubmissionInput{
		FullName: "Ann",
		Email:    "ann@x.com",
	})

	require.NoError(t, err, "a notifier failure must never fail the submission")
	require.NotNil(t, result)

	assert.False(t, result.Mail.Success)
	require.NotNil(t, result.Mail.Error)
	assert.Contains(t, *result.Mail.Error, "connection refused")

	// the inquiry is still durably stored
	require.Len(t, store.created, 1)
	assert.False(t, result.Inquiry.NotificationSent)
	assert.NotNil(t, result.Inquiry.NotificationError)

	status, ok := store.updates["inq-1"]
	require.True(t, ok)
	assert.False(t, status.Sent)
	require.NotNil(t, status.Error)

	assert.Contains(t, result.Message, "could not send")
}

func TestSubmit_PersistFailureIsFatal(t *testing.T) {
	store := newFakeStore()
	store.createErr = errors.New("connection reset")
	notifier := &fakeNotifier{}
	svc := NewInquiryService(store, notifier)

	result, err := svc.Submit(context.Background(), &SubmissionInput{
		FullName: "Ann",
		Email:    "ann@x.com",
	})

	require.Error(t, err)
	assert.Nil(t, result)
	assert.Equal(t, apperrors.ErrCodePersistence, apperrors.CodeOf(err))
	assert.Zero(t, notifier.calls, "no notification may be attempted when persist fails")
}

func TestSubmit_StatusUpdateFailureKeepsInMemoryOutcome(t *testing.T) {
	store := newFakeStore()
	store.updateErr = errors.New("write timeout")
	notifier := &fakeNotifier{response: "250 OK"}
	svc := NewInquiryService(store, notifier)

	result, err := svc.Submit(context.Background(), &SubmissionInput{
		FullName: "Ann",
		Email:    "ann@x.com",
	})

	require.NoError(t, err, "a failed status update must not fail the request")
	require.NotNil(t, result)

	// outcome comes from the in-memory result, not a re-read
	assert.True(t, result.Mail.Success)
	assert.True(t, result.Inquiry.NotificationSent)
	assert.Contains(t, result.Message, "on its way")
}

func TestSubmit_OptionalFieldsStayNull(t *testing.T) {
	store := newFakeStore()
	notifier := &fakeNotifier{}
	svc := NewInquiryService(store, notifier)

	result, err := svc.Submit(context.Background(), &SubmissionInput{
		FullName: "Ann",
		Email:    "ann@x.com",
	})

	require.NoError(t, err)
	assert.Nil(t, result.Inquiry.Phone)
	assert.Nil(t, result.Inquiry.ServiceType)
	assert.Nil(t, result.Inquiry.BudgetRange)
	assert.Nil(t, result.Inquiry.ProjectDescription)
}

func TestBuildConfirmationEmail_Fallbacks(t *testing.T) {
	subject, textBody, htmlBody := buildConfirmationEmail(&domain.Inquiry{
		FullName: "  ",
		Email:    "ann@x.com",
	})

	assert.Equal(t, "We received your inquiry", subject)
	assert.Contains(t, textBody, "Hi there,")
	assert.Contains(t, textBody, "(no description provided)")
	assert.Contains(t, htmlBody, "Thank you, there!")
	assert.Contains(t, htmlBody, "(no description provided)")
}

func TestList_WrapsStoreError(t *testing.T) {
	store := newFakeStore()
	store.listErr = errors.New("connection reset")
	svc := NewInquiryService(store, &fakeNotifier{})

	_, err := svc.List(context.Background())
	require.Error(t, err)
	assert.Equal(t, apperrors.ErrCodePersistence, apperrors.CodeOf(err))
}

func TestDelete_PassesIDThrough(t *testing.T) {
	store := newFakeStore()
	svc := NewInquiryService(store, &fakeNotifier{})

	require.NoError(t, svc.Delete(context.Background(), "some-id"))
	assert.Equal(t, []string{"some-id"}, store.deleted)
}

func TestDelete_WrapsStoreError(t *testing.T) {
	store := newFakeStore()
	store.deleteErr = errors.New("disk full")
	svc := NewInquiryService(store, &fakeNotifier{})

	err := svc.Delete(context.Background(), "some-id")
	require.Error(t, err)
	assert.Equal(t, apperrors.ErrCodePersistence, apperrors.CodeOf(err))
	assert.True(t, strings.Contains(err.Error(), "failed to delete inquiry"))
}
