package service

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/AayushAcharya189/SportGear/internal/domain"
)

func newContactFixture() (*ContactService, *mockContactRepository, *mockNotifier) {
	repo := new(mockContactRepository)
	notifier := new(mockNotifier)
	svc := NewContactService(repo, notifier, newTestEventProducer(), newTestLogger())
	return svc, repo, notifier
}

func TestSubmit_StoresAndNotifies(t *testing.T) {
	svc, repo, notifier := newContactFixture()
	ctx := context.Background()

	repo.On("Create", ctx, mock.AnythingOfType("*domain.ContactMessage")).Return(nil).Once()
	notifier.On("SendContactNotification", ctx, mock.AnythingOfType("*domain.ContactMessage")).Return(nil).Once()

	msg, err := svc.Submit(ctx, ContactInput{
		Name:    "Alice",
		Email:   "alice@example.com",
		Message: "Do you ship to Norway?",
	})

	require.NoError(t, err)
	assert.NotEmpty(t, msg.ID)
	assert.Equal(t, "Do you ship to Norway?", msg.Message)
	repo.AssertExpectations(t)
	notifier.AssertExpectations(t)
}

func TestSubmit_NotifierFailureDoesNotFailSubmission(t *testing.T) {
	svc, repo, notifier := newContactFixture()
	ctx := context.Background()

	repo.On("Create", ctx, mock.AnythingOfType("*domain.ContactMessage")).Return(nil).Once()
	notifier.On("SendContactNotification", ctx, mock.AnythingOfType("*domain.ContactMessage")).
		Return(errors.New("gateway down")).Once()

	msg, err := svc.Submit(ctx, ContactInput{
		Name:    "Alice",
		Email:   "alice@example.com",
		Message: "Hello",
	})

	require.NoError(t, err)
	assert.NotEmpty(t, msg.ID)
}

func TestSubmit_StoreFailureFailsSubmission(t *testing.T) {
	svc, repo, notifier := newContactFixture()
	ctx := context.Background()

	repo.On("Create", ctx, mock.AnythingOfType("*domain.ContactMessage")).
		Return(errors.New("db down")).Once()

	_, err := svc.Submit(ctx, ContactInput{
		Name:    "Alice",
		Email:   "alice@example.com",
		Message: "Hello",
	})

	require.Error(t, err)
	notifier.AssertNotCalled(t, "SendContactNotification", mock.Anything, mock.Anything)
}

func TestListMessages_ReturnsStoredMessages(t *testing.T) {
	svc, repo, _ := newContactFixture()
	ctx := context.Background()

	repo.On("List", ctx, 1, 20).
		Return([]domain.ContactMessage{{ID: "m-1", Name: "Alice"}}, 1, nil).Once()

	messages, total, err := svc.ListMessages(ctx, 1, 20)

	require.NoError(t, err)
	assert.Equal(t, 1, total)
	require.Len(t, messages, 1)
}
