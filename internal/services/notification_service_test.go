package services

import (
	"testing"

	"github.com/arafat19/ripple/backend/internal/apperr"
	"github.com/arafat19/ripple/backend/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNotificationFeedAndAcknowledgement(t *testing.T) {
	store := newMemStore()
	svc := NewNotificationService(store, store)

	alice := store.seedUser("alice")
	bob := store.seedUser("bob")

	for _, msg := range []string{"one", "two", "three"} {
		require.NoError(t, store.CreateNotification(&models.Notification{
			Type:        models.NotificationLike,
			ActorID:     bob.ID,
			RecipientID: alice.ID,
			Message:     msg,
		}))
	}

	views, pagination, err := svc.ListNotifications(alice.ID, 1, 2)
	require.NoError(t, err)
	require.Len(t, views, 2)
	assert.Equal(t, int64(3), pagination.Total)
	assert.Equal(t, 2, pagination.Pages)
	// Newest first, actor resolved.
	assert.Equal(t, "three", views[0].Message)
	assert.Equal(t, "bob", views[0].Actor.Username)

	count, err := svc.UnreadCount(alice.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(3), count)

	// Only the recipient may acknowledge.
	err = svc.MarkRead(bob.ID, views[0].ID)
	assert.Equal(t, apperr.CodeForbidden, apperr.CodeOf(err))

	require.NoError(t, svc.MarkRead(alice.ID, views[0].ID))
	count, err = svc.UnreadCount(alice.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(2), count)

	require.NoError(t, svc.MarkAllRead(alice.ID))
	count, err = svc.UnreadCount(alice.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(0), count)
}

func TestMarkReadMissingNotification(t *testing.T) {
	store := newMemStore()
	svc := NewNotificationService(store, store)

	alice := store.seedUser("alice")
	err := svc.MarkRead(alice.ID, 42)
	assert.Equal(t, apperr.CodeNotFound, apperr.CodeOf(err))
}
