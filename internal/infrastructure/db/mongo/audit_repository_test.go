package mongo

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sitterhub/marketplace/internal/core/domain"
)

func TestAuditRepository(t *testing.T) {
	uri := os.Getenv("TEST_MONGO_URI")
	if uri == "" {
		t.Skip("TEST_MONGO_URI not set")
	}

	ctx := context.Background()
	client, db, err := Connect(ctx, Config{URI: uri, Database: "sitterhub_test_" + uuid.NewString()[:8]})
	require.NoError(t, err)
	t.Cleanup(func() {
		_ = db.Drop(context.Background())
		_ = client.Disconnect(context.Background())
	})

	repo := NewAuditRepository(db)
	require.NoError(t, repo.EnsureIndexes(ctx))

	bookingID := uuid.NewString()
	created := time.Date(2030, 1, 1, 10, 0, 0, 0, time.UTC)
	require.NoError(t, repo.Record(ctx, domain.BookingEvent{
		BookingID: bookingID, FromStatus: domain.StatusPending, ToStatus: domain.StatusConfirmed,
		ActorID: "sitter-1", ActorRole: domain.RoleBabysitter, At: created.Add(time.Hour),
	}))
	require.NoError(t, repo.Record(ctx, domain.BookingEvent{
		BookingID: bookingID, ToStatus: domain.StatusPending,
		ActorID: "client-1", ActorRole: domain.RoleClient, At: created,
	}))
	require.NoError(t, repo.Record(ctx, domain.BookingEvent{
		BookingID: uuid.NewString(), ToStatus: domain.StatusPending, At: created,
	}))

	events, err := repo.History(ctx, bookingID)
	require.NoError(t, err)
	require.Len(t, events, 2)
	assert.Equal(t, domain.StatusPending, events[0].ToStatus)
	assert.Empty(t, events[0].FromStatus)
	assert.Equal(t, domain.StatusConfirmed, events[1].ToStatus)
	assert.Equal(t, domain.RoleBabysitter, events[1].ActorRole)
	assert.True(t, events[1].At.Equal(created.Add(time.Hour)))

	none, err := repo.History(ctx, uuid.NewString())
	require.NoError(t, err)
	assert.NotNil(t, none)
	assert.Empty(t, none)
}
