package paystore

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewRedisStore_BadURL(t *testing.T) {
	t.Parallel()

	_, err := NewRedisStore("not a url")
	assert.Error(t, err)
}

func TestRedisStore_SaveTake(t *testing.T) {
	url := os.Getenv("REDIS_TEST_URL")
	if url == "" {
		t.Skip("REDIS_TEST_URL not set")
	}

	s, err := NewRedisStore(url)
	require.NoError(t, err)
	defer s.Close()

	ctx := context.Background()
	token := uuid.NewString()
	require.NoError(t, s.Save(ctx, &Intent{Token: token, OrderID: "CMS-654321"}, time.Minute))

	got, err := s.Get(ctx, token)
	require.NoError(t, err)
	assert.Equal(t, "CMS-654321", got.OrderID)

	_, err = s.Take(ctx, token)
	require.NoError(t, err)
	_, err = s.Take(ctx, token)
	assert.ErrorIs(t, err, ErrIntentNotFound)
}
