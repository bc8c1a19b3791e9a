package history

import (
	"context"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/mpetrun5/rag-docs/internal/errors"
)

// newOfflineStore returns a store whose client is never reached by the
// validation-path tests below. Round trips against a live Redis are
// covered by the integration tests.
func newOfflineStore() *Store {
	client := redis.NewClient(&redis.Options{Addr: "127.0.0.1:1"})
	return NewStore(client, 50, 24*time.Hour)
}

func TestAppendValidation(t *testing.T) {
	store := newOfflineStore()
	ctx := context.Background()

	t.Run("empty session", func(t *testing.T) {
		_, err := store.Append(ctx, "", RoleUser, "hello")
		if !errors.Is(err, errors.ErrorTypeValidation) {
			t.Errorf("Expected validation error, got %v", err)
		}
	})

	t.Run("unknown role", func(t *testing.T) {
		_, err := store.Append(ctx, "s1", "moderator", "hello")
		if !errors.Is(err, errors.ErrorTypeValidation) {
			t.Errorf("Expected validation error, got %v", err)
		}
	})
}

func TestRecentValidation(t *testing.T) {
	store := newOfflineStore()

	_, err := store.Recent(context.Background(), "", 10)
	if !errors.Is(err, errors.ErrorTypeValidation) {
		t.Errorf("Expected validation error, got %v", err)
	}
}

func TestClearValidation(t *testing.T) {
	store := newOfflineStore()

	err := store.Clear(context.Background(), "")
	if !errors.Is(err, errors.ErrorTypeValidation) {
		t.Errorf("Expected validation error, got %v", err)
	}
}
