package utils

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"

	"savefood/models"
)

func newTestRedisStore(t *testing.T) (*RedisSessionStore, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client, err := OpenRedisPool(context.Background(), "redis://"+mr.Addr())
	if err != nil {
		t.Fatalf("opening redis: %v", err)
	}
	t.Cleanup(func() { client.Close() })
	return NewRedisSessionStore(client), mr
}

func testSession(token string, expiresIn time.Duration) *models.Session {
	now := time.Now().UTC().Truncate(time.Second)
	return &models.Session{
		SessionToken: token,
		AccessToken:  "jwt-" + token,
		UserEmail:    "ann@example.com",
		CSRFToken:    "csrf-" + token,
		CreatedAt:    now,
		ExpiresAt:    now.Add(expiresIn),
		LastActivity: now,
		UserAgent:    "agent",
		IPAddress:    "203.0.113.195",
	}
}

func TestRedisSessionStoreSaveAndGet(t *testing.T) {
	store, mr := newTestRedisStore(t)
	ctx := context.Background()
	in := testSession("st-1", time.Hour)

	if err := store.Save(ctx, in, time.Hour); err != nil {
		t.Fatalf("Save: %v", err)
	}

	key := redisSessionKey("st-1")
	if got := mr.TTL(key); got != time.Hour {
		t.Errorf("TTL = %v, want 1h", got)
	}
	if mr.Exists("session:st-1") {
		t.Error("raw token used as redis key")
	}

	out, err := store.Get(ctx, "st-1")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if out.AccessToken != "jwt-st-1" || out.CSRFToken != "csrf-st-1" || out.UserEmail != in.UserEmail {
		t.Errorf("Get returned %+v", out)
	}
	if !out.ExpiresAt.Equal(in.ExpiresAt) {
		t.Errorf("ExpiresAt = %v, want %v", out.ExpiresAt, in.ExpiresAt)
	}
}

func TestRedisSessionStoreGetMissing(t *testing.T) {
	tests := []struct {
		name  string
		setup func(t *testing.T, store *RedisSessionStore, mr *miniredis.Miniredis)
	}{
		{
			name:  "never stored",
			setup: func(*testing.T, *RedisSessionStore, *miniredis.Miniredis) {},
		},
		{
			name: "key expired in redis",
			setup: func(t *testing.T, store *RedisSessionStore, mr *miniredis.Miniredis) {
				if err := store.Save(context.Background(), testSession("st", time.Minute), time.Minute); err != nil {
					t.Fatal(err)
				}
				mr.FastForward(2 * time.Minute)
			},
		},
		{
			name: "session past its expiry",
			setup: func(t *testing.T, store *RedisSessionStore, mr *miniredis.Miniredis) {
				if err := store.Save(context.Background(), testSession("st", -time.Minute), time.Hour); err != nil {
					t.Fatal(err)
				}
			},
		},
		{
			name: "deleted",
			setup: func(t *testing.T, store *RedisSessionStore, mr *miniredis.Miniredis) {
				if err := store.Save(context.Background(), testSession("st", time.Hour), time.Hour); err != nil {
					t.Fatal(err)
				}
				if err := store.Delete(context.Background(), "st"); err != nil {
					t.Fatal(err)
				}
				if mr.Exists(redisSessionKey("st")) {
					t.Error("key still present after Delete")
				}
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store, mr := newTestRedisStore(t)
			tt.setup(t, store, mr)

			_, err := store.Get(context.Background(), "st")
			if !errors.Is(err, ErrSessionNotFound) {
				t.Errorf("Get error = %v, want ErrSessionNotFound", err)
			}
		})
	}
}

func TestRedisSessionStoreTouch(t *testing.T) {
	store, mr := newTestRedisStore(t)
	ctx := context.Background()

	in := testSession("st", time.Hour)
	in.LastActivity = time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC)
	if err := store.Save(ctx, in, time.Hour); err != nil {
		t.Fatal(err)
	}

	if err := store.Touch(ctx, "st"); err != nil {
		t.Fatalf("Touch: %v", err)
	}

	out, err := store.Get(ctx, "st")
	if err != nil {
		t.Fatal(err)
	}
	if !out.LastActivity.After(in.LastActivity) {
		t.Errorf("LastActivity not updated: %v", out.LastActivity)
	}
	if got := mr.TTL(redisSessionKey("st")); got != time.Hour {
		t.Errorf("Touch changed TTL to %v", got)
	}
}
