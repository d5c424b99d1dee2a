package utils

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"savefood/models"
)

// OpenRedisPool initializes a Redis connection pool
func OpenRedisPool(ctx context.Context, dsn string) (*redis.Client, error) {
	opt, err := redis.ParseURL(dsn)
	if err != nil {
		return nil, fmt.Errorf("parsing redis dsn: %w", err)
	}

	// Configure connection pooling
	opt.PoolSize = 100
	opt.MinIdleConns = 2
	opt.DialTimeout = 5 * time.Second
	opt.ConnMaxIdleTime = 5 * time.Minute

	client := redis.NewClient(opt)
	if err = client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("pinging redis: %w", err)
	}

	return client, nil
}

// RedisSessionStore keeps each session in a hash that expires with it.
type RedisSessionStore struct {
	client *redis.Client
}

func NewRedisSessionStore(client *redis.Client) *RedisSessionStore {
	return &RedisSessionStore{client: client}
}

func redisSessionKey(sessionToken string) string {
	return "session:" + HashToken(sessionToken)
}

// Save stores a session in Redis
func (s *RedisSessionStore) Save(ctx context.Context, session *models.Session, ttl time.Duration) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	key := redisSessionKey(session.SessionToken)

	pipe := s.client.TxPipeline()
	pipe.HSet(ctx, key, sessionToMap(session))
	pipe.Expire(ctx, key, ttl)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("storing session: %w", err)
	}
	return nil
}

// Get retrieves session details from Redis
func (s *RedisSessionStore) Get(ctx context.Context, sessionToken string) (*models.Session, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	data, err := s.client.HGetAll(ctx, redisSessionKey(sessionToken)).Result()
	if err != nil {
		return nil, fmt.Errorf("reading session: %w", err)
	}
	if len(data) == 0 {
		return nil, ErrSessionNotFound
	}

	session := sessionFromMap(sessionToken, data)
	if !session.ExpiresAt.IsZero() && time.Now().After(session.ExpiresAt) {
		return nil, ErrSessionNotFound
	}
	return session, nil
}

// Delete removes a single session
func (s *RedisSessionStore) Delete(ctx context.Context, sessionToken string) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	return s.client.Del(ctx, redisSessionKey(sessionToken)).Err()
}

// Touch updates the last activity timestamp of a session
func (s *RedisSessionStore) Touch(ctx context.Context, sessionToken string) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	return s.client.HSet(ctx, redisSessionKey(sessionToken), "last_activity", time.Now().UTC().Format(time.RFC3339)).Err()
}

func sessionToMap(session *models.Session) map[string]any {
	return map[string]any{
		"access_token":  session.AccessToken,
		"user_email":    session.UserEmail,
		"csrf_token":    session.CSRFToken,
		"created_at":    session.CreatedAt.Format(time.RFC3339),
		"expires_at":    session.ExpiresAt.Format(time.RFC3339),
		"last_activity": session.LastActivity.Format(time.RFC3339),
		"user_agent":    session.UserAgent,
		"ip_address":    session.IPAddress,
	}
}

func sessionFromMap(sessionToken string, data map[string]string) *models.Session {
	parse := func(field string) time.Time {
		t, _ := time.Parse(time.RFC3339, data[field])
		return t
	}
	return &models.Session{
		SessionToken: sessionToken,
		AccessToken:  data["access_token"],
		UserEmail:    data["user_email"],
		CSRFToken:    data["csrf_token"],
		CreatedAt:    parse("created_at"),
		ExpiresAt:    parse("expires_at"),
		LastActivity: parse("last_activity"),
		UserAgent:    data["user_agent"],
		IPAddress:    data["ip_address"],
	}
}
