package auth

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/hitoshi/sustainabite/internal/model"
)

// snapshot はRedisに保存するJSON表現。
type snapshot struct {
	ID        string    `json:"id"`
	StoreName string    `json:"storeName"`
	Email     string    `json:"email"`
	Address   string    `json:"address"`
	Phone     string    `json:"phone"`
	SessionID string    `json:"sessionId"`
	CreatedAt time.Time `json:"createdAt"`
	ExpiresAt time.Time `json:"expiresAt"`
}

// RedisStorage はRedisに保存するStorage実装。
// 期限切れはRedisのキーTTLに任せる。
type RedisStorage struct {
	client *redis.Client
}

// NewRedisStorage は既存のクライアントからRedisStorageを生成する。
func NewRedisStorage(client *redis.Client) *RedisStorage {
	return &RedisStorage{client: client}
}

// OpenRedisStorage はURLから接続し、疎通確認を行ってRedisStorageを返す。
func OpenRedisStorage(ctx context.Context, redisURL string) (*RedisStorage, error) {
	opt, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("invalid redis URL: %w", err)
	}

	client := redis.NewClient(opt)

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}

	return NewRedisStorage(client), nil
}

// Save はスナップショットをJSONとしてTTL付きで保存する。
func (s *RedisStorage) Save(ctx context.Context, rec *Record, ttl time.Duration) error {
	data, err := json.Marshal(snapshot{
		ID:        rec.User.ID,
		StoreName: rec.User.StoreName,
		Email:     rec.User.Email,
		Address:   rec.User.Address,
		Phone:     rec.User.Phone,
		SessionID: rec.Session.ID,
		CreatedAt: rec.Session.CreatedAt,
		ExpiresAt: rec.Session.ExpiresAt,
	})
	if err != nil {
		return fmt.Errorf("failed to marshal session snapshot: %w", err)
	}

	if err := s.client.Set(ctx, KeyPrefix+rec.Session.ID, data, ttl).Err(); err != nil {
		return fmt.Errorf("failed to save session snapshot: %w", err)
	}
	return nil
}

// Load はスナップショットを読み込む。
func (s *RedisStorage) Load(ctx context.Context, sessionID string) (*Record, error) {
	data, err := s.client.Get(ctx, KeyPrefix+sessionID).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load session snapshot: %w", err)
	}

	var snap snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return nil, fmt.Errorf("failed to unmarshal session snapshot: %w", err)
	}

	return &Record{
		Session: model.Session{
			ID:        sessionID,
			UserID:    snap.ID,
			CreatedAt: snap.CreatedAt,
			ExpiresAt: snap.ExpiresAt,
		},
		User: model.User{
			ID:        snap.ID,
			Email:     snap.Email,
			StoreName: snap.StoreName,
			Address:   snap.Address,
			Phone:     snap.Phone,
		},
	}, nil
}

// Delete はスナップショットを削除する。
func (s *RedisStorage) Delete(ctx context.Context, sessionID string) error {
	if err := s.client.Del(ctx, KeyPrefix+sessionID).Err(); err != nil {
		return fmt.Errorf("failed to delete session snapshot: %w", err)
	}
	return nil
}

// PingContext はRedisへの疎通を確認する。ヘルスチェックで使用する。
func (s *RedisStorage) PingContext(ctx context.Context) error {
	return s.client.Ping(ctx).Err()
}

// Close はクライアントを閉じる。
func (s *RedisStorage) Close() error {
	return s.client.Close()
}

// compile-time interface check
var _ Storage = (*RedisStorage)(nil)
