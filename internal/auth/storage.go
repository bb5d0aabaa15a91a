package auth

import (
	"context"
	"sync"
	"time"

	"github.com/hitoshi/sustainabite/internal/model"
)

// KeyPrefix はセッションスナップショットの保存キーの接頭辞。
const KeyPrefix = "sustainabite_user:"

// Record はセッションとログイン時点のユーザー情報のスナップショット。
type Record struct {
	Session model.Session
	User    model.User
}

// Storage はセッションスナップショットの保存先のインターフェース。
type Storage interface {
	// Save はスナップショットをTTL付きで保存する。同じセッションIDは上書きする。
	Save(ctx context.Context, rec *Record, ttl time.Duration) error
	// Load はスナップショットを返す。存在しない・期限切れの場合はnilを返す。
	Load(ctx context.Context, sessionID string) (*Record, error)
	// Delete はスナップショットを削除する。存在しない場合もエラーにしない。
	Delete(ctx context.Context, sessionID string) error
}

// MemoryStorage はプロセス内のmapに保存するStorage実装。
type MemoryStorage struct {
	mu      sync.Mutex
	records map[string]memoryEntry
	now     func() time.Time
}

type memoryEntry struct {
	rec       Record
	expiresAt time.Time
}

// NewMemoryStorage はMemoryStorageを生成する。
func NewMemoryStorage() *MemoryStorage {
	return &MemoryStorage{
		records: make(map[string]memoryEntry),
		now:     time.Now,
	}
}

// Save はスナップショットを保存する。
func (s *MemoryStorage) Save(_ context.Context, rec *Record, ttl time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.records[KeyPrefix+rec.Session.ID] = memoryEntry{rec: *rec, expiresAt: s.now().Add(ttl)}
	return nil
}

// Load はスナップショットを返す。
func (s *MemoryStorage) Load(_ context.Context, sessionID string) (*Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	key := KeyPrefix + sessionID
	e, ok := s.records[key]
	if !ok {
		return nil, nil
	}
	if !s.now().Before(e.expiresAt) {
		delete(s.records, key)
		return nil, nil
	}
	rec := e.rec
	return &rec, nil
}

// Delete はスナップショットを削除する。
func (s *MemoryStorage) Delete(_ context.Context, sessionID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.records, KeyPrefix+sessionID)
	return nil
}

// DeleteExpired は期限切れのスナップショットを削除し、削除件数を返す。
func (s *MemoryStorage) DeleteExpired(_ context.Context) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	n := 0
	for key, e := range s.records {
		if !now.Before(e.expiresAt) {
			delete(s.records, key)
			n++
		}
	}
	return n, nil
}

// compile-time interface check
var _ Storage = (*MemoryStorage)(nil)
