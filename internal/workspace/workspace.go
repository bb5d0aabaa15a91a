// Package workspace はセッションごとの状態コンテナ（カート・通知・在庫編集）を管理する。
package workspace

import (
	"log/slog"
	"sync"
	"time"

	"github.com/hitoshi/sustainabite/internal/cart"
	"github.com/hitoshi/sustainabite/internal/inventory"
	"github.com/hitoshi/sustainabite/internal/model"
	"github.com/hitoshi/sustainabite/internal/notification"
)

// Workspace はログイン中のセッション1つ分の状態。
type Workspace struct {
	SessionID     string
	UserID        string
	Cart          *cart.Cart
	Notifications *notification.Queue
	Editor        *inventory.Editor

	mu         sync.Mutex
	items      []model.InventoryItem
	loaded     bool
	lastAccess time.Time
}

// SetInventory は表示用の在庫一覧を置き換える。
func (w *Workspace) SetInventory(items []model.InventoryItem) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.items = append([]model.InventoryItem(nil), items...)
	w.loaded = true
}

// Inventory は表示用の在庫一覧のコピーを返す。未取得の場合はfalse。
func (w *Workspace) Inventory() ([]model.InventoryItem, bool) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if !w.loaded {
		return nil, false
	}
	return append([]model.InventoryItem(nil), w.items...), true
}

// InventoryItem は表示用の在庫一覧から1件を返す。
func (w *Workspace) InventoryItem(id int64) (model.InventoryItem, bool) {
	w.mu.Lock()
	defer w.mu.Unlock()
	for _, it := range w.items {
		if it.ID == id {
			return it, true
		}
	}
	return model.InventoryItem{}, false
}

// ApplyUpdate は保存済みの在庫更新を表示用の一覧に反映する。
func (w *Workspace) ApplyUpdate(update model.InventoryUpdate) bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	for i := range w.items {
		if w.items[i].ID == update.ID {
			w.items[i].CurrentStock = update.CurrentStock
			w.items[i].MinLevel = update.MinLevel
			return true
		}
	}
	return false
}

// LastAccess は最終アクセス時刻を返す。
func (w *Workspace) LastAccess() time.Time {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.lastAccess
}

func (w *Workspace) touch(t time.Time) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.lastAccess = t
}

func (w *Workspace) close() {
	w.Notifications.Close()
	w.Cart.Clear()
	w.Editor.Cancel()
}

// Config はRegistryの設定。
type Config struct {
	Pricing         cart.Pricing
	NotificationTTL time.Duration
}

// Registry はセッションIDごとのWorkspaceを保持する。
type Registry struct {
	mu         sync.Mutex
	workspaces map[string]*Workspace
	config     Config
	now        func() time.Time
	observer   notification.Observer
}

// NewRegistry はRegistryを生成する。
func NewRegistry(cfg Config) *Registry {
	if cfg.NotificationTTL <= 0 {
		cfg.NotificationTTL = notification.DefaultTTL
	}
	return &Registry{
		workspaces: make(map[string]*Workspace),
		config:     cfg,
		now:        time.Now,
	}
}

// SetNotificationObserver は新しく作成する通知キューに設定する観測者を登録する。
func (r *Registry) SetNotificationObserver(o notification.Observer) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.observer = o
}

// GetOrCreate はセッションのWorkspaceを返す。存在しない場合は作成する。
// 同じセッションIDで別ユーザーのWorkspaceがある場合は破棄して作り直す。
func (r *Registry) GetOrCreate(sessionID, userID string) *Workspace {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := r.now()
	if w, ok := r.workspaces[sessionID]; ok {
		if w.UserID == userID {
			w.touch(now)
			return w
		}
		w.close()
	}

	q := notification.NewQueue(r.config.NotificationTTL)
	if r.observer != nil {
		q.SetObserver(r.observer)
	}

	w := &Workspace{
		SessionID:     sessionID,
		UserID:        userID,
		Cart:          cart.New(r.config.Pricing),
		Notifications: q,
		Editor:        inventory.NewEditor(userID),
		lastAccess:    now,
	}
	r.workspaces[sessionID] = w

	slog.Debug("workspace created",
		slog.String("session_id", sessionID),
		slog.String("user_id", userID),
	)
	return w
}

// Get はセッションのWorkspaceを返す。
func (r *Registry) Get(sessionID string) (*Workspace, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	w, ok := r.workspaces[sessionID]
	if ok {
		w.touch(r.now())
	}
	return w, ok
}

// Remove はWorkspaceを破棄する。カートは空になり通知タイマーは停止する。
func (r *Registry) Remove(sessionID string) {
	r.mu.Lock()
	w, ok := r.workspaces[sessionID]
	delete(r.workspaces, sessionID)
	r.mu.Unlock()

	if ok {
		w.close()
	}
}

// Sweep はidle以上アクセスのないWorkspaceを破棄し、破棄した数を返す。
func (r *Registry) Sweep(idle time.Duration) int {
	cutoff := r.now().Add(-idle)

	r.mu.Lock()
	var stale []*Workspace
	for id, w := range r.workspaces {
		if w.LastAccess().Before(cutoff) {
			stale = append(stale, w)
			delete(r.workspaces, id)
		}
	}
	r.mu.Unlock()

	for _, w := range stale {
		w.close()
	}
	return len(stale)
}

// Len は保持しているWorkspace数を返す。
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.workspaces)
}
