// Package notification はセッションごとの一時通知キューを提供する。
// 通知は発行から一定時間後に自動削除され、ユーザーが明示的に閉じることもできる。
package notification

import (
	"sort"
	"sync"
	"time"

	"github.com/hitoshi/sustainabite/internal/model"
)

// DefaultTTL は通知の自動削除までの時間。
const DefaultTTL = 5 * time.Second

// Severity は通知の種別を表す。
type Severity string

const (
	SeverityInfo    Severity = "info"
	SeveritySuccess Severity = "success"
	SeverityError   Severity = "error"
)

// Notification はユーザーに表示する一時メッセージ。
type Notification struct {
	ID        int64
	Message   string
	Severity  Severity
	CreatedAt time.Time
}

// Timer は停止可能なタイマー。*time.Timerが満たす。
type Timer interface {
	Stop() bool
}

// Scheduler は遅延実行を登録する。
// テストでは時間を進める偽実装に差し替える。
type Scheduler interface {
	AfterFunc(d time.Duration, f func()) Timer
}

type realScheduler struct{}

func (realScheduler) AfterFunc(d time.Duration, f func()) Timer {
	return time.AfterFunc(d, f)
}

// Observer は通知発行の観測者。メトリクス記録に使用する。
type Observer func(severity Severity)

// Notifier は通知を発行する側のインターフェース。
// チェックアウトや在庫編集などのサービス層はこれだけに依存する。
type Notifier interface {
	Push(message string, severity Severity) Notification
}

type entry struct {
	n     Notification
	timer Timer
}

// Queue はセッションに紐づく通知キュー。
// IDは発行時刻のミリ秒値を元に単調増加で採番する。
type Queue struct {
	mu        sync.Mutex
	ttl       time.Duration
	scheduler Scheduler
	now       func() time.Time
	observer  Observer
	entries   map[int64]*entry
	lastID    int64
	closed    bool
}

// NewQueue は実時間タイマーを使うQueueを生成する。
// ttlが0以下の場合はDefaultTTLを使用する。
func NewQueue(ttl time.Duration) *Queue {
	return NewQueueWithScheduler(ttl, realScheduler{}, time.Now)
}

// NewQueueWithScheduler はスケジューラと時刻関数を指定してQueueを生成する。
func NewQueueWithScheduler(ttl time.Duration, scheduler Scheduler, now func() time.Time) *Queue {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Queue{
		ttl:       ttl,
		scheduler: scheduler,
		now:       now,
		entries:   make(map[int64]*entry),
	}
}

// SetObserver は通知発行時に呼び出される観測者を設定する。
func (q *Queue) SetObserver(o Observer) {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.observer = o
}

// Push は通知を追加し、TTL経過後の自動削除を登録する。
// 同一ミリ秒内に複数発行された場合もIDは重複しない。
func (q *Queue) Push(message string, severity Severity) Notification {
	n, observer := q.push(message, severity)
	// 観測者はロック外で呼ぶ。キューを再入しても止まらない
	if observer != nil {
		observer(severity)
	}
	return n
}

func (q *Queue) push(message string, severity Severity) (Notification, Observer) {
	q.mu.Lock()
	defer q.mu.Unlock()

	now := q.now()
	id := now.UnixMilli()
	if id <= q.lastID {
		id = q.lastID + 1
	}
	q.lastID = id

	n := Notification{
		ID:        id,
		Message:   message,
		Severity:  severity,
		CreatedAt: now,
	}

	// クローズ後は表示先がないため保持しない
	if q.closed {
		return n, q.observer
	}

	e := &entry{n: n}
	e.timer = q.scheduler.AfterFunc(q.ttl, func() { q.expire(id) })
	q.entries[id] = e

	return n, q.observer
}

// Dismiss は通知を即座に削除する。
// 自動削除済みなど存在しない場合はNOTIFICATION_NOT_FOUNDを返す。
func (q *Queue) Dismiss(id int64) error {
	q.mu.Lock()
	defer q.mu.Unlock()

	e, ok := q.entries[id]
	if !ok {
		return model.NewNotificationNotFoundError(id)
	}
	e.timer.Stop()
	delete(q.entries, id)
	return nil
}

// List は表示中の通知を発行順に返す。
func (q *Queue) List() []Notification {
	q.mu.Lock()
	defer q.mu.Unlock()

	out := make([]Notification, 0, len(q.entries))
	for _, e := range q.entries {
		out = append(out, e.n)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// Len は表示中の通知数を返す。
func (q *Queue) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.entries)
}

// Close は全タイマーを停止して通知を破棄する。
// セッション破棄時に呼び出す。
func (q *Queue) Close() {
	q.mu.Lock()
	defer q.mu.Unlock()

	for id, e := range q.entries {
		e.timer.Stop()
		delete(q.entries, id)
	}
	q.closed = true
}

func (q *Queue) expire(id int64) {
	q.mu.Lock()
	defer q.mu.Unlock()
	delete(q.entries, id)
}

// compile-time interface check
var _ Notifier = (*Queue)(nil)
