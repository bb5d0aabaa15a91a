package cleanup

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"strings"
	"sync"
	"testing"
	"time"
)

// --- モック定義 ---

type mockSweeper struct {
	mu        sync.Mutex
	swept     int
	remaining int
	idleArgs  []time.Duration
}

func (m *mockSweeper) Sweep(idle time.Duration) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.idleArgs = append(m.idleArgs, idle)
	return m.swept
}

func (m *mockSweeper) Len() int {
	return m.remaining
}

func (m *mockSweeper) calls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.idleArgs)
}

type mockSessionDeleter struct {
	deleted int
	err     error
	called  bool
}

func (m *mockSessionDeleter) DeleteExpired(_ context.Context) (int, error) {
	m.called = true
	return m.deleted, m.err
}

type mockRecorder struct {
	swept  []int
	active []int
}

func (m *mockRecorder) RecordWorkspacesSwept(count int) { m.swept = append(m.swept, count) }
func (m *mockRecorder) SetActiveWorkspaces(count int)   { m.active = append(m.active, count) }

func newTestLogger(buf *bytes.Buffer) *slog.Logger {
	return slog.New(slog.NewJSONHandler(buf, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
}

// findLogField はJSONログから指定フィールドを持つ最初のエントリの値を返す。
func findLogField(buf *bytes.Buffer, field string) (interface{}, bool) {
	for _, line := range strings.Split(strings.TrimSpace(buf.String()), "\n") {
		var entry map[string]interface{}
		if err := json.Unmarshal([]byte(line), &entry); err != nil {
			continue
		}
		if v, ok := entry[field]; ok {
			return v, true
		}
	}
	return nil, false
}

// --- テスト ---

func TestNewCleanupJob_DefaultIdleTimeout(t *testing.T) {
	var buf bytes.Buffer
	job := NewCleanupJob(&mockSweeper{}, nil, nil, newTestLogger(&buf))

	if job == nil {
		t.Fatal("NewCleanupJob は nil を返してはならない")
	}
	if job.IdleTimeout != 24*time.Hour {
		t.Errorf("IdleTimeout = %v, want 24h", job.IdleTimeout)
	}
}

func TestCleanupJob_Run_SweepsWithIdleTimeout(t *testing.T) {
	var buf bytes.Buffer
	sweeper := &mockSweeper{swept: 2, remaining: 5}
	job := NewCleanupJob(sweeper, nil, nil, newTestLogger(&buf))
	job.IdleTimeout = 30 * time.Minute

	if err := job.Run(context.Background()); err != nil {
		t.Fatalf("Run() がエラーを返した: %v", err)
	}

	if len(sweeper.idleArgs) != 1 || sweeper.idleArgs[0] != 30*time.Minute {
		t.Errorf("Sweep の引数 = %v, want [30m]", sweeper.idleArgs)
	}
}

func TestCleanupJob_Run_RecordsMetrics(t *testing.T) {
	var buf bytes.Buffer
	rec := &mockRecorder{}
	job := NewCleanupJob(&mockSweeper{swept: 3, remaining: 7}, nil, rec, newTestLogger(&buf))

	_ = job.Run(context.Background())

	if len(rec.swept) != 1 || rec.swept[0] != 3 {
		t.Errorf("swept = %v, want [3]", rec.swept)
	}
	if len(rec.active) != 1 || rec.active[0] != 7 {
		t.Errorf("active = %v, want [7]", rec.active)
	}
}

func TestCleanupJob_Run_DeletesExpiredSessions(t *testing.T) {
	var buf bytes.Buffer
	sessions := &mockSessionDeleter{deleted: 4}
	job := NewCleanupJob(&mockSweeper{}, sessions, nil, newTestLogger(&buf))

	if err := job.Run(context.Background()); err != nil {
		t.Fatalf("Run() がエラーを返した: %v", err)
	}
	if !sessions.called {
		t.Fatal("DeleteExpired が呼び出されなかった")
	}

	v, ok := findLogField(&buf, "expired_sessions")
	if !ok || v != float64(4) {
		t.Errorf("ログに expired_sessions=4 が記録されていない。ログ出力: %s", buf.String())
	}
}

func TestCleanupJob_Run_LogsSweptCount(t *testing.T) {
	var buf bytes.Buffer
	job := NewCleanupJob(&mockSweeper{swept: 42}, nil, nil, newTestLogger(&buf))

	_ = job.Run(context.Background())

	v, ok := findLogField(&buf, "swept_workspaces")
	if !ok || v != float64(42) {
		t.Errorf("ログに swept_workspaces=42 が記録されていない。ログ出力: %s", buf.String())
	}
	if _, ok := findLogField(&buf, "duration_ms"); !ok {
		t.Errorf("ログに duration_ms が記録されていない。ログ出力: %s", buf.String())
	}
}

func TestCleanupJob_Run_ReturnsErrorOnSessionFailure(t *testing.T) {
	var buf bytes.Buffer
	sessions := &mockSessionDeleter{err: errors.New("storage unavailable")}
	job := NewCleanupJob(&mockSweeper{}, sessions, nil, newTestLogger(&buf))

	err := job.Run(context.Background())
	if err == nil {
		t.Fatal("エラー時に Run() は nil でないエラーを返すべき")
	}
	if !strings.Contains(err.Error(), "storage unavailable") {
		t.Errorf("エラーメッセージが期待と異なる: %v", err)
	}
	if !strings.Contains(buf.String(), "ERROR") {
		t.Errorf("エラー時にERRORレベルのログが記録されていない。ログ出力: %s", buf.String())
	}
}

func TestCleanupJob_Run_Idempotent_ZeroSwept(t *testing.T) {
	var buf bytes.Buffer
	job := NewCleanupJob(&mockSweeper{}, &mockSessionDeleter{}, nil, newTestLogger(&buf))

	for i := 0; i < 2; i++ {
		if err := job.Run(context.Background()); err != nil {
			t.Fatalf("%d回目の Run() がエラーを返した: %v", i+1, err)
		}
	}
}

// Start が起動直後に実行し、キャンセルで終了することを検証
func TestCleanupJob_Start_RunsImmediatelyAndStops(t *testing.T) {
	var buf bytes.Buffer
	sweeper := &mockSweeper{}
	job := NewCleanupJob(sweeper, nil, nil, slog.New(slog.NewJSONHandler(&syncBuffer{buf: &buf}, nil)))

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		job.Start(ctx, 10*time.Millisecond)
		close(done)
	}()

	deadline := time.After(2 * time.Second)
	for sweeper.calls() < 2 {
		select {
		case <-deadline:
			t.Fatalf("Sweep が定期実行されなかった: %d回", sweeper.calls())
		case <-time.After(5 * time.Millisecond):
		}
	}

	cancel()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("Start がキャンセル後に終了しなかった")
	}
}

// 0以下の周期でもStartがpanicせず、キャンセルで終了することを検証
func TestCleanupJob_Start_NonPositiveInterval(t *testing.T) {
	for _, interval := range []time.Duration{0, -time.Second} {
		t.Run(interval.String(), func(t *testing.T) {
			var buf bytes.Buffer
			sweeper := &mockSweeper{}
			job := NewCleanupJob(sweeper, nil, nil, slog.New(slog.NewJSONHandler(&syncBuffer{buf: &buf}, nil)))

			ctx, cancel := context.WithCancel(context.Background())
			done := make(chan interface{})
			go func() {
				defer func() { done <- recover() }()
				job.Start(ctx, interval)
			}()

			deadline := time.After(2 * time.Second)
			for sweeper.calls() < 1 {
				select {
				case <-deadline:
					t.Fatal("Sweep が起動直後に実行されなかった")
				case <-time.After(5 * time.Millisecond):
				}
			}

			cancel()
			select {
			case r := <-done:
				if r != nil {
					t.Fatalf("Start panicked: %v", r)
				}
			case <-time.After(2 * time.Second):
				t.Fatal("Start がキャンセル後に終了しなかった")
			}
		})
	}
}

// syncBuffer は並行書き込みに対応したログ出力先。
type syncBuffer struct {
	mu  sync.Mutex
	buf *bytes.Buffer
}

func (s *syncBuffer) Write(p []byte) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.buf.Write(p)
}
