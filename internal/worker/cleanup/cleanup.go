// Package cleanup は放置されたセッション状態の定期削除ジョブを提供する。
// 一定時間アクセスのないワークスペース（カート・通知・在庫編集）と、
// プロセス内に保存した期限切れのセッションを削除する。
package cleanup

import (
	"context"
	"fmt"
	"log/slog"
	"time"
)

// DefaultInterval はStartに0以下の周期が渡された場合の実行間隔。
const DefaultInterval = 5 * time.Minute

// WorkspaceSweeper はワークスペースの一括削除インターフェース。
// workspace.Registryが実装する。
type WorkspaceSweeper interface {
	Sweep(idle time.Duration) int
	Len() int
}

// ExpiredSessionDeleter は期限切れセッションの削除インターフェース。
// auth.MemoryStorageが実装する。Redisはキーの有効期限に任せるため不要。
type ExpiredSessionDeleter interface {
	DeleteExpired(ctx context.Context) (int, error)
}

// Recorder は削除結果の記録先。metrics.Collectorが実装する。
type Recorder interface {
	RecordWorkspacesSwept(count int)
	SetActiveWorkspaces(count int)
}

// CleanupJob は放置されたセッション状態の削除ジョブ。
// 冪等であり、削除対象がない場合もエラーにならない。
type CleanupJob struct {
	workspaces  WorkspaceSweeper
	sessions    ExpiredSessionDeleter
	recorder    Recorder
	logger      *slog.Logger
	IdleTimeout time.Duration // 最終アクセスからの猶予（デフォルト: 24時間）
}

// NewCleanupJob は新しいCleanupJobを生成する。
// sessionsとrecorderはnilでもよい。
func NewCleanupJob(workspaces WorkspaceSweeper, sessions ExpiredSessionDeleter, recorder Recorder, logger *slog.Logger) *CleanupJob {
	return &CleanupJob{
		workspaces:  workspaces,
		sessions:    sessions,
		recorder:    recorder,
		logger:      logger,
		IdleTimeout: 24 * time.Hour,
	}
}

// Run は1回分の削除を行う。
func (j *CleanupJob) Run(ctx context.Context) error {
	start := time.Now()

	swept := j.workspaces.Sweep(j.IdleTimeout)
	active := j.workspaces.Len()

	if j.recorder != nil {
		j.recorder.RecordWorkspacesSwept(swept)
		j.recorder.SetActiveWorkspaces(active)
	}

	expired := 0
	if j.sessions != nil {
		n, err := j.sessions.DeleteExpired(ctx)
		if err != nil {
			j.logger.Error("期限切れセッションの削除に失敗しました",
				slog.String("error", err.Error()),
			)
			return fmt.Errorf("期限切れセッションの削除に失敗: %w", err)
		}
		expired = n
	}

	j.logger.Info("クリーンアップジョブが完了しました",
		slog.Int("swept_workspaces", swept),
		slog.Int("active_workspaces", active),
		slog.Int("expired_sessions", expired),
		slog.Duration("idle_timeout", j.IdleTimeout),
		slog.Float64("duration_ms", float64(time.Since(start).Milliseconds())),
	)
	return nil
}

// Start は起動直後に1回実行し、以降intervalごとに実行する。
// intervalが0以下の場合はDefaultIntervalを使う。
// ctxがキャンセルされるまでブロックする。
func (j *CleanupJob) Start(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		interval = DefaultInterval
	}
	if err := j.Run(ctx); err != nil {
		j.logger.Error("cleanup job failed", slog.String("error", err.Error()))
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := j.Run(ctx); err != nil {
				j.logger.Error("cleanup job failed", slog.String("error", err.Error()))
			}
		}
	}
}
