// Package user はユーザー（店舗）情報の管理ロジックを提供する。
package user

import (
	"context"
	"fmt"
	"log/slog"
	"net/mail"

	"github.com/hitoshi/sustainabite/internal/model"
	"github.com/hitoshi/sustainabite/internal/security"
)

// 検証エラーの理由。通知としてそのまま表示される
const (
	reasonStoreNameRequired = "กรุณาระบุชื่อร้าน"
	reasonInvalidEmail      = "รูปแบบอีเมลไม่ถูกต้อง"
)

// ProfileUpdater は店舗情報の保存先のインターフェース。
type ProfileUpdater interface {
	UpdateProfile(ctx context.Context, user model.User) (model.UpdateResult, error)
}

// SnapshotUpdater はセッションに保存されたユーザー情報の更新インターフェース。
type SnapshotUpdater interface {
	UpdateSnapshot(ctx context.Context, sessionID string, user model.User) error
}

// ProfileInput はプロフィール更新の入力。
type ProfileInput struct {
	StoreName string
	Email     string
	Address   string
	Phone     string
}

// Service はユーザー管理のサービス層。
type Service struct {
	updater   ProfileUpdater
	snapshots SnapshotUpdater
	sanitizer security.TextSanitizer
}

// NewService はServiceの新しいインスタンスを生成する。
func NewService(updater ProfileUpdater, snapshots SnapshotUpdater, sanitizer security.TextSanitizer) *Service {
	return &Service{
		updater:   updater,
		snapshots: snapshots,
		sanitizer: sanitizer,
	}
}

// UpdateProfile は店舗情報を更新し、セッションのスナップショットにも反映する。
// 各フィールドはHTMLを除去してから保存する。
// 店舗名とメールアドレスは必須。
func (s *Service) UpdateProfile(ctx context.Context, sessionID, userID string, in ProfileInput) (*model.User, error) {
	u := model.User{
		ID:        userID,
		StoreName: s.sanitizer.Sanitize(in.StoreName),
		Email:     s.sanitizer.Sanitize(in.Email),
		Address:   s.sanitizer.Sanitize(in.Address),
		Phone:     s.sanitizer.Sanitize(in.Phone),
	}

	if u.StoreName == "" {
		return nil, model.NewInvalidRequestError(reasonStoreNameRequired)
	}
	if _, err := mail.ParseAddress(u.Email); err != nil {
		return nil, model.NewInvalidRequestError(reasonInvalidEmail)
	}

	result, err := s.updater.UpdateProfile(ctx, u)
	if err != nil {
		return nil, fmt.Errorf("ユーザー情報の更新に失敗しました: %w", err)
	}
	if !result.Success {
		return nil, fmt.Errorf("ユーザー情報の更新が拒否されました: %s", result.Message)
	}

	if err := s.snapshots.UpdateSnapshot(ctx, sessionID, u); err != nil {
		return nil, fmt.Errorf("セッション情報の更新に失敗しました: %w", err)
	}

	slog.Info("プロフィールを更新しました",
		slog.String("user_id", userID),
	)
	return &u, nil
}
