// Package auth はログイン認証とセッション管理を提供する。
package auth

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/hitoshi/sustainabite/internal/model"
)

// Authenticator はメールアドレスとパスワードを照合するインターフェース。
// dataservice.MockServiceが実装する。
type Authenticator interface {
	Authenticate(ctx context.Context, creds model.Credentials) (model.AuthResult, error)
}

// ServiceConfig は認証サービスの設定。
type ServiceConfig struct {
	SessionMaxAge int // セッション有効期間（秒）
}

// Service は認証に関するビジネスロジックを提供する。
type Service struct {
	authenticator Authenticator
	storage       Storage
	config        ServiceConfig
	now           func() time.Time
}

// NewService はServiceを生成する。
func NewService(authenticator Authenticator, storage Storage, config ServiceConfig) *Service {
	return &Service{
		authenticator: authenticator,
		storage:       storage,
		config:        config,
		now:           time.Now,
	}
}

// Login は認証情報を照合し、セッションを発行する。
// メールアドレスまたはパスワードが空の場合は照合を行わずCREDENTIALS_REQUIREDを返す。
// 照合に失敗した場合はINVALID_CREDENTIALSを返す。
func (s *Service) Login(ctx context.Context, creds model.Credentials) (*model.Session, *model.User, error) {
	creds.Email = strings.TrimSpace(creds.Email)
	if creds.Email == "" || creds.Password == "" {
		return nil, nil, model.NewCredentialsRequiredError()
	}

	result, err := s.authenticator.Authenticate(ctx, creds)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to authenticate: %w", err)
	}
	if !result.Success || result.User == nil {
		slog.Info("login rejected", slog.String("email", creds.Email))
		return nil, nil, model.NewInvalidCredentialsError()
	}

	session, err := s.createSession(ctx, *result.User)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create session: %w", err)
	}

	slog.Info("user logged in",
		slog.String("user_id", result.User.ID),
		slog.String("session_id", session.ID),
	)
	return session, result.User, nil
}

// Logout はセッションを破棄する。
func (s *Service) Logout(ctx context.Context, sessionID string) error {
	if sessionID == "" {
		return fmt.Errorf("session ID is required")
	}

	if err := s.storage.Delete(ctx, sessionID); err != nil {
		return fmt.Errorf("failed to delete session: %w", err)
	}

	slog.Info("user logged out", slog.String("session_id", sessionID))
	return nil
}

// FindByID はセッションを返す。存在しない・期限切れの場合はnilを返す。
func (s *Service) FindByID(ctx context.Context, sessionID string) (*model.Session, error) {
	rec, err := s.storage.Load(ctx, sessionID)
	if err != nil {
		return nil, fmt.Errorf("failed to load session: %w", err)
	}
	if rec == nil {
		return nil, nil
	}
	return &rec.Session, nil
}

// GetCurrentUser はセッションに保存されたユーザー情報を返す。
// セッションがない場合はUNAUTHORIZEDを返す。
func (s *Service) GetCurrentUser(ctx context.Context, sessionID string) (*model.User, error) {
	if sessionID == "" {
		return nil, model.NewUnauthorizedError()
	}

	rec, err := s.storage.Load(ctx, sessionID)
	if err != nil {
		return nil, fmt.Errorf("failed to load session: %w", err)
	}
	if rec == nil {
		return nil, model.NewUnauthorizedError()
	}
	return &rec.User, nil
}

// UpdateSnapshot はセッションに保存されたユーザー情報を置き換える。
// プロフィール更新後に呼び出す。残りの有効期間は維持する。
func (s *Service) UpdateSnapshot(ctx context.Context, sessionID string, user model.User) error {
	rec, err := s.storage.Load(ctx, sessionID)
	if err != nil {
		return fmt.Errorf("failed to load session: %w", err)
	}
	if rec == nil {
		return model.NewUnauthorizedError()
	}

	ttl := rec.Session.ExpiresAt.Sub(s.now())
	if ttl <= 0 {
		return model.NewUnauthorizedError()
	}

	rec.User = user
	if err := s.storage.Save(ctx, rec, ttl); err != nil {
		return fmt.Errorf("failed to save session: %w", err)
	}
	return nil
}

// createSession はセッションを作成し永続化する。
func (s *Service) createSession(ctx context.Context, user model.User) (*model.Session, error) {
	now := s.now()
	maxAge := time.Duration(s.config.SessionMaxAge) * time.Second

	session := model.Session{
		ID:        uuid.New().String(),
		UserID:    user.ID,
		ExpiresAt: now.Add(maxAge),
		CreatedAt: now,
	}

	if err := s.storage.Save(ctx, &Record{Session: session, User: user}, maxAge); err != nil {
		return nil, fmt.Errorf("failed to save session: %w", err)
	}
	return &session, nil
}
