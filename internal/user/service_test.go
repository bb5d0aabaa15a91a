package user

import (
	"context"
	"errors"
	"testing"

	"github.com/hitoshi/sustainabite/internal/model"
	"github.com/hitoshi/sustainabite/internal/security"
)

// --- モック ---

type mockProfileUpdater struct {
	updateProfileFn func(ctx context.Context, user model.User) (model.UpdateResult, error)
	calls           int
}

func (m *mockProfileUpdater) UpdateProfile(ctx context.Context, user model.User) (model.UpdateResult, error) {
	m.calls++
	if m.updateProfileFn != nil {
		return m.updateProfileFn(ctx, user)
	}
	return model.UpdateResult{Success: true}, nil
}

type mockSnapshotUpdater struct {
	updateSnapshotFn func(ctx context.Context, sessionID string, user model.User) error
	sessionID        string
	user             model.User
}

func (m *mockSnapshotUpdater) UpdateSnapshot(ctx context.Context, sessionID string, user model.User) error {
	m.sessionID = sessionID
	m.user = user
	if m.updateSnapshotFn != nil {
		return m.updateSnapshotFn(ctx, sessionID, user)
	}
	return nil
}

func validInput() ProfileInput {
	return ProfileInput{
		StoreName: "ร้านอาหารสุขภาพดี",
		Email:     "demo@sustainabite.com",
		Address:   "123 ถนนสุขุมวิท, กรุงเทพฯ",
		Phone:     "02-123-4567",
	}
}

// --- テスト ---

func TestUpdateProfile_Success(t *testing.T) {
	updater := &mockProfileUpdater{}
	snapshots := &mockSnapshotUpdater{}
	svc := NewService(updater, snapshots, security.NewTextSanitizer(0))

	u, err := svc.UpdateProfile(context.Background(), "s1", "user1", validInput())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if u.ID != "user1" || u.Phone != "02-123-4567" {
		t.Errorf("unexpected user: %+v", u)
	}
	if updater.calls != 1 {
		t.Errorf("UpdateProfile called %d times, want 1", updater.calls)
	}
	if snapshots.sessionID != "s1" || snapshots.user.StoreName != "ร้านอาหารสุขภาพดี" {
		t.Errorf("snapshot not updated: %+v", snapshots)
	}
}

// HTMLタグが除去されて保存されることを検証
func TestUpdateProfile_SanitizesFields(t *testing.T) {
	var saved model.User
	updater := &mockProfileUpdater{
		updateProfileFn: func(_ context.Context, user model.User) (model.UpdateResult, error) {
			saved = user
			return model.UpdateResult{Success: true}, nil
		},
	}
	svc := NewService(updater, &mockSnapshotUpdater{}, security.NewTextSanitizer(0))

	in := validInput()
	in.StoreName = `<b>ร้านใหม่</b><script>alert(1)</script>`
	in.Address = `<a href="javascript:alert(1)">ที่อยู่</a>`

	if _, err := svc.UpdateProfile(context.Background(), "s1", "user1", in); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if saved.StoreName != "ร้านใหม่" {
		t.Errorf("StoreName = %q", saved.StoreName)
	}
	if saved.Address != "ที่อยู่" {
		t.Errorf("Address = %q", saved.Address)
	}
}

func TestUpdateProfile_Validation(t *testing.T) {
	tests := []struct {
		name   string
		modify func(*ProfileInput)
		reason string
	}{
		{"店舗名が空", func(in *ProfileInput) { in.StoreName = "" }, reasonStoreNameRequired},
		{"店舗名がタグのみ", func(in *ProfileInput) { in.StoreName = "<p></p>" }, reasonStoreNameRequired},
		{"メールアドレスが空", func(in *ProfileInput) { in.Email = "" }, reasonInvalidEmail},
		{"メールアドレスが不正", func(in *ProfileInput) { in.Email = "not-an-email" }, reasonInvalidEmail},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			updater := &mockProfileUpdater{}
			svc := NewService(updater, &mockSnapshotUpdater{}, security.NewTextSanitizer(0))

			in := validInput()
			tt.modify(&in)
			_, err := svc.UpdateProfile(context.Background(), "s1", "user1", in)

			var apiErr *model.APIError
			if !errors.As(err, &apiErr) || apiErr.Code != model.ErrCodeInvalidRequest {
				t.Fatalf("expected INVALID_REQUEST, got %v", err)
			}
			if want := model.NewInvalidRequestError(tt.reason).Message; apiErr.Message != want {
				t.Errorf("Message = %q, want %q", apiErr.Message, want)
			}
			if updater.calls != 0 {
				t.Error("updater should not be called")
			}
		})
	}
}

// 使用中のメールアドレスへの変更ではスナップショットを書き換えないことを検証
func TestUpdateProfile_EmailInUse_KeepsSnapshot(t *testing.T) {
	updater := &mockProfileUpdater{
		updateProfileFn: func(_ context.Context, user model.User) (model.UpdateResult, error) {
			return model.UpdateResult{}, model.NewEmailInUseError(user.Email)
		},
	}
	snapshots := &mockSnapshotUpdater{}
	svc := NewService(updater, snapshots, security.NewTextSanitizer(0))

	in := validInput()
	in.Email = "taken@example.com"
	_, err := svc.UpdateProfile(context.Background(), "s1", "user1", in)

	var apiErr *model.APIError
	if !errors.As(err, &apiErr) || apiErr.Code != model.ErrCodeEmailInUse {
		t.Fatalf("expected EMAIL_IN_USE, got %v", err)
	}
	if snapshots.sessionID != "" {
		t.Errorf("snapshot should not be updated, got %+v", snapshots.user)
	}
}

func TestUpdateProfile_UpdaterError(t *testing.T) {
	updater := &mockProfileUpdater{
		updateProfileFn: func(context.Context, model.User) (model.UpdateResult, error) {
			return model.UpdateResult{}, model.NewUserNotFoundError()
		},
	}
	snapshots := &mockSnapshotUpdater{}
	svc := NewService(updater, snapshots, security.NewTextSanitizer(0))

	_, err := svc.UpdateProfile(context.Background(), "s1", "user1", validInput())

	var apiErr *model.APIError
	if !errors.As(err, &apiErr) || apiErr.Code != model.ErrCodeUserNotFound {
		t.Fatalf("expected wrapped USER_NOT_FOUND, got %v", err)
	}
	if snapshots.sessionID != "" {
		t.Error("snapshot should not be updated")
	}
}

func TestUpdateProfile_Rejected(t *testing.T) {
	updater := &mockProfileUpdater{
		updateProfileFn: func(context.Context, model.User) (model.UpdateResult, error) {
			return model.UpdateResult{Success: false, Message: "rejected"}, nil
		},
	}
	svc := NewService(updater, &mockSnapshotUpdater{}, security.NewTextSanitizer(0))

	if _, err := svc.UpdateProfile(context.Background(), "s1", "user1", validInput()); err == nil {
		t.Fatal("expected error")
	}
}

func TestUpdateProfile_SnapshotError(t *testing.T) {
	snapshots := &mockSnapshotUpdater{
		updateSnapshotFn: func(context.Context, string, model.User) error {
			return model.NewUnauthorizedError()
		},
	}
	svc := NewService(&mockProfileUpdater{}, snapshots, security.NewTextSanitizer(0))

	_, err := svc.UpdateProfile(context.Background(), "s1", "user1", validInput())

	var apiErr *model.APIError
	if !errors.As(err, &apiErr) || apiErr.Code != model.ErrCodeUnauthorized {
		t.Fatalf("expected wrapped UNAUTHORIZED, got %v", err)
	}
}
