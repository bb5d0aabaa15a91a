package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/lib/pq"

	"github.com/hitoshi/sustainabite/internal/model"
)

// uniqueViolation はPostgreSQLの一意制約違反のエラーコード。
const uniqueViolation = "23505"

// PostgresUserRepo はPostgreSQLを使用したユーザーリポジトリ。
type PostgresUserRepo struct {
	db *sql.DB
}

// NewPostgresUserRepo はPostgresUserRepoを生成する。
func NewPostgresUserRepo(db *sql.DB) *PostgresUserRepo {
	return &PostgresUserRepo{db: db}
}

// FindByEmail はメールアドレスでアカウントを検索する。見つからない場合はnilを返す。
func (r *PostgresUserRepo) FindByEmail(ctx context.Context, email string) (*model.UserAccount, error) {
	acc := &model.UserAccount{}
	err := r.db.QueryRowContext(ctx,
		`SELECT id, email, password, store_name, address, phone
		 FROM users WHERE lower(email) = lower($1)`,
		email,
	).Scan(&acc.ID, &acc.Email, &acc.Password, &acc.StoreName, &acc.Address, &acc.Phone)

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find user by email: %w", err)
	}

	return acc, nil
}

// FindByID は指定IDのユーザーを取得する。見つからない場合はnilを返す。
func (r *PostgresUserRepo) FindByID(ctx context.Context, id string) (*model.User, error) {
	user := &model.User{}
	err := r.db.QueryRowContext(ctx,
		`SELECT id, email, store_name, address, phone FROM users WHERE id = $1`,
		id,
	).Scan(&user.ID, &user.Email, &user.StoreName, &user.Address, &user.Phone)

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find user by ID: %w", err)
	}

	return user, nil
}

// UpdateProfile は店舗名・メールアドレス・住所・電話番号を更新する。
// メールアドレスの重複は大文字小文字を区別せずに判定し、EMAIL_IN_USEを返す。
func (r *PostgresUserRepo) UpdateProfile(ctx context.Context, user *model.User) error {
	var taken bool
	err := r.db.QueryRowContext(ctx,
		`SELECT EXISTS (SELECT 1 FROM users WHERE lower(email) = lower($2) AND id <> $1)`,
		user.ID, user.Email,
	).Scan(&taken)
	if err != nil {
		return fmt.Errorf("failed to check email: %w", err)
	}
	if taken {
		return model.NewEmailInUseError(user.Email)
	}

	result, err := r.db.ExecContext(ctx,
		`UPDATE users SET store_name = $2, email = $3, address = $4, phone = $5, updated_at = now()
		 WHERE id = $1`,
		user.ID, user.StoreName, user.Email, user.Address, user.Phone,
	)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == uniqueViolation {
			return model.NewEmailInUseError(user.Email)
		}
		return fmt.Errorf("failed to update user profile: %w", err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return model.NewUserNotFoundError()
	}
	return nil
}

// compile-time interface check
var _ UserRepository = (*PostgresUserRepo)(nil)
