// Package model はドメインモデルを定義する。
package model

import "time"

// User は店舗アカウント（ログインユーザー）を表す。
type User struct {
	ID        string
	Email     string
	StoreName string
	Address   string
	Phone     string
}

// UserAccount は認証に必要なパスワードを含むユーザーレコード。
// リポジトリ層の外には出さない。
type UserAccount struct {
	User
	Password string
}

// Session はユーザーのログインセッションを表す。
type Session struct {
	ID        string
	UserID    string
	ExpiresAt time.Time
	CreatedAt time.Time
}

// Credentials はログイン要求の認証情報。
type Credentials struct {
	Email    string
	Password string
}

// AuthResult は認証操作の結果。
// 認証失敗時はSuccess=falseとMessageを返し、errorは返さない。
type AuthResult struct {
	Success bool
	User    *User
	Message string
}

// UpdateResult は書き込み系操作の結果。
type UpdateResult struct {
	Success bool
	Message string
}
