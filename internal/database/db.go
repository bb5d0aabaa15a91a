package database

import (
	"database/sql"
	"fmt"
	"time"

	_ "github.com/lib/pq"
)

// PoolConfig はコネクションプールの設定。
type PoolConfig struct {
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
}

// DefaultPoolConfig はデータサービス1プロセス分のプール設定を返す。
func DefaultPoolConfig() PoolConfig {
	return PoolConfig{
		MaxOpenConns:    10,
		MaxIdleConns:    5,
		ConnMaxLifetime: 30 * time.Minute,
	}
}

// Open はPostgreSQL接続プールを開く。
// sql.Openは接続を試行しないため、到達確認は呼び出し側でPingContextを使う。
func Open(databaseURL string) (*sql.DB, error) {
	return OpenWithPool(databaseURL, DefaultPoolConfig())
}

// OpenWithPool はプール設定を指定してPostgreSQL接続プールを開く。
// 0以下の値は設定しない（database/sqlの既定値のまま）。
func OpenWithPool(databaseURL string, pool PoolConfig) (*sql.DB, error) {
	db, err := sql.Open("postgres", databaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if pool.MaxOpenConns > 0 {
		db.SetMaxOpenConns(pool.MaxOpenConns)
	}
	if pool.MaxIdleConns > 0 {
		db.SetMaxIdleConns(pool.MaxIdleConns)
	}
	if pool.ConnMaxLifetime > 0 {
		db.SetConnMaxLifetime(pool.ConnMaxLifetime)
	}
	return db, nil
}
