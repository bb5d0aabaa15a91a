// Package database はPostgreSQLデータバックエンドの接続とスキーマ管理を提供する。
// スキーマとデモデータはマイグレーションとしてバイナリに埋め込む。
package database

import (
	"embed"
	"errors"
	"fmt"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	"github.com/golang-migrate/migrate/v4/source/iofs"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

// NewMigrator は埋め込みマイグレーションを読み込んだmigrateインスタンスを生成する。
func NewMigrator(databaseURL string) (*migrate.Migrate, error) {
	source, err := iofs.New(migrationsFS, "migrations")
	if err != nil {
		return nil, fmt.Errorf("failed to load embedded migrations: %w", err)
	}

	m, err := migrate.NewWithSourceInstance("iofs", source, databaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to create migrator: %w", err)
	}
	return m, nil
}

// RunMigrations は未適用のマイグレーションをすべて適用し、適用後のバージョンを返す。
// すでに最新の場合もエラーにならない。
func RunMigrations(databaseURL string) (uint, error) {
	m, err := NewMigrator(databaseURL)
	if err != nil {
		return 0, err
	}
	defer m.Close()

	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return 0, fmt.Errorf("failed to run migrations: %w", err)
	}

	version, dirty, err := m.Version()
	if err != nil {
		return 0, fmt.Errorf("failed to read migration version: %w", err)
	}
	if dirty {
		return version, fmt.Errorf("migration %d is dirty", version)
	}
	return version, nil
}
