package settings

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3"
	log "github.com/sirupsen/logrus"
)

// SqliteStore keeps settings in a local file for single-user installs.
type SqliteStore struct {
	db *sql.DB
}

func NewSqliteStore(name string) (*SqliteStore, error) {
	log.Infof("Opening settings database %s", name)
	db, err := sql.Open("sqlite3", name)
	if err != nil {
		return nil, fmt.Errorf("could not open database: %w", err)
	}

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("could not access database: %w", err)
	}

	return &SqliteStore{db: db}, nil
}

func (s *SqliteStore) Up(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, createSettingTable)
	if err != nil {
		return fmt.Errorf("could not create table setting: %w", err)
	}
	return nil
}

func (s *SqliteStore) Close() error {
	return s.db.Close()
}

func (s *SqliteStore) Get(ctx context.Context, key string) (string, error) {
	var value string
	err := s.db.QueryRowContext(ctx, getSetting, key).Scan(&value)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", ErrSettingNotFound
		}
		log.Errorf("could not read setting %s: %v", key, err)
		return "", fmt.Errorf("could not read setting %s: %w", key, err)
	}
	return value, nil
}

func (s *SqliteStore) Set(ctx context.Context, key string, value string) error {
	_, err := s.db.ExecContext(ctx, upsertSetting, key, value, time.Now().UTC().Format(time.RFC3339))
	if err != nil {
		log.Errorf("could not store setting %s: %v", key, err)
		return fmt.Errorf("could not store setting %s: %w", key, err)
	}
	return nil
}

func (s *SqliteStore) Delete(ctx context.Context, key string) error {
	_, err := s.db.ExecContext(ctx, deleteSetting, key)
	if err != nil {
		log.Errorf("could not delete setting %s: %v", key, err)
		return fmt.Errorf("could not delete setting %s: %w", key, err)
	}
	return nil
}
