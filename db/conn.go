// Package db contains everything related to opening the database
package db

import (
	"flowmind/core-api/internal/model"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// New opens the database behind url and automigrates the schema.
// A postgres:// DSN selects the postgres driver, anything else is
// treated as a path to an SQLite file.
func New(url string) (*gorm.DB, error) {
	var dial gorm.Dialector

	if strings.HasPrefix(url, "postgres://") || strings.HasPrefix(url, "postgresql://") {
		dial = postgres.Open(url)
	} else {
		path := strings.TrimPrefix(url, "sqlite://")

		if dir := filepath.Dir(path); dir != "." && dir != "" {
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return nil, fmt.Errorf("failed to create database directory, %w", err)
			}
		}

		dial = sqlite.Open(path)
	}

	db, err := gorm.Open(dial, &gorm.Config{TranslateError: true})
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database, %w", err)
	}

	err = db.AutoMigrate(model.User{}, model.Workflow{})
	if err != nil {
		return nil, fmt.Errorf("failed to automigrate tables, %w", err)
	}

	return db, nil
}
