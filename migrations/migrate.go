// Package migrations applies versioned schema changes before the server
// starts accepting connections. Each migration runs once, inside its own
// transaction, and is recorded in the schema_migrations table.
package migrations

import (
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/EricaRose1/Blogly/models"
)

type schemaMigration struct {
	Version   string `gorm:"primaryKey;size:64"`
	AppliedAt time.Time
}

func (schemaMigration) TableName() string {
	return "schema_migrations"
}

// Migration is a single versioned schema step. Versions must be unique and
// are applied in slice order.
type Migration struct {
	Version string
	Name    string
	Run     func(tx *gorm.DB) error
}

// All lists every known migration, oldest first.
func All() []Migration {
	return []Migration{
		{
			Version: "202403010001",
			Name:    "create users",
			Run: func(tx *gorm.DB) error {
				return tx.Migrator().AutoMigrate(&models.User{})
			},
		},
		{
			Version: "202403010002",
			Name:    "create posts",
			Run: func(tx *gorm.DB) error {
				return tx.Migrator().AutoMigrate(&models.Post{})
			},
		},
		{
			Version: "202403020001",
			Name:    "create tags and post_tags",
			Run: func(tx *gorm.DB) error {
				return tx.Migrator().AutoMigrate(&models.Tag{}, &models.PostTag{})
			},
		},
	}
}

// Run applies all pending migrations. It is safe to call on every boot.
func Run(db *gorm.DB) error {
	if err := models.RegisterJoinTables(db); err != nil {
		return fmt.Errorf("register join tables: %w", err)
	}
	if err := db.AutoMigrate(&schemaMigration{}); err != nil {
		return fmt.Errorf("create schema_migrations: %w", err)
	}

	applied := map[string]bool{}
	var rows []schemaMigration
	if err := db.Find(&rows).Error; err != nil {
		return fmt.Errorf("load schema_migrations: %w", err)
	}
	for _, row := range rows {
		applied[row.Version] = true
	}

	for _, m := range All() {
		if applied[m.Version] {
			continue
		}
		mig := m
		err := db.Transaction(func(tx *gorm.DB) error {
			if err := mig.Run(tx); err != nil {
				return err
			}
			return tx.Create(&schemaMigration{Version: mig.Version, AppliedAt: time.Now()}).Error
		})
		if err != nil {
			return fmt.Errorf("migration %s (%s): %w", m.Version, m.Name, err)
		}
	}
	return nil
}
