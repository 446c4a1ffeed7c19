package migrations

import (
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	return db
}

func TestRunAppliesAllMigrations(t *testing.T) {
	db := openTestDB(t)
	require.NoError(t, Run(db))

	for _, table := range []string{"users", "posts", "tags", "post_tags", "schema_migrations"} {
		require.True(t, db.Migrator().HasTable(table), "missing table %s", table)
	}

	var count int64
	require.NoError(t, db.Table("schema_migrations").Count(&count).Error)
	require.Equal(t, int64(len(All())), count)
}

func TestRunIsIdempotent(t *testing.T) {
	db := openTestDB(t)
	require.NoError(t, Run(db))
	require.NoError(t, Run(db))

	var count int64
	require.NoError(t, db.Table("schema_migrations").Count(&count).Error)
	require.Equal(t, int64(len(All())), count)
}
