package note_test

import (
	"context"
	"testing"

	"quill/internal/auth"
	"quill/internal/db"
	"quill/internal/note"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	gdb, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	// a single conn keeps every session on the same in-memory database
	sqlDB, err := gdb.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, db.AutoMigrateAndIndexes(gdb))
	return gdb
}

func newService(t *testing.T) (*note.Service, *gorm.DB) {
	t.Helper()
	gdb := newTestDB(t)
	return &note.Service{DB: gdb}, gdb
}

func createUser(t *testing.T, gdb *gorm.DB, username string) auth.User {
	t.Helper()
	u := auth.User{
		Username:     username,
		Email:        username + "@example.com",
		PasswordHash: "x",
	}
	require.NoError(t, gdb.Create(&u).Error)
	return u
}

func actorCtx(u auth.User) context.Context {
	return note.WithActor(context.Background(), note.Actor{ID: u.ID, Username: u.Username})
}

func countEvents(t *testing.T, gdb *gorm.DB, action string) int64 {
	t.Helper()
	var n int64
	require.NoError(t, gdb.Model(&note.NoteEvent{}).Where("action = ?", action).Count(&n).Error)
	return n
}
