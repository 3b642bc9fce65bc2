package Audit

import (
	"path/filepath"
	"testing"

	"AutoWash/Models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func testDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(filepath.Join(t.TempDir(), "test.db")), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&Models.AdminLog{}))
	return db
}

func TestRecorder_WritesQueuedEvents(t *testing.T) {
	db := testDB(t)
	recorder := NewRecorder(db)

	recorder.Record(1, "Login", "127.0.0.1", "Admin login")
	recorder.Record(1, "Update Settings", "127.0.0.1", "Updated general settings")
	recorder.Close()

	var logs []Models.AdminLog
	require.NoError(t, db.Order("id ASC").Find(&logs).Error)
	require.Len(t, logs, 2)
	assert.Equal(t, "Login", logs[0].Action)
	assert.Equal(t, "127.0.0.1", logs[0].IPAddress)
	assert.Equal(t, "Updated general settings", logs[1].Details)
	assert.False(t, logs[0].Timestamp.IsZero())
}

func TestRecorder_RecordNeverBlocksCaller(t *testing.T) {
	db := testDB(t)
	recorder := NewRecorder(db)
	defer recorder.Close()

	// Far more events than the buffer holds; extras are dropped, not queued
	for i := 0; i < 2000; i++ {
		recorder.Record(1, "Burst", "127.0.0.1", "high volume")
	}
}
