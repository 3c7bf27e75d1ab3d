package controllers

import (
	"strings"
	"testing"

	"gorm.io/gorm"
	"gorm.io/gorm/utils/tests"
)

// Cancelling an enrollment on a soft-deleted class must still give the
// slot back, otherwise the counter is stale after a restore.
func TestReleaseClassSlotReachesSoftDeletedClasses(t *testing.T) {
	db, err := gorm.Open(tests.DummyDialector{}, &gorm.Config{DryRun: true})
	if err != nil {
		t.Fatalf("failed to open dry-run session: %v", err)
	}

	tx := releaseClassSlot(db, 42)
	if tx.Error != nil {
		t.Fatalf("unexpected error: %v", tx.Error)
	}

	sql := tx.Statement.SQL.String()
	if !strings.Contains(sql, "GREATEST(current_members - 1, 0)") {
		t.Fatalf("expected floored decrement, got: %s", sql)
	}
	if strings.Contains(sql, "deleted_at") {
		t.Fatalf("decrement must not filter on deleted_at: %s", sql)
	}
}
