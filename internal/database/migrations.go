package database

import (
	"fmt"

	"gorm.io/gorm"
)

// AddIndexes adds performance-critical indexes to the database
func AddIndexes(db *gorm.DB) error {
	indexes := []struct {
		table   string
		name    string
		columns string
	}{
		// Calendar reads pull three tables by owner and date
		{"assessments", "idx_assessments_user_due", "user_id, due_date"},
		{"personal_tasks", "idx_personal_tasks_user_due", "user_id, due_date"},
		{"interviews", "idx_interviews_user_scheduled", "user_id, scheduled_at"},

		// Grade aggregation loads assessments per course
		{"assessments", "idx_assessments_course_id", "course_id"},

		// Weekly schedule grouped by owner and day
		{"schedule_items", "idx_schedule_items_user_day", "user_id, day"},

		// Focus stats scan sessions by owner and start time
		{"focus_sessions", "idx_focus_sessions_user_started", "user_id, started_at"},

		// Squad membership lookups
		{"squad_members", "idx_squad_members_squad_id", "squad_id"},
		{"squad_members", "idx_squad_members_user_id", "user_id"},
		{"squads", "idx_squads_invite_code", "invite_code"},
	}

	for _, idx := range indexes {
		var count int64
		err := db.Raw(`
			SELECT COUNT(*)
			FROM pg_indexes
			WHERE tablename = ? AND indexname = ?
		`, idx.table, idx.name).Count(&count).Error

		if err != nil {
			return fmt.Errorf("failed to check index %s: %w", idx.name, err)
		}

		if count > 0 {
			continue
		}

		sql := fmt.Sprintf("CREATE INDEX %s ON %s (%s)", idx.name, idx.table, idx.columns)
		if err := db.Exec(sql).Error; err != nil {
			return fmt.Errorf("failed to create index %s: %w", idx.name, err)
		}
	}

	return nil
}
