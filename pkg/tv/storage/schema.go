package storage

import (
	"embed"
	"io/fs"
)

//go:embed migrations/*.sql
var embedMigrations embed.FS

// migrationsFS returns the embedded goose migrations rooted at the
// migrations directory.
func migrationsFS() (fs.FS, error) {
	return fs.Sub(embedMigrations, "migrations")
}

const (
	insertChannelSQL = `
		INSERT INTO channels (input_id, type, display_number, display_name, internal_provider_id, transient, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`

	insertProgramSQL = `
		INSERT INTO programs (channel_id, title, start_time_utc_millis, end_time_utc_millis, transient)
		VALUES (?, ?, ?, ?, ?)
	`

	channelExistsSQL = `SELECT 1 FROM channels WHERE id = ?`

	selectChannelsSQL = `
		SELECT id, input_id, type, display_number, display_name, internal_provider_id, transient, created_at
		FROM channels
		ORDER BY id
	`

	selectProgramsSQL = `
		SELECT id, channel_id, title, start_time_utc_millis, end_time_utc_millis, transient
		FROM programs
		ORDER BY id
	`

	countChannelsSQL = `SELECT COUNT(*) FROM channels`
	countProgramsSQL = `SELECT COUNT(*) FROM programs`

	deleteTransientChannelsSQL = `DELETE FROM channels WHERE transient = 1`
	deleteTransientProgramsSQL = `DELETE FROM programs WHERE transient = 1`
)
