package settings

const (
	createSettingTable = `
CREATE TABLE IF NOT EXISTS setting (
  key TEXT PRIMARY KEY,
  value TEXT NOT NULL,
  updated_at TEXT NOT NULL
  )`

	getSetting = `
SELECT value FROM setting WHERE key = ?`

	upsertSetting = `
INSERT INTO setting (key, value, updated_at) VALUES (?, ?, ?)
ON CONFLICT (key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at`

	deleteSetting = `
DELETE FROM setting WHERE key = ?`
)
