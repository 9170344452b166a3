package replica

import "strings"

const (
	// StatsTable is the table the sync extension maintains with the last
	// received sequence per subject.
	StatsTable = "ha_stats"

	// SyncTable is the temp virtual table created by the sync extension.
	SyncTable = "temp.ha"
)

// statusQuery reads the most recently updated sequence.
const statusQuery = `SELECT received_seq FROM ` + StatsTable + ` ORDER BY updated_at DESC LIMIT 1`

// StatsTableDDL returns the DDL of the ha_stats table. The native extension
// creates it itself; TableExtension uses it when the table is maintained by
// an external sync agent.
func StatsTableDDL() string {
	return `CREATE TABLE IF NOT EXISTS ` + StatsTable + ` (
    subject      TEXT PRIMARY KEY,
    durable      TEXT NOT NULL DEFAULT '',
    received_seq INTEGER NOT NULL DEFAULT 0,
    updated_at   TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
);`
}

// Subject returns the change-stream subject of the replica named name:
// stream + "." + name, with dots in name replaced by underscores.
func Subject(stream, name string) string {
	name = strings.ReplaceAll(name, ".", "_")
	if stream == "" {
		return name
	}
	return stream + "." + name
}

// quote renders s as a SQL string literal.
func quote(s string) string {
	return "'" + strings.ReplaceAll(s, "'", "''") + "'"
}
