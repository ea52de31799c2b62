package history

// SchemaVersion is the current database schema version.
const SchemaVersion = 1

// schema creates the reload history tables. Times are unix nanoseconds.
const schema = `
CREATE TABLE IF NOT EXISTS reloads (
    id TEXT PRIMARY KEY,
    trigger_name TEXT NOT NULL,
    paths TEXT NOT NULL,
    started_ns INTEGER NOT NULL,
    duration_ns INTEGER NOT NULL,
    format TEXT NOT NULL DEFAULT '',
    stations INTEGER NOT NULL DEFAULT 0,
    generation INTEGER NOT NULL DEFAULT 0,
    error TEXT NOT NULL DEFAULT ''
);

CREATE TABLE IF NOT EXISTS schema_version (
    version INTEGER PRIMARY KEY,
    applied_at INTEGER NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_reloads_started ON reloads(started_ns);
`

const insertSchemaVersion = `
INSERT INTO schema_version (version, applied_at)
VALUES (?, ?)
ON CONFLICT(version) DO NOTHING;
`

const getSchemaVersion = `
SELECT version FROM schema_version ORDER BY version DESC LIMIT 1;
`

const insertRecord = `
INSERT INTO reloads (
    id, trigger_name, paths, started_ns, duration_ns,
    format, stations, generation, error
) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
`

const selectColumns = `
SELECT id, trigger_name, paths, started_ns, duration_ns,
       format, stations, generation, error
FROM reloads`
