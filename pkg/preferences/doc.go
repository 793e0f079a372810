// Package preferences provides small durable key/value stores for per-install
// scalar settings such as the transient purge watermark.
//
// Backends:
//
//   - FileStore: a YAML document written atomically (temp file + rename)
//   - SQLiteStore: the preferences table of the record store database, created
//     by its migrations
//   - MemoryStore: in-memory, for tests
//
// Values survive process restarts for the durable backends. Missing keys read
// as the caller-supplied default. Writes are last-writer-wins.
package preferences
