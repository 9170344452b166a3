// Package replica manages local read replicas: SQLite files discovered in a
// directory, attached to their change stream through a sync Extension, and
// polled periodically for the last received replication sequence (txseq).
//
// A Manager is constructed explicitly and has a Start/Shutdown lifecycle.
// Handles are opened with engine.OpenReplica (WAL journal, in-memory temp
// store, single connection). The native ha-sync extension is driven through
// SQLExtension; TableExtension reads status kept in the replica by an
// external agent.
package replica
