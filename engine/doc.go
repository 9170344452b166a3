// Package engine opens modernc.org/sqlite handles: plain connections and
// local replica handles tuned for continuous synchronization.
package engine
