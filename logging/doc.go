// Package logging provides the leveled, prefix-scoped logger used by the
// session, catalog and replica components.
package logging
