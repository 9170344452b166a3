// Package ha ties configuration, clients and local replicas together in an
// explicit Registry with an Init/Shutdown lifecycle.
package ha
