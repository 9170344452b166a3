// Package config loads client and replica settings from YAML files, driver
// connection properties and LITESQL_HA_* environment variables, and parses
// connection URLs.
package config
