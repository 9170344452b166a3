package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/viant/litesql-ha/client"
)

func TestParseParams(t *testing.T) {
	params, err := parseParams([]string{"a", "b"}, false)
	if err != nil {
		t.Fatalf("parseParams failed: %v", err)
	}
	if len(params) != 2 || params[1].Ordinal != 2 || params[1].Value != "b" {
		t.Fatalf("unexpected positional params: %+v", params)
	}

	params, err = parseParams([]string{"id=7", "name=x=y"}, true)
	if err != nil {
		t.Fatalf("parseParams failed: %v", err)
	}
	if params[0].Name != "id" || params[1].Name != "name" || params[1].Value != "x=y" {
		t.Fatalf("unexpected named params: %+v", params)
	}

	if _, err := parseParams([]string{"novalue"}, true); err == nil {
		t.Fatalf("expected error for parameter without '='")
	}
}

func TestFormatValue(t *testing.T) {
	stamp := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	for _, tc := range []struct {
		in   interface{}
		want string
	}{
		{nil, "NULL"},
		{"a\tb", `a\tb`},
		{[]byte{0xca, 0xfe}, `\xcafe`},
		{int64(42), "42"},
		{stamp, "2024-05-01T12:00:00Z"},
		{true, "true"},
	} {
		if got := formatValue(tc.in); got != tc.want {
			t.Errorf("formatValue(%v) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestPrintResult(t *testing.T) {
	var buf bytes.Buffer
	if err := printResult(&buf, &client.Result{RowsAffected: 1}); err != nil {
		t.Fatalf("printResult failed: %v", err)
	}
	if buf.String() != "1 row affected\n" {
		t.Fatalf("unexpected update output %q", buf.String())
	}

	buf.Reset()
	result := &client.Result{
		Columns: []string{"id", "name"},
		Rows:    [][]interface{}{{int64(1), "one"}, {int64(2), nil}},
	}
	if err := printResult(&buf, result); err != nil {
		t.Fatalf("printResult failed: %v", err)
	}
	out := buf.String()
	for _, want := range []string{"id", "name", "one", "NULL", "(2 rows)"} {
		if !strings.Contains(out, want) {
			t.Fatalf("output %q does not contain %q", out, want)
		}
	}
}

func TestLoadConfiguration(t *testing.T) {
	dir := t.TempDir()
	configPath := filepath.Join(dir, "config.yaml")
	if err := os.WriteFile(configPath, []byte("url: litesql://file:80/a\ntimeout: 10s\n"), 0o644); err != nil {
		t.Fatalf("write config failed: %v", err)
	}
	envPath := filepath.Join(dir, ".env")
	if err := os.WriteFile(envPath, []byte("LITESQL_HA_REPLICATION_DURABLE=cli-test\n"), 0o644); err != nil {
		t.Fatalf("write env failed: %v", err)
	}
	t.Cleanup(func() { os.Unsetenv("LITESQL_HA_REPLICATION_DURABLE") })

	saved := rootConfiguration
	t.Cleanup(func() { rootConfiguration = saved })
	rootConfiguration.config = configPath
	rootConfiguration.envFile = envPath
	rootConfiguration.token = "secret"
	rootConfiguration.tls = true

	cfg, err := loadConfiguration()
	if err != nil {
		t.Fatalf("loadConfiguration failed: %v", err)
	}
	if cfg.URL != "litesql://file:80/a" || cfg.Timeout != 10*time.Second {
		t.Fatalf("configuration file not applied: %+v", cfg)
	}
	if cfg.ReplicationDurable != "cli-test" {
		t.Fatalf("environment file not applied: %+v", cfg)
	}
	if cfg.Token != "secret" || !cfg.EnableSSL {
		t.Fatalf("flags not applied: %+v", cfg)
	}

	rootConfiguration.url = "litesql://flag:81/b"
	if cfg, err = loadConfiguration(); err != nil {
		t.Fatalf("loadConfiguration failed: %v", err)
	}
	if cfg.URL != "litesql://flag:81/b" {
		t.Fatalf("url flag not applied: %s", cfg.URL)
	}
}
