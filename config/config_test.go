package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/viant/litesql-ha/client"
)

func TestParseURL(t *testing.T) {
	cases := []struct {
		raw  string
		want client.Target
	}{
		{"litesql://localhost:8080/db1", client.Target{Host: "localhost", Port: 8080, ReplicationID: "db1"}},
		{"jdbc:litesql:ha:http://10.0.0.1:5001/orders", client.Target{Host: "10.0.0.1", Port: 5001, ReplicationID: "orders"}},
		{"jdbc:litesql:ha:https://db.example.com/x", client.Target{Host: "db.example.com", Port: 443, ReplicationID: "x", TLS: true}},
		{"jdbc:litesql:ha:litesql://h:1", client.Target{Host: "h", Port: 1}},
	}
	for _, tc := range cases {
		got, err := ParseURL(tc.raw)
		if err != nil {
			t.Fatalf("ParseURL(%q) failed: %v", tc.raw, err)
		}
		if diff := cmp.Diff(tc.want, got); diff != "" {
			t.Fatalf("ParseURL(%q) mismatch (-want +got):\n%s", tc.raw, diff)
		}
	}
}

func TestParseURL_Invalid(t *testing.T) {
	for _, raw := range []string{"", "jdbc:sqlite:foo.db", "litesql://", "http://host:1/db", "litesql://host:port/db"} {
		_, err := ParseURL(raw)
		if err == nil {
			t.Fatalf("ParseURL(%q) succeeded", raw)
		}
	}
	_, err := ParseURL("postgres://x")
	if !strings.Contains(err.Error(), URLExamples) {
		t.Fatalf("error does not list URL examples: %v", err)
	}
}

func TestFromProperties(t *testing.T) {
	cfg, err := FromProperties(map[string]string{
		PropertyPassword:           "tok",
		PropertyEnableSSL:          "true",
		PropertyTimeout:            "15",
		PropertyLoginTimeout:       "2m",
		PropertyReplicasDir:        "/var/replicas",
		PropertyReplicationURL:     "nats://localhost:4222",
		PropertyReplicationStream:  "ha_replication",
		PropertyReplicationDurable: "node1",
	})
	if err != nil {
		t.Fatalf("FromProperties failed: %v", err)
	}
	want := Default()
	want.Token = "tok"
	want.EnableSSL = true
	want.Timeout = 15 * time.Second
	want.LoginTimeout = 2 * time.Minute
	want.EmbeddedReplicasDir = "/var/replicas"
	want.ReplicationURL = "nats://localhost:4222"
	want.ReplicationStream = "ha_replication"
	want.ReplicationDurable = "node1"
	if diff := cmp.Diff(want, cfg); diff != "" {
		t.Fatalf("config mismatch (-want +got):\n%s", diff)
	}

	if _, err := FromProperties(map[string]string{PropertyTimeout: "soon"}); err == nil {
		t.Fatalf("expected error for invalid timeout")
	}
	if _, err := FromProperties(map[string]string{PropertyEnableSSL: "maybe"}); err == nil {
		t.Fatalf("expected error for invalid enableSSL")
	}
}

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "litesql.yaml")
	data := `url: litesql://localhost:5001/db1
token: abc
timeout: 10s
embeddedReplicasDir: /tmp/replicas
pollInterval: 1s
driverName: sqlite-ext
syncTimeout: 3s
`
	if err := os.WriteFile(path, []byte(data), 0o644); err != nil {
		t.Fatalf("WriteFile failed: %v", err)
	}
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.Timeout != 10*time.Second || cfg.PollInterval != time.Second || cfg.LoginTimeout != DefaultLoginTimeout {
		t.Fatalf("unexpected timeouts: %+v", cfg)
	}
	if cfg.DriverName != "sqlite-ext" || cfg.SyncTimeout != 3*time.Second {
		t.Fatalf("unexpected replica settings: %+v", cfg)
	}
	target, err := cfg.Target()
	if err != nil {
		t.Fatalf("Target failed: %v", err)
	}
	if target.Token != "abc" || target.ReplicationID != "db1" || target.Port != 5001 {
		t.Fatalf("unexpected target: %+v", target)
	}

	if _, err := Load(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Fatalf("expected error for missing file")
	}
}

func TestApplyEnv(t *testing.T) {
	t.Setenv("LITESQL_HA_PASSWORD", "env-token")
	t.Setenv("LITESQL_HA_REPLICATION_URL", "nats://nats:4222")
	t.Setenv("LITESQL_HA_EMBEDDED_REPLICAS_DIR", "/data")
	t.Setenv("LITESQL_HA_URL", "litesql://h:1/db")
	t.Setenv("LITESQL_HA_DRIVER_NAME", "sqlite-ext")
	t.Setenv("LITESQL_HA_SYNC_TIMEOUT", "5")
	cfg := Default()
	if err := cfg.ApplyEnv(); err != nil {
		t.Fatalf("ApplyEnv failed: %v", err)
	}
	if cfg.DriverName != "sqlite-ext" || cfg.SyncTimeout != 5*time.Second {
		t.Fatalf("unexpected replica settings: driver %q, sync timeout %s", cfg.DriverName, cfg.SyncTimeout)
	}
	if cfg.Token != "env-token" || cfg.ReplicationURL != "nats://nats:4222" || cfg.EmbeddedReplicasDir != "/data" || cfg.URL != "litesql://h:1/db" {
		t.Fatalf("unexpected config: %+v", cfg)
	}
}

func TestEnvName(t *testing.T) {
	for property, want := range map[string]string{
		PropertyReplicationURL: "LITESQL_HA_REPLICATION_URL",
		PropertyEnableSSL:      "LITESQL_HA_ENABLE_SSL",
		PropertyLoginTimeout:   "LITESQL_HA_LOGIN_TIMEOUT",
		PropertyPassword:       "LITESQL_HA_PASSWORD",
	} {
		if got := envName(property); got != want {
			t.Fatalf("envName(%q) = %q, want %q", property, got, want)
		}
	}
}
