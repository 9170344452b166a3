package config

import (
	"net/url"
	"os"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"

	"github.com/viant/litesql-ha/client"
)

const (
	// DefaultTimeout is the default statement timeout.
	DefaultTimeout = 60 * time.Second
	// DefaultLoginTimeout is the default connection timeout.
	DefaultLoginTimeout = 30 * time.Second
	// DefaultPollInterval is the default replica poll interval.
	DefaultPollInterval = 5 * time.Second
)

// Connection property names accepted by FromProperties.
const (
	PropertyPassword           = "password"
	PropertyEnableSSL          = "enableSSL"
	PropertyTimeout            = "timeout"
	PropertyLoginTimeout       = "loginTimeout"
	PropertyReplicasDir        = "embeddedReplicasDir"
	PropertyReplicationURL     = "replicationURL"
	PropertyReplicationStream  = "replicationStream"
	PropertyReplicationDurable = "replicationDurable"
	PropertyDriverName         = "driverName"
	PropertySyncTimeout        = "syncTimeout"
)

// EnvPrefix prefixes the environment variables read by ApplyEnv.
const EnvPrefix = "LITESQL_HA_"

// Config holds client and replica settings. DriverName selects the
// database/sql driver of replica handles; the native sync extension needs one
// that allows load_extension. SyncTimeout is passed to that extension, zero
// keeps its default.
type Config struct {
	URL                 string        `yaml:"url"`
	Token               string        `yaml:"token"`
	EnableSSL           bool          `yaml:"enableSSL"`
	Timeout             time.Duration `yaml:"timeout"`
	LoginTimeout        time.Duration `yaml:"loginTimeout"`
	EmbeddedReplicasDir string        `yaml:"embeddedReplicasDir"`
	ReplicationURL      string        `yaml:"replicationURL"`
	ReplicationStream   string        `yaml:"replicationStream"`
	ReplicationDurable  string        `yaml:"replicationDurable"`
	ExtensionDir        string        `yaml:"extensionDir"`
	DriverName          string        `yaml:"driverName"`
	SyncTimeout         time.Duration `yaml:"syncTimeout"`
	PollInterval        time.Duration `yaml:"pollInterval"`
	LogLevel            string        `yaml:"logLevel"`
}

// Default returns a configuration with default timeouts.
func Default() Config {
	return Config{
		Timeout:      DefaultTimeout,
		LoginTimeout: DefaultLoginTimeout,
		PollInterval: DefaultPollInterval,
		LogLevel:     "warn",
	}
}

// Load reads a YAML configuration file on top of the defaults.
func Load(path string) (Config, error) {
	cfg := Default()
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, errors.Wrap(err, "unable to read configuration")
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, errors.Wrapf(err, "unable to parse %s", path)
	}
	return cfg, nil
}

// FromProperties builds a configuration from driver connection properties.
// Timeouts are given in seconds.
func FromProperties(props map[string]string) (Config, error) {
	cfg := Default()
	if err := cfg.apply(func(name string) (string, bool) {
		v, ok := props[name]
		return v, ok
	}); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// ApplyEnv overlays LITESQL_HA_* environment variables, e.g.
// LITESQL_HA_PASSWORD or LITESQL_HA_EMBEDDED_REPLICAS_DIR.
func (c *Config) ApplyEnv() error {
	if err := c.apply(func(name string) (string, bool) {
		return os.LookupEnv(envName(name))
	}); err != nil {
		return err
	}
	if v, ok := os.LookupEnv(EnvPrefix + "URL"); ok {
		c.URL = v
	}
	if v, ok := os.LookupEnv(EnvPrefix + "EXTENSION_DIR"); ok {
		c.ExtensionDir = v
	}
	if v, ok := os.LookupEnv(EnvPrefix + "LOG_LEVEL"); ok {
		c.LogLevel = v
	}
	return nil
}

// envName maps a property name to its variable: replicationURL becomes
// LITESQL_HA_REPLICATION_URL.
func envName(property string) string {
	var b strings.Builder
	b.WriteString(EnvPrefix)
	runes := []rune(property)
	for i, r := range runes {
		upper := r >= 'A' && r <= 'Z'
		if upper && i > 0 && !(runes[i-1] >= 'A' && runes[i-1] <= 'Z') {
			b.WriteByte('_')
		}
		b.WriteString(strings.ToUpper(string(r)))
	}
	return b.String()
}

func (c *Config) apply(lookup func(string) (string, bool)) error {
	if v, ok := lookup(PropertyPassword); ok {
		c.Token = v
	}
	if v, ok := lookup(PropertyEnableSSL); ok {
		enabled, err := strconv.ParseBool(v)
		if err != nil {
			return errors.Wrapf(err, "invalid %s", PropertyEnableSSL)
		}
		c.EnableSSL = enabled
	}
	for name, dst := range map[string]*time.Duration{
		PropertyTimeout:      &c.Timeout,
		PropertyLoginTimeout: &c.LoginTimeout,
		PropertySyncTimeout:  &c.SyncTimeout,
	} {
		if v, ok := lookup(name); ok {
			d, err := parseSeconds(v)
			if err != nil {
				return errors.Wrapf(err, "invalid %s", name)
			}
			*dst = d
		}
	}
	for name, dst := range map[string]*string{
		PropertyReplicasDir:        &c.EmbeddedReplicasDir,
		PropertyReplicationURL:     &c.ReplicationURL,
		PropertyReplicationStream:  &c.ReplicationStream,
		PropertyReplicationDurable: &c.ReplicationDurable,
		PropertyDriverName:         &c.DriverName,
	} {
		if v, ok := lookup(name); ok {
			*dst = v
		}
	}
	return nil
}

// parseSeconds accepts a bare number of seconds or a Go duration.
func parseSeconds(v string) (time.Duration, error) {
	if seconds, err := strconv.Atoi(v); err == nil {
		if seconds < 0 {
			return 0, errors.Errorf("negative timeout %d", seconds)
		}
		return time.Duration(seconds) * time.Second, nil
	}
	return time.ParseDuration(v)
}

// URLExamples lists the accepted connection URL forms.
const URLExamples = "jdbc:litesql:ha:<server-url>, litesql://<host>:<port>/<replication-id>"

var urlPattern = regexp.MustCompile(`^(jdbc:litesql:ha:|litesql://)(.+)$`)

// ParseURL parses a connection URL into a client target.
func ParseURL(raw string) (client.Target, error) {
	if !urlPattern.MatchString(raw) {
		return client.Target{}, errors.Errorf("invalid connection URL: %s, expected URL formats: %s", raw, URLExamples)
	}
	formatted := strings.TrimPrefix(raw, "jdbc:litesql:ha:")
	if strings.HasPrefix(formatted, "litesql://") {
		formatted = "http://" + strings.TrimPrefix(formatted, "litesql://")
	}
	u, err := url.Parse(formatted)
	if err != nil {
		return client.Target{}, errors.Wrapf(err, "invalid connection URL: %s", raw)
	}
	if u.Hostname() == "" {
		return client.Target{}, errors.Errorf("invalid connection URL: %s: missing host", raw)
	}
	target := client.Target{
		Host:          u.Hostname(),
		ReplicationID: strings.TrimPrefix(u.Path, "/"),
		TLS:           u.Scheme == "https",
	}
	switch port := u.Port(); {
	case port != "":
		if target.Port, err = strconv.Atoi(port); err != nil {
			return client.Target{}, errors.Wrapf(err, "invalid port in %s", raw)
		}
	case u.Scheme == "https":
		target.Port = 443
	default:
		target.Port = 80
	}
	return target, nil
}

// Target resolves URL and applies the token and TLS settings.
func (c Config) Target() (client.Target, error) {
	target, err := ParseURL(c.URL)
	if err != nil {
		return target, err
	}
	target.Token = c.Token
	target.TLS = target.TLS || c.EnableSSL
	return target, nil
}

// ClientOptions returns the dial options implied by the configuration.
func (c Config) ClientOptions() client.Options {
	return client.Options{Timeout: c.Timeout, LoginTimeout: c.LoginTimeout}
}
