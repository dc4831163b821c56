package common

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/ValentinKolb/kvapp/lib/db"
	"github.com/lni/dragonboat/v4/logger"
	"github.com/pkg/errors"
	"github.com/spf13/viper"
)

var log = logger.GetLogger("config")

// DefaultConfigPath is the store descriptor read when no path is given.
const DefaultConfigPath = "cfg-kvapp.json"

// --------------------------------------------------------------------------
// Store descriptor
// --------------------------------------------------------------------------

// StoreConfig names the store served by this process and where it lives on disk.
//
//	{"database": {"name": "default", "path": "db.kv"}}
type StoreConfig struct {
	// Name is the external nickname reported by the index route
	Name string `mapstructure:"name"`
	// Path is the on-disk location of the engine
	Path string `mapstructure:"path"`
	// Engine selects the storage engine (pebble, bolt). Empty means pebble.
	Engine string `mapstructure:"engine"`
}

// Implementation returns the engine selected by the descriptor.
func (c *StoreConfig) Implementation() (db.Implementation, error) {
	return db.ParseImplementation(c.Engine)
}

// LoadStoreConfig reads the store descriptor at path. The file type is taken from
// the extension (json, yaml, toml, ...) and falls back to json.
func LoadStoreConfig(path string) (*StoreConfig, error) {
	if path == "" {
		path = DefaultConfigPath
	}

	v := viper.New()
	v.SetConfigFile(path)
	if !isSupportedExt(filepath.Ext(path)) {
		v.SetConfigType("json")
	}

	if err := v.ReadInConfig(); err != nil {
		return nil, errors.Wrapf(err, "cannot read config %s", path)
	}

	if v.IsSet("databases") {
		return nil, fmt.Errorf("config %s: multi-database configuration is not supported, use a single \"database\" object", path)
	}
	if !v.IsSet("database") {
		return nil, fmt.Errorf("config %s: missing \"database\" object", path)
	}

	conf := &StoreConfig{}
	if err := v.UnmarshalKey("database", conf); err != nil {
		return nil, errors.Wrapf(err, "config %s: invalid \"database\" object", path)
	}
	if conf.Name == "" {
		return nil, fmt.Errorf("config %s: database.name is required", path)
	}
	if conf.Path == "" {
		return nil, fmt.Errorf("config %s: database.path is required", path)
	}
	if _, err := conf.Implementation(); err != nil {
		return nil, errors.Wrapf(err, "config %s", path)
	}

	log.Debugf("loaded store config from %s (name=%s, path=%s)", path, conf.Name, conf.Path)
	return conf, nil
}

// descriptor formats recognized by extension
var descriptorExts = []string{"json", "yaml", "yml", "toml"}

func isSupportedExt(ext string) bool {
	ext = strings.TrimPrefix(strings.ToLower(ext), ".")
	for _, e := range descriptorExts {
		if e == ext {
			return true
		}
	}
	return false
}

// --------------------------------------------------------------------------
// HTTP server configuration struct
// --------------------------------------------------------------------------

// ServerConfig holds the settings of the serve command.
type ServerConfig struct {
	// path of the store descriptor
	ConfigPath string

	// HTTP api settings
	BindAddr string
	BindPort int

	// expose /metrics and /stats
	Metrics bool

	// largest accepted PUT body
	MaxValueBytes int64

	// Logging configuration
	LogLevel string

	// resolved store descriptor, set after LoadStoreConfig
	Store *StoreConfig
}

// Addr returns the host:port the server listens on.
func (c *ServerConfig) Addr() string {
	return fmt.Sprintf("%s:%d", c.BindAddr, c.BindPort)
}

// String returns a formatted string representation of the configuration
func (c *ServerConfig) String() string {
	var sb strings.Builder

	// Create helper functions for consistent formatting
	addSection := func(title string) {
		sb.WriteString("\n")
		sb.WriteString(fmt.Sprintf("%s\n", strings.ToUpper(title)))
	}

	addField := func(name, value string) {
		sb.WriteString(fmt.Sprintf("  %-22s: %s\n", name, value))
	}

	addSection("HTTP Server")
	addField("Address", c.Addr())
	addField("Metrics", fmt.Sprintf("%t", c.Metrics))
	addField("Max Value Size", fmt.Sprintf("%d bytes", c.MaxValueBytes))

	addSection("Logging")
	addField("Log Level", c.LogLevel)

	addSection("Store")
	addField("Config File", c.ConfigPath)
	if c.Store != nil {
		engine, _ := c.Store.Implementation()
		addField("Name", c.Store.Name)
		addField("Path", c.Store.Path)
		addField("Engine", string(engine))
	}

	return sb.String()
}

// --------------------------------------------------------------------------
// HTTP client configuration struct
// --------------------------------------------------------------------------

type ClientConfig struct {
	Endpoint      string
	TimeoutSecond int
	RetryCount    int
}

// String returns a formatted string representation of the client configuration
func (c *ClientConfig) String() string {
	var sb strings.Builder
	sb.WriteString("\nCLIENT CONFIGURATION\n")
	sb.WriteString(fmt.Sprintf("  %-22s: %s\n", "Endpoint", c.Endpoint))
	sb.WriteString(fmt.Sprintf("  %-22s: %d sec\n", "Timeout", c.TimeoutSecond))
	sb.WriteString(fmt.Sprintf("  %-22s: %d\n", "Retry Count", c.RetryCount))
	return sb.String()
}
