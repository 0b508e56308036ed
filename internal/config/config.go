package config

import (
	"encoding/json"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/vango-dev/vbind/internal/errors"
	"github.com/vango-dev/vbind/pkg/binding"
)

const (
	// ConfigFileName is the name written by init.
	ConfigFileName = "vbind.yaml"

	// DefaultEl is the default root selector.
	DefaultEl = "#app"

	// DefaultTemplate is the default template path.
	DefaultTemplate = "index.html"

	// DefaultPort is the default server port.
	DefaultPort = 3000

	// DefaultHost is the default server host.
	DefaultHost = "localhost"

	// DefaultLogLevel is the default log level.
	DefaultLogLevel = "info"

	// DefaultLogFormat is the default log format.
	DefaultLogFormat = "text"
)

// FileNames are the config file names Load looks for, in order.
var FileNames = []string{"vbind.yaml", "vbind.yml", "vbind.json"}

// Config represents the complete project configuration.
type Config struct {
	// Name is the project name.
	Name string `json:"name,omitempty" yaml:"name,omitempty"`

	// El is the root selector.
	El string `json:"el,omitempty" yaml:"el,omitempty"`

	// Template is the page template, a path relative to the config file
	// or an s3:// URI.
	Template string `json:"template,omitempty" yaml:"template,omitempty"`

	// Data is the initial data, in file order.
	Data Data `json:"data,omitempty" yaml:"data,omitempty"`

	// Methods are declarative click handlers, keyed by name.
	Methods map[string]MethodSpec `json:"methods,omitempty" yaml:"methods,omitempty"`

	// DirectiveNames overrides the directive vocabulary. Empty fields keep
	// their defaults; see Directives.
	DirectiveNames binding.Directives `json:"directives,omitempty" yaml:"directives,omitempty"`

	// Server contains live server settings.
	Server ServerConfig `json:"server,omitempty" yaml:"server,omitempty"`

	// Log contains logging settings.
	Log LogConfig `json:"log,omitempty" yaml:"log,omitempty"`

	// configPath stores the path where the config was loaded from.
	configPath string
}

// ServerConfig contains live server settings.
type ServerConfig struct {
	// Host is the host to bind to.
	Host string `json:"host,omitempty" yaml:"host,omitempty"`

	// Port is the port to listen on.
	Port int `json:"port,omitempty" yaml:"port,omitempty"`

	// MetricsPath serves Prometheus metrics when set (e.g. "/metrics").
	MetricsPath string `json:"metricsPath,omitempty" yaml:"metricsPath,omitempty"`

	// Tracing records OpenTelemetry spans for update cascades.
	Tracing bool `json:"tracing,omitempty" yaml:"tracing,omitempty"`
}

// LogConfig contains logging settings.
type LogConfig struct {
	// Level is one of debug, info, warn, error.
	Level string `json:"level,omitempty" yaml:"level,omitempty"`

	// Format is text or json.
	Format string `json:"format,omitempty" yaml:"format,omitempty"`
}

// New creates a new Config with default values.
func New() *Config {
	cfg := &Config{}
	cfg.applyDefaults()
	return cfg
}

// Load reads configuration from the specified directory.
// It looks for each of FileNames in turn.
func Load(dir string) (*Config, error) {
	for _, name := range FileNames {
		path := filepath.Join(dir, name)
		if _, err := os.Stat(path); err == nil {
			return LoadFile(path)
		}
	}
	return nil, errors.New("E200").
		WithDetail("No vbind.yaml or vbind.json found in " + dir).
		WithSuggestion("Run 'vbind init' to create a starter project")
}

// LoadFile reads configuration from the specified file path.
// Files ending in .json are decoded as JSON, everything else as YAML.
func LoadFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.New("E200").
				WithDetail("No config file at " + path).
				WithSuggestion("Run 'vbind init' to create a starter project")
		}
		return nil, errors.New("E201").Wrap(err)
	}

	cfg, err := Parse(data, isJSON(path))
	if err != nil {
		return nil, errors.New("E201").
			WithDetail("Failed to parse "+filepath.Base(path)+": "+err.Error()).
			WithLocationFromError(path, err).
			WithSuggestion("Check the file syntax")
	}

	cfg.configPath = path
	return cfg, nil
}

// Parse decodes configuration bytes and applies defaults.
func Parse(data []byte, asJSON bool) (*Config, error) {
	cfg := &Config{}
	var err error
	if asJSON {
		err = json.Unmarshal(data, cfg)
	} else {
		err = yaml.Unmarshal(data, cfg)
	}
	if err != nil {
		return nil, err
	}
	cfg.applyDefaults()
	return cfg, nil
}

// Save writes the configuration to the file it was loaded from.
func (c *Config) Save() error {
	if c.configPath == "" {
		return errors.Newf(errors.CategoryConfig, "no config path set")
	}
	return c.SaveTo(c.configPath)
}

// SaveTo writes the configuration to the specified path.
func (c *Config) SaveTo(path string) error {
	var (
		data []byte
		err  error
	)
	if isJSON(path) {
		data, err = json.MarshalIndent(c, "", "  ")
		data = append(data, '\n')
	} else {
		data, err = yaml.Marshal(c)
	}
	if err != nil {
		return errors.New("E201").Wrap(err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return errors.New("E201").Wrap(err)
	}

	c.configPath = path
	return nil
}

// Path returns the path where the config was loaded from.
func (c *Config) Path() string {
	return c.configPath
}

// Dir returns the directory containing the config file.
func (c *Config) Dir() string {
	if c.configPath == "" {
		return ""
	}
	return filepath.Dir(c.configPath)
}

func (c *Config) applyDefaults() {
	if c.El == "" {
		c.El = DefaultEl
	}
	if c.Template == "" {
		c.Template = DefaultTemplate
	}
	if c.Server.Host == "" {
		c.Server.Host = DefaultHost
	}
	if c.Server.Port == 0 {
		c.Server.Port = DefaultPort
	}
	if c.Log.Level == "" {
		c.Log.Level = DefaultLogLevel
	}
	if c.Log.Format == "" {
		c.Log.Format = DefaultLogFormat
	}
}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.El) == "" {
		return errors.New("E201").WithDetail("el must name the root element")
	}
	if err := c.Directives().Validate(); err != nil {
		return err
	}
	for _, name := range c.MethodNames() {
		if err := c.Methods[name].validate(); err != nil {
			return errors.New("E202").
				WithDetailf("method %q: %s", name, err.Error()).
				WithSuggestion("Use one of: " + strings.Join(opNames(), ", "))
		}
	}
	if c.Server.Port < 0 || c.Server.Port > 65535 {
		return errors.New("E204").
			WithDetail("Port must be between 0 and 65535")
	}
	if c.Server.MetricsPath != "" && !strings.HasPrefix(c.Server.MetricsPath, "/") {
		return errors.New("E204").
			WithDetailf("metricsPath %q must start with /", c.Server.MetricsPath)
	}
	switch c.Log.Level {
	case "debug", "info", "warn", "error":
	default:
		return errors.New("E201").WithDetailf("log level %q is not one of debug, info, warn, error", c.Log.Level)
	}
	switch c.Log.Format {
	case "text", "json":
	default:
		return errors.New("E201").WithDetailf("log format %q is not text or json", c.Log.Format)
	}
	return nil
}

// Directives returns the directive vocabulary with defaults filled in.
func (c *Config) Directives() binding.Directives {
	return c.DirectiveNames.WithDefaults()
}

// TemplatePath resolves Template against the config directory.
// S3 URIs and absolute paths are returned unchanged.
func (c *Config) TemplatePath() string {
	if strings.Contains(c.Template, "://") || filepath.IsAbs(c.Template) || c.Dir() == "" {
		return c.Template
	}
	return filepath.Join(c.Dir(), c.Template)
}

// Address returns host:port for the live server.
func (c *Config) Address() string {
	return c.Server.Host + ":" + strconv.Itoa(c.Server.Port)
}

// MethodNames returns the configured method names, sorted.
func (c *Config) MethodNames() []string {
	names := make([]string, 0, len(c.Methods))
	for name := range c.Methods {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func isJSON(path string) bool {
	return strings.EqualFold(filepath.Ext(path), ".json")
}
