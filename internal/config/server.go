// Package config loads the server's settings. Two layers live here: the
// top-level YAML ServerConfig (§6.2) and, in profile.go, a per-project
// gcfg overlay narrowing security/terminal settings (§12).
package config

import (
	"os"
	"regexp"

	"gopkg.in/yaml.v3"

	"github.com/tstmcp/terminal-mcp/internal/txerr"
)

// ServerConfig mirrors original_source/crates/terminal-mcp-core/src/config.rs's
// ServerConfig one-for-one: four groups, every field with the Rust
// Default impl's exact value.
type ServerConfig struct {
	Server    ServerSettings    `yaml:"server"`
	Security  SecuritySettings  `yaml:"security"`
	Detection DetectionSettings `yaml:"detection"`
	Terminal  TerminalSettings  `yaml:"terminal"`
}

// ServerSettings configures the dispatcher itself.
type ServerSettings struct {
	Transport      string `yaml:"transport"`
	MaxSessions    int    `yaml:"max_sessions"`
	SessionTimeout int64  `yaml:"session_timeout"`
	LogLevel       string `yaml:"log_level"`
}

// SecuritySettings gates session.create.
type SecuritySettings struct {
	AllowedCommands []string `yaml:"allowed_commands"`
	SandboxMode     string   `yaml:"sandbox_mode"`
}

// IsCommandAllowed reports whether command may be spawned: true if the
// allow-list is empty (allow all) or command is listed verbatim.
func (s SecuritySettings) IsCommandAllowed(command string) bool {
	if len(s.AllowedCommands) == 0 {
		return true
	}
	for _, allowed := range s.AllowedCommands {
		if allowed == command {
			return true
		}
	}
	return false
}

// DetectionSettings tunes snapshot/wait idle behavior and the custom
// pattern extension point.
type DetectionSettings struct {
	IdleThresholdMs int64                  `yaml:"idle_threshold_ms"`
	MaxIdleWaitMs   int64                  `yaml:"max_idle_wait_ms"`
	CustomPatterns  []CustomPatternConfig  `yaml:"custom_patterns"`
}

// CustomPatternConfig describes one CustomPatternDetector instance (§12).
type CustomPatternConfig struct {
	Name        string           `yaml:"name"`
	Pattern     string           `yaml:"pattern"`
	ElementType string           `yaml:"element_type"`
	Captures    []CaptureConfig  `yaml:"captures"`
}

// CaptureConfig names one regex capture group.
type CaptureConfig struct {
	Name string `yaml:"name"`
}

// Validate checks name/regex-compiles/element_type non-empty, per
// config.rs's CustomPatternConfig::validate.
func (p CustomPatternConfig) Validate() error {
	if trimEmpty(p.Name) {
		return txerr.New(txerr.KindConfigError, "custom pattern name cannot be empty")
	}
	if _, err := regexp.Compile(p.Pattern); err != nil {
		return txerr.Wrap(txerr.KindConfigError, err, "invalid regex pattern %q", p.Name)
	}
	if trimEmpty(p.ElementType) {
		return txerr.New(txerr.KindConfigError, "custom pattern %q element_type cannot be empty", p.Name)
	}
	return nil
}

func trimEmpty(s string) bool {
	for _, r := range s {
		if r != ' ' && r != '\t' && r != '\n' && r != '\r' {
			return false
		}
	}
	return true
}

// TerminalSettings are the defaults for newly created sessions.
type TerminalSettings struct {
	DefaultRows     int    `yaml:"default_rows"`
	DefaultCols     int    `yaml:"default_cols"`
	ScrollbackLines int    `yaml:"scrollback_lines"`
	Term            string `yaml:"term"`
}

// Default returns a ServerConfig with every field set to the Rust
// source's Default impl values.
func Default() ServerConfig {
	return ServerConfig{
		Server: ServerSettings{
			Transport:      "stdio",
			MaxSessions:    10,
			SessionTimeout: 3600,
			LogLevel:       "info",
		},
		Security: SecuritySettings{
			SandboxMode: "none",
		},
		Detection: DetectionSettings{
			IdleThresholdMs: 100,
			MaxIdleWaitMs:   5000,
		},
		Terminal: TerminalSettings{
			DefaultRows:     24,
			DefaultCols:     80,
			ScrollbackLines: 10000,
			Term:            "xterm-256color",
		},
	}
}

// FromYAML parses a ServerConfig from yaml text, applying defaults to any
// field the document omits (serde's #[serde(default)] per-struct), then
// validates it.
func FromYAML(data []byte) (ServerConfig, error) {
	cfg := Default()
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return ServerConfig{}, txerr.Wrap(txerr.KindConfigError, err, "parse server config yaml")
	}
	if err := cfg.Validate(); err != nil {
		return ServerConfig{}, err
	}
	return cfg, nil
}

// LoadFile reads and parses a ServerConfig from path.
func LoadFile(path string) (ServerConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return ServerConfig{}, txerr.Wrap(txerr.KindConfigError, err, "read %s", path)
	}
	return FromYAML(data)
}

// Validate mirrors ServerConfig::validate: max_sessions > 0, both
// terminal dimensions > 0, and every custom pattern individually valid.
func (c ServerConfig) Validate() error {
	if c.Server.MaxSessions <= 0 {
		return txerr.New(txerr.KindConfigError, "server.max_sessions must be > 0")
	}
	if c.Terminal.DefaultRows <= 0 || c.Terminal.DefaultCols <= 0 {
		return txerr.New(txerr.KindConfigError, "terminal dimensions must be > 0")
	}
	for _, p := range c.Detection.CustomPatterns {
		if err := p.Validate(); err != nil {
			return err
		}
	}
	return nil
}
