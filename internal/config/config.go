package config

import (
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all runtime settings for the opsdeck server.
type Config struct {
	Server   ServerConfig   `mapstructure:"server"`
	Monitor  MonitorConfig  `mapstructure:"monitor"`
	Shell    ShellConfig    `mapstructure:"shell"`
	SSH      SSHConfig      `mapstructure:"ssh"`
	Cron     CronConfig     `mapstructure:"cron"`
	Auth     AuthConfig     `mapstructure:"auth"`
	Security SecurityConfig `mapstructure:"security"`
	StateDir string         `mapstructure:"state_dir"`
}

type ServerConfig struct {
	Address string `mapstructure:"address"`
}

type MonitorConfig struct {
	CollectInterval time.Duration `mapstructure:"collect_interval"`
	HistoryPoints   int           `mapstructure:"history_points"`
}

type ShellConfig struct {
	CommandTimeout time.Duration `mapstructure:"command_timeout"`
	HistorySize    int           `mapstructure:"history_size"`
}

type SSHConfig struct {
	DialTimeout    time.Duration `mapstructure:"dial_timeout"`
	KnownHostsPath string        `mapstructure:"known_hosts_path"`
}

type CronConfig struct {
	CrontabBinary string `mapstructure:"crontab_binary"`
}

type AuthConfig struct {
	SecretKey string        `mapstructure:"secret_key"`
	TokenTTL  time.Duration `mapstructure:"token_ttl"`
}

type SecurityConfig struct {
	AllowedOrigins []string `mapstructure:"allowed_origins"`
	AllowedIPs     []string `mapstructure:"allowed_ips"`
}

var loaded *Config

// Load resolves configuration from defaults, an optional config file and
// OPSDECK_* environment variables, in increasing order of precedence.
func Load(configPath string) (*Config, error) {
	v := viper.New()

	setDefaults(v)

	v.SetEnvPrefix("OPSDECK")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if configPath != "" {
		v.SetConfigFile(configPath)
		if err := v.ReadInConfig(); err != nil {
			return nil, err
		}
	} else {
		v.SetConfigName("opsdeck")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		if home, err := os.UserHomeDir(); err == nil {
			v.AddConfigPath(filepath.Join(home, ".opsdeck"))
		}
		// Missing config file is fine, defaults and env apply.
		if err := v.ReadInConfig(); err != nil {
			if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
				return nil, err
			}
		}
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, err
	}

	if cfg.StateDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			home = os.TempDir()
		}
		cfg.StateDir = filepath.Join(home, ".opsdeck")
	}

	loaded = cfg
	return cfg, nil
}

// Get returns the last loaded config, or defaults when Load was never called.
func Get() *Config {
	if loaded == nil {
		cfg, err := Load("")
		if err != nil {
			v := viper.New()
			setDefaults(v)
			cfg = &Config{}
			_ = v.Unmarshal(cfg)
			loaded = cfg
			return loaded
		}
		loaded = cfg
	}
	return loaded
}

// StatePath returns the path of a file inside the state directory.
func (c *Config) StatePath(name string) string {
	return filepath.Join(c.StateDir, name)
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.address", "127.0.0.1:8080")
	v.SetDefault("monitor.collect_interval", time.Second)
	v.SetDefault("monitor.history_points", 60)
	v.SetDefault("shell.command_timeout", 30*time.Second)
	v.SetDefault("shell.history_size", 100)
	v.SetDefault("ssh.dial_timeout", 10*time.Second)
	v.SetDefault("ssh.known_hosts_path", "")
	v.SetDefault("cron.crontab_binary", "crontab")
	v.SetDefault("auth.secret_key", "")
	v.SetDefault("auth.token_ttl", 90*24*time.Hour)
	v.SetDefault("security.allowed_origins", []string{})
	v.SetDefault("security.allowed_ips", []string{})
	v.SetDefault("state_dir", "")
}
