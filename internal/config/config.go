package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

const envPrefix = "CUP"

// Config is the typed view of configs/config.yml plus environment overrides.
type Config struct {
	Port     string         `mapstructure:"port"`
	LogLevel string         `mapstructure:"log_level"`
	DB       DBConfig       `mapstructure:"db"`
	Device   DeviceConfig   `mapstructure:"device"`
	Cycle    CycleConfig    `mapstructure:"cycle"`
	History  HistoryConfig  `mapstructure:"history"`
	MQTT     MQTTConfig     `mapstructure:"mqtt"`
	Influx   InfluxDBConfig `mapstructure:"influx"`
}

type DBConfig struct {
	Path string `mapstructure:"path"`
}

// DeviceConfig describes the relay board that drives the cup.
type DeviceConfig struct {
	URL          string        `mapstructure:"url"`
	Channel      int           `mapstructure:"channel"`
	Timeout      time.Duration `mapstructure:"timeout"`
	DebugMode    bool          `mapstructure:"debug_mode"`
	PollInterval time.Duration `mapstructure:"poll_interval"`
}

// CycleConfig tunes the scheduler. StepUnit is the wall-clock length of one
// "minute" of step duration; anything other than 1m is for bench testing.
type CycleConfig struct {
	StepUnit time.Duration `mapstructure:"step_unit"`
}

type HistoryConfig struct {
	Limit int `mapstructure:"limit"`
}

type MQTTConfig struct {
	Enabled     bool   `mapstructure:"enabled"`
	Broker      string `mapstructure:"broker"`
	ClientID    string `mapstructure:"client_id"`
	TopicPrefix string `mapstructure:"topic_prefix"`
	QoS         int    `mapstructure:"qos"`
	Username    string `mapstructure:"username"`
	Password    string `mapstructure:"password"`
}

type InfluxDBConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	URL     string `mapstructure:"url"`
	Token   string `mapstructure:"token"`
	Org     string `mapstructure:"org"`
	Bucket  string `mapstructure:"bucket"`
}

var (
	errInvalidChannel  = errors.New("device.channel must be >= 1")
	errInvalidTimeout  = errors.New("device.timeout must be > 0")
	errInvalidStepUnit = errors.New("cycle.step_unit must be > 0")
	errInvalidHistory  = errors.New("history.limit must be >= 1")
	errInvalidQoS      = errors.New("mqtt.qos must be 0, 1 or 2")
)

func setDefaults(v *viper.Viper) {
	v.SetDefault("port", "8080")
	v.SetDefault("log_level", "info")
	v.SetDefault("db.path", "cup.db")
	v.SetDefault("device.url", "http://192.168.0.30")
	v.SetDefault("device.channel", 1)
	v.SetDefault("device.timeout", 10*time.Second)
	v.SetDefault("device.debug_mode", false)
	v.SetDefault("device.poll_interval", 10*time.Second)
	v.SetDefault("cycle.step_unit", time.Minute)
	v.SetDefault("history.limit", 100)
	v.SetDefault("mqtt.enabled", false)
	v.SetDefault("mqtt.broker", "tcp://localhost:1883")
	v.SetDefault("mqtt.client_id", "cupd")
	v.SetDefault("mqtt.topic_prefix", "faraday")
	v.SetDefault("mqtt.qos", 1)
	v.SetDefault("influx.enabled", false)
	v.SetDefault("influx.url", "http://localhost:8086")
	v.SetDefault("influx.org", "lab")
	v.SetDefault("influx.bucket", "faraday")
}

// Load reads the config file (if any) from configs/ or the working directory,
// or from path when it is not empty. A missing file is not an error: defaults
// and environment variables still apply.
func Load(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.AddConfigPath("configs")
		v.AddConfigPath(".")
		v.SetConfigName("config")
	}

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	// Unprefixed names kept for existing deployments.
	_ = v.BindEnv("device.url", "CUP_DEVICE_URL", "DEVICE_URL")
	_ = v.BindEnv("device.debug_mode", "CUP_DEVICE_DEBUG_MODE", "DEBUG_MODE")

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if path != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks values that would otherwise fail deep inside a component.
func (c *Config) Validate() error {
	if c.Device.Channel < 1 {
		return errInvalidChannel
	}
	if c.Device.Timeout <= 0 {
		return errInvalidTimeout
	}
	if c.Cycle.StepUnit <= 0 {
		return errInvalidStepUnit
	}
	if c.History.Limit < 1 {
		return errInvalidHistory
	}
	if c.MQTT.QoS < 0 || c.MQTT.QoS > 2 {
		return errInvalidQoS
	}
	return nil
}
