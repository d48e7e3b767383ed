// Package config loads the settings shared by the dashboard, the publisher and
// the development broker.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"picow_telemetry/internal/ingest"
	"picow_telemetry/internal/logger"
)

// Config is the full application configuration.
type Config struct {
	LogLevel  string          `mapstructure:"log_level"`
	HTTP      HTTPConfig      `mapstructure:"http"`
	DB        DBConfig        `mapstructure:"db"`
	MQTT      MQTTConfig      `mapstructure:"mqtt"`
	Dashboard DashboardConfig `mapstructure:"dashboard"`
	Publisher PublisherConfig `mapstructure:"publisher"`
	DevBroker DevBrokerConfig `mapstructure:"devbroker"`
}

type HTTPConfig struct {
	Port string `mapstructure:"port"`
}

type DBConfig struct {
	Path string `mapstructure:"path"`
}

// MQTTConfig describes the broker connection used by both endpoints.
type MQTTConfig struct {
	Broker         string        `mapstructure:"broker"`
	Port           int           `mapstructure:"port"`
	Topic          string        `mapstructure:"topic"`
	ClientID       string        `mapstructure:"client_id"`
	Username       string        `mapstructure:"username"`
	Password       string        `mapstructure:"password"`
	QoS            int           `mapstructure:"qos"`
	KeepAlive      time.Duration `mapstructure:"keepalive"`
	ConnectTimeout time.Duration `mapstructure:"connect_timeout"`
	TLS            TLSConfig     `mapstructure:"tls"`
}

type TLSConfig struct {
	Enabled            bool   `mapstructure:"enabled"`
	CAFile             string `mapstructure:"ca_file"`
	InsecureSkipVerify bool   `mapstructure:"insecure_skip_verify"`
}

// DashboardConfig tunes the ingestion buffer, the live window and the refresh cycle.
type DashboardConfig struct {
	RefreshInterval time.Duration `mapstructure:"refresh_interval"`
	WindowCapacity  int           `mapstructure:"window_capacity"`
	PendingCapacity int           `mapstructure:"pending_capacity"` // 0 = unbounded
	OverflowPolicy  string        `mapstructure:"overflow_policy"`
}

// PublisherConfig drives the device-side sampling loop.
type PublisherConfig struct {
	Interval    time.Duration `mapstructure:"interval"`
	Source      string        `mapstructure:"source"` // simulated | thermal | adc
	ThermalPath string        `mapstructure:"thermal_path"`
	ADCPath     string        `mapstructure:"adc_path"`
	ADCBits     int           `mapstructure:"adc_bits"`
	SimBaseC    float64       `mapstructure:"sim_base_c"`
}

type DevBrokerConfig struct {
	Address  string `mapstructure:"address"`
	CertFile string `mapstructure:"cert_file"`
	KeyFile  string `mapstructure:"key_file"`
}

// Source names accepted by the publisher.
const (
	SourceSimulated = "simulated"
	SourceThermal   = "thermal"
	SourceADC       = "adc"
)

const (
	envPrefix         = "PICOW"
	defaultConfigDir  = "configs"
	defaultConfigName = "config"
	defaultEnvFile    = ".env"
)

var ErrInvalidConfig = errors.New("invalid config")

func setDefaults(v *viper.Viper) {
	v.SetDefault("log_level", logger.InfoLevel)
	v.SetDefault("http.port", "8080")
	v.SetDefault("db.path", "app.db")

	v.SetDefault("mqtt.broker", "localhost")
	v.SetDefault("mqtt.port", 8883)
	v.SetDefault("mqtt.topic", "picow/temperature")
	v.SetDefault("mqtt.client_id", "")
	v.SetDefault("mqtt.username", "")
	v.SetDefault("mqtt.password", "")
	v.SetDefault("mqtt.qos", 1)
	v.SetDefault("mqtt.keepalive", 60*time.Second)
	v.SetDefault("mqtt.connect_timeout", 10*time.Second)
	v.SetDefault("mqtt.tls.enabled", true)
	v.SetDefault("mqtt.tls.ca_file", "")
	v.SetDefault("mqtt.tls.insecure_skip_verify", false)

	v.SetDefault("dashboard.refresh_interval", 2500*time.Millisecond)
	v.SetDefault("dashboard.window_capacity", 500)
	v.SetDefault("dashboard.pending_capacity", 0)
	v.SetDefault("dashboard.overflow_policy", string(ingest.DropOldest))

	v.SetDefault("publisher.interval", 5*time.Second)
	v.SetDefault("publisher.source", SourceSimulated)
	v.SetDefault("publisher.thermal_path", "/sys/class/thermal/thermal_zone0/temp")
	v.SetDefault("publisher.adc_path", "/sys/bus/iio/devices/iio:device0/in_voltage4_raw")
	v.SetDefault("publisher.adc_bits", 12)
	v.SetDefault("publisher.sim_base_c", 21.5)

	v.SetDefault("devbroker.address", ":1883")
	v.SetDefault("devbroker.cert_file", "")
	v.SetDefault("devbroker.key_file", "")
}

// legacyEnv maps keys to the unprefixed secret names existing deployments use.
var legacyEnv = map[string]string{
	"mqtt.broker":    "MQTT_BROKER",
	"mqtt.port":      "MQTT_PORT",
	"mqtt.username":  "MQTT_USERNAME",
	"mqtt.password":  "MQTT_PASSWORD",
	"mqtt.topic":     "MQTT_TOPIC",
	"mqtt.client_id": "MQTT_CLIENT_ID",
}

// flagKeys binds command-line flags to configuration keys.
var flagKeys = map[string]string{
	"log-level":        "log_level",
	"http-port":        "http.port",
	"db-path":          "db.path",
	"mqtt-broker":      "mqtt.broker",
	"mqtt-port":        "mqtt.port",
	"mqtt-topic":       "mqtt.topic",
	"mqtt-insecure":    "mqtt.tls.insecure_skip_verify",
	"refresh-interval": "dashboard.refresh_interval",
	"window-capacity":  "dashboard.window_capacity",
	"interval":         "publisher.interval",
	"source":           "publisher.source",
	"listen":           "devbroker.address",
}

func newFlagSet(name string) *pflag.FlagSet {
	fs := pflag.NewFlagSet(name, pflag.ContinueOnError)
	fs.SortFlags = false
	fs.String("config", "", "path to the config file (default configs/config.yml)")
	fs.String("env-file", defaultEnvFile, "dotenv file with secrets, ignored when missing")
	fs.String("log-level", logger.InfoLevel, "log level: debug|info|warn|error")
	fs.String("http-port", "8080", "dashboard HTTP port")
	fs.String("db-path", "app.db", "sqlite file for diagnostic events")
	fs.String("mqtt-broker", "localhost", "MQTT broker host")
	fs.Int("mqtt-port", 8883, "MQTT broker port")
	fs.String("mqtt-topic", "picow/temperature", "telemetry topic")
	fs.Bool("mqtt-insecure", false, "skip TLS certificate verification")
	fs.Duration("refresh-interval", 2500*time.Millisecond, "dashboard refresh cycle")
	fs.Int("window-capacity", 500, "points kept in the live window")
	fs.Duration("interval", 5*time.Second, "publisher sampling interval")
	fs.String("source", SourceSimulated, "publisher sample source: simulated|thermal|adc")
	fs.String("listen", ":1883", "development broker listen address")
	return fs
}

// Load builds the configuration from, in increasing precedence: defaults, the
// config file, the environment (.env included) and command-line flags.
func Load(name string, args []string) (*Config, error) {
	flags := newFlagSet(name)
	if err := flags.Parse(args); err != nil {
		return nil, fmt.Errorf("parse flags: %w", err)
	}

	envFile, _ := flags.GetString("env-file")
	if err := loadEnvFile(envFile); err != nil {
		return nil, err
	}

	v := viper.New()
	setDefaults(v)

	if path, _ := flags.GetString("config"); path != "" {
		v.SetConfigFile(path)
	} else {
		v.AddConfigPath(defaultConfigDir)
		v.SetConfigName(defaultConfigName)
		v.SetConfigType("yml")
	}
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	for key, legacy := range legacyEnv {
		prefixed := envPrefix + "_" + strings.ToUpper(strings.ReplaceAll(key, ".", "_"))
		if err := v.BindEnv(key, prefixed, legacy); err != nil {
			return nil, fmt.Errorf("bind env %s: %w", key, err)
		}
	}

	for flag, key := range flagKeys {
		if err := v.BindPFlag(key, flags.Lookup(flag)); err != nil {
			return nil, fmt.Errorf("bind flag %s: %w", flag, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func loadEnvFile(path string) error {
	if path == "" {
		return nil
	}
	if err := godotenv.Load(path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("load env file %q: %w", path, err)
	}
	return nil
}

// Validate checks the settings every binary relies on.
func (c *Config) Validate() error {
	var problems []string
	if !logger.IsValidLevel(c.LogLevel) {
		problems = append(problems, fmt.Sprintf("log_level %q", c.LogLevel))
	}
	if strings.TrimSpace(c.MQTT.Broker) == "" {
		problems = append(problems, "mqtt.broker is empty")
	}
	if c.MQTT.Port <= 0 || c.MQTT.Port > 65535 {
		problems = append(problems, fmt.Sprintf("mqtt.port %d out of range", c.MQTT.Port))
	}
	if strings.TrimSpace(c.MQTT.Topic) == "" {
		problems = append(problems, "mqtt.topic is empty")
	} else if strings.ContainsAny(c.MQTT.Topic, "+#") {
		problems = append(problems, "mqtt.topic must not contain wildcards")
	}
	if c.MQTT.QoS < 0 || c.MQTT.QoS > 2 {
		problems = append(problems, fmt.Sprintf("mqtt.qos %d not in 0..2", c.MQTT.QoS))
	}
	if c.MQTT.KeepAlive < time.Second || c.MQTT.KeepAlive > 65535*time.Second {
		problems = append(problems, fmt.Sprintf("mqtt.keepalive %s out of range", c.MQTT.KeepAlive))
	}
	if c.MQTT.ConnectTimeout <= 0 {
		problems = append(problems, "mqtt.connect_timeout must be positive")
	}
	if c.Dashboard.RefreshInterval <= 0 {
		problems = append(problems, "dashboard.refresh_interval must be positive")
	}
	if c.Dashboard.WindowCapacity <= 0 {
		problems = append(problems, "dashboard.window_capacity must be positive")
	}
	if c.Dashboard.PendingCapacity < 0 {
		problems = append(problems, "dashboard.pending_capacity must not be negative")
	}
	if _, err := ingest.ParsePolicy(c.Dashboard.OverflowPolicy); err != nil {
		problems = append(problems, err.Error())
	}
	if c.Publisher.Interval <= 0 {
		problems = append(problems, "publisher.interval must be positive")
	}
	switch c.Publisher.Source {
	case SourceSimulated, SourceThermal:
	case SourceADC:
		if c.Publisher.ADCBits < 1 || c.Publisher.ADCBits > 16 {
			problems = append(problems, fmt.Sprintf("publisher.adc_bits %d not in 1..16", c.Publisher.ADCBits))
		}
	default:
		problems = append(problems, fmt.Sprintf("publisher.source %q", c.Publisher.Source))
	}
	if (c.DevBroker.CertFile == "") != (c.DevBroker.KeyFile == "") {
		problems = append(problems, "devbroker.cert_file and devbroker.key_file must be set together")
	}

	if len(problems) > 0 {
		return fmt.Errorf("%w: %s", ErrInvalidConfig, strings.Join(problems, "; "))
	}
	return nil
}
