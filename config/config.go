package config

import (
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/go-viper/mapstructure/v2"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

const configFileEnvName = "STOREFRONT_CONFIG_FILE"

const secretMask = "******"

type User struct {
	Username string `mapstructure:"username"`
	Password string `mapstructure:"password"`
	Role     string `mapstructure:"role"`
}

type auth struct {
	TokenSecret string        `mapstructure:"token_secret"`
	TokenTTL    time.Duration `mapstructure:"token_ttl"`
	Users       []User        `mapstructure:"users"`
}

type cors struct {
	AllowedOrigins []string `mapstructure:"allowed_origins"`
}

type topics struct {
	Purchases string `mapstructure:"purchases"`
}

type tlsFiles struct {
	CA   string `mapstructure:"ca"`
	Cert string `mapstructure:"cert"`
	Key  string `mapstructure:"key"`
}

// Enabled reports whether all three files are set.
func (t tlsFiles) Enabled() bool {
	return t.CA != "" && t.Cert != "" && t.Key != ""
}

type broker struct {
	Enabled            bool     `mapstructure:"enabled"`
	SeedBrokers        []string `mapstructure:"seed_brokers"`
	SchemaRegistryURLs []string `mapstructure:"schema_registry_urls"`
	Topics             topics   `mapstructure:"topics"`
	TLS                tlsFiles `mapstructure:"tls"`
}

type Config struct {
	LogLevel           slog.Level    `mapstructure:"log_level"`
	HTTPServerAddr     string        `mapstructure:"http_server_addr"`
	HTTPRequestTimeout time.Duration `mapstructure:"http_request_timeout"`
	CORS               cors          `mapstructure:"cors"`
	Auth               auth          `mapstructure:"auth"`
	Broker             broker        `mapstructure:"broker"`
}

// Load reads the file named by STOREFRONT_CONFIG_FILE or --config
// and exits the process on failure.
func Load() Config {
	cfg, err := LoadFile(getConfigFilepath())
	if err != nil {
		die(err)
	}
	return cfg
}

// LoadFile reads and strictly decodes a single config file.
// Unknown keys are an error.
func LoadFile(path string) (Config, error) {
	const op = "config.LoadFile"

	v := viper.New()
	v.SetConfigFile(path)
	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		return Config{}, fmt.Errorf("%s: %w", op, err)
	}

	var cfg Config
	err := v.UnmarshalExact(&cfg, viper.DecodeHook(
		mapstructure.ComposeDecodeHookFunc(
			mapstructure.TextUnmarshallerHookFunc(),
			mapstructure.StringToTimeDurationHookFunc(),
			mapstructure.StringToSliceHookFunc(","),
		),
	))
	if err != nil {
		return Config{}, fmt.Errorf("%s: %w", op, err)
	}

	if cfg.Auth.TokenSecret == "" {
		return Config{}, fmt.Errorf("%s: auth.token_secret is required", op)
	}
	if cfg.Broker.Enabled && cfg.Broker.Topics.Purchases == "" {
		return Config{}, fmt.Errorf(
			"%s: broker.topics.purchases is required when broker is enabled", op,
		)
	}
	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("log_level", "info")
	v.SetDefault("http_server_addr", ":8000")
	v.SetDefault("http_request_timeout", "5s")
	v.SetDefault("cors.allowed_origins", []string{"http://localhost:5173"})
	v.SetDefault("auth.token_ttl", "1h")
	v.SetDefault("broker.enabled", false)
}

func getConfigFilepath() string {
	cmdLine := pflag.NewFlagSet(os.Args[0], pflag.ExitOnError)
	arg := cmdLine.String("config", "/config.yaml", "config file")
	_ = cmdLine.Parse(os.Args[1:])
	env, ok := os.LookupEnv(configFileEnvName)
	if ok {
		return env
	}
	return *arg
}

func die(err error) {
	fmt.Printf("failed to load config file: %v\n", err)
	os.Exit(2)
}

func (c Config) Print() {
	tamplate := `
	General:
	LogLevel=%q
	HTTPServerAddr=%q
	HTTPRequestTimeout=%s
	AllowedOrigins=%q

	Auth:
	TokenSecret=%q
	TokenTTL=%s
	Users=%q

	BrokerConfig:
	Enabled=%t
	SeedBrokers=%q
	SchemaRegistryURLs=%q
	TLS=%t
	Topics:
		Purchases=%q

`
	fmt.Println("Loaded config:")
	fmt.Printf(
		strings.TrimLeft(tamplate, "\n"),
		c.LogLevel,
		c.HTTPServerAddr,
		c.HTTPRequestTimeout,
		c.CORS.AllowedOrigins,
		secretMask,
		c.Auth.TokenTTL,
		c.usernames(),
		c.Broker.Enabled,
		c.Broker.SeedBrokers,
		c.Broker.SchemaRegistryURLs,
		c.Broker.TLS.Enabled(),
		c.Broker.Topics.Purchases,
	)
}

func (c Config) usernames() []string {
	names := make([]string, len(c.Auth.Users))
	for i, u := range c.Auth.Users {
		names[i] = u.Username + "(" + u.Role + ")"
	}
	return names
}
