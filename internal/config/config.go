package config

import (
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/go-playground/validator"
	_ "github.com/joho/godotenv/autoload"
	"github.com/knadh/koanf"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
)

type Config struct {
	Primary    Primary          `koanf:"primary"`
	Server     ServerConfig     `koanf:"server"`
	Database   DatabaseConfig   `koanf:"database"`
	Redis      RedisConfig      `koanf:"redis"`
	HTTPClient HTTPClientConfig `koanf:"http_client"`
	Retry      RetryConfig      `koanf:"retry"`
	Connectors Connectors       `koanf:"connectors"`
	Logger     LoggerConfig     `koanf:"logger"`
	Worker     WorkerConfig     `koanf:"worker"`
	Tracing    TracingConfig    `koanf:"tracing"`
}

type WorkerConfig struct {
	Interval  time.Duration `koanf:"interval" validate:"required"`
	BatchSize int           `koanf:"batch_size" validate:"required"`
}

type Primary struct {
	Env string `koanf:"env" validate:"required"`
}

type ServerConfig struct {
	Port         string        `koanf:"port" validate:"required"`
	ReadTimeout  time.Duration `koanf:"read_timeout" validate:"required"`
	WriteTimeout time.Duration `koanf:"write_timeout" validate:"required"`
	IdleTimeout  time.Duration `koanf:"idle_timeout" validate:"required"`

	// RequestTimeout bounds a request end to end, connector calls included.
	RequestTimeout time.Duration `koanf:"request_timeout" validate:"required"`
}

type DatabaseConfig struct {
	Host            string        `koanf:"host" validate:"required"`
	Port            int           `koanf:"port" validate:"required"`
	User            string        `koanf:"user" validate:"required"`
	Password        string        `koanf:"password" validate:"required"`
	Name            string        `koanf:"name" validate:"required"`
	SSLMode         string        `koanf:"ssl_mode" validate:"required"`
	MaxOpenConns    int           `koanf:"max_open_conns" validate:"required"`
	MaxIdleConns    int           `koanf:"max_idle_conns" validate:"required"`
	ConnMaxLifetime time.Duration `koanf:"conn_max_lifetime" validate:"required"`
	ConnMaxIdleTime time.Duration `koanf:"conn_max_idle_time" validate:"required"`
}

type RedisConfig struct {
	// URL is optional; without it access tokens are cached in process memory.
	URL string `koanf:"url"`
	// TokenPrefix namespaces access-token keys so several gateways can share one instance.
	TokenPrefix string `koanf:"token_prefix"`
}

type HTTPClientConfig struct {
	Timeout time.Duration `koanf:"timeout" validate:"required"`
}

// DefaultRetryPolicy retries only the read-only flows.
const DefaultRetryPolicy = "(network_error || status_code >= 500) && flow IN ('psync', 'rsync', 'access_token_auth')"

type RetryConfig struct {
	BaseDelay  time.Duration `koanf:"base_delay"`
	MaxRetries int32         `koanf:"max_retries"`
	// Policy is a govaluate expression over status_code, network_error, attempt and flow.
	Policy string `koanf:"policy"`
}

type TracingConfig struct {
	Endpoint    string `koanf:"endpoint"`
	ServiceName string `koanf:"service_name"`
}

// ConnectorParams is the endpoint configuration of one connector.
type ConnectorParams struct {
	BaseURL string `koanf:"base_url" validate:"required,url"`
}

// Connectors holds the base endpoints of every connector the gateway can reach.
type Connectors struct {
	Archipel     ConnectorParams `koanf:"archipel"`
	Bluesnap     ConnectorParams `koanf:"bluesnap"`
	Deutschebank ConnectorParams `koanf:"deutschebank"`
	Nexixpay     ConnectorParams `koanf:"nexixpay"`
	Novalnet     ConnectorParams `koanf:"novalnet"`
	Payme        ConnectorParams `koanf:"payme"`
	Trustpay     TrustpayParams  `koanf:"trustpay"`
	Worldpayxml  ConnectorParams `koanf:"worldpayxml"`
	Zsl          ConnectorParams `koanf:"zsl"`
}

type TrustpayParams struct {
	BaseURL              string `koanf:"base_url" validate:"required,url"`
	BaseURLBankRedirects string `koanf:"base_url_bank_redirects" validate:"required,url"`
}

// defaults are sandbox endpoints and local settings; every key can be overridden
// by the YAML file or by GATEWAY_ environment variables.
var defaults = map[string]any{
	"primary.env":                                 "development",
	"server.port":                                 "8080",
	"server.read_timeout":                         "30s",
	"server.write_timeout":                        "30s",
	"server.idle_timeout":                         "60s",
	"server.request_timeout":                      "25s",
	"database.max_open_conns":                     DefaultMaxOpenConns,
	"database.max_idle_conns":                     DefaultMaxIdleConns,
	"database.conn_max_lifetime":                  DefaultConnMaxLifetime.String(),
	"database.conn_max_idle_time":                 DefaultConnMaxIdleTime.String(),
	"http_client.timeout":                         "30s",
	"retry.base_delay":                            "500ms",
	"retry.max_retries":                           3,
	"retry.policy":                                DefaultRetryPolicy,
	"logger.level":                                "info",
	"worker.interval":                             "1m",
	"worker.batch_size":                           50,
	"tracing.service_name":                        "connector-gateway",
	"redis.token_prefix":                          "access_token",
	"connectors.archipel.base_url":                "https://sandbox.archipel-psp.com/ArchiPEL/Transaction/v1",
	"connectors.bluesnap.base_url":                "https://sandbox.bluesnap.com/",
	"connectors.deutschebank.base_url":            "https://testmerch.directpos.de/rest-api",
	"connectors.nexixpay.base_url":                "https://xpaysandbox.nexigroup.com/api/phoenix-0.0/psp/api/v1",
	"connectors.novalnet.base_url":                "https://payport.novalnet.de/v2",
	"connectors.payme.base_url":                   "https://sandbox.payme.io/",
	"connectors.trustpay.base_url":                "https://test-tpgw.trustpay.eu/",
	"connectors.trustpay.base_url_bank_redirects": "https://aapi.trustpay.eu/",
	"connectors.worldpayxml.base_url":             "https://secure-test.worldpay.com/jsp/merchant/xml/paymentService.jsp",
	"connectors.zsl.base_url":                     "https://api.sitoffalb.net/",
}

func LoadConfig() (*Config, error) {
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.LevelError,
	}))
	k := koanf.New(".")

	if err := k.Load(confmap.Provider(defaults, "."), nil); err != nil {
		logger.Error("failed to load defaults", "error", err)
		return nil, err
	}

	if path := os.Getenv("GATEWAY_CONFIG_FILE"); path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			logger.Error("failed to load config file", "path", path, "error", err)
			return nil, err
		}
	}

	err := k.Load(env.Provider("GATEWAY_", ".", func(s string) string {
		return strings.ReplaceAll(
			strings.ToLower(strings.TrimPrefix(s, "GATEWAY_")),
			"__",
			".",
		)
	}), nil)
	if err != nil {
		logger.Error("failed to load environment variables", "error", err)
		return nil, err
	}

	mainConfig := &Config{}

	err = k.Unmarshal("", mainConfig)
	if err != nil {
		logger.Error("could not unmarshal main config", "error", err)
		return nil, err
	}

	validate := validator.New()

	err = validate.Struct(mainConfig)
	if err != nil {
		logger.Error("config validation failed", "error", err)
		return nil, err
	}

	return mainConfig, nil
}
