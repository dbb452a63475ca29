package config

import (
	"fmt"
	"os"
	"runtime"
	"time"

	"github.com/kat-co/vala"
	"github.com/rs/zerolog"
	"github.com/subosito/gotenv"
	"github/chapool/go-docsign/internal/util"
	"golang.org/x/text/language"
)

const (
	StoreDriverMemory   = "memory"
	StoreDriverPostgres = "postgres"
	StoreDriverRedis    = "redis"

	DerivationSchemeKeccak = "keccak"
	DerivationSchemeBIP32  = "bip32"
)

type EchoServer struct {
	Debug                          bool
	ListenAddress                  string
	HideInternalServerErrorDetails bool
	BaseURL                        string
	EnableCORSMiddleware           bool
	EnableLoggerMiddleware         bool
	EnableRecoverMiddleware        bool
	EnableRequestIDMiddleware      bool
	EnableRateLimitMiddleware      bool
	EnableMetricsMiddleware        bool
	BodyLimit                      string
}

type LoggerServer struct {
	Level              zerolog.Level
	RequestLevel       zerolog.Level
	LogRequestBody     bool
	LogRequestHeader   bool
	LogRequestQuery    bool
	LogResponseBody    bool
	LogResponseHeader  bool
	LogCaller          bool
	PrettyPrintConsole bool
}

type ManagementServer struct {
	ReadinessTimeout time.Duration
	LivenessTimeout  time.Duration
	ProbeBaseURL     string
}

// Backend configures the HTTP client of the external signing backend.
type Backend struct {
	BaseURL string
	APIKey  string
	Timeout time.Duration
}

// Configured reports whether both the base URL and the API key are set.
func (b Backend) Configured() bool {
	return b.BaseURL != "" && b.APIKey != ""
}

type Signing struct {
	MaxDocumentSize     int64
	DefaultMessage      string
	PendingTTL          time.Duration
	ExpiryCheckInterval time.Duration
	ExpiryWorkerEnabled bool
	RateLimitPerMinute  float64
	RateLimitBurst      int
}

type Wallet struct {
	DemoDerivationEnabled bool
	DerivationScheme      string
	DerivationSalt        string
}

type Chain struct {
	DefaultChainID int64
	RPCURLs        []string
	RPCTimeout     time.Duration
}

type Database struct {
	Host             string
	Port             int
	Username         string
	Password         string //nolint:gosec
	Database         string
	AdditionalParams map[string]string `json:",omitempty"` // Optional additional connection parameters mapped into the connection string
	MaxOpenConns     int
	MaxIdleConns     int
	ConnMaxLifetime  time.Duration
}

// ConnectionString generates a connection string to be passed to sql.Open or equivalents, assuming Postgres syntax
func (c Database) ConnectionString() string {
	var b = fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s", c.Host, c.Port, c.Username, c.Password, c.Database)

	for key, value := range c.AdditionalParams {
		b += fmt.Sprintf(" %s=%s", key, value)
	}

	return b
}

type Redis struct {
	Addr     string
	Password string //nolint:gosec
	DB       int
}

type Store struct {
	Driver   string
	Database Database
	Redis    Redis
}

type I18n struct {
	DefaultLanguage language.Tag
}

type Server struct {
	Echo       EchoServer
	Logger     LoggerServer
	Management ManagementServer
	Backend    Backend
	Signing    Signing
	Wallet     Wallet
	Chain      Chain
	Store      Store
	I18n       I18n
}

// LoadEnvFiles loads dotenv files into the process environment. Variables that
// are already set win over values from the files, missing files are skipped.
func LoadEnvFiles(paths ...string) {
	for _, path := range paths {
		if _, err := os.Stat(path); err != nil {
			continue
		}

		if err := gotenv.Load(path); err != nil {
			fmt.Fprintf(os.Stderr, "failed to load env file %s: %v\n", path, err)
		}
	}
}

// Validate checks the parts of the configuration without a usable default.
// A missing signing backend is not an error here; the backend client reports
// it per request instead.
func (c Server) Validate() error {
	return vala.BeginValidation().Validate(
		vala.StringNotEmpty(c.Echo.ListenAddress, "SERVER_ECHO_LISTEN_ADDRESS"),
		vala.StringNotEmpty(c.Store.Driver, "STORE_DRIVER"),
		vala.GreaterThan(int(c.Signing.MaxDocumentSize), 0, "SIGNING_MAX_DOCUMENT_SIZE"),
		vala.GreaterThan(int(c.Chain.DefaultChainID), 0, "CHAIN_DEFAULT_ID"),
		vala.StringNotEmpty(c.Wallet.DerivationSalt, "WALLET_DERIVATION_SALT"),
	).Check()
}

// DefaultServiceConfigFromEnv returns the server config as parsed from environment variables
// and their respective defaults defined below.
// We don't expect that ENV_VARs change while we are running our application or our tests
// (and it would be a bad thing to do anyways with parallel testing).
// Do NOT use os.Setenv / os.Unsetenv in tests utilizing DefaultServiceConfigFromEnv()!
func DefaultServiceConfigFromEnv() Server {
	return Server{
		Echo: EchoServer{
			Debug:                          util.GetEnvAsBool("SERVER_ECHO_DEBUG", false),
			ListenAddress:                  util.GetEnv("SERVER_ECHO_LISTEN_ADDRESS", ":8080"),
			HideInternalServerErrorDetails: util.GetEnvAsBool("SERVER_ECHO_HIDE_INTERNAL_SERVER_ERROR_DETAILS", true),
			BaseURL:                        util.GetEnv("SERVER_ECHO_BASE_URL", "http://localhost:8080"),
			EnableCORSMiddleware:           util.GetEnvAsBool("SERVER_ECHO_ENABLE_CORS_MIDDLEWARE", true),
			EnableLoggerMiddleware:         util.GetEnvAsBool("SERVER_ECHO_ENABLE_LOGGER_MIDDLEWARE", true),
			EnableRecoverMiddleware:        util.GetEnvAsBool("SERVER_ECHO_ENABLE_RECOVER_MIDDLEWARE", true),
			EnableRequestIDMiddleware:      util.GetEnvAsBool("SERVER_ECHO_ENABLE_REQUEST_ID_MIDDLEWARE", true),
			EnableRateLimitMiddleware:      util.GetEnvAsBool("SERVER_ECHO_ENABLE_RATE_LIMIT_MIDDLEWARE", true),
			EnableMetricsMiddleware:        util.GetEnvAsBool("SERVER_ECHO_ENABLE_METRICS_MIDDLEWARE", true),
			BodyLimit:                      util.GetEnv("SERVER_ECHO_BODY_LIMIT", "16M"),
		},
		Logger: LoggerServer{
			Level:              util.LogLevelFromString(util.GetEnv("SERVER_LOGGER_LEVEL", zerolog.DebugLevel.String())),
			RequestLevel:       util.LogLevelFromString(util.GetEnv("SERVER_LOGGER_REQUEST_LEVEL", zerolog.DebugLevel.String())),
			LogRequestBody:     util.GetEnvAsBool("SERVER_LOGGER_LOG_REQUEST_BODY", false),
			LogRequestHeader:   util.GetEnvAsBool("SERVER_LOGGER_LOG_REQUEST_HEADER", false),
			LogRequestQuery:    util.GetEnvAsBool("SERVER_LOGGER_LOG_REQUEST_QUERY", false),
			LogResponseBody:    util.GetEnvAsBool("SERVER_LOGGER_LOG_RESPONSE_BODY", false),
			LogResponseHeader:  util.GetEnvAsBool("SERVER_LOGGER_LOG_RESPONSE_HEADER", false),
			LogCaller:          util.GetEnvAsBool("SERVER_LOGGER_LOG_CALLER", false),
			PrettyPrintConsole: util.GetEnvAsBool("SERVER_LOGGER_PRETTY_PRINT_CONSOLE", false),
		},
		Management: ManagementServer{
			ReadinessTimeout: time.Second * time.Duration(util.GetEnvAsInt("SERVER_MANAGEMENT_READINESS_TIMEOUT_SEC", 4)),
			LivenessTimeout:  time.Second * time.Duration(util.GetEnvAsInt("SERVER_MANAGEMENT_LIVENESS_TIMEOUT_SEC", 9)),
			ProbeBaseURL:     util.GetEnv("SERVER_MANAGEMENT_PROBE_BASE_URL", "http://127.0.0.1:8080"),
		},
		Backend: Backend{
			BaseURL: util.GetEnv("SIGNING_BACKEND_URL", ""),
			APIKey:  util.GetEnv("SIGNING_BACKEND_API_KEY", ""),
			Timeout: time.Second * time.Duration(util.GetEnvAsInt("SIGNING_BACKEND_TIMEOUT_SEC", 30)),
		},
		Signing: Signing{
			MaxDocumentSize:     util.GetEnvAsInt64("SIGNING_MAX_DOCUMENT_SIZE", 10*1024*1024),
			DefaultMessage:      util.GetEnv("SIGNING_DEFAULT_MESSAGE", "Document signing request"),
			PendingTTL:          time.Minute * time.Duration(util.GetEnvAsInt("SESSION_PENDING_TTL_MIN", 24*60)),
			ExpiryCheckInterval: time.Second * time.Duration(util.GetEnvAsInt("SESSION_EXPIRY_CHECK_INTERVAL_SEC", 60)),
			ExpiryWorkerEnabled: util.GetEnvAsBool("SESSION_EXPIRY_WORKER_ENABLED", true),
			RateLimitPerMinute:  util.GetEnvAsFloat("SIGNING_RATE_LIMIT_PER_MINUTE", 30),
			RateLimitBurst:      util.GetEnvAsInt("SIGNING_RATE_LIMIT_BURST", 10),
		},
		Wallet: Wallet{
			DemoDerivationEnabled: util.GetEnvAsBool("WALLET_DEMO_DERIVATION_ENABLED", true),
			DerivationScheme:      util.GetEnvEnum("WALLET_DERIVATION_SCHEME", DerivationSchemeKeccak, []string{DerivationSchemeKeccak, DerivationSchemeBIP32}),
			DerivationSalt:        util.GetEnv("WALLET_DERIVATION_SALT", "mst-signature-salt"),
		},
		Chain: Chain{
			DefaultChainID: util.GetEnvAsInt64("CHAIN_DEFAULT_ID", 1),
			RPCURLs:        util.GetEnvAsStringArrTrimmed("CHAIN_RPC_URLS", []string{}),
			RPCTimeout:     time.Second * time.Duration(util.GetEnvAsInt("CHAIN_RPC_TIMEOUT_SEC", 5)),
		},
		Store: Store{
			Driver: util.GetEnvEnum("STORE_DRIVER", StoreDriverMemory, []string{StoreDriverMemory, StoreDriverPostgres, StoreDriverRedis}),
			Database: Database{
				Host:     util.GetEnv("PGHOST", "postgres"),
				Port:     util.GetEnvAsInt("PGPORT", 5432),
				Database: util.GetEnv("PGDATABASE", "development"),
				Username: util.GetEnv("PGUSER", "dbuser"),
				Password: util.GetEnv("PGPASSWORD", ""),
				AdditionalParams: map[string]string{
					"sslmode": util.GetEnv("PGSSLMODE", "disable"),
				},
				MaxOpenConns:    util.GetEnvAsInt("DB_MAX_OPEN_CONNS", runtime.NumCPU()*2),
				MaxIdleConns:    util.GetEnvAsInt("DB_MAX_IDLE_CONNS", 1),
				ConnMaxLifetime: time.Second * time.Duration(util.GetEnvAsInt("DB_CONN_MAX_LIFETIME_SEC", 60)),
			},
			Redis: Redis{
				Addr:     util.GetEnv("REDIS_ADDR", "localhost:6379"),
				Password: util.GetEnv("REDIS_PASSWORD", ""),
				DB:       util.GetEnvAsInt("REDIS_DB", 0),
			},
		},
		I18n: I18n{
			DefaultLanguage: util.GetEnvAsLanguageTag("SERVER_I18N_DEFAULT_LANGUAGE", language.English),
		},
	}
}
