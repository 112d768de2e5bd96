package config

import (
	"fmt"
	"log/slog"
	"net/url"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/Bab4nI/Jaba/internal/logger"
	"github.com/Bab4nI/Jaba/internal/validator"
)

type APIKey struct {
	Active *bool  `mapstructure:"active" json:"active" validate:"required"`
	ID     string `mapstructure:"id"     json:"id"     validate:"required,uuid_rfc4122"`
	Note   string `mapstructure:"note"   json:"note"   validate:"required"`
	Token  string `mapstructure:"token"  json:"token"  validate:"required"`
	Admin  bool   `mapstructure:"admin"  json:"admin"`
}

type PostgresConfig struct {
	User               string        `validate:"required"`
	Password           string        `validate:"required"`
	Host               string        `validate:"required"`
	Database           string        `validate:"required"`
	MaxIdleConnections int           `validate:"required" mapstructure:"max_idle_connections"`
	MaxOpenConnections int           `validate:"required" mapstructure:"max_open_connections"`
	ConnectionTTL      time.Duration `validate:"required" mapstructure:"connection_ttl"`
	Port               int16         `validate:"required"`
}

type RedisConfig struct {
	Host string `mapstructure:"host" validate:"required"`
	Port int16  `mapstructure:"port" validate:"required"`
}

func (r *RedisConfig) Addr() string {
	return fmt.Sprintf("%s:%d", r.Host, r.Port)
}

// Language maps a public language name onto the judge service's numeric
// language ids, one per interpreter/compiler variant.
type Language struct {
	Default  string         `mapstructure:"default"  json:"default"  validate:"required"`
	Variants map[string]int `mapstructure:"variants" json:"variants" validate:"required"`
}

type JudgeConfig struct {
	URL            string        `mapstructure:"url"              validate:"required"`
	AuthHeader     string        `mapstructure:"auth_header"`
	AuthToken      string        `mapstructure:"auth_token"`
	PollAttempts   int           `mapstructure:"poll_attempts"    validate:"required"`
	PollDelay      time.Duration `mapstructure:"poll_delay"       validate:"required"`
	ResultCacheTTL time.Duration `mapstructure:"result_cache_ttl" validate:"required"`
	CPUTimeLimit   float64       `mapstructure:"cpu_time_limit"`
	MemoryLimitKB  int           `mapstructure:"memory_limit_kb"`
	MaxProcesses   int           `mapstructure:"max_processes"`
}

type AssistantConfig struct {
	URL          string `mapstructure:"url"           validate:"required"`
	APIKey       string `mapstructure:"api_key"`
	Model        string `mapstructure:"model"         validate:"required"`
	SystemPrompt string `mapstructure:"system_prompt"`
	MaxRetries   int    `mapstructure:"max_retries"`
}

type S3Config struct {
	Endpoint        string `mapstructure:"endpoint"`
	AccessKeyID     string `mapstructure:"access_key_id"`
	SecretAccessKey string `mapstructure:"secret_access_key"`
	BucketName      string `mapstructure:"bucket_name"`
	SSLEnabled      bool   `mapstructure:"ssl_enabled"`
}

type SlogConfig struct {
	Level int `mapstructure:"level"`
}

type GormLogConfig struct {
	Level        int  `mapstructure:"level"`
	TraceQueries bool `mapstructure:"trace_queries"`
}

type LoggingConfig struct {
	Gorm    GormLogConfig `mapstructure:"gorm"`
	App     SlogConfig    `mapstructure:"app"`
	UseOTLP bool          `mapstructure:"use_otlp"`
}

type RateLimitConfig struct {
	GlobalPerMinute  int64 `mapstructure:"global_per_minute"`
	ExecutePerMinute int64 `mapstructure:"execute_per_minute"`
	FailOpen         bool  `mapstructure:"fail_open"`
}

// See jaba.yaml for an example config
type Config struct {
	Postgres             *PostgresConfig     `mapstructure:"postgres"  validate:"required"`
	Redis                *RedisConfig        `mapstructure:"redis"     validate:"required"`
	Judge                *JudgeConfig        `mapstructure:"judge"     validate:"required"`
	Assistant            *AssistantConfig    `mapstructure:"assistant" validate:"required"`
	S3                   *S3Config           `mapstructure:"s3"        validate:"required"`
	Logging              *LoggingConfig      `mapstructure:"logging"`
	RateLimit            *RateLimitConfig    `mapstructure:"ratelimit"`
	Languages            map[string]Language `mapstructure:"languages" validate:"required"`
	ListenAddress        string              `mapstructure:"listen_address" validate:"required"`
	APIKeys              []APIKey            `mapstructure:"api_keys"       validate:"required"`
	GracefulShutdownSecs int64               `mapstructure:"graceful_shutdown_secs"`
}

const (
	AppLogLevel                string = "logging.app.level"
	AssistantAPIKey            string = "assistant.api_key" // #nosec
	AssistantMaxRetries        string = "assistant.max_retries"
	AssistantModel             string = "assistant.model"
	AssistantURL               string = "assistant.url"
	EnvPrefix                  string = "jaba"
	ExecutePerMinute           string = "ratelimit.execute_per_minute"
	GlobalPerMinute            string = "ratelimit.global_per_minute"
	GormLogLevel               string = "logging.gorm.level"
	GormTraceQueries           string = "logging.gorm.trace_queries"
	GracefulShutdownSecs       string = "graceful_shutdown_secs"
	JudgeAuthToken             string = "judge.auth_token" // #nosec
	JudgeCPUTimeLimit          string = "judge.cpu_time_limit"
	JudgeMaxProcesses          string = "judge.max_processes"
	JudgeMemoryLimitKB         string = "judge.memory_limit_kb"
	JudgePollAttempts          string = "judge.poll_attempts"
	JudgePollDelay             string = "judge.poll_delay"
	JudgeResultCacheTTL        string = "judge.result_cache_ttl"
	JudgeURL                   string = "judge.url"
	ListenAddress              string = "listen_address"
	PostgresConnectonTTL       string = "postgres.connection_ttl"
	PostgresDatabase           string = "postgres.database"
	PostgresHost               string = "postgres.host"
	PostgresMaxIdleConnections string = "postgres.max_idle_connections"
	PostgresMaxOpenConnections string = "postgres.max_open_connections"
	PostgresPassword           string = "postgres.password"
	PostgresPort               string = "postgres.port"
	PostgresUser               string = "postgres.user"
	RateLimitFailOpen          string = "ratelimit.fail_open"
	RedisHost                  string = "redis.host"
	RedisPort                  string = "redis.port"
	S3AccessKeyID              string = "s3.access_key_id"
	S3SSLEnabled               string = "s3.ssl_enabled"
	S3SecretAccessKey          string = "s3.secret_access_key" // #nosec
	UseOTLP                    string = "logging.use_otlp"
)

var configReady = false
var config Config

func GetConfig() (*Config, error) {
	if configReady {
		logger.Logger.Debug("returning already-loaded config")
		return &config, nil
	}
	logger.Logger.Info("loading config")

	v := viper.New()

	v.SetConfigName("jaba")

	v.AddConfigPath("/etc/jaba/")
	v.AddConfigPath(".")

	v.SetConfigType("yaml")

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	v.AutomaticEnv()

	// workaround for https://github.com/spf13/viper/issues/761
	// bind env vars explicitly so they unmarshal into the nested struct
	for _, key := range []string{
		PostgresPassword,
		JudgeURL,
		JudgeAuthToken,
		AssistantAPIKey,
		S3AccessKeyID,
		S3SecretAccessKey,
	} {
		if err := v.BindEnv(key); err != nil {
			return nil, err
		}
	}

	v.SetDefault(ListenAddress, "[::]:1323")
	v.SetDefault(PostgresHost, "localhost")
	v.SetDefault(PostgresPort, 5432)
	v.SetDefault(PostgresMaxIdleConnections, 2)
	v.SetDefault(PostgresMaxOpenConnections, 10)
	v.SetDefault(PostgresConnectonTTL, 10*time.Minute)
	v.SetDefault(GormLogLevel, int(slog.LevelDebug))
	v.SetDefault(GormTraceQueries, false)
	v.SetDefault(AppLogLevel, int(slog.LevelDebug))

	v.SetDefault(RedisHost, "localhost")
	v.SetDefault(RedisPort, 6379)
	v.SetDefault(GlobalPerMinute, 0)
	v.SetDefault(ExecutePerMinute, 0)
	v.SetDefault(RateLimitFailOpen, true)

	v.SetDefault(JudgePollAttempts, 10)
	v.SetDefault(JudgePollDelay, time.Second)
	v.SetDefault(JudgeResultCacheTTL, time.Hour)
	v.SetDefault(JudgeCPUTimeLimit, 5.0)
	v.SetDefault(JudgeMemoryLimitKB, 128000)
	v.SetDefault(JudgeMaxProcesses, 60)

	v.SetDefault(AssistantURL, "https://api.deepseek.com")
	v.SetDefault(AssistantModel, "deepseek-chat")
	v.SetDefault(AssistantMaxRetries, 3)

	v.SetDefault(S3SSLEnabled, true)

	v.SetDefault(UseOTLP, false)

	v.SetDefault(GracefulShutdownSecs, 30)

	v.SetDefault("languages", DefaultLanguages())

	err := v.ReadInConfig()
	if err != nil {
		// ignore config file not found to allow pure env config
		if _, ok := err.(*viper.ConfigFileNotFoundError); !ok {
			return nil, err
		}
	}

	err = v.Unmarshal(&config)
	if err != nil {
		configReady = false
		return nil, err
	}

	valid := validator.Create()
	err = valid.Validate(&config)
	if err != nil {
		configReady = false
		return nil, err
	}

	configReady = true
	return &config, nil
}

func (c *Config) PostgresDSN() string {
	return fmt.Sprintf(
		"postgresql://%s:%s@%s:%d/%s",
		url.QueryEscape(c.Postgres.User),
		url.QueryEscape(c.Postgres.Password),
		c.Postgres.Host, c.Postgres.Port,
		url.QueryEscape(c.Postgres.Database),
	)
}

// DefaultLanguages is the stock language table for a Judge0 CE deployment.
// Deployments tracking a different judge build override it in config.
func DefaultLanguages() map[string]Language {
	return map[string]Language{
		"javascript": {Default: "node", Variants: map[string]int{"node": 63}},
		"python":     {Default: "cpython", Variants: map[string]int{"cpython": 71, "pypy": 99}},
		"java":       {Default: "openjdk", Variants: map[string]int{"openjdk": 62}},
		"kotlin":     {Default: "kotlin-jvm", Variants: map[string]int{"kotlin-jvm": 78}},
		"go":         {Default: "go", Variants: map[string]int{"go": 60}},
		"rust":       {Default: "rustc", Variants: map[string]int{"rustc": 73}},
		"cpp":        {Default: "g++", Variants: map[string]int{"g++": 54}},
		"csharp":     {Default: "mono", Variants: map[string]int{"mono": 51}},
		"php":        {Default: "php", Variants: map[string]int{"php": 68}},
		"ruby":       {Default: "mri", Variants: map[string]int{"mri": 72}},
		"swift":      {Default: "swift", Variants: map[string]int{"swift": 83}},
		"scala":      {Default: "scala", Variants: map[string]int{"scala": 81}},
	}
}
