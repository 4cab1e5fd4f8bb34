package config

import (
	"errors"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type Config struct {
	Env          string
	Port         string
	AppPublicURL string

	Database DatabaseConfig
	JWT      JWTConfig
	Redis    RedisConfig
	Storage  StorageConfig
	HTTP     HTTPConfig
	Codes    CodesConfig
}

type DatabaseConfig struct {
	Driver          string // mysql, postgres or sqlite
	DSN             string
	Host            string
	Port            string
	User            string
	Pass            string
	Name            string
	Params          string
	TLS             string
	TLSVerify       bool
	TLSCAPath       string
	TLSClientCert   string
	TLSClientKey    string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
	ConnectRetries  int
	AutoMigrate     bool
}

type JWTConfig struct {
	Secret    string
	Audience  string
	Issuer    string
	AccessTTL time.Duration
}

type RedisConfig struct {
	Addr string
	Pass string
	DB   int
}

// StorageConfig describes the S3-compatible bucket (Cloudflare R2) used for avatars.
type StorageConfig struct {
	AccountID     string
	AccessKeyID   string
	SecretKey     string
	Bucket        string
	PublicBaseURL string
}

func (s StorageConfig) Enabled() bool {
	return s.AccountID != "" && s.AccessKeyID != "" && s.SecretKey != "" && s.Bucket != ""
}

type HTTPConfig struct {
	AllowedOrigins []string
	MaxBodyBytes   int64
	RequestTimeout time.Duration
	TrustedProxies []string
	HSTS           bool
}

type CodesConfig struct {
	Length int
}

func (c *Config) IsDevelopment() bool {
	return strings.EqualFold(c.Env, "development")
}

var defaults = map[string]interface{}{
	"ENV":                    "development",
	"PORT":                   "8080",
	"APP_PUBLIC_URL":         "http://localhost:3000",
	"DB_DRIVER":              "mysql",
	"DB_DSN":                 "",
	"DB_HOST":                "127.0.0.1",
	"DB_PORT":                "3306",
	"DB_USER":                "root",
	"DB_PASS":                "",
	"DB_NAME":                "roulette",
	"DB_PARAMS":              "charset=utf8mb4&parseTime=True&loc=UTC",
	"DB_TLS":                 "false",
	"DB_TLS_VERIFY":          false,
	"DB_TLS_CA_PATH":         "",
	"DB_TLS_CLIENT_CERT":     "",
	"DB_TLS_CLIENT_KEY":      "",
	"DB_MAX_OPEN_CONNS":      25,
	"DB_MAX_IDLE_CONNS":      25,
	"DB_CONN_MAX_LIFETIME":   3600,
	"DB_CONNECT_RETRIES":     5,
	"DB_AUTO_MIGRATE":        true,
	"JWT_SECRET":             "",
	"JWT_AUD":                "",
	"JWT_ISS":                "",
	"JWT_ACCESS_TTL_MINUTES": 60 * 24,
	"REDIS_ADDR":             "",
	"REDIS_PASS":             "",
	"REDIS_DB":               0,
	"R2_ACCOUNT_ID":          "",
	"R2_ACCESS_KEY_ID":       "",
	"R2_SECRET_ACCESS_KEY":   "",
	"R2_BUCKET_NAME":         "",
	"R2_PUBLIC_BASE_URL":     "",
	"CORS_ALLOWED_ORIGINS":   "http://localhost:3000,http://127.0.0.1:3000",
	"MAX_BODY_BYTES":         1 << 20,
	"REQ_TIMEOUT_SEC":        10,
	"TRUSTED_PROXIES":        "",
	"SEC_HSTS":               false,
	"ACCESS_CODE_LENGTH":     6,
}

// Load reads .env (without overriding variables already present in the
// environment) and builds a Config from the environment.
func Load() (*Config, error) {
	if envMap, err := godotenv.Read(); err == nil {
		for k, v := range envMap {
			if os.Getenv(k) == "" {
				os.Setenv(k, v)
			}
		}
	}

	return FromViper(newViper())
}

func newViper() *viper.Viper {
	v := viper.New()
	for k, def := range defaults {
		v.SetDefault(k, def)
	}
	v.AutomaticEnv()
	return v
}

// FromViper builds a Config from an already-populated viper instance.
func FromViper(v *viper.Viper) (*Config, error) {
	cfg := &Config{
		Env:          strings.ToLower(strings.TrimSpace(v.GetString("ENV"))),
		Port:         v.GetString("PORT"),
		AppPublicURL: strings.TrimRight(v.GetString("APP_PUBLIC_URL"), "/"),
		Database: DatabaseConfig{
			Driver:          strings.ToLower(strings.TrimSpace(v.GetString("DB_DRIVER"))),
			DSN:             v.GetString("DB_DSN"),
			Host:            v.GetString("DB_HOST"),
			Port:            v.GetString("DB_PORT"),
			User:            v.GetString("DB_USER"),
			Pass:            v.GetString("DB_PASS"),
			Name:            v.GetString("DB_NAME"),
			Params:          v.GetString("DB_PARAMS"),
			TLS:             strings.ToLower(v.GetString("DB_TLS")),
			TLSVerify:       v.GetBool("DB_TLS_VERIFY"),
			TLSCAPath:       v.GetString("DB_TLS_CA_PATH"),
			TLSClientCert:   v.GetString("DB_TLS_CLIENT_CERT"),
			TLSClientKey:    v.GetString("DB_TLS_CLIENT_KEY"),
			MaxOpenConns:    v.GetInt("DB_MAX_OPEN_CONNS"),
			MaxIdleConns:    v.GetInt("DB_MAX_IDLE_CONNS"),
			ConnMaxLifetime: time.Duration(v.GetInt("DB_CONN_MAX_LIFETIME")) * time.Second,
			ConnectRetries:  v.GetInt("DB_CONNECT_RETRIES"),
			AutoMigrate:     v.GetBool("DB_AUTO_MIGRATE"),
		},
		JWT: JWTConfig{
			Secret:    v.GetString("JWT_SECRET"),
			Audience:  v.GetString("JWT_AUD"),
			Issuer:    v.GetString("JWT_ISS"),
			AccessTTL: time.Duration(v.GetInt("JWT_ACCESS_TTL_MINUTES")) * time.Minute,
		},
		Redis: RedisConfig{
			Addr: strings.ReplaceAll(strings.TrimSpace(v.GetString("REDIS_ADDR")), " ", ""),
			Pass: v.GetString("REDIS_PASS"),
			DB:   v.GetInt("REDIS_DB"),
		},
		Storage: StorageConfig{
			AccountID:     v.GetString("R2_ACCOUNT_ID"),
			AccessKeyID:   v.GetString("R2_ACCESS_KEY_ID"),
			SecretKey:     v.GetString("R2_SECRET_ACCESS_KEY"),
			Bucket:        v.GetString("R2_BUCKET_NAME"),
			PublicBaseURL: strings.TrimRight(v.GetString("R2_PUBLIC_BASE_URL"), "/"),
		},
		HTTP: HTTPConfig{
			AllowedOrigins: splitList(v.GetString("CORS_ALLOWED_ORIGINS")),
			MaxBodyBytes:   v.GetInt64("MAX_BODY_BYTES"),
			RequestTimeout: time.Duration(v.GetInt("REQ_TIMEOUT_SEC")) * time.Second,
			TrustedProxies: splitList(v.GetString("TRUSTED_PROXIES")),
			HSTS:           v.GetBool("SEC_HSTS"),
		},
		Codes: CodesConfig{
			Length: v.GetInt("ACCESS_CODE_LENGTH"),
		},
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	if c.JWT.Secret == "" {
		return errors.New("JWT_SECRET is not set")
	}
	if c.JWT.AccessTTL <= 0 {
		return errors.New("JWT_ACCESS_TTL_MINUTES must be positive")
	}
	switch c.Database.Driver {
	case "sqlite":
		if c.Database.DSN == "" && c.Database.Name == "" {
			return errors.New("DB_DSN or DB_NAME is required for sqlite")
		}
	case "mysql", "postgres":
		if c.Database.DSN == "" && (c.Database.Host == "" || c.Database.Name == "") {
			return errors.New("DB_DSN or DB_HOST and DB_NAME are required")
		}
	default:
		return errors.New("unsupported DB_DRIVER " + c.Database.Driver)
	}
	if c.Codes.Length < 4 || c.Codes.Length > 8 {
		return errors.New("ACCESS_CODE_LENGTH must be between 4 and 8")
	}
	return nil
}

func splitList(s string) []string {
	var out []string
	for _, p := range strings.Split(s, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
