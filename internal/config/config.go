// File: internal/config/config.go
package config

import (
	"fmt"
	"net"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// DefaultAllowOrigins 為原部署的儀表板前端來源
var DefaultAllowOrigins = []string{
	"https://ai-kiosk-dashboard.vercel.app",
	"https://ai-kiosk-dashboard-demo.vercel.app",
	"https://ai-kiosk-fe.onrender.com",
}

// Config 集中保存服務啟動所需的所有設定
type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	Auth     AuthConfig
	Redis    RedisConfig
	CORS     CORSConfig
	Export   ExportConfig
	Log      LogConfig
}

type ServerConfig struct {
	Addr  string
	Debug bool
}

type DatabaseConfig struct {
	URL            string
	ConnectTimeout time.Duration
}

type AuthConfig struct {
	Secret        string
	TokenTTL      time.Duration
	LoginAttempts int
	LoginWindow   time.Duration
}

type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

type CORSConfig struct {
	AllowOrigins []string
}

type ExportConfig struct {
	TempDir string
	Workers int
}

type LogConfig struct {
	Level string
}

// loadDotEnv 可於測試中替換
var loadDotEnv = func() { _ = godotenv.Load() }

// Load 先讀取 .env（不存在時忽略），再以環境變數覆寫預設值
func Load() (*Config, error) {
	loadDotEnv()

	v := viper.New()
	v.AutomaticEnv()

	v.SetDefault("SERVER_ADDR", ":8080")
	v.SetDefault("SERVER_DEBUG", false)
	v.SetDefault("DB_HOST", "localhost")
	v.SetDefault("DB_PORT", 5432)
	v.SetDefault("DB_NAME", "ai_kiosk")
	v.SetDefault("DB_CONNECT_TIMEOUT", "5s")
	v.SetDefault("TOKEN_TTL", "8h")
	v.SetDefault("LOGIN_MAX_ATTEMPTS", 10)
	v.SetDefault("LOGIN_WINDOW", "1m")
	v.SetDefault("REDIS_DB", 0)
	v.SetDefault("WORKER_COUNT", 1)
	v.SetDefault("LOG_LEVEL", "info")

	secret := v.GetString("JWT_SECRET")
	if secret == "" {
		secret = v.GetString("SECRET_KEY")
	}
	if secret == "" {
		return nil, fmt.Errorf("環境變數 JWT_SECRET 未設定")
	}

	redisAddr := v.GetString("REDIS_ADDR")
	if redisAddr == "" {
		return nil, fmt.Errorf("環境變數 REDIS_ADDR 未設定")
	}
	redisDB, err := strconv.Atoi(v.GetString("REDIS_DB"))
	if err != nil {
		return nil, fmt.Errorf("無效的 REDIS_DB: %v", err)
	}

	connectTimeout, err := time.ParseDuration(v.GetString("DB_CONNECT_TIMEOUT"))
	if err != nil {
		return nil, fmt.Errorf("無效的 DB_CONNECT_TIMEOUT: %v", err)
	}
	tokenTTL, err := time.ParseDuration(v.GetString("TOKEN_TTL"))
	if err != nil || tokenTTL <= 0 {
		return nil, fmt.Errorf("無效的 TOKEN_TTL: %q", v.GetString("TOKEN_TTL"))
	}
	loginWindow, err := time.ParseDuration(v.GetString("LOGIN_WINDOW"))
	if err != nil || loginWindow <= 0 {
		return nil, fmt.Errorf("無效的 LOGIN_WINDOW: %q", v.GetString("LOGIN_WINDOW"))
	}

	workers, err := strconv.Atoi(v.GetString("WORKER_COUNT"))
	if err != nil || workers <= 0 {
		return nil, fmt.Errorf("無效的 WORKER_COUNT: %q", v.GetString("WORKER_COUNT"))
	}

	dbURL := v.GetString("DATABASE_URL")
	if dbURL == "" {
		dbURL = buildDatabaseURL(
			v.GetString("DB_HOST"),
			v.GetString("DB_PORT"),
			v.GetString("DB_USER"),
			v.GetString("DB_PASSWORD"),
			v.GetString("DB_NAME"),
		)
	}

	return &Config{
		Server: ServerConfig{
			Addr:  v.GetString("SERVER_ADDR"),
			Debug: v.GetBool("SERVER_DEBUG"),
		},
		Database: DatabaseConfig{
			URL:            dbURL,
			ConnectTimeout: connectTimeout,
		},
		Auth: AuthConfig{
			Secret:        secret,
			TokenTTL:      tokenTTL,
			LoginAttempts: v.GetInt("LOGIN_MAX_ATTEMPTS"),
			LoginWindow:   loginWindow,
		},
		Redis: RedisConfig{
			Addr:     redisAddr,
			Password: v.GetString("REDIS_PASSWORD"),
			DB:       redisDB,
		},
		CORS: CORSConfig{
			AllowOrigins: splitOrigins(v.GetString("CORS_ALLOW_ORIGINS")),
		},
		Export: ExportConfig{
			TempDir: v.GetString("EXPORT_TMP_DIR"),
			Workers: workers,
		},
		Log: LogConfig{
			Level: strings.ToLower(v.GetString("LOG_LEVEL")),
		},
	}, nil
}

func buildDatabaseURL(host, port, user, password, name string) string {
	u := url.URL{
		Scheme: "postgres",
		Host:   net.JoinHostPort(host, port),
		Path:   "/" + name,
	}
	if user != "" {
		if password != "" {
			u.User = url.UserPassword(user, password)
		} else {
			u.User = url.User(user)
		}
	}
	return u.String()
}

func splitOrigins(raw string) []string {
	if strings.TrimSpace(raw) == "" {
		return append([]string(nil), DefaultAllowOrigins...)
	}
	var out []string
	for _, o := range strings.Split(raw, ",") {
		if o = strings.TrimSpace(o); o != "" {
			out = append(out, o)
		}
	}
	return out
}

// String 回傳遮蔽敏感資訊後的設定摘要
func (c *Config) String() string {
	dbURL := c.Database.URL
	if u, err := url.Parse(dbURL); err == nil && u.User != nil {
		if _, ok := u.User.Password(); ok {
			u.User = url.UserPassword(u.User.Username(), "***")
		}
		dbURL = u.String()
	}
	return fmt.Sprintf("Config{Addr: %s, DB: %s, Redis: %s/%d, TokenTTL: %s, Origins: %v, Secret: ***}",
		c.Server.Addr, dbURL, c.Redis.Addr, c.Redis.DB, c.Auth.TokenTTL, c.CORS.AllowOrigins)
}
