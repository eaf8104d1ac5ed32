package config

import (
	"fmt"
	"time"

	"restock-backend/internal/logging"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type Config struct {
	HTTPPort          string
	CORSOrigins       string
	DatabaseDSN       string // boşsa çalıştırma kaydı (run log) kapalı
	JWTSecret         string // boşsa /api kimlik doğrulaması kapalı
	AdminEmail        string
	AdminPasswordHash string // bcrypt hash
	SettingsFile      string // varsayılan kolon/maliyet ayarları (YAML)
	LoadWorkers       int    // paralel dosya okuma sınırı, 0 = CPU sayısı
	MaxUploadMB       int
	ProgressIdle      time.Duration
	LogLevel          string
	LogFormat         string
}

const defaultCORSOrigins = "http://localhost:5173"

// Load: .env (varsa) ve ortam değişkenlerinden ayarları okur.
// Güvenlik açısından kabul edilemeyen bir değer varsa süreç durur.
func Load() *Config {
	// .env yoksa sorun değil, ortam değişkenleri kullanılır
	_ = godotenv.Load()

	v := viper.New()
	v.AutomaticEnv()
	cfg := fromViper(v)

	if err := cfg.Validate(); err != nil {
		logging.L().Fatal().Err(err).Msg("Ayarlar geçersiz")
	}

	if cfg.JWTSecret == "" {
		logging.L().Warn().Msg("JWT_SECRET tanımlanmamış, /api uçları kimlik doğrulamasız çalışıyor. Production için mutlaka tanımla.")
	}
	if cfg.DatabaseDSN == "" {
		logging.L().Warn().Msg("DATABASE_DSN tanımlanmamış, çalıştırma kayıtları tutulmayacak.")
	}
	if cfg.CORSOrigins == defaultCORSOrigins {
		logging.L().Warn().Msg("CORS_ALLOWED_ORIGINS varsayılan değer kullanılıyor, production için mutlaka kendi domain'ini tanımla.")
	}

	return cfg
}

func fromViper(v *viper.Viper) *Config {
	v.SetDefault("HTTP_PORT", "8000")
	v.SetDefault("CORS_ALLOWED_ORIGINS", defaultCORSOrigins)
	v.SetDefault("LOAD_WORKERS", 0)
	v.SetDefault("MAX_UPLOAD_MB", 200)
	v.SetDefault("PROGRESS_IDLE_SECONDS", 120)
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_FORMAT", "auto")

	return &Config{
		HTTPPort:          v.GetString("HTTP_PORT"),
		CORSOrigins:       v.GetString("CORS_ALLOWED_ORIGINS"),
		DatabaseDSN:       v.GetString("DATABASE_DSN"),
		JWTSecret:         v.GetString("JWT_SECRET"),
		AdminEmail:        v.GetString("ADMIN_EMAIL"),
		AdminPasswordHash: v.GetString("ADMIN_PASSWORD_HASH"),
		SettingsFile:      v.GetString("SETTINGS_FILE"),
		LoadWorkers:       v.GetInt("LOAD_WORKERS"),
		MaxUploadMB:       v.GetInt("MAX_UPLOAD_MB"),
		ProgressIdle:      time.Duration(v.GetInt("PROGRESS_IDLE_SECONDS")) * time.Second,
		LogLevel:          v.GetString("LOG_LEVEL"),
		LogFormat:         v.GetString("LOG_FORMAT"),
	}
}

// Validate: production güvenlik kontrolleri
func (c *Config) Validate() error {
	if c.JWTSecret != "" {
		if len(c.JWTSecret) < 32 {
			return fmt.Errorf("JWT_SECRET en az 32 karakter olmalıdır")
		}
		if c.AdminEmail == "" || c.AdminPasswordHash == "" {
			return fmt.Errorf("JWT_SECRET tanımlıyken ADMIN_EMAIL ve ADMIN_PASSWORD_HASH zorunlu")
		}
	}
	if c.MaxUploadMB <= 0 {
		return fmt.Errorf("MAX_UPLOAD_MB pozitif olmalı")
	}
	if c.LoadWorkers < 0 {
		return fmt.Errorf("LOAD_WORKERS negatif olamaz")
	}
	if c.ProgressIdle <= 0 {
		return fmt.Errorf("PROGRESS_IDLE_SECONDS pozitif olmalı")
	}
	return nil
}

// AuthEnabled: JWT_SECRET tanımlı mı
func (c *Config) AuthEnabled() bool {
	return c.JWTSecret != ""
}
