package database

import (
	"restock-backend/internal/config"
	"restock-backend/internal/logging"
	"restock-backend/internal/models"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// DB: DATABASE_DSN tanımlı değilse nil kalır ve çalıştırma kaydı tutulmaz
var DB *gorm.DB

func Init(cfg *config.Config) {
	if cfg.DatabaseDSN == "" {
		return
	}

	var err error
	DB, err = gorm.Open(postgres.Open(cfg.DatabaseDSN), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Warn),
	})
	if err != nil {
		logging.L().Fatal().Err(err).Msg("Veritabanına bağlanılamadı")
	}

	if err := DB.AutoMigrate(&models.ReconcileRun{}); err != nil {
		logging.L().Fatal().Err(err).Msg("AutoMigrate hatası")
	}

	logging.L().Info().Msg("Veritabanı bağlantısı başarılı. Migration tamamlandı.")
}

// Enabled: çalıştırma kaydı açık mı
func Enabled() bool {
	return DB != nil
}
