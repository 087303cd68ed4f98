package database

import (
	"time"

	"Shutter/config"
	"Shutter/models"
	"Shutter/pkg/log"

	"go.uber.org/zap"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// NewDB 初始化数据库连接
func NewDB(conf *config.Config) *gorm.DB {
	level := logger.Warn
	if conf.Debug() {
		level = logger.Info
	}
	db, err := gorm.Open(mysql.Open(conf.MySQL.Dsn()), &gorm.Config{
		Logger:         logger.Default.LogMode(level),
		TranslateError: true,
	})
	if err != nil {
		log.L.Fatal("failed to connect database", zap.Error(err))
	}

	sqlDB, err := db.DB()
	if err != nil {
		log.L.Fatal("failed to get sql.DB", zap.Error(err))
	}
	sqlDB.SetMaxOpenConns(conf.MySQL.MaxOpenConns)
	sqlDB.SetMaxIdleConns(conf.MySQL.MaxIdleConns)
	sqlDB.SetConnMaxLifetime(time.Hour)

	if conf.MySQL.AutoMigrate {
		if err := AutoMigrate(db); err != nil {
			log.L.Fatal("auto migrate", zap.Error(err))
		}
	}
	log.L.Info("connect database success")
	return db
}

// AutoMigrate creates missing tables and indexes from the gorm models.
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(models.All()...)
}
