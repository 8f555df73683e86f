package database

import (
	"fmt"
	"log"

	"github.com/toolpilot-ai/toolpilot/configs"
	"github.com/toolpilot-ai/toolpilot/models"

	"gorm.io/driver/mysql"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

var DB *gorm.DB

// Initialize 初始化数据库连接
func Initialize(cfg *configs.Config) error {
	dbConfig := cfg.Database

	var dsn string
	var dialector gorm.Dialector

	switch dbConfig.Driver {
	case "mysql":
		dsn = fmt.Sprintf("%s:%s@tcp(%s:%s)/%s?charset=utf8mb4&parseTime=True&loc=Local",
			dbConfig.User, dbConfig.Password, dbConfig.Host, dbConfig.Port, dbConfig.DBName)
		dialector = mysql.Open(dsn)
	case "postgres":
		dsn = fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=disable",
			dbConfig.Host, dbConfig.Port, dbConfig.User, dbConfig.Password, dbConfig.DBName)
		dialector = postgres.Open(dsn)
	default:
		return fmt.Errorf("unsupported database driver: %s", dbConfig.Driver)
	}

	var err error
	DB, err = gorm.Open(dialector, &gorm.Config{})
	if err != nil {
		return err
	}

	// 自动迁移数据库表
	err = DB.AutoMigrate(
		&models.User{},
		&models.UserProfile{},
		&models.Tool{},
		&models.ActivityEvent{},
		&models.RecommendationEntry{},
		&models.UserStats{},
		&models.UserAchievement{},
		&models.PointAward{},
	)
	if err != nil {
		return err
	}

	log.Println("Database connected successfully")
	return nil
}

// Close 关闭数据库连接
func Close() {
	if DB != nil {
		sqlDB, err := DB.DB()
		if err != nil {
			log.Printf("Failed to get database connection: %v", err)
			return
		}
		if err := sqlDB.Close(); err != nil {
			log.Printf("Failed to close database connection: %v", err)
		}
	}
}
