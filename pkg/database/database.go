package database

import (
	"fmt"
	"log"
	"qbank_backend/internal/config"
	"qbank_backend/internal/model"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func InitDB(cfg *config.DatabaseConfig) (*gorm.DB, error) {
	dsn := fmt.Sprintf("%s:%s@tcp(%s:%d)/%s?charset=%s&parseTime=%t&loc=Local",
		cfg.User,
		cfg.Password,
		cfg.Host,
		cfg.Port,
		cfg.DBName,
		cfg.Charset,
		cfg.ParseTime,
	)

	db, err := gorm.Open(mysql.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Info),
	})

	if err != nil {
		return nil, err
	}

	log.Println("Database connection established")

	err = db.AutoMigrate(
		&model.User{},
		&model.Question{},
	)

	if err != nil {
		return nil, err
	}

	log.Println("Database migration completed")

	// 默认管理员账号（库为空时创建，密码务必在首次登录后修改）
	var count int64
	db.Model(&model.User{}).Where("role = ?", model.Admin).Count(&count)
	if count == 0 {
		hashed, err := bcrypt.GenerateFromPassword([]byte("admin123"), bcrypt.DefaultCost)
		if err == nil {
			admin := &model.User{
				Name:     "Administrator",
				Email:    "admin@qbank.local",
				Password: string(hashed),
				Role:     model.Admin,
			}
			db.Create(admin)
		}
	}

	return db, nil
}
