package database

import (
	"fmt"
	"lms_backend/internal/config"
	"lms_backend/internal/model"
	"log"

	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func InitDB(cfg *config.DatabaseConfig, migrate bool) (*gorm.DB, error) {
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

	if migrate {
		if err := AutoMigrate(db); err != nil {
			return nil, err
		}
		log.Println("Database migration completed")
		seedDefaults(db)
	}

	return db, nil
}

// AutoMigrate 建表顺序按依赖从前到后，唯一索引（证书、选课、进度、订单、评价）
// 是幂等写入的最终防线，必须随迁移建好。
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&model.Teacher{},
		&model.Student{},
		&model.Category{},
		&model.Course{},
		&model.Section{},
		&model.Lesson{},
		&model.Enrollment{},
		&model.LessonProgress{},
		&model.CourseProgress{},
		&model.Certificate{},
		&model.Quiz{},
		&model.Question{},
		&model.Option{},
		&model.QuizAttempt{},
		&model.Conversation{},
		&model.ConversationTeacher{},
		&model.ConversationStudent{},
		&model.Message{},
		&model.Notification{},
		&model.Order{},
		&model.Review{},
	)
}

// 默认课程分类
func seedDefaults(db *gorm.DB) {
	var count int64
	db.Model(&model.Category{}).Count(&count)
	if count == 0 {
		defaultCategories := []model.Category{
			{Name: "编程开发", Icon: "code"},
			{Name: "数据科学", Icon: "bar-chart"},
			{Name: "产品设计", Icon: "layout"},
			{Name: "语言学习", Icon: "globe"},
			{Name: "职业技能", Icon: "briefcase"},
		}
		for _, c := range defaultCategories {
			db.Create(&c)
		}
	}
}
