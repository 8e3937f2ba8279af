package postgres

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/VitaminP8/blogery/internal/model"
	"github.com/VitaminP8/blogery/models"
	"github.com/jinzhu/gorm"
	_ "github.com/jinzhu/gorm/dialects/postgres"
)

// Open подключается к PostgreSQL и приводит схему к актуальному виду.
func Open(dsn string) (*gorm.DB, error) {
	db, err := gorm.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to the database: %w", err)
	}

	if err := Migrate(db); err != nil {
		db.Close()
		return nil, err
	}

	return db, nil
}

// Migrate создает таблицы users, posts, post_likes и comments.
func Migrate(db *gorm.DB) error {
	err := db.AutoMigrate(&models.User{}, &models.Post{}, &models.PostLike{}, &models.Comment{}).Error
	if err != nil {
		return fmt.Errorf("failed to migrate database schema: %w", err)
	}
	return nil
}

// Close закрывает соединение с базой данных
func Close(db *gorm.DB) error {
	if db == nil {
		return nil
	}

	if err := db.Close(); err != nil {
		return fmt.Errorf("failed to close the database connection: %w", err)
	}
	return nil
}

// parseID переводит строковый id в первичный ключ. Id, который не может
// существовать в таблице, считается ненайденным.
func parseID(id string) (uint, bool) {
	n, err := strconv.ParseUint(id, 10, 64)
	if err != nil || n == 0 {
		return 0, false
	}
	return uint(n), true
}

func formatID(id uint) string {
	return strconv.FormatUint(uint64(id), 10)
}

func notFound(entity, id string) error {
	return fmt.Errorf("%s %s: %w", entity, id, model.ErrNotFound)
}

// isUniqueViolation узнает нарушение уникального индекса по тексту ошибки:
// pq пишет "violates unique constraint", sqlite - "UNIQUE constraint failed".
func isUniqueViolation(err error, column string) bool {
	if err == nil {
		return false
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "unique") && strings.Contains(msg, column)
}
