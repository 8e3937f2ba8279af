package models

import (
	"time"

	"github.com/jinzhu/gorm"
)

type User struct {
	gorm.Model
	Username string `gorm:"unique_index;not null"`
	Email    string `gorm:"unique_index;not null"`
	Password string `gorm:"not null"`
	Posts    []Post    `gorm:"foreignkey:UserID"`
	Comments []Comment `gorm:"foreignkey:UserID"`
}

type Post struct {
	gorm.Model
	Title    string `gorm:"size:100;not null"`
	Content  string `gorm:"type:text;not null"`
	Category string
	UserID   uint       `gorm:"index"`
	Likes    []PostLike `gorm:"foreignkey:PostID"`
	Comments []Comment  `gorm:"foreignkey:PostID"`
}

// PostLike - одна строка на пару (пост, пользователь). Составной первичный ключ
// не дает лайкнуть пост дважды.
type PostLike struct {
	PostID    uint `gorm:"primary_key;auto_increment:false"`
	UserID    uint `gorm:"primary_key;auto_increment:false"`
	CreatedAt time.Time
}

type Comment struct {
	gorm.Model
	Content string `gorm:"type:text;not null"`
	PostID  uint   `gorm:"index"`
	UserID  uint
}
