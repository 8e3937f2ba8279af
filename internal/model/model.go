package model

import "time"

type User struct {
	ID           string    `json:"id"`
	Username     string    `json:"username"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	CreatedAt    time.Time `json:"createdAt"`
}

// Author - отображаемая информация об авторе поста или комментария
type Author struct {
	ID       string `json:"id"`
	Username string `json:"username,omitempty"`
}

type Post struct {
	ID         string    `json:"id"`
	Title      string    `json:"title"`
	Content    string    `json:"content"`
	Category   string    `json:"category,omitempty"`
	AuthorID   string    `json:"-"`
	Author     Author    `json:"author"`
	Likes      []string  `json:"likes"`
	LikesCount int       `json:"likesCount"`
	CreatedAt  time.Time `json:"createdAt"`
}

// OwnerID возвращает id владельца поста (используется при проверке прав)
func (p *Post) OwnerID() string {
	return p.AuthorID
}

// LikedBy сообщает, есть ли userID среди лайкнувших
func (p *Post) LikedBy(userID string) bool {
	for _, id := range p.Likes {
		if id == userID {
			return true
		}
	}
	return false
}

// PostPatch содержит только изменяемые поля поста. Автор после создания не меняется.
type PostPatch struct {
	Title    *string `json:"title"`
	Content  *string `json:"content"`
	Category *string `json:"category"`
}

func (p PostPatch) IsEmpty() bool {
	return p.Title == nil && p.Content == nil && p.Category == nil
}

type Comment struct {
	ID        string    `json:"id"`
	PostID    string    `json:"post"`
	AuthorID  string    `json:"-"`
	Author    Author    `json:"author"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"createdAt"`
}

func (c *Comment) OwnerID() string {
	return c.AuthorID
}
