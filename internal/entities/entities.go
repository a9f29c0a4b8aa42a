package entities

import (
	"time"
)

// User is an account that owns books. The bcrypt hash lives in the
// legacy "password" column.
type User struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	Username     string    `gorm:"uniqueIndex;size:100" json:"username"`
	PasswordHash string    `gorm:"column:password;size:100" json:"-"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

type Book struct {
	ID       uint   `gorm:"primaryKey" json:"id"`
	UserID   uint   `gorm:"index" json:"user_id"`
	Title    string `gorm:"size:512" json:"title"`
	Author   string `gorm:"size:256" json:"author"`
	Notes    string `gorm:"type:text" json:"notes,omitempty"`
	Rating   string `gorm:"column:rates;size:32" json:"rating,omitempty"`
	DateRead string `gorm:"size:32" json:"date_read,omitempty"`
	ISBN     string `gorm:"size:20" json:"isbn,omitempty"`

	User User `gorm:"foreignKey:UserID" json:"-"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// BookFields carries the six user-editable columns of a book. Updates
// replace all of them at once; there is no partial edit.
type BookFields struct {
	Title    string
	Author   string
	Notes    string
	Rating   string
	DateRead string
	ISBN     string
}

func (User) TableName() string {
	return "users"
}

func (Book) TableName() string {
	return "books"
}
