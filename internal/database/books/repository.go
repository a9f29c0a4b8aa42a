// Package books provides database operations for per-user book records.
//
// # Usage
//
//	repo := books.NewRepository(db)
//	book, err := repo.GetByID(123)
package books

import (
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/mrlokans/bookshelf/internal/entities"
)

var (
	ErrBookNotFound = errors.New("book not found")
	ErrNotOwner     = errors.New("book belongs to another user")
)

// Repository handles all book database operations.
type Repository struct {
	db *gorm.DB
}

// NewRepository creates a new books repository.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// ListForUser returns the user's books, most recently created first.
// Each call is a single snapshot; there is no pagination.
func (r *Repository) ListForUser(userID uint) ([]entities.Book, error) {
	var books []entities.Book
	err := r.db.Where("user_id = ?", userID).Order("id DESC").Find(&books).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list books: %w", err)
	}
	return books, nil
}

// GetByID retrieves a book by its ID.
func (r *Repository) GetByID(id uint) (*entities.Book, error) {
	var book entities.Book
	err := r.db.First(&book, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrBookNotFound
		}
		return nil, err
	}
	return &book, nil
}

// Create stores a new book for the given owner. Fields are persisted
// as submitted; there is no server-side validation of content.
func (r *Repository) Create(userID uint, fields entities.BookFields) (*entities.Book, error) {
	book := &entities.Book{
		UserID:   userID,
		Title:    fields.Title,
		Author:   fields.Author,
		Notes:    fields.Notes,
		Rating:   fields.Rating,
		DateRead: fields.DateRead,
		ISBN:     fields.ISBN,
	}

	if err := r.db.Create(book).Error; err != nil {
		return nil, fmt.Errorf("failed to create book: %w", err)
	}

	return book, nil
}

// Update replaces all content fields of a book. The id and owner are
// never touched. Returns ErrBookNotFound when no row matches.
func (r *Repository) Update(id uint, fields entities.BookFields) error {
	result := r.db.Model(&entities.Book{}).Where("id = ?", id).Updates(map[string]any{
		"title":     fields.Title,
		"author":    fields.Author,
		"notes":     fields.Notes,
		"rates":     fields.Rating,
		"date_read": fields.DateRead,
		"isbn":      fields.ISBN,
	})
	if result.Error != nil {
		return fmt.Errorf("failed to update book: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrBookNotFound
	}
	return nil
}

// Delete removes a book by id. Deleting a non-existent id is not an
// error, so the operation is idempotent.
func (r *Repository) Delete(id uint) error {
	return r.db.Delete(&entities.Book{}, id).Error
}

// UpdateOwned replaces a book's content fields after verifying the
// caller owns it.
func (r *Repository) UpdateOwned(id, ownerID uint, fields entities.BookFields) error {
	if err := r.checkOwner(id, ownerID); err != nil {
		return err
	}
	return r.Update(id, fields)
}

// DeleteOwned removes a book after verifying the caller owns it.
// Deleting a book that no longer exists is still a no-op.
func (r *Repository) DeleteOwned(id, ownerID uint) error {
	err := r.checkOwner(id, ownerID)
	if errors.Is(err, ErrBookNotFound) {
		return nil
	}
	if err != nil {
		return err
	}
	return r.Delete(id)
}

// CountForUser returns the number of books owned by the user.
func (r *Repository) CountForUser(userID uint) (int64, error) {
	var count int64
	err := r.db.Model(&entities.Book{}).Where("user_id = ?", userID).Count(&count).Error
	return count, err
}

func (r *Repository) checkOwner(id, ownerID uint) error {
	book, err := r.GetByID(id)
	if err != nil {
		return err
	}
	if book.UserID != ownerID {
		return ErrNotOwner
	}
	return nil
}
