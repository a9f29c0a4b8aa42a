package http

import (
	"errors"
	"html/template"
	"net/http"
	"path/filepath"

	"github.com/gin-gonic/gin"

	"github.com/mrlokans/bookshelf/internal/auth"
	"github.com/mrlokans/bookshelf/internal/database/books"
	"github.com/mrlokans/bookshelf/internal/entities"
)

// BookStore is the repository surface the book pages need.
type BookStore interface {
	ListForUser(userID uint) ([]entities.Book, error)
	GetByID(id uint) (*entities.Book, error)
	Create(userID uint, fields entities.BookFields) (*entities.Book, error)
	UpdateOwned(id, ownerID uint, fields entities.BookFields) error
	DeleteOwned(id, ownerID uint) error
}

// BooksController serves the book pages and their form submissions.
type BooksController struct {
	store     BookStore
	templates *template.Template
}

// NewBooksController creates the controller. Like the auth controller
// it tolerates a missing templates directory and falls back to JSON.
func NewBooksController(store BookStore, templatesPath string) *BooksController {
	var tmpl *template.Template
	if templatesPath != "" {
		pattern := filepath.Join(templatesPath, "*.html")
		if parsed, err := template.ParseGlob(pattern); err == nil {
			tmpl = parsed
		}
	}

	return &BooksController{store: store, templates: tmpl}
}

// Home lists the session user's books, most recently added first.
func (bc *BooksController) Home(c *gin.Context) {
	ac := auth.CurrentAuth(c)

	bookList, err := bc.store.ListForUser(ac.UserID())
	if err != nil {
		// Listing failures degrade to a plain message; the process
		// keeps serving other requests
		c.String(http.StatusInternalServerError, "Error fetching books.")
		return
	}

	bc.renderTemplate(c, "index.html", gin.H{
		"Title":     "My books",
		"Username":  ac.User.Username,
		"Books":     bookList,
		"CSRFToken": auth.GetCSRFToken(c),
	})
}

// AddingPage renders the add-book form.
func (bc *BooksController) AddingPage(c *gin.Context) {
	bc.renderTemplate(c, "addBook.html", gin.H{
		"Title":     "Add a book",
		"CSRFToken": auth.GetCSRFToken(c),
	})
}

// EditPage renders the edit form prefilled with the requested book.
func (bc *BooksController) EditPage(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	book, err := bc.store.GetByID(id)
	if err != nil {
		if errors.Is(err, books.ErrBookNotFound) {
			respondNotFound(c, "book")
			return
		}
		respondInternalError(c, err, "load book")
		return
	}

	bc.renderTemplate(c, "editBook.html", gin.H{
		"Title":     "Edit book",
		"Book":      book,
		"CSRFToken": auth.GetCSRFToken(c),
	})
}

// Add creates a book for the session user and returns to the list.
// Field values are stored exactly as submitted.
func (bc *BooksController) Add(c *gin.Context) {
	ac := auth.CurrentAuth(c)

	if _, err := bc.store.Create(ac.UserID(), bookFieldsFromForm(c)); err != nil {
		respondInternalError(c, err, "create book")
		return
	}

	c.Redirect(http.StatusFound, auth.HomePath)
}

// Edit replaces all content fields of a book the session user owns.
func (bc *BooksController) Edit(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	ac := auth.CurrentAuth(c)
	err := bc.store.UpdateOwned(id, ac.UserID(), bookFieldsFromForm(c))
	switch {
	case errors.Is(err, books.ErrBookNotFound):
		respondNotFound(c, "book")
	case errors.Is(err, books.ErrNotOwner):
		c.AbortWithStatus(http.StatusForbidden)
	case err != nil:
		respondInternalError(c, err, "update book")
	default:
		c.Redirect(http.StatusFound, auth.HomePath)
	}
}

// Delete removes a book the session user owns. Deleting an id that no
// longer exists still redirects: the operation is idempotent.
func (bc *BooksController) Delete(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	ac := auth.CurrentAuth(c)
	err := bc.store.DeleteOwned(id, ac.UserID())
	switch {
	case errors.Is(err, books.ErrNotOwner):
		c.AbortWithStatus(http.StatusForbidden)
	case err != nil:
		respondInternalError(c, err, "delete book")
	default:
		c.Redirect(http.StatusFound, auth.HomePath)
	}
}

// bookFieldsFromForm collects the six content fields. The form field
// for the rating is historically named "rate".
func bookFieldsFromForm(c *gin.Context) entities.BookFields {
	return entities.BookFields{
		Title:    c.PostForm("title"),
		Author:   c.PostForm("author"),
		Notes:    c.PostForm("notes"),
		Rating:   c.PostForm("rate"),
		DateRead: c.PostForm("date_read"),
		ISBN:     c.PostForm("isbn"),
	}
}

func (bc *BooksController) renderTemplate(c *gin.Context, name string, data gin.H) {
	if bc.templates == nil {
		c.JSON(http.StatusOK, data)
		return
	}

	c.Header("Content-Type", "text/html; charset=utf-8")
	if err := bc.templates.ExecuteTemplate(c.Writer, name, data); err != nil {
		c.String(http.StatusInternalServerError, "Template error: %v", err)
	}
}
