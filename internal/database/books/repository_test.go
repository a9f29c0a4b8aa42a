package books

import (
	"errors"
	"testing"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/mrlokans/bookshelf/internal/entities"
)

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	if err != nil {
		t.Fatalf("failed to open database: %v", err)
	}
	if err := db.AutoMigrate(&entities.User{}, &entities.Book{}); err != nil {
		t.Fatalf("failed to migrate: %v", err)
	}
	return db
}

func createUser(t *testing.T, db *gorm.DB, username string) *entities.User {
	t.Helper()

	user := &entities.User{Username: username, PasswordHash: "irrelevant"}
	if err := db.Create(user).Error; err != nil {
		t.Fatalf("failed to create user: %v", err)
	}
	return user
}

func TestRepository_CreateAndGet(t *testing.T) {
	db := setupTestDB(t)
	repo := NewRepository(db)
	owner := createUser(t, db, "alice")

	created, err := repo.Create(owner.ID, entities.BookFields{
		Title:    "Dune",
		Author:   "Frank Herbert",
		Notes:    "spice",
		Rating:   "5",
		DateRead: "2021-06-01",
		ISBN:     "9780441013593",
	})
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	if created.ID == 0 {
		t.Error("Create() should assign an ID")
	}

	got, err := repo.GetByID(created.ID)
	if err != nil {
		t.Fatalf("GetByID() error = %v", err)
	}
	if got.Title != "Dune" || got.Author != "Frank Herbert" || got.Rating != "5" {
		t.Errorf("GetByID() returned unexpected fields: %+v", got)
	}
	if got.UserID != owner.ID {
		t.Errorf("GetByID() owner = %d, want %d", got.UserID, owner.ID)
	}
}

func TestRepository_GetMissing(t *testing.T) {
	repo := NewRepository(setupTestDB(t))

	if _, err := repo.GetByID(9999); !errors.Is(err, ErrBookNotFound) {
		t.Errorf("GetByID(missing) error = %v, want ErrBookNotFound", err)
	}
}

func TestRepository_ListForUserNewestFirst(t *testing.T) {
	db := setupTestDB(t)
	repo := NewRepository(db)
	owner := createUser(t, db, "alice")
	other := createUser(t, db, "bob")

	first, err := repo.Create(owner.ID, entities.BookFields{Title: "First"})
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	second, err := repo.Create(owner.ID, entities.BookFields{Title: "Second"})
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	if _, err := repo.Create(other.ID, entities.BookFields{Title: "Not mine"}); err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	list, err := repo.ListForUser(owner.ID)
	if err != nil {
		t.Fatalf("ListForUser() error = %v", err)
	}
	if len(list) != 2 {
		t.Fatalf("ListForUser() returned %d books, want 2", len(list))
	}
	if list[0].ID != second.ID || list[1].ID != first.ID {
		t.Errorf("ListForUser() order = [%d, %d], want [%d, %d]",
			list[0].ID, list[1].ID, second.ID, first.ID)
	}
}

func TestRepository_UpdateReplacesAllFields(t *testing.T) {
	db := setupTestDB(t)
	repo := NewRepository(db)
	owner := createUser(t, db, "alice")

	created, err := repo.Create(owner.ID, entities.BookFields{
		Title:  "Draft title",
		Author: "Someone",
		Notes:  "to be cleared",
		Rating: "3",
	})
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	// Update is a full replace: fields left empty in the form are
	// emptied in the row, not preserved
	err = repo.Update(created.ID, entities.BookFields{
		Title:  "Final title",
		Author: "Someone",
	})
	if err != nil {
		t.Fatalf("Update() error = %v", err)
	}

	got, err := repo.GetByID(created.ID)
	if err != nil {
		t.Fatalf("GetByID() error = %v", err)
	}
	if got.ID != created.ID {
		t.Errorf("Update changed the ID: %d != %d", got.ID, created.ID)
	}
	if got.Title != "Final title" {
		t.Errorf("Title = %q, want %q", got.Title, "Final title")
	}
	if got.Notes != "" || got.Rating != "" {
		t.Errorf("Omitted fields should be cleared, got notes=%q rating=%q", got.Notes, got.Rating)
	}
	if got.UserID != owner.ID {
		t.Error("Update must not touch the owner")
	}
}

func TestRepository_UpdateMissing(t *testing.T) {
	repo := NewRepository(setupTestDB(t))

	err := repo.Update(9999, entities.BookFields{Title: "Ghost"})
	if !errors.Is(err, ErrBookNotFound) {
		t.Errorf("Update(missing) error = %v, want ErrBookNotFound", err)
	}
}

func TestRepository_DeleteIsIdempotent(t *testing.T) {
	db := setupTestDB(t)
	repo := NewRepository(db)
	owner := createUser(t, db, "alice")

	created, err := repo.Create(owner.ID, entities.BookFields{Title: "Short lived"})
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	if err := repo.Delete(created.ID); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}
	if _, err := repo.GetByID(created.ID); !errors.Is(err, ErrBookNotFound) {
		t.Errorf("GetByID() after delete error = %v, want ErrBookNotFound", err)
	}

	// Deleting again, or deleting an id that never existed, is a no-op
	if err := repo.Delete(created.ID); err != nil {
		t.Errorf("Second Delete() error = %v, want nil", err)
	}
	if err := repo.Delete(9999); err != nil {
		t.Errorf("Delete(missing) error = %v, want nil", err)
	}
}

func TestRepository_Ownership(t *testing.T) {
	db := setupTestDB(t)
	repo := NewRepository(db)
	alice := createUser(t, db, "alice")
	bob := createUser(t, db, "bob")

	book, err := repo.Create(alice.ID, entities.BookFields{Title: "Alice's book"})
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	// Another user can neither update nor delete the book
	err = repo.UpdateOwned(book.ID, bob.ID, entities.BookFields{Title: "Hijacked"})
	if !errors.Is(err, ErrNotOwner) {
		t.Errorf("UpdateOwned(other owner) error = %v, want ErrNotOwner", err)
	}
	err = repo.DeleteOwned(book.ID, bob.ID)
	if !errors.Is(err, ErrNotOwner) {
		t.Errorf("DeleteOwned(other owner) error = %v, want ErrNotOwner", err)
	}

	got, err := repo.GetByID(book.ID)
	if err != nil {
		t.Fatalf("GetByID() error = %v", err)
	}
	if got.Title != "Alice's book" {
		t.Errorf("Book was modified by a non-owner: %q", got.Title)
	}

	// The owner can
	if err := repo.UpdateOwned(book.ID, alice.ID, entities.BookFields{Title: "Renamed"}); err != nil {
		t.Fatalf("UpdateOwned(owner) error = %v", err)
	}
	if err := repo.DeleteOwned(book.ID, alice.ID); err != nil {
		t.Fatalf("DeleteOwned(owner) error = %v", err)
	}

	// Owned delete of a vanished book keeps the idempotent contract
	if err := repo.DeleteOwned(book.ID, alice.ID); err != nil {
		t.Errorf("DeleteOwned(missing) error = %v, want nil", err)
	}
}

func TestRepository_UpdateOwnedMissing(t *testing.T) {
	repo := NewRepository(setupTestDB(t))

	err := repo.UpdateOwned(9999, 1, entities.BookFields{Title: "Ghost"})
	if !errors.Is(err, ErrBookNotFound) {
		t.Errorf("UpdateOwned(missing) error = %v, want ErrBookNotFound", err)
	}
}

func TestRepository_CountForUser(t *testing.T) {
	db := setupTestDB(t)
	repo := NewRepository(db)
	owner := createUser(t, db, "alice")

	for _, title := range []string{"One", "Two", "Three"} {
		if _, err := repo.Create(owner.ID, entities.BookFields{Title: title}); err != nil {
			t.Fatalf("Create() error = %v", err)
		}
	}

	count, err := repo.CountForUser(owner.ID)
	if err != nil {
		t.Fatalf("CountForUser() error = %v", err)
	}
	if count != 3 {
		t.Errorf("CountForUser() = %d, want 3", count)
	}
}
