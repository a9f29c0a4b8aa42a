package users

import (
	"errors"
	"testing"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/mrlokans/bookshelf/internal/entities"
)

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	// TranslateError mirrors the production gorm config so the unique
	// index surfaces as gorm.ErrDuplicatedKey
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{TranslateError: true})
	if err != nil {
		t.Fatalf("failed to open database: %v", err)
	}
	if err := db.AutoMigrate(&entities.User{}); err != nil {
		t.Fatalf("failed to migrate: %v", err)
	}
	return db
}

func TestRepository_CreateAndGetUser(t *testing.T) {
	repo := NewRepository(setupTestDB(t))

	created, err := repo.CreateUser("alice", "$2a$10$fakehashfakehashfakehash")
	if err != nil {
		t.Fatalf("CreateUser() error = %v", err)
	}
	if created.ID == 0 {
		t.Error("CreateUser() should assign an ID")
	}

	byName, err := repo.GetUserByUsername("alice")
	if err != nil {
		t.Fatalf("GetUserByUsername() error = %v", err)
	}
	if byName.ID != created.ID {
		t.Errorf("GetUserByUsername() ID = %d, want %d", byName.ID, created.ID)
	}
	if byName.PasswordHash != created.PasswordHash {
		t.Error("Stored hash does not round-trip")
	}

	byID, err := repo.GetUserByID(created.ID)
	if err != nil {
		t.Fatalf("GetUserByID() error = %v", err)
	}
	if byID.Username != "alice" {
		t.Errorf("GetUserByID() username = %q, want %q", byID.Username, "alice")
	}
}

func TestRepository_CreateUserDuplicate(t *testing.T) {
	repo := NewRepository(setupTestDB(t))

	if _, err := repo.CreateUser("alice", "hash-one"); err != nil {
		t.Fatalf("First CreateUser() error = %v", err)
	}

	_, err := repo.CreateUser("alice", "hash-two")
	if !errors.Is(err, ErrUserExists) {
		t.Fatalf("Second CreateUser() error = %v, want ErrUserExists", err)
	}

	// The duplicate must not have added a row
	count, err := repo.CountByUsername("alice")
	if err != nil {
		t.Fatalf("CountByUsername() error = %v", err)
	}
	if count != 1 {
		t.Errorf("CountByUsername() = %d, want 1", count)
	}
}

func TestRepository_GetUserMissing(t *testing.T) {
	repo := NewRepository(setupTestDB(t))

	if _, err := repo.GetUserByUsername("nobody"); !errors.Is(err, ErrUserNotFound) {
		t.Errorf("GetUserByUsername(missing) error = %v, want ErrUserNotFound", err)
	}
	if _, err := repo.GetUserByID(9999); !errors.Is(err, ErrUserNotFound) {
		t.Errorf("GetUserByID(missing) error = %v, want ErrUserNotFound", err)
	}
}

func TestRepository_UsernameLookupIsCaseSensitive(t *testing.T) {
	repo := NewRepository(setupTestDB(t))

	if _, err := repo.CreateUser("alice", "somehash"); err != nil {
		t.Fatalf("CreateUser() error = %v", err)
	}

	if _, err := repo.GetUserByUsername("ALICE"); !errors.Is(err, ErrUserNotFound) {
		t.Errorf("GetUserByUsername(\"ALICE\") error = %v, want ErrUserNotFound", err)
	}
}
