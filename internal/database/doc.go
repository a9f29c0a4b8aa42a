// Package database provides the data access layer for the application.
//
// # Architecture
//
// The database layer is organized into domain-specific sub-packages:
//
//	database/
//	├── database.go      # Connection setup, migrations
//	├── books/           # Book CRUD operations
//	└── users/           # User credential storage
//
// # Using Sub-packages
//
// Each sub-package provides a Repository type with domain-specific operations:
//
//	// Initialize database connection
//	db, err := database.NewDatabase("./app.db")
//
//	// Create domain-specific repositories
//	booksRepo := books.NewRepository(db.DB)
//	usersRepo := users.NewRepository(db.DB)
//
//	// Use repositories
//	book, err := booksRepo.GetByID(123)
//	user, err := usersRepo.GetUserByUsername("alice")
//
// # Adding a New Domain
//
// To add a new domain (e.g., shelves):
//
//  1. Create a new sub-package: internal/database/shelves/
//  2. Define a Repository struct with a *gorm.DB field
//  3. Add NewRepository(db *gorm.DB) constructor
//  4. Register the entity in database.NewDatabase's AutoMigrate call
package database
