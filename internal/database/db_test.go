package database

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/akhmetov/bookstore-api/internal/config"
)

func TestDSN(t *testing.T) {
	cfg := config.Config{
		DBUser: "app",
		DBPass: "secret",
		DBHost: "db.local",
		DBPort: "3306",
		DBName: "bookstore",
	}

	got := dsn(cfg)

	assert.Contains(t, got, "app:secret@tcp(db.local:3306)/bookstore")
	assert.Contains(t, got, "parseTime=true")
	assert.Contains(t, got, "charset=utf8mb4")
}

func TestDSN_EmptyPassword(t *testing.T) {
	cfg := config.Config{
		DBUser: "app",
		DBHost: "localhost",
		DBPort: "3306",
		DBName: "bookstore",
	}

	got := dsn(cfg)

	assert.Contains(t, got, "app@tcp(localhost:3306)/bookstore")
}
