package main

import (
	"database/sql"
	"fmt"
	"log"
	"os"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/joho/godotenv"

	"github.com/oksasatya/go-users-api/config"
	"github.com/oksasatya/go-users-api/pkg/helpers"
)

func getenv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func main() {
	_ = godotenv.Load()
	cfg := config.Load()

	db, err := sql.Open("pgx", cfg.PostgresDSN())
	if err != nil {
		log.Fatalf("failed to open db: %v", err)
	}
	defer func() { _ = db.Close() }()

	email := getenv("SEED_ADMIN_EMAIL", "admin@example.com")
	username := getenv("SEED_ADMIN_USERNAME", "admin")
	password := getenv("SEED_ADMIN_PASSWORD", "changeme123")

	hash, err := helpers.HashPassword(password)
	if err != nil {
		log.Fatalf("failed to hash password: %v", err)
	}

	var id string
	err = db.QueryRow(`
		INSERT INTO users (email, username, password_hash, is_active, is_superuser)
		VALUES ($1, $2, $3, true, true)
		ON CONFLICT (email) DO UPDATE SET username = EXCLUDED.username, updated_at = now()
		RETURNING id
	`, email, username, hash).Scan(&id)
	if err != nil {
		log.Fatalf("failed to seed superuser: %v", err)
	}
	fmt.Printf("seeded superuser: id=%s email=%s username=%s\n", id, email, username)
}
