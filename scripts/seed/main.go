package main

import (
	"context"
	"flag"
	"log"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/dtp-gov/portal-api/pkg/config"
	"github.com/dtp-gov/portal-api/pkg/database"
)

// Seeds the first admin account so the API is usable on a fresh database.
func main() {
	var (
		email    string
		password string
		fullName string
	)

	flag.StringVar(&email, "email", "", "admin email address")
	flag.StringVar(&password, "password", "", "admin password")
	flag.StringVar(&fullName, "name", "Portal Administrator", "admin display name")
	flag.Parse()

	if email == "" || password == "" {
		log.Fatal("both -email and -password are required")
	}
	if len(password) < 8 {
		log.Fatal("password must be at least 8 characters")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	db, err := database.NewPostgres(cfg.Database)
	if err != nil {
		log.Fatalf("connect database: %v", err)
	}
	defer db.Close()

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		log.Fatalf("hash password: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	now := time.Now().UTC()
	const query = `INSERT INTO users (id, email, password_hash, full_name, role, active, created_at, updated_at)
VALUES ($1, $2, $3, $4, 'ADMIN', TRUE, $5, $5)
ON CONFLICT (email) DO NOTHING`

	res, err := db.ExecContext(ctx, query, uuid.NewString(), strings.ToLower(email), string(hash), fullName, now)
	if err != nil {
		log.Fatalf("insert admin: %v", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		log.Printf("user %s already exists, nothing to do", email)
		return
	}
	log.Printf("admin account %s created", email)
}
