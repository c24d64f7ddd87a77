// seed inserts demo visitors for local testing. Run via go run ./cmd/seed after migrating.
// Idempotent: visitors that already exist are left untouched.
package main

import (
	"context"
	"fmt"
	"log"

	"ecoharmony-park/backend/internal/config"
	"ecoharmony-park/backend/internal/db"
	"ecoharmony-park/backend/internal/security"
	userrepo "ecoharmony-park/backend/internal/user/repository"
)

const devPassword = "parque123"

var visitors = []struct {
	email string
	name  string
}{
	{"ana@example.com", "Ana Gómez"},
	{"bruno@example.com", "Bruno Díaz"},
	{"carla@example.com", "Carla Ruiz"},
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	conn, dialect, err := db.Open(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("db: %v", err)
	}
	defer conn.Close()

	var users userrepo.Repository
	if dialect == db.DialectSQLite {
		users = userrepo.NewSQLiteRepository(conn)
	} else {
		users = userrepo.NewPostgresRepository(conn)
	}

	hasher := security.NewPasswordHasher(cfg.BcryptCost)
	passwordHash, err := hasher.Hash(devPassword)
	if err != nil {
		log.Fatalf("hash password: %v", err)
	}

	ctx := context.Background()
	created := 0
	for _, v := range visitors {
		existing, err := users.GetByEmail(ctx, v.email)
		if err != nil {
			log.Fatalf("seed check %s: %v", v.email, err)
		}
		if existing != nil {
			continue
		}
		if err := users.InsertIfAbsent(ctx, v.email, v.name, passwordHash); err != nil {
			log.Fatalf("create visitor %s: %v", v.email, err)
		}
		created++
	}

	log.Printf("Seed completed: %d new visitors, %d already present.", created, len(visitors)-created)
	for _, v := range visitors {
		fmt.Printf("Visitor: %s / %s\n", v.email, devPassword)
	}
}
