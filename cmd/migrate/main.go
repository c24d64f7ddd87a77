// migrate applies the embedded visitor-store migrations to DATABASE_URL (Postgres or SQLite).
//
//	go run ./cmd/migrate -direction up
//	go run ./cmd/migrate -version
package main

import (
	"flag"
	"log"

	"ecoharmony-park/backend/internal/config"
	"ecoharmony-park/backend/internal/db/migrate"
)

func main() {
	direction := flag.String("direction", "up", "Migration direction: up or down")
	versionOnly := flag.Bool("version", false, "Print the applied migration version and exit")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	if !*versionOnly {
		if err := migrate.Run(cfg.DatabaseURL, *direction); err != nil {
			log.Fatalf("migrate %s: %v", *direction, err)
		}
	}

	version, applied, dirty, err := migrate.Version(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("migrate version: %v", err)
	}
	switch {
	case !applied:
		log.Println("migrate: no migrations applied")
	case dirty:
		log.Fatalf("migrate: version %d is dirty; fix the schema and force the version", version)
	default:
		log.Printf("migrate: at version %d", version)
	}
}
