// Command migrate creates any missing tables and exits.
package main

import (
	"context"
	"log"
	"time"

	"github.com/24045990CaseyRP/sg-green-plan-server/internal/config"
	"github.com/24045990CaseyRP/sg-green-plan-server/internal/database"
)

func main() {
	cfg := config.Load()
	db, err := database.Open(database.OptionsFrom(cfg))
	if err != nil {
		log.Fatalf("database: %v", err)
	}
	defer db.Close()

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()
	if err := database.Migrate(ctx, db); err != nil {
		log.Fatalf("%v", err)
	}
	log.Printf("schema up to date on %s/%s", cfg.DBHost, cfg.DBName)
}
