package main

import (
	"context"
	"fmt"
	"os"

	"timeshare/pkg/config"
	"timeshare/pkg/db"
)

func main() {
	cfg := config.Load()
	if cfg.MigrationsPath == "" {
		cfg.MigrationsPath = "file://migrations"
	}

	// Migrations run against DIRECT_URL when set; the Supabase pooler can't hold the advisory lock.
	if err := db.Migrate(cfg.MigrationsPath, cfg); err != nil {
		fmt.Fprintf(os.Stderr, "migrate failed: %v\n", err)
		os.Exit(1)
	}

	// DSNs stay out of the output.
	pool, err := db.Open(context.Background(), cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "runtime db open failed: %v\n", err)
		os.Exit(1)
	}
	defer pool.Close()

	var profiles int
	if err := pool.QueryRow(context.Background(), `SELECT count(*) FROM profiles`).Scan(&profiles); err != nil {
		fmt.Fprintf(os.Stderr, "schema check failed: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("migrations applied (%d profiles)\n", profiles)
}
