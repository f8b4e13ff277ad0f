// Command ingestkey manages ingest API keys from the operator's shell.
// Keys authenticate inbound notification traffic; the plaintext key is
// printed exactly once on creation.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"salon_portal_backend/internal/ingest"
	"salon_portal_backend/platform/config"
	"salon_portal_backend/platform/db"
	"salon_portal_backend/platform/logger"

	"github.com/google/uuid"
)

func main() {
	action := flag.String("action", "list", "one of: create, list, revoke")
	salon := flag.String("salon", "", "salon id (uuid)")
	name := flag.String("name", "", "key label, required for create")
	keyID := flag.String("key-id", "", "key id (uuid), required for revoke")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		panic("failed to load config: " + err.Error())
	}

	log := logger.New(cfg.Env)

	salonID, err := uuid.Parse(*salon)
	if err != nil {
		fmt.Fprintln(os.Stderr, "invalid -salon:", err)
		os.Exit(1)
	}

	ctx := context.Background()
	pool, err := db.NewPool(ctx, cfg)
	if err != nil {
		log.Error("failed to connect to database", "error", err)
		panic("failed to connect to database: " + err.Error())
	}
	defer pool.Close()

	repo := ingest.NewRepository(pool)

	switch *action {
	case "create":
		if *name == "" {
			fmt.Fprintln(os.Stderr, "-name is required for create")
			os.Exit(1)
		}
		plaintext, hash, prefix, err := ingest.GenerateAPIKey()
		if err != nil {
			log.Error("failed to generate key", "error", err)
			os.Exit(1)
		}
		key, err := repo.Create(ctx, salonID, *name, hash, prefix)
		if err != nil {
			log.Error("failed to store key", "error", err)
			os.Exit(1)
		}
		fmt.Println("key id: ", key.ID)
		fmt.Println("key:    ", plaintext)
		fmt.Println("store the key now, it cannot be recovered later")

	case "list":
		keys, err := repo.ListBySalon(ctx, salonID)
		if err != nil {
			log.Error("failed to list keys", "error", err)
			os.Exit(1)
		}
		for _, key := range keys {
			status := "active"
			if !key.IsActive {
				status = "revoked"
			}
			fmt.Printf("%s  %s...  %-8s  %s  %s\n",
				key.ID, key.KeyPrefix, status, key.CreatedAt.Format("2006-01-02"), key.Name)
		}

	case "revoke":
		id, err := uuid.Parse(*keyID)
		if err != nil {
			fmt.Fprintln(os.Stderr, "invalid -key-id:", err)
			os.Exit(1)
		}
		if err := repo.Deactivate(ctx, salonID, id); err != nil {
			log.Error("failed to revoke key", "error", err)
			os.Exit(1)
		}
		fmt.Println("key revoked")

	default:
		fmt.Fprintln(os.Stderr, "unknown -action:", *action)
		os.Exit(1)
	}
}
