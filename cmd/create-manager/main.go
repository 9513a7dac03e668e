package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/joho/godotenv"

	"github.com/Skotchmaster/campus_cafeteria/internal/config"
	"github.com/Skotchmaster/campus_cafeteria/internal/repo"
	"github.com/Skotchmaster/campus_cafeteria/internal/service"
	pkgdb "github.com/Skotchmaster/campus_cafeteria/pkg/db"
)

const usage = "usage: create-manager <username> <password> <email>"

func main() {
	if len(os.Args) != 4 {
		fmt.Fprintln(os.Stderr, usage)
		os.Exit(2)
	}
	if err := godotenv.Load(); err != nil {
		log.Printf("warning: could not load .env: %v", err)
	}

	cfg := config.LoadCLI()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	db, err := pkgdb.Open(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("db open: %v", err)
	}
	defer func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	}()

	store := &repo.GormRepo{DB: db}
	if err := store.Migrate(ctx); err != nil {
		log.Fatalf("db migrate: %v", err)
	}

	svc := &service.ManagerService{Repo: store}
	m, err := svc.Create(ctx, os.Args[1], os.Args[2], os.Args[3])
	if err != nil {
		if errors.Is(err, service.ErrConflict) {
			fmt.Fprintf(os.Stderr, "Manager %s already exists\n", os.Args[1])
		} else {
			fmt.Fprintf(os.Stderr, "create manager: %v\n", err)
		}
		os.Exit(1)
	}

	fmt.Printf("Manager %s created (id %d)\n", m.Username, m.ID)
}
