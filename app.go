package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"

	"gorm.io/gorm/logger"

	"sitesmith/internal/database"
	"sitesmith/internal/events"
	"sitesmith/internal/llm/client"
	"sitesmith/internal/services"
	"sitesmith/internal/utils"
	"sitesmith/internal/web"
)

const defaultAddr = "127.0.0.1:8432"

func run() error {
	// .env is optional; the keyring and real environment still apply.
	if err := utils.LoadEnv(); err != nil && !errors.Is(err, os.ErrNotExist) {
		log.Printf("no .env loaded: %v", err)
	}

	db, err := database.Init(database.Config{
		Path:     os.Getenv("SITESMITH_DB"),
		LogLevel: logger.Warn,
	})
	if err != nil {
		return fmt.Errorf("open database: %w", err)
	}
	if sqlDB, err := db.DB(); err == nil {
		defer sqlDB.Close()
	}

	snippetDir := os.Getenv("SITESMITH_SNIPPETS")
	if snippetDir != "" && !utils.DirectoryExists(snippetDir) {
		log.Printf("snippet directory %q does not exist; serving built-ins only", snippetDir)
		snippetDir = ""
	}

	svc := services.NewDbServices(db, snippetDir)
	ctx := context.Background()
	if err := svc.Startup(ctx); err != nil {
		return fmt.Errorf("start services: %w", err)
	}

	broadcaster := events.NewBroadcaster()
	broadcaster.Install()

	addr := os.Getenv("SITESMITH_ADDR")
	if addr == "" {
		addr = defaultAddr
	}

	srv := web.NewServer(svc, broadcaster, imageGenerator(ctx, svc), addr)
	return web.Run(srv)
}

// imageGenerator builds the Imagen-backed generator when a Gemini key is
// available. Image generation is optional; without a key the endpoint reports
// the missing credential.
func imageGenerator(ctx context.Context, svc *services.DbServices) web.ImageGenerator {
	apiKey, err := svc.Keyring.GetAPIKey("gemini")
	if err != nil {
		return nil
	}
	gen, err := client.NewImageGenerator(ctx, apiKey)
	if err != nil {
		log.Printf("image generation disabled: %v", err)
		return nil
	}
	return gen
}
