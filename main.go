package main

import (
	"context"
	"fmt"
	"log"
	"os"

	"github.com/fragmede/quill/internal/api"
	"github.com/fragmede/quill/internal/cache"
	"github.com/fragmede/quill/internal/config"
	"github.com/fragmede/quill/internal/session"
	"github.com/fragmede/quill/internal/ui"

	tea "github.com/charmbracelet/bubbletea"
)

func main() {
	cfg := config.FromEnv()

	if err := os.MkdirAll(cfg.CacheDir, 0o755); err != nil {
		log.Fatalf("creating cache dir: %v", err)
	}

	// The terminal belongs to the UI; logs go to a file.
	logFile, err := os.OpenFile(cfg.LogPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		log.Fatalf("opening log file: %v", err)
	}
	defer logFile.Close()
	log.SetOutput(logFile)
	log.SetFlags(log.LstdFlags | log.Lmicroseconds)

	db, err := cache.Open(cfg.DBPath)
	if err != nil {
		log.Fatalf("opening cache: %v", err)
	}
	defer db.Close()

	client := api.NewClient(cfg.APIBaseURL, cfg.RequestTimeout)

	mgr := session.NewManager(client, db, session.Options{
		ProfileTimeout:  cfg.ProfileTimeout,
		RestoreProfile:  cfg.RestoreProfile,
		VerifyOnRestore: cfg.VerifyOnRestore,
	})
	mgr.Init(context.Background())
	defer mgr.Close()

	// Warm the board caches so switching tabs is instant.
	go prefetch(client, db)

	app := ui.NewApp(cfg, client, db, mgr)
	p := tea.NewProgram(app, tea.WithAltScreen(), tea.WithMouseCellMotion())
	app.SetProgram(p)
	defer app.Close()
	if _, err := p.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func prefetch(client *api.Client, db *cache.DB) {
	results, err := client.BatchBoardPosts(context.Background(), api.Boards)
	if err != nil {
		log.Printf("prefetch: %v", err)
		return
	}
	for board, posts := range results {
		if err := db.PutBoard(board, posts); err != nil {
			log.Printf("prefetch %s: %v", board, err)
		}
	}
}
