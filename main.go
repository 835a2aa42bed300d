// docchat TUI - a terminal client for the DocChat document-chat backend.
//
// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later
package main

import (
	"flag"
	"fmt"
	"log"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"golang.org/x/term"

	"github.com/jeranaias/docchat-tui/internal/admin"
	"github.com/jeranaias/docchat-tui/internal/api"
	"github.com/jeranaias/docchat-tui/internal/chat"
	"github.com/jeranaias/docchat-tui/internal/config"
	"github.com/jeranaias/docchat-tui/internal/search"
	"github.com/jeranaias/docchat-tui/internal/store"
	"github.com/jeranaias/docchat-tui/internal/ui"
	"github.com/jeranaias/docchat-tui/internal/ui/styles"
	"github.com/jeranaias/docchat-tui/internal/upload"
)

// Version information (set at build time)
var (
	Version   = "0.1.0"
	GitCommit = "unknown"
	BuildDate = "unknown"
)

func main() {
	apiURL := flag.String("api-url", "", "backend base URL (overrides config)")
	configPath := flag.String("config", "", "config file path (default ~/.docchat/config.toml)")
	showVersion := flag.Bool("version", false, "print version and exit")
	flag.Parse()

	if *showVersion {
		fmt.Printf("docchat %s (%s, %s)\n", Version, GitCommit, BuildDate)
		return
	}

	if !term.IsTerminal(int(os.Stdout.Fd())) {
		fmt.Fprintln(os.Stderr, "docchat is interactive and needs a terminal")
		os.Exit(1)
	}

	cfg, err := loadConfig(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "docchat: %v\n", err)
		os.Exit(1)
	}
	if *apiURL != "" {
		cfg.APIURL = *apiURL
		cfg.WSURL = ""
	}

	tokens, err := store.OpenDefault()
	if err != nil {
		fmt.Fprintf(os.Stderr, "docchat: failed to open state store: %v\n", err)
		os.Exit(1)
	}
	defer tokens.Close()

	// The TUI owns the screen; route log output to a file instead
	logFile := setupLogging()
	if logFile != nil {
		defer logFile.Close()
	}

	client := api.NewClientWithConfig(&api.ClientConfig{
		BaseURL:       cfg.APIURL,
		Timeout:       cfg.RequestTimeout(),
		StreamTimeout: cfg.StreamIdleTimeout(),
	}, tokens)

	upload.AllowedExtensions = cfg.Upload.AllowedExtensions

	hub := ui.NewHub()
	uploadController := upload.NewController(client)
	uploadController.OnUpdate = func(job upload.Job) {
		hub.Dispatch(ui.UploadProgressMsg{Job: job})
	}

	app := ui.NewApp(ui.Deps{
		Config: cfg,
		Theme:  styles.New(),
		API:    client,
		Tokens: tokens,
		Chat:   chat.NewController(client, tokens),
		Dialer: chat.NewWSDialer(tokens),
		Search: search.NewController(client),
		Upload: uploadController,
		Admin:  admin.NewClient(client),
		Hub:    hub,
	})

	program := tea.NewProgram(app, tea.WithAltScreen())
	hub.Bind(program.Send)

	if _, err := program.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "docchat: %v\n", err)
		os.Exit(1)
	}
}

func loadConfig(path string) (*config.Config, error) {
	if path != "" {
		return config.LoadFromPath(path)
	}
	return config.Load()
}

// setupLogging sends the standard logger to ~/.docchat/docchat.log so
// request logs and send failures survive without corrupting the screen.
func setupLogging() *os.File {
	dir, err := config.ConfigDir()
	if err != nil {
		log.SetOutput(os.Stderr)
		return nil
	}
	if err := os.MkdirAll(dir, 0700); err != nil {
		log.SetOutput(os.Stderr)
		return nil
	}
	f, err := os.OpenFile(dir+"/docchat.log", os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0600)
	if err != nil {
		log.SetOutput(os.Stderr)
		return nil
	}
	log.SetOutput(f)
	return f
}
