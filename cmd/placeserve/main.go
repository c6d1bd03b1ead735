// Copyright 2026 The PlaceServe Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

/*
Package main implements an address autocomplete daemon and CLI [DBG] application.

PlaceServe adapts the Google Places web service into a debounced,
observable autocomplete session. Keystrokes are coalesced by a quiet-period
timer so only the final input of each typing burst becomes a network query,
and the ranked predictions are exposed to UI processes over a MessagePack
IPC server or printed directly in CLI mode.

The session loads the maps capability once per process, degrades to a
silent no-op when the load fails, and keeps a billing session token that
renews after each resolved place detail.

# Usage

Start the server with default settings:

	placeserve

Use a custom config and enable debug mode:

	placeserve -config /path/to/config.toml -d

Run in CLI mode for interactive testing:

	placeserve -c -limit 8 -wait 150

The API key is read from the PLACESERVE_API_KEY environment variable (or
GOOGLE_MAPS_API_KEY as a fallback), optionally loaded from a .env file with
-env. It never lives in the TOML config.

# Configuration

Runtime configuration is managed through a TOML file that supports service
parameters, session settings, and CLI defaults:

	[service]
	language = "en"
	libraries = ["places"]

	[autocomplete]
	debounce_ms = 300
	min_input = 1
	max_input = 120
	max_predictions = 5

The config file is automatically created with defaults if it doesn't exist.

# IPC Protocol

The server communicates via MessagePack over stdin/stdout. Search requests
are acked immediately and predictions arrive as pushed events once the
debounce window closes.

Send a search request:

	{"id": "req1", "op": "search", "q": "123 Main"}

Receive predictions with service ranking:

	{"ev": "predictions", "s": [{"pid": "a", "d": "123 Main St", "r": 1}], "c": 1, "l": false}

Detail lookups are synchronous:

	{"id": "req2", "op": "details", "pid": "ChIJ..."}

# Server Mode

The default mode starts a MessagePack IPC server that processes requests
from stdin and writes responses and events to stdout. This design enables
integration with editors, pickers and other UI processes through process
communication.

# CLI Mode

CLI mode provides an interactive interface for testing and debugging the
autocomplete flow. It reads queries from stdin, prints predictions as the
debounce window closes, and resolves a chosen prediction with ':sel N'.

This mode is primarily intended for development and testing new features
before deploying to server mode. It supports the same filtering and length
checks as the server but with human-readable output.

# Command Line Flags

The following flags control application behavior:

	-d  Enable debug mode with detailed logging
	-c  Run in CLI mode instead of server mode
	-config string
	    Path to a custom config.toml
	-env string
	    Path to a .env file to load before reading the API key
	-key string
	    API key override (takes precedence over the environment)
	-limit int
	    Number of predictions to display (default from config)
	-wait int
	    Debounce quiet period in milliseconds (default from config)
	-lang string
	    Display language for results (default from config)
	-no-filter
	    Disable input filtering for debugging

Input filtering drops repetitive keystroke noise by default to avoid
pointless queries, though this can be disabled for debugging purposes.
*/
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"
	"github.com/joho/godotenv"

	"github.com/iguilhermeluis/placeserve/internal/cli"
	"github.com/iguilhermeluis/placeserve/pkg/autocomplete"
	"github.com/iguilhermeluis/placeserve/pkg/config"
	"github.com/iguilhermeluis/placeserve/pkg/places"
	"github.com/iguilhermeluis/placeserve/pkg/server"
)

const (
	Version = "0.1.0"
	AppName = "placeserve"
	gh      = "https://github.com/iguilhermeluis/placeserve"
)

// sigHandler is a simple handler for OS signals to exit normally.
func sigHandler() {
	c := make(chan os.Signal, 1)
	signal.Notify(c, os.Interrupt, syscall.SIGTERM)

	go func() {
		<-c
		fmt.Fprintf(os.Stderr, "\nExiting...\n")
		os.Exit(0)
	}()
}

// resolveAPIKey picks the key from the flag or the environment, loading a
// .env file first when one was given.
func resolveAPIKey(keyFlag, envPath string) string {
	if envPath != "" {
		if err := godotenv.Load(envPath); err != nil {
			log.Warnf("Failed to load env file %s: %v", envPath, err)
		}
	} else {
		// Best effort: a .env in the working dir is picked up silently.
		_ = godotenv.Load()
	}

	if keyFlag != "" {
		return keyFlag
	}
	if key := os.Getenv("PLACESERVE_API_KEY"); key != "" {
		return key
	}
	return os.Getenv("GOOGLE_MAPS_API_KEY")
}

// main calls other packages to initialize the server or CLI inputs.
// main() does not implement logic for them and only manages the flow.
func main() {
	sigHandler()
	defaultConfig := config.DefaultConfig()

	// custom Flags
	showVersion := flag.Bool("version", false, "Show current version")
	debugMode := flag.Bool("d", false, "Toggle debug mode")
	cliMode := flag.Bool("c", false, "Run CLI -- useful for testing and debugging")
	configPath := flag.String("config", "", "Path to a custom config.toml")
	envPath := flag.String("env", "", "Path to a .env file with the API key")
	keyFlag := flag.String("key", "", "API key override (env takes over when empty)")
	limit := flag.Int("limit", defaultConfig.CLI.DefaultLimit, "Number of predictions to display")
	wait := flag.Int("wait", defaultConfig.Autocomplete.DebounceMs, "Debounce quiet period in milliseconds")
	lang := flag.String("lang", "", "Display language for results")
	noFilter := flag.Bool("no-filter", defaultConfig.CLI.DefaultNoFilter, "Disable input filtering (DBG only) - forwards raw keystroke noise to the service")

	flag.Parse()

	if *showVersion {
		logger := log.NewWithOptions(os.Stderr, log.Options{
			ReportCaller:    false,
			ReportTimestamp: false,
			Prefix:          "",
		})

		styles := log.DefaultStyles()

		styles.Values["version"] = lipgloss.NewStyle().Bold(true).
			Foreground(lipgloss.AdaptiveColor{Light: "#575279", Dark: "#e0def4"})
		styles.Values["gh"] = lipgloss.NewStyle().Italic(true).
			Foreground(lipgloss.AdaptiveColor{Light: "#575279", Dark: "#e0def4"})

		logger.SetStyles(styles)

		logger.Print("")
		logger.Print("[ PlaceServe ] Debounced address autocomplete, served!")
		logger.Print("", "version", Version)
		logger.Print("")
		logger.Print("use -h or --help to see available options")
		logger.Print("Github Repo", "gh", gh)

		os.Exit(0)
	}

	if *debugMode {
		log.SetLevel(log.DebugLevel)
		log.SetReportTimestamp(true)
	} else {
		log.SetLevel(log.WarnLevel)
	}

	appConfig, activeConfigPath, err := config.LoadConfigWithPriority(*configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
		os.Exit(1)
	}
	log.Debugf("Using config file: (%s)", config.GetActiveConfigPath(activeConfigPath))

	apiKey := resolveAPIKey(*keyFlag, *envPath)
	if apiKey == "" {
		log.Fatal("No API key found. Set PLACESERVE_API_KEY or pass -key.")
		os.Exit(1)
	}

	if *lang != "" {
		appConfig.Service.Language = *lang
	}
	if *wait > 0 {
		appConfig.Autocomplete.DebounceMs = *wait
	}

	clientOpts := []places.ClientOption{places.WithLanguage(appConfig.Service.Language)}
	if appConfig.Service.Endpoint != "" {
		clientOpts = append(clientOpts, places.WithBaseURL(appConfig.Service.Endpoint))
	}
	client := places.NewClient(apiKey, clientOpts...)

	loaderOpts := []places.LoaderOption{
		places.WithLibraries(appConfig.Service.Libraries),
		places.WithLoaderLanguage(appConfig.Service.Language),
	}
	if appConfig.Service.BootstrapURL != "" {
		loaderOpts = append(loaderOpts, places.WithBootstrapURL(appConfig.Service.BootstrapURL))
	}
	loader := places.SharedLoader(apiKey, loaderOpts...)

	session := autocomplete.NewSession(client, loader, autocomplete.Options{
		Wait: appConfig.Autocomplete.Wait(),
	})
	defer session.Close()

	session.Init(context.Background())
	if !session.APILoaded() {
		log.Warn("Maps capability unavailable, running in no-op mode...")
	}

	// CLI would be mainly used for testing and dbg purposes.
	// Any new features or changes should be tested in CLI mode first.
	if *cliMode {
		log.SetReportTimestamp(false)
		log.Debug("Input info:",
			"minInput", appConfig.Autocomplete.MinInput,
			"maxInput", appConfig.Autocomplete.MaxInput,
			"limit", *limit,
			"noFilter", *noFilter)

		inputHandler := cli.NewInputHandler(session,
			appConfig.Autocomplete.MinInput,
			appConfig.Autocomplete.MaxInput,
			*limit, *noFilter)
		if err := inputHandler.Start(); err != nil {
			log.Fatalf("CLI error: %v", err)
			os.Exit(1)
		}
		return
	}

	log.Debug("spawning IPC")
	srv := server.NewServer(session, appConfig)

	showStartupInfo(session.APILoaded())

	if err := srv.Start(); err != nil {
		log.Fatalf("Failed to start server: %v", err)
		os.Exit(1)
	}
}

// showStartupInfo displays some basic info about the init process.
func showStartupInfo(apiLoaded bool) {
	pid := os.Getpid()
	currentLevel := log.GetLevel()
	log.SetLevel(log.InfoLevel)

	println("============")
	println(" PlaceServe ")
	println("============")
	log.Infof("Version: %s", Version)
	log.Infof("Process ID: [ %d ]", pid)
	log.Info("init: OK")
	log.Infof("capability loaded: [ %t ]", apiLoaded)
	log.Info("status: ready")
	println("============")
	println("Press Ctrl+C to exit")

	log.SetLevel(currentLevel)
}
