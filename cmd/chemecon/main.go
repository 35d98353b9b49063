package main

import (
	"flag"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"

	"github.com/chemeconai/chemecon/internal/api"
	"github.com/chemeconai/chemecon/internal/catalog"
	"github.com/chemeconai/chemecon/internal/common"
	"github.com/chemeconai/chemecon/internal/llm"
)

func main() {
	logger := common.Logger()

	if err := godotenv.Load(); err != nil {
		logger.Warn("chemecon: .env file not loaded", "error", err)
	} else {
		logger.Info("chemecon: environment loaded from .env")
	}

	addr := flag.String("addr", ":8080", "listen address")
	catalogPath := flag.String("catalog", defaultCatalogPath(), "path to the SQLite catalog database")
	flag.Parse()

	logger.Info("chemecon: startup initiated", "addr", *addr, "catalog", *catalogPath)

	if dir := filepath.Dir(*catalogPath); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			logger.Error("chemecon: failed to create catalog directory", "dir", dir, "error", err)
			fmt.Println("catalog directory error:", err)
			os.Exit(1)
		}
	}

	store, err := catalog.Open(*catalogPath)
	if err != nil {
		logger.Error("chemecon: catalog open failed", "error", err)
		fmt.Println("catalog error:", err)
		os.Exit(1)
	}
	defer store.Close()

	provider := llm.NewProvider()
	logger.Info("chemecon: llm provider ready", "provider", provider.Name())

	server, err := api.NewServer(store, provider)
	if err != nil {
		logger.Error("chemecon: server construction failed", "error", err)
		fmt.Println("server error:", err)
		os.Exit(1)
	}

	logger.Info("chemecon: server listening", "addr", *addr, "health", "/healthz")
	fmt.Printf("Serving on %s\n", *addr)
	reachable := *addr
	if strings.HasPrefix(reachable, ":") {
		reachable = "localhost" + reachable
	}
	logger.Info("chemecon: verify reachability", "suggestion", fmt.Sprintf("curl http://%s/healthz", reachable))
	if err := http.ListenAndServe(*addr, server); err != nil {
		logger.Error("chemecon: server stopped", "error", err)
		fmt.Println("server stopped:", err)
	}
}

func defaultCatalogPath() string {
	return filepath.Join("data", "catalog.db")
}
