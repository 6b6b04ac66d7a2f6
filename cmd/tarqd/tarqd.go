// Command tarqd serves single entries out of tar archives over HTTP, with
// byte-range support. Archives are scanned on first access and their indexes
// cached.
package main

import (
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/aurora-is-near/tarquery/src/deliver"
)

var (
	configFile    string
	archiveDir    string
	listenAddress string
	prefix        string
)

func init() {
	flag.StringVar(&configFile, "c", "/etc/tarqd.conf", "Config file.")
	flag.StringVar(&archiveDir, "d", "", "Directory containing tar archives. Overrides config.")
	flag.StringVar(&listenAddress, "l", "", "IP:Port to listen on. Overrides config.")
	flag.StringVar(&prefix, "p", "", "Request path prefix. Overrides config.")
}

func main() {
	flag.Parse()
	if err := godotenv.Load(); err == nil {
		log.Println("Loaded .env")
	}
	if env := os.Getenv("TARQD_CONFIG"); env != "" {
		configFile = env
	}
	cfg, err := deliver.LoadConfig(configFile)
	if err != nil {
		_, _ = fmt.Fprintf(os.Stderr, "Failed to load config: %s\n", err)
		os.Exit(1)
	}
	if archiveDir != "" {
		cfg.ArchiveDir = archiveDir
	}
	if listenAddress != "" {
		cfg.Listen = listenAddress
	}
	if prefix != "" {
		cfg.Prefix = prefix
	}
	h, err := deliver.NewEntryHandler(cfg.ArchiveDir, cfg.CacheSize)
	if err != nil {
		_, _ = fmt.Fprintf(os.Stderr, "Failed to set up handler: %s\n", err)
		os.Exit(1)
	}
	mux := http.NewServeMux()
	mux.Handle(cfg.Prefix, http.StripPrefix(cfg.Prefix, h))
	log.Println("Starting...")
	go func() {
		if err := http.ListenAndServe(cfg.Listen, mux); err != nil {
			_, _ = fmt.Fprintf(os.Stderr, "Failed to listen: %s", err)
			os.Exit(1)
		}
	}()
	log.Printf("Serving %s on %s%s", cfg.ArchiveDir, cfg.Listen, cfg.Prefix)
	c := make(chan os.Signal, 1)
	signal.Notify(c, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)
	<-c
	log.Println("Stop")
}
