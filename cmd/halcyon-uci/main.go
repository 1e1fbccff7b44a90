package main

import (
	"flag"
	"log"

	"github.com/halcyonchess/halcyon/internal/config"
	"github.com/halcyonchess/halcyon/internal/uci"
)

var configPath = flag.String("config", "config.toml", "path to a TOML configuration file")

func main() {
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("halcyon-uci: %v", err)
	}

	protocol := uci.New(cfg)
	protocol.Run()
}
