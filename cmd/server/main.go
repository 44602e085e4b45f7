package main

import (
	"log"

	_ "planner/docs"
	"planner/internal/config"
	"planner/internal/logger"
	"planner/internal/server"
)

func main() {
	cfg := config.Load()

	if err := logger.Init(cfg.LogDevelopment); err != nil {
		log.Fatalf("logger initialization failed: %v", err)
	}
	defer logger.Sync()

	s, err := server.Init(cfg)
	if err != nil {
		logger.Fatal("server initialization failed", err)
	}

	s.Run()
}
