package main

import (
	"log"

	"pointerapp/internal/config"
	"pointerapp/internal/session"
	"pointerapp/pkg/detector"
)

func main() {
	cfg := config.Default()

	backend, err := detector.NewNative(cfg)
	if err != nil {
		log.Fatalf("Failed to initialize window backend: %v", err)
	}

	if err := session.Run(cfg, backend, session.Idle); err != nil {
		log.Fatalf("Pointer App error: %v", err)
	}
}
