package main

import (
	"bytes"
	"log"
	"os"

	"pointerapp/internal/config"
	"pointerapp/internal/session"
	"pointerapp/pkg/detector"
)

func main() {
	cfg := config.Default()

	backend, err := detector.NewTerminal(cfg)
	if err != nil {
		log.Fatalf("Failed to initialize terminal backend: %v", err)
	}

	// Logs written while the screen is active would corrupt it
	var held bytes.Buffer
	log.SetOutput(&held)
	err = session.Run(cfg, backend, session.Decorative)
	log.SetOutput(os.Stderr)
	os.Stderr.Write(held.Bytes())

	if err != nil {
		log.Fatalf("Pointer App error: %v", err)
	}
}
