package main

import (
	"log"
	"os"

	"github.com/example/fransbot/cmd"
	"github.com/joho/godotenv"
)

func main() {
	// .env is optional, the environment wins over it
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		log.Printf("Warning: could not load .env: %v", err)
	}

	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
