package main

import (
	"github.com/joho/godotenv"
)

func main() {
	// Load .env from the working directory if present. Missing files
	// are fine; real env vars always win.
	_ = godotenv.Load()

	Execute()
}
