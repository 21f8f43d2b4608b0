package main

import (
	"log"

	"github.com/MrSnakeDoc/letterplace/internal/app"
)

func main() {
	if err := app.New().Run(); err != nil {
		log.Fatalf("❌ letterplace failed to start: %v", err)
	}
}
