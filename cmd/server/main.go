package main

import (
	"log"

	"github.com/dnguyen-dev/bistro/internal/server"

	// Imported so their init() funcs register migrations and seeders.
	_ "github.com/dnguyen-dev/bistro/database/migrations"
	_ "github.com/dnguyen-dev/bistro/database/seeders"
)

func main() {
	if err := server.Start(); err != nil {
		log.Fatal(err)
	}
}
