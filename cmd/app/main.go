package main

import (
	"freelance-marketplace-api/app"

	"github.com/labstack/gommon/log"
)

func main() {
	if err := app.Run(); err != nil {
		log.Fatal(err)
	}
}
