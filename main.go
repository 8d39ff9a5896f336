package main

import (
	"log"

	"orbitfield/config"
	"orbitfield/game"
)

func main() {
	app, err := config.Load("")
	if err != nil {
		log.Fatal(err)
	}

	if err := game.Launch(app, ""); err != nil {
		log.Fatal(err)
	}
}
