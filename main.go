package main

import (
	"log"

	"ticket-desk/cmd"
	_ "ticket-desk/migrations"
)

func main() {
	if err := cmd.Start(); err != nil {
		log.Fatal(err)
	}
}
