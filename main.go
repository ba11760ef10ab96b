package main

import (
	log "github.com/sirupsen/logrus"

	"github.com/selimhanmrl/kupovi/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		log.Fatalf("Error executing command: %v", err)
	}
}
