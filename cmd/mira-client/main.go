// Package main is the mira-client entry point.
package main

import (
	"log"

	"github.com/mirasocial/mira-client/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		log.Fatal(err)
	}
}
