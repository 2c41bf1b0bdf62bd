package main

import (
	"log"
	"os"
)

func main() {
	log.SetFlags(log.Lshortfile)

	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
