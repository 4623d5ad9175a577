// Package main is the entry point for the BookMyTix admin service.
package main

import (
	"os"

	"github.com/bookmytix/admin-core/cmd/bookmytix/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
