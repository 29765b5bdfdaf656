// Package main provides the entrypoint for wp-trigger-app.
package main

import (
	"os"

	"github.com/isometry/wp-trigger-app/cmd"
)

func main() {
	if err := cmd.New().Execute(); err != nil {
		os.Exit(1)
	}
}
