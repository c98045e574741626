// Command miatctl runs one-off administration tasks against the action
// log database: migrations and seeding admins and reference data.
package main

import (
	"os"

	"github.com/miat-mn/action-log/internal/logging"
)

func main() {
	logging.Setup()
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
