// Command taskpad is a list-centric task manager backed by SQLite.
package main

import (
	"os"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		reportFatal(err)
		os.Exit(1)
	}
}
