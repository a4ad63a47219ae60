// Admin CLI: migrate, seed, sweep manual, hitung nilai akhir.
package main

import (
	"os"
)

func main() {
	if err := NewRootCommand().Execute(); err != nil {
		os.Exit(1)
	}
}
