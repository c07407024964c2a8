package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"

	"namaz-cli/internal/adapter/primary/cli"
)

func main() {
	// .env is optional; NAMAZ_* variables may also come from the environment.
	_ = godotenv.Load()

	if err := cli.NewRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
