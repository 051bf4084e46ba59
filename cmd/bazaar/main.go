package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	// Register migrations.
	_ "github.com/shashiranjanraj/bazaar/database/migrations"
)

var rootCmd = &cobra.Command{
	Use:   "bazaar",
	Short: "Bazaar e-commerce backend",
	Long:  "Bazaar is an e-commerce REST API with an order lifecycle engine.",
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
