package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/shashiranjanraj/bazaar/internal/kernel"
	"github.com/shashiranjanraj/bazaar/internal/server"
)

func init() {
	rootCmd.AddCommand(serveCmd, routeListCmd)
}

var serveCmd = &cobra.Command{
	Use:     "serve",
	Aliases: []string{"run"},
	Short:   "Start the HTTP server",
	RunE: func(cmd *cobra.Command, args []string) error {
		return server.Run()
	},
}

var routeListCmd = &cobra.Command{
	Use:   "route:list",
	Short: "Print every registered route",
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := server.Boot(); err != nil {
			return err
		}

		r := kernel.BuildRouter()
		fmt.Printf("%-8s %-45s %s\n", "METHOD", "PATH", "NAME")
		for _, info := range r.Routes() {
			fmt.Printf("%-8s %-45s %s\n", info.Method, info.Path, info.Name)
		}
		return nil
	},
}
