package main

import (
	"github.com/spf13/cobra"
)

var dbCmd = &cobra.Command{
	Use:   "db",
	Short: "Inspect and maintain the business store",
}

func init() {
	rootCmd.AddCommand(dbCmd)
}
