package main

import (
	"fmt"
	"strings"

	"github.com/aretw0/scientist"
	"github.com/spf13/cobra"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number of scientist",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("scientist version %s\n", strings.TrimSpace(scientist.Version))
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
