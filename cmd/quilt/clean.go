package main

import (
	"github.com/spf13/cobra"

	"github.com/quiltlang/quilt/internal/history"
)

var cleanCmd = &cobra.Command{
	Use:   "clean",
	Short: "Remove the project's working directory (build history)",
	RunE: func(cmd *cobra.Command, args []string) error {
		m, err := loadManifest()
		if err != nil {
			return err
		}
		return history.Clean(m.Dir)
	},
}
