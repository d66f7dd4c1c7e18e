package main

import (
	"fmt"
	"os"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/quiltlang/quilt/internal/manifest"
)

// Version is set at build time using: -ldflags "-X main.Version=..."
var Version = "dev"

var (
	verbose     bool
	projectFlag string

	rootCmd = &cobra.Command{
		Use:   "quilt",
		Short: "Build-time composition of partial units",
		Long: `quilt assembles program units whose member sets are scattered across
partial definitions: a host unit declares an ordered list of guest
modules, and at build time each guest's members are folded into the
host while the guest itself disappears from the final program.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		Version:       Version,
	}
)

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose output")
	rootCmd.PersistentFlags().StringVar(&projectFlag, "project", "", "project directory (default: walk up from the working directory)")

	rootCmd.AddCommand(buildCmd)
	rootCmd.AddCommand(historyCmd)
	rootCmd.AddCommand(cleanCmd)
}

// Execute runs the root command. It is called by main.main().
func Execute() error {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		return err
	}
	return nil
}

func newLogger() *log.Logger {
	logger := log.New(os.Stderr)
	if verbose {
		logger.SetLevel(log.DebugLevel)
	}
	return logger
}

// loadManifest locates and parses the project manifest, honoring the
// --project flag.
func loadManifest() (*manifest.Manifest, error) {
	dir := projectFlag
	if dir == "" {
		wd, err := os.Getwd()
		if err != nil {
			return nil, err
		}
		dir = wd
	}
	path, err := manifest.Find(dir)
	if err != nil {
		return nil, err
	}
	if path == "" {
		return nil, fmt.Errorf("no quilt.yaml found in %s or any parent directory", dir)
	}
	return manifest.Load(path)
}
