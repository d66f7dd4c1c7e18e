package main

import (
	"fmt"
	"os"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/quiltlang/quilt/internal/diagnostics"
	"github.com/quiltlang/quilt/internal/history"
	"github.com/quiltlang/quilt/internal/manifest"
	"github.com/quiltlang/quilt/internal/modules"
	"github.com/quiltlang/quilt/internal/pipeline"
	"github.com/quiltlang/quilt/internal/session"
)

var buildCmd = &cobra.Command{
	Use:   "build [module...]",
	Short: "Build the project and write the combined program",
	Long: `Build discovers every unit file under the project root, runs the
composition pass, and writes the combined program to the configured
output. With module arguments, only the named units (and whatever
their composition forces) are built.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		m, err := loadManifest()
		if err != nil {
			return err
		}
		return runBuild(m, args, newLogger())
	},
}

func runBuild(m *manifest.Manifest, targets []string, logger *log.Logger) error {
	loader := modules.NewLoader(m.RootDir())
	sess := session.New()
	pipe := pipeline.New(loader, sess, pipeline.WithLogger(logger))

	logger.Debug("session started", "project", m.Name, "session", sess.ID)

	ids := targets
	if len(ids) == 0 {
		var err error
		ids, err = loader.Discover()
		if err != nil {
			return err
		}
	}
	if len(ids) == 0 {
		return fmt.Errorf("no unit files found under %s", m.RootDir())
	}

	pipe.BeginPass(nil)
	buildErr := pipe.BuildAll(ids)

	diags := pipe.Diagnostics()
	diagnostics.Fprint(os.Stderr, diags, diagnostics.ColorEnabled(os.Stderr))

	stats := pipe.Stats()
	if m.HistoryEnabled() {
		recordPass(m.Dir, sess, stats, len(diags), logger)
	}

	if buildErr != nil {
		return buildErr
	}

	if err := sess.Program.WriteFile(m.OutputPath()); err != nil {
		return err
	}
	logger.Info("build complete",
		"units", stats.UnitsBuilt,
		"hosts", stats.HostsMerged,
		"guests", stats.GuestsCaptured,
		"output", m.OutputPath())
	return nil
}

// recordPass appends the pass to the history store. History failures
// never fail the build.
func recordPass(projectDir string, sess *session.Session, stats pipeline.PassStats, diagCount int, logger *log.Logger) {
	store, err := history.Open(projectDir)
	if err != nil {
		logger.Warn("history unavailable", "error", err)
		return
	}
	defer store.Close()
	err = store.Append(history.Record{
		SessionID:      sess.ID.String(),
		Pass:           sess.Pass(),
		UnitsBuilt:     stats.UnitsBuilt,
		HostsMerged:    stats.HostsMerged,
		GuestsCaptured: stats.GuestsCaptured,
		Diagnostics:    diagCount,
	})
	if err != nil {
		logger.Warn("recording history failed", "error", err)
	}
}
