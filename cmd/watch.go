package cmd

import (
	"context"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/conneroisu/specgen/internal/repair"
	"github.com/conneroisu/specgen/internal/services"
	"github.com/conneroisu/specgen/internal/validator"
	"github.com/conneroisu/specgen/internal/watcher"
)

var watchCmd = &cobra.Command{
	Use:     "watch",
	Aliases: []string{"w"},
	Short:   "Revalidate documents as they change",
	Long: `Watch the templates root and the output root and validate every document
that is created or modified. Templates (TEMPLATE-* files) are checked as
templates, everything else as a specification.

Examples:
  specgen watch                     # Watch with the default delay
  specgen watch --delay 1s          # Wait longer before revalidating`,
	Args: cobra.NoArgs,
	RunE: runWatch,
}

var watchDelay time.Duration

func init() {
	rootCmd.AddCommand(watchCmd)

	watchCmd.Flags().DurationVar(&watchDelay, "delay", 300*time.Millisecond, "Debounce delay before revalidating")
}

func runWatch(cmd *cobra.Command, args []string) error {
	svc, err := loadService(cmd)
	if err != nil {
		return err
	}
	out := newPrinter(cmd.OutOrStdout())

	fileWatcher, err := watcher.NewFileWatcher(watchDelay, logger)
	if err != nil {
		return err
	}
	defer fileWatcher.Stop()

	fileWatcher.AddFilter(watcher.ExtensionFilter(svc.Config().Extension))
	fileWatcher.AddFilter(watcher.NoHiddenFilter)
	fileWatcher.AddHandler(revalidateHandler(svc, out))

	cfg := svc.Config()
	watched := 0
	for _, root := range []string{cfg.TemplatesRoot(), cfg.OutputRoot()} {
		if err := os.MkdirAll(root, 0o755); err != nil {
			out.warn("cannot create %s: %v", root, err)
			continue
		}
		if err := fileWatcher.AddRecursive(root); err != nil {
			out.warn("failed to watch %s: %v", root, err)
			continue
		}
		out.muted("  watching %s", root)
		watched++
	}
	if watched == 0 {
		out.fail("Nothing to watch.")
		return nil
	}

	ctx, stop := signal.NotifyContext(commandContext(cmd), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := fileWatcher.Start(ctx); err != nil {
		return err
	}
	out.info("Watching for changes... (Press Ctrl+C to stop)")

	<-ctx.Done()
	out.info("Stopping file watcher...")
	return nil
}

// revalidateHandler validates each changed document. Removed and renamed
// paths are reported and skipped.
func revalidateHandler(svc *services.SpecService, out *printer) watcher.ChangeHandler {
	return func(ctx context.Context, events []watcher.ChangeEvent) error {
		for _, event := range events {
			if event.Type == watcher.EventTypeDeleted || event.Type == watcher.EventTypeRenamed {
				out.muted("  removed %s", event.Path)
				continue
			}

			check, err := validateChanged(ctx, svc, event.Path)
			if err != nil {
				out.fail("✗ %s: %v", event.Path, err)
				continue
			}
			out.result(check)
		}
		return nil
	}
}

func validateChanged(ctx context.Context, svc *services.SpecService, path string) (*validator.Result, error) {
	if strings.HasPrefix(filepath.Base(path), repair.TemplatePrefix) {
		return svc.ValidateTemplate(ctx, path)
	}
	return svc.ValidateSpec(ctx, path, "")
}
