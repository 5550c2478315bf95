package cli

import (
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/time/rate"

	"github.com/wWordDevw/terap-ia/internal/core/domain"
	"github.com/wWordDevw/terap-ia/internal/core/ports/driven"
	"github.com/wWordDevw/terap-ia/internal/logger"
)

// DefaultMinInterval is the default pause between watch-triggered runs.
const DefaultMinInterval = 2 * time.Second

// WatcherFactory starts watching dir for archives.
type WatcherFactory func(dir string) (driven.ArchiveWatcher, error)

var newWatcher WatcherFactory

var watchFlags struct {
	minInterval time.Duration
}

var watchCmd = &cobra.Command{
	Use:   "watch <dir>",
	Short: "Verify archives as they appear in a directory",
	Long: `Watch a directory, and every directory below it, for zip archives returned
by the generation service. Each new or rewritten archive is verified once its
writes have settled and the report is printed. Runs happen one at a time and
at most once per --min-interval. Stop with Ctrl+C.`,
	Args: cobra.ExactArgs(1),
	RunE: runWatch,
}

func init() {
	addRunFlags(watchCmd)
	watchCmd.Flags().DurationVar(&watchFlags.minInterval, "min-interval", DefaultMinInterval,
		"minimum time between two runs")
	rootCmd.AddCommand(watchCmd)
}

// ConfigureWatch sets the directory watcher factory.
func ConfigureWatch(watcher WatcherFactory) {
	newWatcher = watcher
}

func runWatch(cmd *cobra.Command, args []string) error {
	if newWatcher == nil {
		return errors.New("directory watching not configured")
	}
	if watchFlags.minInterval <= 0 {
		return fmt.Errorf("%w: --min-interval must be positive", domain.ErrInvalidInput)
	}
	svc, err := verifier(cmd)
	if err != nil {
		return err
	}

	w, err := newWatcher(args[0])
	if err != nil {
		return err
	}
	defer w.Close()

	ctx := commandContext(cmd)
	limiter := rate.NewLimiter(rate.Every(watchFlags.minInterval), 1)
	cmd.PrintErrf("Watching %s for archives (Ctrl+C to stop)\n", args[0])

	errs := w.Errors()
	for {
		select {
		case <-ctx.Done():
			return nil
		case err, ok := <-errs:
			if !ok {
				errs = nil
				continue
			}
			logger.Warn("watch: %v", err)
		case change, ok := <-w.Events():
			if !ok {
				return nil
			}
			if err := limiter.Wait(ctx); err != nil {
				// Interrupted while waiting for the next slot.
				return nil
			}
			logger.Info("%s %s", change.Path, change.Op)

			rep, err := svc.Analyze(ctx, []string{change.Path})
			if err != nil {
				logger.Error("%s: %v", change.Path, err)
				continue
			}
			if err := writeReport(cmd, rep); err != nil {
				return err
			}
			recordRun(ctx, rep)
		}
	}
}
