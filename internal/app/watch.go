package app

import (
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"

	"github.com/codeGROOVE-dev/repocost/pkg/cocomo"
	"github.com/codeGROOVE-dev/repocost/pkg/report"
	"github.com/codeGROOVE-dev/repocost/pkg/scanner"
)

// watchDebounce batches rapid editor saves into one rescan.
const watchDebounce = 500 * time.Millisecond

var watchCmd = &cobra.Command{
	Use:   "watch [path]",
	Short: "Re-estimate on every change to a source tree",
	Long: `Scan a repository, print the estimate, then keep watching the tree and
reprint whenever files change. Rapid saves are debounced so one logical
edit triggers one rescan.

Press Ctrl+C to stop.`,
	Example: `  repocost watch .
  repocost watch ~/src/myapp --complexity high`,
	Args: cobra.MaximumNArgs(1),
	RunE: runWatch,
}

func init() {
	addEstimateFlags(watchCmd)
}

func runWatch(cmd *cobra.Command, args []string) error {
	path := "."
	if len(args) > 0 {
		path = args[0]
	}

	calibration, err := loadCalibration()
	if err != nil {
		return err
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	defer watcher.Close() //nolint:errcheck // shutting down

	if err := watchTree(watcher, path); err != nil {
		return err
	}

	rescan := func() {
		summary, err := scanner.Scan(path)
		if err != nil {
			slog.Warn("Rescan failed", "path", path, "error", err)
			return
		}
		params := resolveParams(cmd, calibration)
		params.LanguageMix = summary.LanguageMix()
		params.CodeLines = summary.Totals.Code

		result, err := cocomo.Estimate(params, calibration.Config())
		if err != nil {
			slog.Warn("Estimate failed", "error", err)
			return
		}
		fmt.Printf("\n[%s] %d code lines\n", time.Now().Format("15:04:05"), summary.Totals.Code)
		report.WriteEstimate(os.Stdout, result)
	}

	rescan()
	fmt.Fprintf(os.Stderr, "Watching %s (Ctrl+C to stop)\n", path)

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	// A nil timer channel blocks forever, so the select only fires after
	// an event armed the debounce.
	var debounce *time.Timer
	var debounceC <-chan time.Time

	for {
		select {
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			// Newly created directories need their own watch.
			if event.Op.Has(fsnotify.Create) {
				if info, err := os.Stat(event.Name); err == nil && info.IsDir() {
					if !scanner.ExcludedDir(filepath.Base(event.Name)) {
						if err := watcher.Add(event.Name); err != nil {
							slog.Warn("Failed to watch new directory", "path", event.Name, "error", err)
						}
					}
				}
			}
			if debounce == nil {
				debounce = time.NewTimer(watchDebounce)
				debounceC = debounce.C
			} else {
				debounce.Reset(watchDebounce)
			}
		case <-debounceC:
			debounce = nil
			debounceC = nil
			rescan()
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			slog.Warn("Watcher error", "error", err)
		case <-stop:
			fmt.Fprintln(os.Stderr, "\nStopping")
			return nil
		}
	}
}

// watchTree registers root and every non-excluded subdirectory.
func watchTree(watcher *fsnotify.Watcher, root string) error {
	return filepath.WalkDir(root, func(path string, entry fs.DirEntry, err error) error {
		if err != nil {
			return nil //nolint:nilerr // unreadable subtrees are skipped, not fatal
		}
		if !entry.IsDir() {
			return nil
		}
		if path != root && scanner.ExcludedDir(entry.Name()) {
			return filepath.SkipDir
		}
		if err := watcher.Add(path); err != nil {
			return fmt.Errorf("watch %s: %w", path, err)
		}
		return nil
	})
}
