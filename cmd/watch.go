package cmd

import (
	"bytes"
	"context"
	"log/slog"
	"os"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"golang.org/x/sync/errgroup"

	"github.com/southpawriter02/shell-spec/internal/controller"
	"github.com/southpawriter02/shell-spec/internal/domain"
	m "github.com/southpawriter02/shell-spec/internal/model"
)

// watchDebounce coalesces bursts of filesystem events into one re-run.
const watchDebounce = 400 * time.Millisecond

// watchCmd represents the watch command.
var watchCmd = newWatchCmd()

func newWatchCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:          "watch [paths...]",
		Short:        "Re-run tests whenever a watched file changes",
		Long:         "Watch the given paths and re-run the test suite on every change.\n\n" + pathsHelp,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			refreshWorkflow()

			paths := parsePaths(args)
			if len(paths) == 0 {
				paths = []m.Path{"."}
			}

			return runWatch(cmd, paths)
		},
	}

	return cmd
}

func init() {
	rootCmd.AddCommand(watchCmd)
}

func runWatch(cmd *cobra.Command, paths []m.Path) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}

	defer func() {
		_ = watcher.Close()
	}()

	watched := make([]string, 0, len(paths))

	for _, path := range paths {
		watched = append(watched, string(path))

		if err := addWatchTree(watcher, path); err != nil {
			return err
		}
	}

	tui := controller.NewWatchTUI(cmd.OutOrStdout(), watched)

	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()

	group, ctx := errgroup.WithContext(ctx)

	group.Go(func() error {
		defer cancel()

		return tui.Run()
	})

	group.Go(func() error {
		defer tui.Quit()

		runOnce(ctx, tui, paths)

		debounce := time.NewTimer(watchDebounce)
		if !debounce.Stop() {
			<-debounce.C
		}

		for {
			select {
			case <-ctx.Done():
				return nil

			case event, ok := <-watcher.Events:
				if !ok {
					return nil
				}

				if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) != 0 {
					debounce.Reset(watchDebounce)
				}

			case err, ok := <-watcher.Errors:
				if !ok {
					return nil
				}

				slog.Warn("watch error", "error", err)

			case <-debounce.C:
				runOnce(ctx, tui, paths)
			}
		}
	})

	return group.Wait()
}

// runOnce executes the suite with output captured into the watch view.
func runOnce(ctx context.Context, tui *controller.WatchTUI, paths []m.Path) {
	tui.Send(controller.RunStartedMsg{})

	var buf bytes.Buffer

	capture := &cobra.Command{}
	capture.SetOut(&buf)
	capture.SetErr(&buf)

	wf := domain.NewWorkflow(fsAdapter, currentShellAdapter(), streamStore, controller.NewSimpleUI(capture))

	err := wf.Run(ctx, domain.RunArgs{
		Paths:   paths,
		Pattern: viper.GetString(patternConfigKey),
		Prefix:  viper.GetString(prefixConfigKey),
		Exclude: viper.GetStringSlice(excludeConfigKey),
		Reports: m.Path(viper.GetString(outputFlagName)),
	})

	tui.Send(controller.RunFinishedMsg{Output: buf.String(), Err: err})
}

// addWatchTree registers path and, for directories, every subdirectory.
func addWatchTree(watcher *fsnotify.Watcher, root m.Path) error {
	info, err := fsAdapter.FileInfo(root)
	if err != nil {
		return err
	}

	if !info.IsDir() {
		return watcher.Add(string(root))
	}

	return fsAdapter.Walk(root, true, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}

		if info.IsDir() {
			return watcher.Add(path)
		}

		return nil
	})
}
