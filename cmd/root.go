// Package cmd provides the root command and CLI setup for shspec.
package cmd

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/southpawriter02/shell-spec/internal/adapter"
	"github.com/southpawriter02/shell-spec/internal/controller"
	"github.com/southpawriter02/shell-spec/internal/domain"
	m "github.com/southpawriter02/shell-spec/internal/model"
)

var fsAdapter adapter.ScriptFSAdapter
var shellAdapter adapter.ShellRunnerAdapter
var streamStore adapter.StreamStore
var workflow domain.Workflow
var ui controller.UI

// reportsOutputDirFlag is a root-level flag shared by commands that read/write reports.
var reportsOutputDirFlag string

// patternFlag selects which file names count as test files.
var patternFlag string

// prefixFlag selects which function names count as tests.
var prefixFlag string

// shellFlag selects the interpreter used to run tests.
var shellFlag string

// excludePatterns is a root-level flag that filters files for applicable commands.
var excludePatterns []string

// verboseFlag raises the log level to debug.
var verboseFlag bool

func init() {
	configureRootFlags(rootCmd)

	// Initialize shared dependencies.
	ui = controller.NewSimpleUI(rootCmd)
	fsAdapter = adapter.NewLocalScriptFSAdapter()
	streamStore = adapter.NewLocalStreamStore()
	shellAdapter = adapter.NewLocalShellRunnerAdapter(
		viper.GetString(shellConfigKey),
		time.Duration(viper.GetInt64(timeoutConfigKey))*time.Second,
	)
	workflow = domain.NewWorkflow(fsAdapter, shellAdapter, streamStore, ui)
}

const pathsHelp = `Paths may name directories (scanned recursively) or single
test files:
  - shspec run                 scan the current directory
  - shspec run tests/          scan the tests directory
  - shspec run tests/a_test.sh run one file`

const rootLongDescription = `shspec is a test harness for shell scripts. It discovers *_test.sh files,
runs every test_* function in its own disposable shell process with
assertions, mocking, and optional line coverage, and reports results as
console output, a TAP stream, and a machine-readable result stream.

` + pathsHelp

const runLongDescription = `Run the discovered tests (default: current directory).

` + pathsHelp

const listLongDescription = `List test files and the tests they declare without running anything.

` + pathsHelp

// rootCmd represents the base command when called without any subcommands.
var rootCmd = baseRootCmd()

func baseRootCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "shspec",
		Short: "Shell script test harness",
		Long:  rootLongDescription,
		PersistentPreRun: func(_ *cobra.Command, _ []string) {
			configureLogger("", verboseFlag || viper.GetBool(logVerboseKey))
		},
		RunE: func(cmd *cobra.Command, _ []string) error {
			return cmd.Help()
		},
	}
}

func configureRootFlags(cmd *cobra.Command) {
	cmd.PersistentFlags().
		StringVarP(
			&reportsOutputDirFlag, outputFlagName, "o",
			viper.GetString(outputFlagName),
			"output directory for run reports",
		)
	bindFlagToConfig(cmd.PersistentFlags().Lookup(outputFlagName), outputFlagName)

	cmd.PersistentFlags().StringVar(&patternFlag, patternFlagName, viper.GetString(patternConfigKey), "glob that test file names must match")
	bindFlagToConfig(cmd.PersistentFlags().Lookup(patternFlagName), patternConfigKey)

	cmd.PersistentFlags().StringVar(&prefixFlag, prefixFlagName, viper.GetString(prefixConfigKey), "prefix that test function names must carry")
	bindFlagToConfig(cmd.PersistentFlags().Lookup(prefixFlagName), prefixConfigKey)

	cmd.PersistentFlags().StringVar(&shellFlag, shellFlagName, viper.GetString(shellConfigKey), "shell interpreter used to run tests")
	bindFlagToConfig(cmd.PersistentFlags().Lookup(shellFlagName), shellConfigKey)

	cmd.PersistentFlags().StringArrayVarP(&excludePatterns, excludeFlagName, "x", viper.GetStringSlice(excludeConfigKey), "exclude files matching regex (can be repeated)")
	bindFlagToConfig(cmd.PersistentFlags().Lookup(excludeFlagName), excludeConfigKey)

	cmd.PersistentFlags().BoolVarP(&verboseFlag, verboseFlagName, "v", false, "log at debug level")
}

// bindFlagToConfig wires a Cobra flag to a Viper key so config/env values feed the flag.
func bindFlagToConfig(flag *pflag.Flag, key string) {
	if flag == nil {
		cobra.CheckErr(fmt.Errorf("flag for config key %q not found", key))
		return
	}

	cobra.CheckErr(viper.BindPFlag(key, flag))
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}

func parsePaths(args []string) []m.Path {
	paths := make([]m.Path, 0, len(args))
	for _, arg := range args {
		paths = append(paths, m.Path(arg))
	}

	return paths
}

// currentShellAdapter rebuilds the runner when flags changed the interpreter
// or the per-test timeout after init ran.
func currentShellAdapter() adapter.ShellRunnerAdapter {
	shell := viper.GetString(shellConfigKey)
	timeout := time.Duration(viper.GetInt64(timeoutConfigKey)) * time.Second

	if local, ok := shellAdapter.(*adapter.LocalShellRunnerAdapter); ok &&
		local.Shell() == shell && local.Timeout() == timeout {
		return shellAdapter
	}

	return adapter.NewLocalShellRunnerAdapter(shell, timeout)
}
