package cmd

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jopnelli/n8n-debugger/internal/config"
	"github.com/jopnelli/n8n-debugger/internal/execution"
	"github.com/jopnelli/n8n-debugger/internal/inspect"
	"github.com/jopnelli/n8n-debugger/internal/logger"
)

var rootCmd = &cobra.Command{
	Use:   "n8n-debugger <execution-file> [node-name]",
	Short: "Extract Node Data - Get outputs from specific nodes in execution files",
	Long: `Extract Node Data - Get outputs from specific nodes in execution files

Without a node name every node recorded in the execution is listed with its
status, item count and run time. With a node name the output items of that
node are printed.`,
	Example: `  # List all nodes in an execution
  n8n-debugger executions/mp3KdoJFgCDT5ktt/437776_manual_success.json

  # Extract specific node output
  n8n-debugger executions/mp3KdoJFgCDT5ktt/437776_manual_success.json "Get many rows Katalog"

  # Only failed nodes or nodes without output
  n8n-debugger --filter '!success || items == 0' execution.json`,
	Args:          cobra.ArbitraryArgs,
	SilenceErrors: true,
	SilenceUsage:  true,
	RunE:          runRoot,
}

func Execute() int {
	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		if msg := exitMessage(err); msg != "" {
			fmt.Fprintln(rootCmd.ErrOrStderr(), msg)
		}
		return 1
	}
	return 0
}

// exitMessage is the stderr line for a failed run. Node-not-found has already
// been reported on stdout, so it gets none.
func exitMessage(err error) string {
	var execErr *execution.Error
	if !errors.As(err, &execErr) {
		return "Error: " + err.Error()
	}
	switch execErr.Code {
	case execution.CodeNodeNotFound:
		return ""
	case execution.CodeNoExecutionData:
		return execErr.Error()
	default:
		return "Error: " + execErr.Error()
	}
}

func runRoot(cmd *cobra.Command, args []string) error {
	if len(args) == 0 {
		return cmd.Help()
	}

	cfg, err := loadConfig(cmd.Flags().Changed("config"))
	if err != nil {
		return err
	}

	log := logger.New(logger.Config{
		Level:  cfg.LogLevel,
		Format: cfg.LogFormat,
		Output: cmd.ErrOrStderr(),
	})

	opts := inspect.Options{
		File:     args[0],
		Filter:   cfg.Filter,
		Format:   cfg.Format,
		Program:  cmd.Root().Name(),
		ShowHint: !cfg.NoHint,
	}
	// Arguments after the node name are ignored.
	if len(args) > 1 {
		opts.Node = args[1]
	}

	return inspect.NewRunner(log, cmd.OutOrStdout(), cmd.ErrOrStderr()).Run(cmd.Context(), opts)
}

// loadConfig resolves settings. A config file named with --config must exist;
// the default one in $HOME is optional.
func loadConfig(explicitConfig bool) (config.Config, error) {
	if err := config.LoadDotEnv(DotEnvFileName); err != nil {
		return config.Config{}, err
	}
	if err := config.ReadFile(v, cfgFilePath, explicitConfig); err != nil {
		return config.Config{}, err
	}
	return config.Load(v)
}
