package main

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"fex/internal/config"
	"fex/internal/constants"
	"fex/internal/fileinfo"
	"fex/internal/logging"
	"fex/internal/ops"
	"fex/internal/shell"
)

// Global debug flag
var debugMode bool

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var startDir, configPath string

	root := &cobra.Command{
		Use:   constants.ApplicationName + " [dir]",
		Short: constants.ApplicationTitle,
		Long: "An interactive shell for browsing and changing the local filesystem.\n" +
			"Commands are read from standard input; type 'help' at the prompt for the list.",
		Args:         cobra.MaximumNArgs(1),
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			// If no path specified via flag, use the positional argument
			if startDir == "" && len(args) > 0 {
				startDir = args[0]
			}
			return runShell(cmd.Context(), startDir, configPath, cmd.InOrStdin(), cmd.OutOrStdout())
		},
	}
	root.PersistentFlags().BoolVarP(&debugMode, "debug", "d", false, "Enable debug mode")
	root.PersistentFlags().StringVar(&configPath, "config", "", "Config file (default "+config.DefaultPath()+")")
	root.Flags().StringVar(&startDir, "dir", "", "Starting directory path")

	root.AddCommand(configCmd(&configPath))
	return root
}

// runShell loads configuration, opens the local filesystem and runs the
// command loop until exit or end of input.
func runShell(ctx context.Context, startDir, configPath string, in io.Reader, out io.Writer) error {
	cfg, err := loadConfig(configPath)
	if err != nil {
		return err
	}

	logger, err := logging.New(logging.Config{Level: cfg.Log.Level, Debug: debugMode})
	if err != nil {
		return fmt.Errorf("error creating logger: %w", err)
	}
	defer func() { _ = logger.Sync() }()

	vfs := fileinfo.NewLocal()
	cwd, err := fileinfo.StartDir(fileinfo.RealHost{}, vfs, startDir)
	if err != nil {
		return err
	}
	logger.Debug("starting session", zap.String("dir", cwd), zap.String("config", configPath))

	return newShell(vfs, cfg, cwd, in, out, logger).Run(ctx)
}

func newShell(vfs fileinfo.VFS, cfg *config.Config, cwd string, in io.Reader, out io.Writer, logger *zap.Logger) *shell.Shell {
	o := ops.New(vfs, ops.Options{
		ShowHidden: cfg.List.ShowHidden,
		Sort: fileinfo.SortOptions{
			SortBy:           cfg.List.SortBy,
			SortOrder:        cfg.List.SortOrder,
			DirectoriesFirst: cfg.List.DirectoriesFirst,
		},
	}, logger)

	return shell.New(o, shell.NewSession(cwd, cfg.History.MaxEntries), in, out, shell.Options{
		Prompt: shell.PromptEnabled(cfg.Shell.Prompt, in),
		Banner: cfg.Shell.Banner,
	}, logger)
}

// loadConfig reads the configuration. Until it is known, diagnostics go
// through a bootstrap logger honoring only the debug flag.
func loadConfig(path string) (*config.Config, error) {
	bootstrap, err := logging.New(logging.Config{Level: constants.DefaultLogLevel, Debug: debugMode})
	if err != nil {
		return nil, err
	}
	defer func() { _ = bootstrap.Sync() }()

	cfg, err := config.NewManager(path, bootstrap.Sugar().Debugf).Load()
	if err != nil {
		return nil, fmt.Errorf("error loading configuration: %w", err)
	}
	return cfg, nil
}
