package main

import (
	"fmt"

	"github.com/spf13/afero"
	"github.com/spf13/cobra"

	"fex/internal/config"
)

func configCmd(configPath *string) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Inspect or create the configuration file",
	}
	cmd.AddCommand(configPathCmd(configPath), configInitCmd(configPath))
	return cmd
}

func configPathCmd(configPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "path",
		Short: "Print the configuration file location",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			fmt.Fprintln(cmd.OutOrStdout(), config.NewManager(*configPath, nil).Path())
			return nil
		},
	}
}

func configInitCmd(configPath *string) *cobra.Command {
	var force bool
	cmd := &cobra.Command{
		Use:   "init",
		Short: "Write a configuration file with the default settings",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return initConfig(afero.NewOsFs(), *configPath, force, cmd)
		},
	}
	cmd.Flags().BoolVar(&force, "force", false, "Overwrite an existing file")
	return cmd
}

func initConfig(fs afero.Fs, path string, force bool, cmd *cobra.Command) error {
	if path == "" {
		path = config.DefaultPath()
	}
	manager := config.NewManagerWithFs(fs, path, nil)
	if exists, err := afero.Exists(fs, manager.Path()); err != nil {
		return err
	} else if exists && !force {
		return fmt.Errorf("%s already exists (use --force to overwrite)", manager.Path())
	}
	if err := manager.Save(config.Default()); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s\n", manager.Path())
	return nil
}
