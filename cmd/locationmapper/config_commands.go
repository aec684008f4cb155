package main

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"strings"
	"time"

	"github.com/pelletier/go-toml/v2"
	"github.com/spf13/cobra"

	"locationmapper/internal/config"
)

var skipConfigLoad = map[string]string{"skipConfigLoad": "true"}

func newConfigCommand(ctx *commandContext) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Create, inspect and validate the locationmapper configuration",
	}
	cmd.AddCommand(newConfigInitCommand(), newConfigValidateCommand(ctx), newConfigShowCommand(ctx))
	return cmd
}

func newConfigInitCommand() *cobra.Command {
	var targetPath, workDir string
	var overwrite bool

	cmd := &cobra.Command{
		Use:         "init",
		Short:       "Write a commented sample configuration",
		Args:        cobra.NoArgs,
		Annotations: skipConfigLoad,
		RunE: func(cmd *cobra.Command, args []string) error {
			target, err := configTarget(targetPath)
			if err != nil {
				return err
			}
			if _, err := os.Stat(target); err == nil && !overwrite {
				return fmt.Errorf("config file already exists at %s (use --overwrite to replace it)", target)
			} else if err != nil && !errors.Is(err, fs.ErrNotExist) {
				return fmt.Errorf("check config path: %w", err)
			}

			dir := strings.TrimSpace(workDir)
			if dir != "" {
				if dir, err = config.ExpandPath(dir); err != nil {
					return fmt.Errorf("resolve --work-dir: %w", err)
				}
			}
			if err := config.CreateSample(target, dir); err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Wrote sample configuration to %s\n", target)
			if dir == "" {
				fmt.Fprintln(out, "Set paths.work_dir to the checkout holding the clean/, RML/, EventSource/ and CSS/ helpers.")
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&targetPath, "path", "p", "", "Destination for the configuration file")
	cmd.Flags().StringVar(&workDir, "work-dir", "", "Checkout holding the helper scripts, written as paths.work_dir")
	cmd.Flags().BoolVar(&overwrite, "overwrite", false, "Replace an existing configuration file")
	return cmd
}

// configTarget resolves the init destination, defaulting to the standard path.
func configTarget(flagValue string) (string, error) {
	if target := strings.TrimSpace(flagValue); target != "" {
		expanded, err := config.ExpandPath(target)
		if err != nil {
			return "", fmt.Errorf("resolve config path: %w", err)
		}
		return expanded, nil
	}
	target, err := config.DefaultConfigPath()
	if err != nil {
		return "", fmt.Errorf("determine default config path: %w", err)
	}
	return target, nil
}

func newConfigValidateCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:         "validate",
		Short:       "Load the configuration and summarise how runs will use it",
		Args:        cobra.NoArgs,
		Annotations: skipConfigLoad,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, path, exists, err := config.Load(ctx.configPath())
			if err != nil {
				return fmt.Errorf("load config: %w", err)
			}
			writeConfigSummary(cmd.OutOrStdout(), cfg, path, exists)
			return nil
		},
	}
}

func writeConfigSummary(w io.Writer, cfg *config.Config, path string, exists bool) {
	source := path
	if !exists {
		source = path + " (not found, using defaults)"
	}
	timeout := "none"
	if cfg.Pipeline.StageTimeoutSeconds > 0 {
		timeout = (time.Duration(cfg.Pipeline.StageTimeoutSeconds) * time.Second).String()
	}
	history := "disabled"
	if cfg.History.Enabled {
		history = cfg.HistoryPath()
	}

	rows := [][2]string{
		{"Config", source},
		{"Working directory", cfg.Paths.WorkDir},
		{"Mapping template", cfg.WorkPath(cfg.Mapping.Template)},
		{"Generated mapping", cfg.WorkPath(cfg.Mapping.Generated)},
		{"Stage timeout", timeout},
		{"Stop on error", fmt.Sprint(cfg.Pipeline.StopOnError)},
		{"Run history", history},
	}
	for _, row := range rows {
		fmt.Fprintf(w, "%-18s %s\n", row[0]+":", row[1])
	}
	fmt.Fprintln(w, "Configuration valid")
}

func newConfigShowCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Print the effective configuration as TOML",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			data, err := toml.Marshal(cfg)
			if err != nil {
				return fmt.Errorf("encode config: %w", err)
			}
			_, err = cmd.OutOrStdout().Write(data)
			return err
		},
	}
}
