package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/word-sys/puls/internal/errors"
	"github.com/word-sys/puls/internal/logger"
	"github.com/word-sys/puls/internal/monitor"
	"github.com/word-sys/puls/internal/ui"
)

var initForce bool

// healthCmd probes every enabled backend without starting the dashboard.
var healthCmd = &cobra.Command{
	Use:   "health",
	Short: "Probe monitoring backends and report status",
	Long: `Check that every enabled backend is reachable: the process table,
the Docker daemon, and NVML.

Examples:
  puls health
  puls health --no-gpu`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		log := logger.Noop()
		collector := monitor.NewCollector(cfg, log)

		okStyle := lipgloss.NewStyle().Foreground(ui.ColorSuccess)
		failStyle := lipgloss.NewStyle().Foreground(ui.ColorError)

		failures := 0
		for _, status := range collector.HealthCheck(context.Background()) {
			if status.OK {
				fmt.Printf("%s %s\n", okStyle.Render(ui.SymbolSuccess), status.Name)
				continue
			}
			failures++
			fmt.Printf("%s %s: %v\n", failStyle.Render(ui.SymbolFail), status.Name, status.Err)
		}
		if failures > 0 {
			return errors.New(errors.ErrCollect,
				fmt.Sprintf("%d backend(s) unhealthy", failures),
				"disable unavailable backends with --no-docker or --no-gpu")
		}
		return nil
	},
}

// infoCmd prints the static system identity rows.
var infoCmd = &cobra.Command{
	Use:   "info",
	Short: "Print system information",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		collector := monitor.NewCollector(cfg, logger.Noop())
		for _, row := range collector.SystemInfo(context.Background()) {
			fmt.Printf("%-10s %s\n", row.Key, row.Value)
		}
		return nil
	},
}

// initCmd writes a default config file.
var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Write a default config file",
	Long: `Create a config file with the default settings, ready to edit.

Examples:
  puls init
  puls init --config ~/.config/puls/config.yaml
  puls init --force`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return initCommand(configFlag, initForce)
	},
}

// completionCmd generates shell completion scripts.
var completionCmd = &cobra.Command{
	Use:       "completion [bash|zsh|fish|powershell]",
	Short:     "Generate shell completion script",
	ValidArgs: []string{"bash", "zsh", "fish", "powershell"},
	Args:      cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
	RunE: func(cmd *cobra.Command, args []string) error {
		switch args[0] {
		case "bash":
			return rootCmd.GenBashCompletion(os.Stdout)
		case "zsh":
			return rootCmd.GenZshCompletion(os.Stdout)
		case "fish":
			return rootCmd.GenFishCompletion(os.Stdout, true)
		default:
			return rootCmd.GenPowerShellCompletion(os.Stdout)
		}
	},
}

func init() {
	initCmd.Flags().BoolVarP(&initForce, "force", "f", false, "overwrite existing config")

	// Subcommands that load config share the root's feature flags.
	for _, cmd := range []*cobra.Command{healthCmd, infoCmd} {
		cmd.Flags().BoolVar(&safeFlag, "safe", false, "host-only monitoring: no docker, gpu, or network")
		cmd.Flags().BoolVar(&noDockerFlag, "no-docker", false, "disable container monitoring")
		cmd.Flags().BoolVar(&noGpuFlag, "no-gpu", false, "disable GPU monitoring")
		cmd.Flags().BoolVar(&noNetworkFlag, "no-network", false, "disable per-interface network monitoring")
	}

	rootCmd.AddCommand(healthCmd)
	rootCmd.AddCommand(infoCmd)
	rootCmd.AddCommand(initCmd)
	rootCmd.AddCommand(completionCmd)
}
