package cli

import (
	stderrors "errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/word-sys/puls/internal/config"
	"github.com/word-sys/puls/internal/errors"
)

// Global flags shared by the root command and subcommands.
var (
	configFlag     string
	safeFlag       bool
	refreshFlag    string
	historyFlag    int
	showSystemFlag bool
	noDockerFlag   bool
	noGpuFlag      bool
	noNetworkFlag  bool
	verboseFlag    bool
)

// rootCmd starts the dashboard when invoked without a subcommand.
var rootCmd = &cobra.Command{
	Use:   "puls",
	Short: "Terminal system monitor",
	Long: `puls is a terminal-resident system monitor: processes, CPU, memory,
disks, network, Docker containers, and NVIDIA GPUs in one dashboard.

Examples:
  puls
  puls --refresh 500ms --history 120
  puls --safe
  puls --no-docker --no-gpu`,
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		return dashboardCommand(cfg)
	},
}

func init() {
	pf := rootCmd.PersistentFlags()
	pf.StringVar(&configFlag, "config", "", "config file path")
	pf.BoolVar(&verboseFlag, "verbose", false, "enable debug logging")

	f := rootCmd.Flags()
	f.BoolVar(&safeFlag, "safe", false, "host-only monitoring: no docker, gpu, or network")
	f.StringVar(&refreshFlag, "refresh", "", "sampling interval (e.g., 500ms, 2s, or bare milliseconds)")
	f.IntVar(&historyFlag, "history", 0, "sparkline history length in samples")
	f.BoolVar(&showSystemFlag, "show-system", false, "include kernel threads and system daemons")
	f.BoolVar(&noDockerFlag, "no-docker", false, "disable container monitoring")
	f.BoolVar(&noGpuFlag, "no-gpu", false, "disable GPU monitoring")
	f.BoolVar(&noNetworkFlag, "no-network", false, "disable per-interface network monitoring")
}

// loadConfig loads the config file and applies any flags the user set on
// top, then re-clamps since a flag can carry an out-of-range value.
func loadConfig(cmd *cobra.Command) (config.Config, error) {
	cfg, err := config.Load(configFlag)
	if err != nil {
		return cfg, err
	}

	flags := cmd.Flags()
	if flags.Changed("safe") {
		cfg.SafeMode = safeFlag
	}
	if flags.Changed("refresh") {
		interval, err := config.ParseRefresh(refreshFlag)
		if err != nil {
			return cfg, err
		}
		cfg.RefreshInterval = interval
	}
	if flags.Changed("history") {
		cfg.HistoryLength = historyFlag
	}
	if flags.Changed("show-system") {
		cfg.ShowSystem = showSystemFlag
	}
	if flags.Changed("no-docker") {
		cfg.DockerEnabled = !noDockerFlag
	}
	if flags.Changed("no-gpu") {
		cfg.GPUEnabled = !noGpuFlag
	}
	if flags.Changed("no-network") {
		cfg.NetworkEnabled = !noNetworkFlag
	}
	if verboseFlag {
		cfg.Verbose = true
	}
	return cfg.Finalize(), nil
}

// Execute runs the CLI and exits nonzero on failure. Structured errors
// already carry their own formatting and suggestion text.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		var appErr *errors.Error
		if stderrors.As(err, &appErr) {
			fmt.Fprintln(os.Stderr, appErr.Error())
		} else {
			fmt.Fprintf(os.Stderr, "✗ %v\n", err)
		}
		os.Exit(1)
	}
}
