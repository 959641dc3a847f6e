package main

import (
	"fmt"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/thoughtful-solutions/metrics/internal/config"
)

// Version information set by build flags.
var (
	Version   = "dev"
	BuildTime = "unknown"
	GitCommit = "unknown"
)

var (
	cfgFile     string
	verbose     bool
	cloneBranch string
	cloneDepth  int

	logger *logrus.Logger
	cfg    *config.Config
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "gitmetrics",
	Short: "Ownership risk and history analytics for git repositories",
	Long: `gitmetrics reads a repository's history and answers one question from
several angles: how concentrated is the knowledge in this codebase?

It attributes every tracked line to an author, simulates contributor
loss to compute the truck factor, and rounds the picture out with
hotspot, change-coupling, friction, DORA, branch, and activity
analytics. Results render as tables, JSON, CSV, or a standalone HTML
report, and every analysis is also served over MCP for editor agents.`,
	Version: Version,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		logger = logrus.New()
		if verbose {
			logger.SetLevel(logrus.DebugLevel)
		} else {
			logger.SetLevel(logrus.WarnLevel)
		}

		var err error
		cfg, err = config.Load(cfgFile)
		if err != nil {
			logger.WithError(err).Warn("Failed to load config, using defaults")
			cfg = config.Default()
		}
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default ~/.gitmetrics/config.yaml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
	rootCmd.PersistentFlags().StringVar(&cloneBranch, "branch", "", "branch to analyze; also selects the branch cloned for remote targets")
	rootCmd.PersistentFlags().IntVar(&cloneDepth, "depth", 0, "clone depth for remote targets (0 = full history)")

	rootCmd.SetVersionTemplate(`gitmetrics {{.Version}}
Build time: ` + BuildTime + `
Git commit: ` + GitCommit + `
`)

	rootCmd.AddCommand(truckfactorCmd)
	rootCmd.AddCommand(hotspotsCmd)
	rootCmd.AddCommand(couplingCmd)
	rootCmd.AddCommand(frictionCmd)
	rootCmd.AddCommand(doraCmd)
	rootCmd.AddCommand(branchesCmd)
	rootCmd.AddCommand(activityCmd)
	rootCmd.AddCommand(historyCmd)
	rootCmd.AddCommand(reportCmd)
	rootCmd.AddCommand(configureCmd)
	rootCmd.AddCommand(mcpCmd)
	rootCmd.AddCommand(versionCmd)
}
