package command

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/Xcraft-Inc/xcraft-contrib-wpkg/pkg/config"
	"github.com/Xcraft-Inc/xcraft-contrib-wpkg/pkg/logger"
	"github.com/Xcraft-Inc/xcraft-contrib-wpkg/pkg/orchestrator"
)

var (
	verbose      bool
	noColor      bool
	repoFlag     string
	targetRoot   string
	archFlag     string
	distribution string
	toolName     string
	graphTool    string
	tempDir      string
)

// orch is the single process-wide Orchestrator every subcommand's RunE
// calls into, built once in rootCmd's PersistentPreRunE from the resolved
// flag set.
var orch *orchestrator.Orchestrator

// rootCmd represents the base command when called without any subcommands.
var rootCmd = &cobra.Command{
	Use:   "wpkgctl",
	Short: "Package repository orchestrator driving PKGTOOL/PKGGRAPH",
	Long: "wpkgctl drives an external PKGTOOL/PKGGRAPH pair to build, install, " +
		"publish, and archive packages across a repository tree, without " +
		"reimplementing any of the package format or build logic itself.",
	PersistentPreRunE: func(_ *cobra.Command, _ []string) error {
		logger.SetColorDisabled(noColor || os.Getenv("NO_COLOR") != "")
		logger.SetVerbose(verbose)

		cfg := config.DefaultConfig()

		if repoFlag != "" {
			cfg.RepoRoot = repoFlag
		}

		if targetRoot != "" {
			cfg.TargetRoot = targetRoot
		}

		if archFlag != "" {
			cfg.DefaultArch = archFlag
		}

		if distribution != "" {
			cfg.DefaultDistribution = distribution
		}

		if toolName != "" {
			cfg.ToolName = toolName
		}

		if graphTool != "" {
			cfg.GraphToolName = graphTool
		}

		if tempDir != "" {
			cfg.TempDir = tempDir
		}

		orch = orchestrator.New(cfg)

		return nil
	},
}

// Execute adds all child commands to the root command and runs it.
func Execute() {
	cobra.CheckErr(rootCmd.Execute())
}

//nolint:gochecknoinits // Required for cobra root command initialization
func init() {
	rootCmd.AddGroup(&cobra.Group{ID: "build", Title: "Build Commands"})
	rootCmd.AddGroup(&cobra.Group{ID: "install", Title: "Install Commands"})
	rootCmd.AddGroup(&cobra.Group{ID: "repository", Title: "Repository Commands"})
	rootCmd.AddGroup(&cobra.Group{ID: "archive", Title: "Archive Commands"})

	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose logging")
	rootCmd.PersistentFlags().BoolVar(&noColor, "no-color", false, "disable colored output")
	rootCmd.PersistentFlags().StringVar(&repoFlag, "repo", "", "package repository root (default from config)")
	rootCmd.PersistentFlags().StringVar(&targetRoot, "target-root", "", "installation target root")
	rootCmd.PersistentFlags().StringVar(&archFlag, "arch", "", "target architecture")
	rootCmd.PersistentFlags().StringVar(&distribution, "distribution", "", "distribution name")
	rootCmd.PersistentFlags().StringVar(&toolName, "pkgtool", "", "PKGTOOL binary name or path")
	rootCmd.PersistentFlags().StringVar(&graphTool, "pkggraph", "", "PKGGRAPH binary name or path")
	rootCmd.PersistentFlags().StringVar(&tempDir, "tmpdir", "", "scratch directory for tool invocations")

	rootCmd.SilenceErrors = true
	rootCmd.SilenceUsage = true
}
