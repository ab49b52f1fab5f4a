package command

import (
	"github.com/spf13/cobra"
)

var buildCmd = &cobra.Command{
	Use:     "build <package-path>",
	Short:   "Build a binary package and synchronize its repository",
	GroupID: "build",
	Args:    cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return orch.Build(cmd.Context(), args[0], repoFlag, distribution)
	},
}

var buildSrcCmd = &cobra.Command{
	Use:     "build-src <source-path>",
	Short:   "Build a source package and synchronize its repository",
	GroupID: "build",
	Args:    cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return orch.BuildSrc(cmd.Context(), args[0], repoFlag, distribution)
	},
}

var buildFromSrcName string

var buildFromSrcCmd = &cobra.Command{
	Use:     "build-from-src",
	Short:   "Build one or every \"-src\" package from a repository's sources tree",
	GroupID: "build",
	Args:    cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		return orch.BuildFromSrc(cmd.Context(), buildFromSrcName, archFlag, repoFlag, distribution)
	},
}

//nolint:gochecknoinits // Required for cobra command initialization
func init() {
	buildFromSrcCmd.Flags().StringVar(&buildFromSrcName, "name", "", "package name (builds every source package when omitted)")

	rootCmd.AddCommand(buildCmd, buildSrcCmd, buildFromSrcCmd)
}
