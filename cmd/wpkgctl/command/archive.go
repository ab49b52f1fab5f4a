package command

import (
	"fmt"

	"github.com/spf13/cobra"
)

var copyFromArchivingDestRepo string

var copyFromArchivingCmd = &cobra.Command{
	Use:     "copy-from-archive <name> <version>",
	Short:   "Copy an archived version of a package back into a live repository",
	GroupID: "archive",
	Args:    cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		return orch.CopyFromArchiving(cmd.Context(), args[0], args[1], archFlag, distribution, copyFromArchivingDestRepo)
	},
}

var moveArchiveCmd = &cobra.Command{
	Use:     "move-archive <name> <version> <from-distribution> <to-distribution>",
	Short:   "Relocate an archived version's directory to another archive distribution",
	GroupID: "archive",
	Args:    cobra.ExactArgs(4),
	RunE: func(cmd *cobra.Command, args []string) error {
		return orch.MoveArchive(cmd.Context(), args[0], args[1], args[2], args[3], repoFlag)
	},
}

var listArchiveVersionsCmd = &cobra.Command{
	Use:     "list-archive-versions <name>",
	Short:   "List every version archived for a package",
	GroupID: "archive",
	Args:    cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		versions, err := orch.ListArchiveVersions(cmd.Context(), args[0], distribution, repoFlag)
		if err != nil {
			return err
		}

		for _, version := range versions {
			fmt.Println(version)
		}

		return nil
	},
}

var getArchiveLatestVersionCmd = &cobra.Command{
	Use:     "archive-latest-version <name>",
	Short:   "Print the latest archived version of a package",
	GroupID: "archive",
	Args:    cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		version, err := orch.GetArchiveLatestVersion(cmd.Context(), args[0], distribution, repoFlag)
		if err != nil {
			return err
		}

		fmt.Println(version)

		return nil
	},
}

var getDebLocationVersion string

var getDebLocationCmd = &cobra.Command{
	Use:     "deb-location <name>",
	Short:   "Print a package artifact's absolute path",
	GroupID: "archive",
	Args:    cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		path, err := orch.GetDebLocation(cmd.Context(), args[0], archFlag, distribution, getDebLocationVersion)
		if err != nil {
			return err
		}

		fmt.Println(path)

		return nil
	},
}

//nolint:gochecknoinits // Required for cobra command initialization
func init() {
	copyFromArchivingCmd.Flags().StringVar(&copyFromArchivingDestRepo, "dest-repo", "", "repository to copy into (default from config)")
	getDebLocationCmd.Flags().StringVar(&getDebLocationVersion, "version", "", "archived version to resolve instead of the live one")

	rootCmd.AddCommand(
		copyFromArchivingCmd, moveArchiveCmd, listArchiveVersionsCmd,
		getArchiveLatestVersionCmd, getDebLocationCmd,
	)
}
