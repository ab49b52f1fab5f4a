package command

import (
	"fmt"

	"github.com/spf13/cobra"
)

var (
	publishInRepo  string
	publishOutRepo string
)

var publishCmd = &cobra.Command{
	Use:     "publish <name>",
	Short:   "Copy a package's artifact into another repository and synchronize it",
	GroupID: "repository",
	Args:    cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return orch.Publish(cmd.Context(), args[0], archFlag, publishInRepo, publishOutRepo, distribution)
	},
}

var unpublishUpdateIndex bool

var unpublishCmd = &cobra.Command{
	Use:     "unpublish <name>",
	Short:   "Remove a package's artifact from a repository",
	GroupID: "repository",
	Args:    cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return orch.Unpublish(cmd.Context(), args[0], archFlag, repoFlag, distribution, unpublishUpdateIndex)
	},
}

var isPublishedCmd = &cobra.Command{
	Use:     "is-published <name>",
	Short:   "Report whether a package is published in a repository",
	GroupID: "repository",
	Args:    cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		published, err := orch.IsPublished(cmd.Context(), args[0], archFlag, repoFlag, distribution)
		if err != nil {
			return err
		}

		fmt.Println(published)

		return nil
	},
}

var syncRepositoryCmd = &cobra.Command{
	Use:     "sync-repository",
	Short:   "Run the index/archive synchronization cycle on a repository",
	GroupID: "repository",
	Args:    cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		return orch.SyncRepository(cmd.Context(), repoFlag)
	},
}

var (
	showVersion string
)

var showCmd = &cobra.Command{
	Use:     "show <name>",
	Short:   "Print a package's control-field metadata as JSON",
	GroupID: "repository",
	Args:    cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		fields, err := orch.Show(cmd.Context(), args[0], archFlag, showVersion, distribution)
		if err != nil {
			return err
		}

		for k, v := range fields {
			fmt.Printf("%s: %v\n", k, v)
		}

		return nil
	},
}

var listCmd = &cobra.Command{
	Use:     "list [pattern]",
	Short:   "List installed packages",
	GroupID: "repository",
	Args:    cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		pattern := ""
		if len(args) == 1 {
			pattern = args[0]
		}

		names, err := orch.List(cmd.Context(), archFlag, targetRoot, pattern)
		if err != nil {
			return err
		}

		for _, name := range names {
			fmt.Println(name)
		}

		return nil
	},
}

var searchCmd = &cobra.Command{
	Use:     "search <pattern>",
	Short:   "Search installed packages",
	GroupID: "repository",
	Args:    cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		names, err := orch.Search(cmd.Context(), archFlag, targetRoot, args[0])
		if err != nil {
			return err
		}

		for _, name := range names {
			fmt.Println(name)
		}

		return nil
	},
}

var listFilesCmd = &cobra.Command{
	Use:     "list-files <name>",
	Short:   "List files installed by a package",
	GroupID: "repository",
	Args:    cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		files, err := orch.ListFiles(cmd.Context(), args[0], archFlag, targetRoot)
		if err != nil {
			return err
		}

		for _, file := range files {
			fmt.Println(file)
		}

		return nil
	},
}

var updateCmd = &cobra.Command{
	Use:     "update",
	Short:   "Refresh the target root's view of its configured sources",
	GroupID: "repository",
	Args:    cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		return orch.Update(cmd.Context(), archFlag, targetRoot)
	},
}

var upgradeCmd = &cobra.Command{
	Use:     "upgrade",
	Short:   "Upgrade every installed package to its latest available version",
	GroupID: "repository",
	Args:    cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		return orch.Upgrade(cmd.Context(), archFlag, targetRoot)
	},
}

var graphCmd = &cobra.Command{
	Use:     "graph <name>...",
	Short:   "Render a dependency graph for one or more packages",
	GroupID: "repository",
	Args:    cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return orch.Graph(cmd.Context(), args, archFlag, distribution)
	},
}

var addHooksCmd = &cobra.Command{
	Use:     "add-hooks <path>...",
	Short:   "Register one or more hook scripts with the target root",
	GroupID: "repository",
	Args:    cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return orch.AddHooks(cmd.Context(), archFlag, targetRoot, args)
	},
}

var createAdmindirCmd = &cobra.Command{
	Use:     "create-admindir",
	Short:   "Create a target root's admindir",
	GroupID: "repository",
	Args:    cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		return orch.CreateAdmindir(cmd.Context(), archFlag, distribution, targetRoot)
	},
}

var addSourcesCmd = &cobra.Command{
	Use:     "add-sources <source-line>",
	Short:   "Add a sources.list entry if it is not already present",
	GroupID: "repository",
	Args:    cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return orch.AddSources(cmd.Context(), args[0], archFlag, targetRoot)
	},
}

var removeSourcesCmd = &cobra.Command{
	Use:     "remove-sources <source-line>",
	Short:   "Remove a sources.list entry if present",
	GroupID: "repository",
	Args:    cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return orch.RemoveSources(cmd.Context(), args[0], archFlag, targetRoot)
	},
}

//nolint:gochecknoinits // Required for cobra command initialization
func init() {
	publishCmd.Flags().StringVar(&publishInRepo, "in-repo", "", "repository to resolve the package from (default from config)")
	publishCmd.Flags().StringVar(&publishOutRepo, "out-repo", "", "repository to publish into (default from config)")

	unpublishCmd.Flags().BoolVar(&unpublishUpdateIndex, "update-index", true, "synchronize the repository after removal")

	showCmd.Flags().StringVar(&showVersion, "version", "", "archived version to inspect instead of the live one")

	rootCmd.AddCommand(
		publishCmd, unpublishCmd, isPublishedCmd, syncRepositoryCmd,
		showCmd, listCmd, searchCmd, listFilesCmd, updateCmd, upgradeCmd,
		graphCmd, addHooksCmd, createAdmindirCmd, addSourcesCmd, removeSourcesCmd,
	)
}
