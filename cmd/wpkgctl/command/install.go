package command

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Xcraft-Inc/xcraft-contrib-wpkg/pkg/orchestrator"
)

var (
	installVersion   string
	installReinstall bool
)

var installCmd = &cobra.Command{
	Use:     "install <name>",
	Short:   "Resolve and install a package from the live repository or an archived version",
	GroupID: "install",
	Args:    cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		opts := orchestrator.InstallOptions{
			Name:         args[0],
			Version:      installVersion,
			Arch:         archFlag,
			Distribution: distribution,
			TargetRoot:   targetRoot,
			Reinstall:    installReinstall,
		}

		if installVersion != "" {
			return orch.InstallFromArchive(cmd.Context(), opts)
		}

		return orch.Install(cmd.Context(), opts)
	},
}

var isInstalledCmd = &cobra.Command{
	Use:     "is-installed <name>",
	Short:   "Report whether a package is currently installed",
	GroupID: "install",
	Args:    cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		installed, err := orch.IsInstalled(cmd.Context(), args[0], archFlag, targetRoot)
		if err != nil {
			return err
		}

		fmt.Println(installed)

		return nil
	},
}

var fieldsCmd = &cobra.Command{
	Use:     "fields <name> <field>...",
	Short:   "Print one or more installed-package control fields",
	GroupID: "install",
	Args:    cobra.MinimumNArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		fields, err := orch.Fields(cmd.Context(), args[0], archFlag, targetRoot, args[1:])
		if err != nil {
			return err
		}

		for _, name := range args[1:] {
			fmt.Printf("%s: %s\n", name, fields[name])
		}

		return nil
	},
}

var removeCmd = &cobra.Command{
	Use:     "remove <name>",
	Short:   "Remove an installed package",
	GroupID: "install",
	Args:    cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return orch.Remove(cmd.Context(), args[0], archFlag, targetRoot)
	},
}

var autoremoveCmd = &cobra.Command{
	Use:     "autoremove",
	Short:   "Remove packages no longer required by anything installed",
	GroupID: "install",
	Args:    cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		return orch.Autoremove(cmd.Context(), archFlag, targetRoot)
	},
}

var setSelectionCmd = &cobra.Command{
	Use:     "set-selection <name> <auto|normal|hold|reject>",
	Short:   "Set a package's selection state",
	GroupID: "install",
	Args:    cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		return orch.SetSelection(cmd.Context(), args[0], archFlag, targetRoot, orchestrator.Selection(args[1]))
	},
}

//nolint:gochecknoinits // Required for cobra command initialization
func init() {
	installCmd.Flags().StringVar(&installVersion, "version", "", "archived version to install instead of the live one")
	installCmd.Flags().BoolVar(&installReinstall, "reinstall", false, "reinstall even if the same version is already installed")

	rootCmd.AddCommand(installCmd, isInstalledCmd, fieldsCmd, removeCmd, autoremoveCmd, setSelectionCmd)
}
