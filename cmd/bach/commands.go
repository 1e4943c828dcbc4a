package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/karussell/bach/internal/version"
	"github.com/karussell/bach/pkg/config"
	"github.com/karussell/bach/pkg/dispatch"
	"github.com/karussell/bach/pkg/paths"
)

var compileCmd = &cobra.Command{
	Use:   "compile",
	Short: "Compile the module sources into the target folder",
	RunE: func(cmd *cobra.Command, args []string) error {
		return sess.Compile(cmd.Context())
	},
}

var formatReplace bool

var formatCmd = &cobra.Command{
	Use:   "format [path...]",
	Short: "Validate or rewrite source file formatting",
	RunE: func(cmd *cobra.Command, args []string) error {
		replace := formatReplace || cfg.Tools.Format.Replace
		return sess.Format(cmd.Context(), replace, args...)
	},
}

var fetchShared bool

var fetchCmd = &cobra.Command{
	Use:   "fetch <uri>",
	Short: "Download an artifact into the dependencies folder",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		var path string
		var err error
		if fetchShared {
			path, err = sess.FetchTo(cmd.Context(), args[0], paths.UserCacheDir())
		} else {
			path, err = sess.Fetch(cmd.Context(), args[0])
		}
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), path)
		return nil
	},
}

var cleanCmd = &cobra.Command{
	Use:   "clean",
	Short: "Empty the target folder",
	RunE: func(cmd *cobra.Command, args []string) error {
		return sess.Clean()
	},
}

var pathCmd = &cobra.Command{
	Use:   "path [folder]",
	Short: "Print resolved paths of the standard folders",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if len(args) == 1 {
			folder, err := paths.FolderByName(args[0])
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), sess.Path(folder))
			return nil
		}
		for _, folder := range paths.Standard() {
			fmt.Fprintf(cmd.OutOrStdout(), "%-16s %s\n", folder.Name(), sess.Path(folder))
		}
		return nil
	},
}

var genconfigCmd = &cobra.Command{
	Use:   "genconfig",
	Short: "Write a starter .bach.toml to the current directory",
	RunE: func(cmd *cobra.Command, args []string) error {
		data, err := config.Generate()
		if err != nil {
			return err
		}
		if _, err := os.Stat(".bach.toml"); err == nil {
			return fmt.Errorf(".bach.toml already exists")
		}
		if err := os.WriteFile(".bach.toml", data, 0644); err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), "Wrote .bach.toml")
		return nil
	},
}

var toolsCmd = &cobra.Command{
	Use:   "tools",
	Short: "List in-process tools that run without spawning",
	Run: func(cmd *cobra.Command, args []string) {
		for _, name := range dispatch.Providers() {
			fmt.Fprintln(cmd.OutOrStdout(), name)
		}
	},
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "bach %s (%s, %s)\n", version.Version, version.Commit, version.Date)
	},
}

func init() {
	formatCmd.Flags().BoolVar(&formatReplace, "replace", false, "Rewrite files in place instead of validating")
	fetchCmd.Flags().BoolVar(&fetchShared, "shared", false, "Download into the user-level cache shared across projects")

	rootCmd.AddCommand(compileCmd)
	rootCmd.AddCommand(formatCmd)
	rootCmd.AddCommand(fetchCmd)
	rootCmd.AddCommand(cleanCmd)
	rootCmd.AddCommand(pathCmd)
	rootCmd.AddCommand(genconfigCmd)
	rootCmd.AddCommand(toolsCmd)
	rootCmd.AddCommand(versionCmd)
}
