// Package cmd assembles the proctor command line interface.
package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/proctorsight/proctor-go/cmd/analyze"
	exportcmd "github.com/proctorsight/proctor-go/cmd/export"
	"github.com/proctorsight/proctor-go/cmd/monitor"
	"github.com/proctorsight/proctor-go/cmd/report"
	"github.com/proctorsight/proctor-go/cmd/sessions"
	"github.com/proctorsight/proctor-go/internal/conf"
)

// RootCommand creates and returns the root command with all subcommands
// attached.
func RootCommand(settings *conf.Settings) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "proctor",
		Short: "ProctorSight interview integrity monitor",
	}

	setupFlags(rootCmd, settings)

	subcommands := []*cobra.Command{
		monitor.Command(settings),
		analyze.Command(settings),
		report.Command(settings),
		exportcmd.Command(settings),
		sessions.Command(settings),
	}
	rootCmd.AddCommand(subcommands...)

	return rootCmd
}

// setupFlags defines flags that are global to the command line interface.
func setupFlags(rootCmd *cobra.Command, settings *conf.Settings) {
	rootCmd.PersistentFlags().BoolVarP(&settings.Debug, "debug", "d", viper.GetBool("debug"), "Enable debug output")
	rootCmd.PersistentFlags().StringVar(&settings.Output.SQLite.Path, "dbpath", viper.GetString("output.sqlite.path"), "Path to the SQLite database file")

	if err := viper.BindPFlags(rootCmd.PersistentFlags()); err != nil {
		fmt.Printf("error binding flags: %v\n", err)
	}
}
