package cmd

import (
	"fmt"
	"os"

	"github.com/ValentinKolb/kvapp/api/common"
	"github.com/ValentinKolb/kvapp/cmd/kv"
	"github.com/ValentinKolb/kvapp/cmd/serve"
	"github.com/spf13/cobra"
)

var (

	// RootCmd represents the base command when called without any subcommands
	RootCmd = &cobra.Command{
		Use:   "kvapp",
		Short: "HTTP key-value server",
		Long: fmt.Sprintf(`kvapp (v%s)

An HTTP front end to a single embedded, ordered key-value store.
Values are stored and returned as raw bytes under /api/{key}.`, common.Version),
		SilenceUsage: true,
	}
	versionCmd = &cobra.Command{
		Use:   "version",
		Short: "Print the version number of kvapp",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("kvapp v%s\n", common.Version)
		},
	}
)

func init() {
	// Add Commands
	RootCmd.AddCommand(serve.ServeCmd)
	RootCmd.AddCommand(kv.KeyValueCommands)
	RootCmd.AddCommand(versionCmd)
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the RootCmd.
func Execute() {
	if err := RootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
