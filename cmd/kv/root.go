package kv

import (
	"github.com/ValentinKolb/kvapp/api/client"
	"github.com/ValentinKolb/kvapp/api/common"
	"github.com/ValentinKolb/kvapp/cmd/util"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (
	kvClient *client.Client

	// KeyValueCommands represents the KV command group
	KeyValueCommands = &cobra.Command{
		Use:               "kv",
		Short:             "Perform key-value operations against a running kvapp server",
		PersistentPreRunE: setupKVClient,
	}
)

func init() {
	// Initialize viper
	cobra.OnInitialize(util.InitConfig)

	// Add HTTP client flags to the KV command
	util.SetupClientFlags(KeyValueCommands)
	KeyValueCommands.PersistentFlags().String("log-level", "info", util.WrapString("LogLevel is the level at which logs will be output (debug, info, warn, error)"))

	// Add subcommands
	KeyValueCommands.AddCommand(putCmd)
	KeyValueCommands.AddCommand(getCmd)
	KeyValueCommands.AddCommand(delCmd)
	KeyValueCommands.AddCommand(healthCmd)
	KeyValueCommands.AddCommand(infoCmd)
	KeyValueCommands.AddCommand(checkCmd)
	KeyValueCommands.AddCommand(perfTestCmd)
}

// setupKVClient initializes the HTTP client
func setupKVClient(cmd *cobra.Command, _ []string) error {
	// Bind command flags to viper
	if err := util.BindCommandFlags(cmd); err != nil {
		return err
	}

	if err := common.InitLoggers(viper.GetString("log-level")); err != nil {
		return err
	}

	kvClient = client.New(*util.GetClientConfig())
	return nil
}
