package kv

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
)

var (
	putCmd = &cobra.Command{
		Use:   "put [key] [value]",
		Short: "Sets the value for a key (reads the value from stdin if omitted)",
		Args:  cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			key := args[0]
			var value []byte
			if len(args) == 2 {
				value = []byte(args[1])
			} else {
				var err error
				if value, err = io.ReadAll(os.Stdin); err != nil {
					return fmt.Errorf("failed to read value from stdin: %w", err)
				}
			}
			if err := kvClient.Put([]byte(key), value); err != nil {
				return err
			}
			fmt.Println("put successfully")
			return nil
		},
	}
	getCmd = &cobra.Command{
		Use:   "get [key]",
		Short: "Gets the value for a key",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			key := args[0]
			value, found, err := kvClient.Get([]byte(key))
			if err != nil {
				return err
			}
			if !found {
				fmt.Printf("key=%s, found=false\n", key)
				return nil
			}
			raw, _ := cmd.Flags().GetBool("raw")
			if raw {
				_, err = os.Stdout.Write(value)
				return err
			}
			fmt.Printf("key=%s, found=true, value=%s\n", key, string(value))
			return nil
		},
	}
	delCmd = &cobra.Command{
		Use:   "del [key]",
		Short: "Deletes a key",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			key := args[0]
			existed, err := kvClient.Delete([]byte(key))
			if err != nil {
				return err
			}
			fmt.Printf("key=%s, deleted=%t\n", key, existed)
			return nil
		},
	}
	healthCmd = &cobra.Command{
		Use:   "health",
		Short: "Checks whether the server can reach its store",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := kvClient.Health(); err != nil {
				return fmt.Errorf("unhealthy: %w", err)
			}
			fmt.Println("healthy")
			return nil
		},
	}
	infoCmd = &cobra.Command{
		Use:   "info",
		Short: "Prints the service description of the server",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			info, err := kvClient.Info()
			if err != nil {
				return err
			}
			fmt.Printf("name=%s, version=%s, database=%s\n", info.Name, info.Version, info.DatabaseInfo.Name)
			return nil
		},
	}
)

func init() {
	getCmd.Flags().Bool("raw", false, "Write the raw value to stdout")
}
