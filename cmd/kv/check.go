package kv

import (
	"bytes"
	"fmt"
	"io"
	"os"

	"github.com/ValentinKolb/kvapp/api/client"
	"github.com/spf13/cobra"
)

const checkValue = "helloworld"

var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Runs an end-to-end check against a server with an empty store",
	Long:  `Runs the request sequence GET, DELETE, PUT, GET, DELETE, GET, DELETE, HEALTH on one key and verifies every status. The key must not exist before the check starts and is removed afterwards.`,
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		key, _ := cmd.Flags().GetString("key")
		return runCheck(kvClient, []byte(key), os.Stdout)
	},
}

func init() {
	checkCmd.Flags().String("key", "1", "The key used by the check")
}

// checkStep is one request of the check and its expected outcome
type checkStep struct {
	name string
	run  func() error
}

// runCheck runs the end-to-end sequence on key and reports each step to out
func runCheck(c *client.Client, key []byte, out io.Writer) error {
	expectFound := func(want bool) func() error {
		return func() error {
			value, found, err := c.Get(key)
			if err != nil {
				return err
			}
			if found != want {
				return fmt.Errorf("expected found=%t, got found=%t", want, found)
			}
			if found && !bytes.Equal(value, []byte(checkValue)) {
				return fmt.Errorf("expected value %q, got %q", checkValue, value)
			}
			return nil
		}
	}
	expectDeleted := func(want bool) func() error {
		return func() error {
			existed, err := c.Delete(key)
			if err != nil {
				return err
			}
			if existed != want {
				return fmt.Errorf("expected deleted=%t, got deleted=%t", want, existed)
			}
			return nil
		}
	}

	steps := []checkStep{
		{"GET (missing) -> 404", expectFound(false)},
		{"DELETE (missing) -> 404", expectDeleted(false)},
		{"PUT -> 200", func() error { return c.Put(key, []byte(checkValue)) }},
		{"GET -> 200 " + checkValue, expectFound(true)},
		{"DELETE -> 200", expectDeleted(true)},
		{"GET (deleted) -> 404", expectFound(false)},
		{"DELETE (deleted) -> 404", expectDeleted(false)},
		{"HEALTH -> 200", c.Health},
	}

	for _, step := range steps {
		if err := step.run(); err != nil {
			fmt.Fprintf(out, "%-28sFAILED: %v\n", step.name, err)
			return fmt.Errorf("check failed at %q: %w", step.name, err)
		}
		fmt.Fprintf(out, "%-28sok\n", step.name)
	}
	fmt.Fprintln(out, "all checks passed")
	return nil
}
