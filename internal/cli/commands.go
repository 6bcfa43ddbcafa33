package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newGetCmd(e *env) *cobra.Command {
	return &cobra.Command{
		Use:               "get <key>",
		Short:             "Gets the value for a given key.",
		Args:              usageArgs(cobra.ExactArgs(1)),
		ValidArgsFunction: completeKeys(e),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := e.open()
			if err != nil {
				return err
			}

			value, err := s.Get(args[0])
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), value)
			return nil
		},
	}
}

func newSetCmd(e *env) *cobra.Command {
	var noOverwrite bool

	cmd := &cobra.Command{
		Use:   "set <key> <value>",
		Short: "Sets a value for a key.",
		Args:  usageArgs(cobra.ExactArgs(2)),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := e.open()
			if err != nil {
				return err
			}

			key, value := args[0], args[1]
			if noOverwrite {
				err = s.Add(key, value)
			} else {
				err = s.Set(key, value)
			}
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Key \"%s\" set to value \"%s\".\n", key, value)
			return nil
		},
	}

	cmd.Flags().BoolVarP(&noOverwrite, "no-overwrite", "n", false, "fail if the key already exists")
	return cmd
}

func newDeleteCmd(e *env) *cobra.Command {
	return &cobra.Command{
		Use:               "delete <key>",
		Aliases:           []string{"rm"},
		Short:             "Deletes key:value pairs.",
		Args:              usageArgs(cobra.ExactArgs(1)),
		ValidArgsFunction: completeKeys(e),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := e.open()
			if err != nil {
				return err
			}

			if err := s.Delete(args[0]); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Deleted key \"%s\".\n", args[0])
			return nil
		},
	}
}

// newCompleteCommandsCmd prints name:description for each store command,
// for use by shell completion scripts. cobra's own help and completion
// commands are left out.
func newCompleteCommandsCmd() *cobra.Command {
	return &cobra.Command{
		Use:    "complete-commands",
		Hidden: true,
		Args:   usageArgs(cobra.NoArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			for _, c := range cmd.Root().Commands() {
				if !c.IsAvailableCommand() || c.Short == "" || isBuiltinCommand(c) {
					continue
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%s:%s\n", c.Name(), c.Short)
			}
			return nil
		},
	}
}

// newCompleteKeysCmd prints key:value for each entry.
func newCompleteKeysCmd(e *env) *cobra.Command {
	return &cobra.Command{
		Use:    "complete-keys",
		Hidden: true,
		Args:   usageArgs(cobra.NoArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := e.open()
			if err != nil {
				return err
			}

			entries, err := s.List()
			if err != nil {
				return err
			}
			for _, entry := range entries {
				fmt.Fprintf(cmd.OutOrStdout(), "%s:%s\n", entry.Key, entry.Value)
			}
			return nil
		},
	}
}

func isBuiltinCommand(c *cobra.Command) bool {
	return c.Name() == "help" || c.Name() == "completion"
}
