package cli

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/heysubinoy/kv/pkg/kv"
	"github.com/spf13/cobra"
	orderedmap "github.com/wk8/go-ordered-map/v2"
	"gopkg.in/yaml.v3"
)

const (
	outputText = "text"
	outputJSON = "json"
	outputYAML = "yaml"
)

func newListCmd(e *env) *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "Lists all key:value pairs.",
		Args:    usageArgs(cobra.NoArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			if output != outputText && output != outputJSON && output != outputYAML {
				return kv.NewError(kv.KindInvalidArgument, "list", "",
					fmt.Errorf("unknown output format %q (want text, json or yaml)", output))
			}

			s, err := e.open()
			if err != nil {
				return err
			}
			entries, err := s.List()
			if err != nil {
				return err
			}
			return writeEntries(cmd.OutOrStdout(), entries, output)
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", outputText, "output format: text, json or yaml")
	return cmd
}

func writeEntries(w io.Writer, entries []kv.Entry, output string) error {
	switch output {
	case outputJSON:
		om := orderedmap.New[string, string]()
		for _, entry := range entries {
			om.Set(entry.Key, entry.Value)
		}
		data, err := json.MarshalIndent(om, "", "  ")
		if err != nil {
			return err
		}
		_, err = fmt.Fprintln(w, string(data))
		return err

	case outputYAML:
		node := &yaml.Node{Kind: yaml.MappingNode}
		for _, entry := range entries {
			node.Content = append(node.Content,
				&yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: entry.Key},
				&yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: entry.Value},
			)
		}
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(node); err != nil {
			return err
		}
		return enc.Close()
	}

	if len(entries) == 0 {
		_, err := fmt.Fprintln(w, "No keys found.")
		return err
	}
	for _, entry := range entries {
		if _, err := fmt.Fprintf(w, "%s -> %s\n", entry.Key, entry.Value); err != nil {
			return err
		}
	}
	return nil
}
