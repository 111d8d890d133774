package main

import (
	"encoding/json"
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

var toolsCmd = &cobra.Command{
	Use:   "tools",
	Short: "List the tools the agent can call",
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := buildApp(cmd, "", true)
		if err != nil {
			return err
		}
		defer app.Close()

		defs := app.Registry.Definitions()
		if asJSON, _ := cmd.Flags().GetBool("json"); asJSON {
			out := make([]map[string]any, 0, len(defs))
			for _, t := range defs {
				out = append(out, map[string]any{
					"name":        t.Name,
					"description": t.Description,
					"parameters":  t.Parameters.JSONSchema(),
				})
			}
			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(out)
		}

		w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
		fmt.Fprintln(w, "NAME\tDESCRIPTION")
		for _, t := range defs {
			fmt.Fprintf(w, "%s\t%s\n", t.Name, t.Description)
		}
		return w.Flush()
	},
}

func init() {
	rootCmd.AddCommand(toolsCmd)
	toolsCmd.Flags().Bool("json", false, "Print the tool schemas as JSON")
}
