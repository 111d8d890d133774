package main

import (
	"fmt"

	"github.com/aretw0/tendril/internal/presentation/graph"
	"github.com/spf13/cobra"
)

var graphCmd = &cobra.Command{
	Use:   "graph",
	Short: "Export the agent graph visualization",
	Long:  `Outputs a Mermaid diagram (graph TD) of the configured agent graph.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		mode, _ := cmd.Flags().GetString("mode")
		app, err := buildApp(cmd, mode, true)
		if err != nil {
			return err
		}
		defer app.Close()

		fmt.Fprint(cmd.OutOrStdout(), graph.GenerateMermaid(app.Agent.Graph(), nil))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(graphCmd)
	graphCmd.Flags().String("mode", "", "Graph to draw: chat or tools (default from config)")
}
