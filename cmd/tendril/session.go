package main

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/aretw0/tendril/internal/cli"
	"github.com/aretw0/tendril/internal/presentation/graph"
	"github.com/spf13/cobra"
)

var sessionCmd = &cobra.Command{
	Use:     "session",
	Aliases: []string{"thread"},
	Short:   "Manage persisted threads",
	Long:    `List, inspect, and remove the threads kept by the configured store.`,
}

var sessionLsCmd = &cobra.Command{
	Use:   "ls",
	Short: "List all threads",
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := buildApp(cmd, "", true)
		if err != nil {
			return err
		}
		defer app.Close()

		ids, err := app.Agent.Threads(cmd.Context())
		if err != nil {
			return fmt.Errorf("error listing threads: %w", err)
		}
		out := cmd.OutOrStdout()
		if len(ids) == 0 {
			fmt.Fprintln(out, "No threads found.")
			return nil
		}
		fmt.Fprintln(out, "Threads:")
		for _, id := range ids {
			fmt.Fprintln(out, "- "+id)
		}
		return nil
	},
}

var sessionInspectCmd = &cobra.Command{
	Use:   "inspect <thread-id>",
	Short: "Print the stored state of a thread",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := buildApp(cmd, "", true)
		if err != nil {
			return err
		}
		defer app.Close()

		state, err := app.Agent.History(cmd.Context(), args[0])
		if err != nil {
			return fmt.Errorf("error loading thread '%s': %w", args[0], err)
		}

		if overlay, _ := cmd.Flags().GetBool("graph"); overlay {
			g := app.Agent.Graph()
			fmt.Fprint(cmd.OutOrStdout(), graph.GenerateMermaid(g, &graph.GraphOverlay{
				VisitedSteps: graph.VisitedSteps(g, state),
			}))
			return nil
		}

		data, err := json.MarshalIndent(state, "", "  ")
		if err != nil {
			return fmt.Errorf("error marshaling state: %w", err)
		}
		fmt.Fprintln(cmd.OutOrStdout(), string(data))
		return nil
	},
}

var sessionRmCmd = &cobra.Command{
	Use:   "rm <thread-id>...",
	Short: "Remove one or more threads",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := buildApp(cmd, "", true)
		if err != nil {
			return err
		}
		defer app.Close()
		return removeThreads(cmd, app, args)
	},
}

func removeThreads(cmd *cobra.Command, app *cli.App, ids []string) error {
	var errs []error
	for _, id := range ids {
		if err := app.Agent.Reset(cmd.Context(), id); err != nil {
			errs = append(errs, fmt.Errorf("error removing '%s': %w", id, err))
			continue
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Removed thread '%s'\n", id)
	}
	return errors.Join(errs...)
}

func init() {
	rootCmd.AddCommand(sessionCmd)
	sessionCmd.AddCommand(sessionLsCmd, sessionInspectCmd, sessionRmCmd)
	sessionInspectCmd.Flags().Bool("graph", false, "Print the graph with the steps this thread visited highlighted")
}
