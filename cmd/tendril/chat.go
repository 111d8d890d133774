package main

import (
	"strings"

	"github.com/aretw0/tendril/internal/cli"
	"github.com/aretw0/tendril/internal/config"
	"github.com/spf13/cobra"
)

var chatCmd = &cobra.Command{
	Use:   "chat",
	Short: "Start the conversation loop (no tools)",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runREPL(cmd, config.ModeChat)
	},
}

var agentCmd = &cobra.Command{
	Use:   "agent",
	Short: "Start the tool-augmented agent loop",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runREPL(cmd, config.ModeTools)
	},
}

var askCmd = &cobra.Command{
	Use:   "ask <question>...",
	Short: "Send one message and print the reply",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		mode, _ := cmd.Flags().GetString("mode")
		app, err := buildApp(cmd, mode, false)
		if err != nil {
			return err
		}
		defer app.Close()

		threadID, _ := cmd.Flags().GetString("thread")
		jsonMode, _ := cmd.Flags().GetBool("json")
		return cli.Ask(cmd.Context(), app, threadID, strings.Join(args, " "), cmd.OutOrStdout(), jsonMode)
	},
}

var demoCmd = &cobra.Command{
	Use:   "demo",
	Short: "Replay the scripted demo conversation",
	Long: `Replays a fixed script against the real model. In chat mode the agent is
asked about a broken charger in two turns; in tools mode it is asked for the
weather, a definition, the news and a greeting.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		mode, _ := cmd.Flags().GetString("mode")
		app, err := buildApp(cmd, mode, false)
		if err != nil {
			return err
		}
		defer app.Close()
		return cli.RunDemo(cmd.Context(), app, cmd.OutOrStdout())
	},
}

func runREPL(cmd *cobra.Command, mode string) error {
	app, err := buildApp(cmd, mode, false)
	if err != nil {
		return err
	}
	defer app.Close()

	threadID, _ := cmd.Flags().GetString("thread")
	jsonMode, _ := cmd.Flags().GetBool("json")
	return cli.RunChat(cmd.Context(), app, cli.ChatOptions{
		ThreadID: threadID,
		JSON:     jsonMode,
		In:       cmd.InOrStdin(),
		Out:      cmd.OutOrStdout(),
	})
}

func init() {
	for _, c := range []*cobra.Command{chatCmd, agentCmd, askCmd} {
		c.Flags().StringP("thread", "t", "", "Thread ID to resume (default: a new thread)")
		c.Flags().Bool("json", false, "Read and write JSON Lines instead of a transcript")
	}
	askCmd.Flags().String("mode", "", "Graph to run: chat or tools (default from config)")
	demoCmd.Flags().String("mode", config.ModeTools, "Script to replay: chat or tools")

	rootCmd.AddCommand(chatCmd, agentCmd, askCmd, demoCmd)
}
