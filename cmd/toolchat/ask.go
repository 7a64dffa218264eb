package main

import (
	"fmt"
	"strings"

	"github.com/Desarso/toolchat"
	"github.com/Desarso/toolchat/models"
	"github.com/google/uuid"
	"github.com/spf13/cobra"
)

var askVerbose bool

func init() {
	askCmd.Flags().BoolVarP(&askVerbose, "verbose", "v", false, "print every message of the run, not just the answer")
	rootCmd.AddCommand(askCmd)
}

var askCmd = &cobra.Command{
	Use:   "ask [question]",
	Short: "Ask the agent a single question without starting the server",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := toolchat.LoadConfig()
		if err != nil {
			return err
		}
		tracer, err := cfg.NewTraceStore()
		if err != nil {
			return fmt.Errorf("opening trace store: %w", err)
		}
		defer tracer.Close()

		ctx := toolchat.WithRequestID(cmd.Context(), uuid.NewString())
		agent, err := cfg.NewAgent(ctx, tracer)
		if err != nil {
			return err
		}

		question := strings.Join(args, " ")
		state, err := agent.Run(ctx, []models.Message{models.NewUserMessage(question)})
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		if askVerbose {
			for _, msg := range state.Messages {
				if msg.Role == models.RoleSystem {
					continue
				}
				fmt.Fprintf(out, "[%s] %s\n", msg.Role, describe(msg))
			}
			return nil
		}
		fmt.Fprintln(out, toolchat.FinalText(state))
		return nil
	},
}

func describe(msg models.Message) string {
	if !msg.HasToolCalls() {
		return msg.Content
	}
	calls := make([]string, 0, len(msg.ToolCalls))
	for _, c := range msg.ToolCalls {
		calls = append(calls, fmt.Sprintf("%s(%v)", c.Name, c.Args))
	}
	return strings.TrimSpace(msg.Content + " " + strings.Join(calls, ", "))
}
