package main

import (
	"log"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "toolchat",
	Short: "Chat agent that answers with the help of arithmetic and search tools",
	Long: `toolchat serves a chat endpoint backed by a language model that can call
arithmetic, Wikipedia, web and arXiv search tools before answering.

Configuration is read from the environment (and a .env file if present).`,
	SilenceUsage: true,
	Run: func(cmd *cobra.Command, args []string) {
		cmd.Help()
	},
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		log.Fatalf("error executing root command: %s", err)
	}
}
