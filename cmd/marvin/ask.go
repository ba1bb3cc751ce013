package main

import (
	"os"
	"strings"

	"github.com/spf13/cobra"
)

var askCmd = &cobra.Command{
	Use:   "ask <command...>",
	Short: "Handle one command and print the responses",
	Long: `Classify and dispatch a single command, printing every response.

Examples:
  marvin ask hello
  marvin ask what is the weather in mysore
  marvin ask translate good morning to hindi`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		term := &terminal{w: os.Stdout}

		a, err := newAssistant(ctx, cfg, hooks{Display: term, Actions: term, NoCamera: true})
		if err != nil {
			return err
		}
		defer a.Close()

		_, err = a.router.Handle(ctx, strings.Join(args, " "))
		return err
	},
}
