package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/profai/profai-backend/pkg/client"
	"github.com/profai/profai-backend/pkg/types"
)

func newAskCommand() *cobra.Command {
	var server string
	var learningPath string
	var language string

	cmd := &cobra.Command{
		Use:   "ask [question]",
		Short: "Ask the professor a single question",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c := client.New(server)
			resp, err := c.Ask(cmd.Context(), types.AskReq{
				Text:         strings.Join(args, " "),
				LearningPath: learningPath,
				Language:     language,
			})
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), resp.Answer)
			return nil
		},
	}
	cmd.Flags().StringVar(&server, "server", "http://localhost:8000", "backend base URL")
	cmd.Flags().StringVar(&learningPath, "path", "", "learning path (theory, tooling, hybrid)")
	cmd.Flags().StringVar(&language, "language", "", "response language code")
	return cmd
}
