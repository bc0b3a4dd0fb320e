package main

import (
	"bufio"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/profai/profai-backend/pkg/client"
	"github.com/profai/profai-backend/pkg/session"
)

func newChatCommand() *cobra.Command {
	var server string
	var learningPath string
	var language string

	cmd := &cobra.Command{
		Use:   "chat",
		Short: "Interactive conversation with the professor",
		RunE: func(cmd *cobra.Command, args []string) error {
			c := client.New(server)
			sess := session.New(c, session.Options{
				LearningPath: learningPath,
				Language:     language,
			})
			defer sess.Close()

			out := cmd.OutOrStdout()
			fmt.Fprintln(out, "ProfAI chat. Type a question, or /quit to leave.")
			scanner := bufio.NewScanner(cmd.InOrStdin())
			for {
				fmt.Fprint(out, "> ")
				if !scanner.Scan() {
					return scanner.Err()
				}
				line := strings.TrimSpace(scanner.Text())
				if line == "" {
					continue
				}
				if line == "/quit" || line == "/exit" {
					return nil
				}
				sess.SubmitText(cmd.Context(), line)
				sess.Wait()
				turns := sess.Turns()
				last := turns[len(turns)-1]
				if last.Role != session.RoleAI {
					fmt.Fprintln(out, "(no reply, the backend may be down)")
					continue
				}
				fmt.Fprintln(out, last.Content)
			}
		},
	}
	cmd.Flags().StringVar(&server, "server", "http://localhost:8000", "backend base URL")
	cmd.Flags().StringVar(&learningPath, "path", "", "learning path (theory, tooling, hybrid)")
	cmd.Flags().StringVar(&language, "language", "", "response language code")
	return cmd
}
