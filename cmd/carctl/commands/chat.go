package commands

import (
	"bufio"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

func newChatCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "chat",
		Short: "Interactive session; every line is a turn of the same conversation",
		Example: `  carctl chat --limit 3
  > toyota under 12 lakh
  > next page
  > same price range but another brand`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			notice.Fprintln(out, `Type a request ("exit" to quit, "reset" to forget the conversation).`)

			scanner := bufio.NewScanner(cmd.InOrStdin())
			for {
				prompt.Fprint(out, "> ")
				if !scanner.Scan() {
					fmt.Fprintln(out)
					return scanner.Err()
				}

				line := strings.TrimSpace(scanner.Text())
				switch strings.ToLower(line) {
				case "":
					continue
				case "exit", "quit":
					return nil
				case "reset":
					if err := a.resolver.Contexts().Reset(cmd.Context(), a.conversationID); err != nil {
						return err
					}
					notice.Fprintln(out, "Conversation reset.")
					continue
				}

				text, err := a.ask(cmd, line)
				if err != nil {
					return err
				}
				fmt.Fprintf(out, "%s\n\n", text)
			}
		},
	}
}
