package commands

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"carfinder/internal/model"
)

func newAskCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "ask <request>",
		Short: "Resolve one request and print the response",
		Example: `  carctl ask "red honda under 15 lakh"
  carctl ask --limit 3 cheapest diesel cars`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			text, err := a.ask(cmd, strings.Join(args, " "))
			fmt.Fprintln(cmd.OutOrStdout(), text)
			return err
		},
	}
}

func (a *app) ask(cmd *cobra.Command, text string) (string, error) {
	req := model.InventoryRequest{
		Search:         text,
		ConversationID: a.conversationID,
	}
	if a.limit > 0 {
		req.Limit = model.IntPtr(a.limit)
	}
	return a.resolver.Resolve(cmd.Context(), req)
}
