package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"carfinder/internal/model"
)

func newCompareCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:     "compare <model> <model> [model...]",
		Short:   "Compare cars side by side",
		Example: "  carctl compare Camry Civic City",
		Args:    cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			text, err := a.resolver.Resolve(cmd.Context(), model.InventoryRequest{
				CompareModels:  args,
				ConversationID: a.conversationID,
			})
			fmt.Fprintln(cmd.OutOrStdout(), text)
			return err
		},
	}
}
