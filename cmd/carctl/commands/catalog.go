package commands

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"carfinder/internal/model"
	"carfinder/internal/utils"
)

func newCatalogCommand(a *app) *cobra.Command {
	var (
		brand  string
		sortBy string
		page   int
	)

	cmd := &cobra.Command{
		Use:   "catalog",
		Short: "List the raw inventory",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			filter := model.FilterCriteria{
				Brand:  brand,
				SortBy: model.ParseSortKey(sortBy),
				Limit:  a.catalog.Len(),
				Page:   page,
			}
			if a.limit > 0 {
				filter.Limit = a.limit
			}

			result, err := a.catalog.Query(cmd.Context(), filter)
			if err != nil {
				return err
			}

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "ID\tYEAR\tBRAND\tMODEL\tPRICE\tCOLOR\tFUEL\tTRANSMISSION\tSEATS")
			for _, v := range result.Results {
				fmt.Fprintf(w, "%d\t%d\t%s\t%s\t%s\t%s\t%s\t%s\t%d\n",
					v.ID, v.Year, v.Brand, v.Model, utils.FormatRupees(float64(v.Price)),
					v.Color, v.FuelType, v.Transmission, v.Seats)
			}
			if err := w.Flush(); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "\n%d of %d vehicles (page %d of %d)\n",
				len(result.Results), result.Total, result.Page, result.TotalPages())
			return nil
		},
	}

	cmd.Flags().StringVarP(&brand, "brand", "b", "", "only this brand")
	cmd.Flags().StringVarP(&sortBy, "sort", "s", "", "price-asc, price-desc, year-asc or year-desc")
	cmd.Flags().IntVarP(&page, "page", "p", 1, "page number")
	return cmd
}
