package main

import (
	"github.com/go-faster/errors"
	"github.com/spf13/cobra"

	"github.com/xenking/catalog-feed/internal/domain/feed"
)

func newFeedCmd(e *env) *cobra.Command {
	var hide []int
	cmd := &cobra.Command{
		Use:   "feed",
		Short: "Show the product feed",
		Long: `Fetch the catalog once and show one card per product with its computed
price. Cards at prime positions carry a badge; saved products are marked.

--hide removes cards from this listing only; nothing is persisted.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := e.open(cmd)
			if err != nil {
				return err
			}

			screen, outcome, loadErr := a.OpenFeed(cmd.Context())
			e.warn(loadErr)
			if outcome.Status == feed.StatusFailed {
				return errors.Wrap(outcome.Err, "load feed")
			}
			for _, id := range hide {
				screen.Hide(id)
			}
			return e.printer.Cards(screen.Cards())
		},
	}
	cmd.Flags().IntSliceVar(&hide, "hide", nil, "Product ids to leave out of the listing")
	return cmd
}

func newDetailCmd(e *env) *cobra.Command {
	return &cobra.Command{
		Use:   "detail <id>",
		Short: "Show a product",
		Long: `Show one product with its description. A saved copy is shown when
present; otherwise the full catalog is fetched and searched.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseProductID(args[0])
			if err != nil {
				return err
			}
			a, err := e.open(cmd)
			if err != nil {
				return err
			}
			e.warn(a.LoadStores(cmd.Context()))

			card, err := feed.Detail(cmd.Context(), a.Catalog, a.Saved, id)
			if err != nil {
				return errors.Wrapf(err, "product %d", id)
			}
			return e.printer.Detail(card)
		},
	}
}
