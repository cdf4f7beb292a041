package main

import (
	"github.com/go-faster/errors"
	"github.com/spf13/cobra"

	"github.com/xenking/catalog-feed/internal/domain/favorites"
	"github.com/xenking/catalog-feed/internal/domain/feed"
)

func newRecipesCmd(e *env) *cobra.Command {
	var hide []string
	cmd := &cobra.Command{
		Use:   "recipes",
		Short: "Show the recipe feed",
		Long: `Fetch recipes and show them as priced cards. The prime badge follows
each recipe's position in the fetched list, so hiding cards does not move it.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := e.open(cmd)
			if err != nil {
				return err
			}

			screen, outcome, loadErr := a.OpenRecipes(cmd.Context())
			e.warn(loadErr)
			if outcome.Status == feed.StatusFailed {
				return errors.Wrap(outcome.Err, "load recipes")
			}
			for _, id := range hide {
				screen.Hide(id)
			}
			return e.printer.RecipeCards(screen.Cards())
		},
	}
	cmd.Flags().StringSliceVar(&hide, "hide", nil, "Recipe ids to leave out of the listing")
	return cmd
}

func newFavoritesCmd(e *env) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "favorites",
		Short: "List favorite recipes",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := e.open(cmd)
			if err != nil {
				return err
			}
			e.warn(a.LoadStores(cmd.Context()))
			return e.printer.Favorites(a.Favorites.Items())
		},
	}
	cmd.AddCommand(newToggleFavoriteCmd(e))
	return cmd
}

func newToggleFavoriteCmd(e *env) *cobra.Command {
	return &cobra.Command{
		Use:   "toggle <id>",
		Short: "Add a recipe to favorites, or remove it if already there",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id := args[0]
			a, err := e.open(cmd)
			if err != nil {
				return err
			}
			e.warn(a.LoadStores(cmd.Context()))

			item, ok := findFavorite(a.Favorites.Items(), id)
			if !ok {
				screen, outcome, _ := a.OpenRecipes(cmd.Context())
				if outcome.Status == feed.StatusFailed {
					return errors.Wrap(outcome.Err, "load recipes")
				}
				if item, ok = screen.Item(id); !ok {
					return errors.Errorf("recipe %s not found", id)
				}
			}

			if a.Favorites.Toggle(item) {
				return e.printer.Message("Added %q to favorites.", item.Name)
			}
			return e.printer.Message("Removed %q from favorites.", item.Name)
		},
	}
}

func findFavorite(items []favorites.Item, id string) (favorites.Item, bool) {
	for _, it := range items {
		if it.ID == id {
			return it, true
		}
	}
	return favorites.Item{}, false
}
