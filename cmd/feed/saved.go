package main

import (
	"io"
	"os"
	"strconv"
	"time"

	"github.com/go-faster/errors"
	"github.com/spf13/cobra"

	"github.com/xenking/catalog-feed/internal/backup"
	"github.com/xenking/catalog-feed/internal/domain/feed"
)

func newSavedCmd(e *env) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "saved",
		Short: "List saved products",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := e.open(cmd)
			if err != nil {
				return err
			}
			e.warn(a.LoadStores(cmd.Context()))
			return e.printer.Cards(feed.SavedCards(a.Saved))
		},
	}
	cmd.AddCommand(newExportCmd(e), newImportCmd(e))
	return cmd
}

func newSaveCmd(e *env) *cobra.Command {
	return &cobra.Command{
		Use:   "save <id>",
		Short: "Save a product for later",
		Args:  cobra.ExactArgs(1),
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

			if a.Saved.IsSaved(id) {
				return e.printer.Message("Product %d is already saved.", id)
			}
			card, err := feed.Detail(cmd.Context(), a.Catalog, a.Saved, id)
			if err != nil {
				return errors.Wrapf(err, "product %d", id)
			}
			a.Saved.Save(card.Product)
			return e.printer.Message("Saved %q.", card.Product.Title)
		},
	}
}

func newUnsaveCmd(e *env) *cobra.Command {
	return &cobra.Command{
		Use:   "unsave <id>",
		Short: "Remove a product from the saved list",
		Args:  cobra.ExactArgs(1),
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

			if !a.Saved.Unsave(id) {
				return e.printer.Message("Product %d is not saved.", id)
			}
			return e.printer.Message("Removed product %d.", id)
		},
	}
}

func newExportCmd(e *env) *cobra.Command {
	return &cobra.Command{
		Use:   "export [file]",
		Short: "Write the saved list as gzip-compressed JSON",
		Long:  `Write the saved list to file, or to stdout when file is "-" or omitted.`,
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := e.open(cmd)
			if err != nil {
				return err
			}
			if err := a.Saved.Load(cmd.Context()); err != nil {
				return errors.Wrap(err, "load saved items")
			}

			items := a.Saved.Items()
			if len(args) == 0 || args[0] == "-" {
				return backup.Export(cmd.OutOrStdout(), items, time.Now())
			}

			f, err := os.Create(args[0])
			if err != nil {
				return errors.Wrap(err, "create backup file")
			}
			if err := backup.Export(f, items, time.Now()); err != nil {
				_ = f.Close()
				return err
			}
			if err := f.Close(); err != nil {
				return errors.Wrap(err, "close backup file")
			}
			_, err = io.WriteString(cmd.ErrOrStderr(), "Exported "+pluralItems(len(items))+".\n")
			return err
		},
	}
}

func newImportCmd(e *env) *cobra.Command {
	return &cobra.Command{
		Use:   "import <file>",
		Short: "Merge a backup into the saved list",
		Long: `Read a backup written by "saved export" (or stdin when file is "-")
and save every product that is not saved yet.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := e.open(cmd)
			if err != nil {
				return err
			}
			e.warn(a.LoadStores(cmd.Context()))

			r := cmd.InOrStdin()
			if args[0] != "-" {
				f, err := os.Open(args[0])
				if err != nil {
					return errors.Wrap(err, "open backup file")
				}
				defer func() { _ = f.Close() }()
				r = f
			}

			items, err := backup.Import(r)
			if err != nil {
				return err
			}
			added := 0
			for _, p := range items {
				if a.Saved.Save(p) {
					added++
				}
			}
			return e.printer.Message("Imported %s, %d already saved.", pluralItems(added), len(items)-added)
		},
	}
}

func pluralItems(n int) string {
	if n == 1 {
		return "1 item"
	}
	return strconv.Itoa(n) + " items"
}
