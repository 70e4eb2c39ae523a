package main

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/dharsanguruparan/LinguaShelf/internal/docview"
	"github.com/dharsanguruparan/LinguaShelf/internal/library"
	"github.com/dharsanguruparan/LinguaShelf/internal/model"
)

func newViewCmd() *cobra.Command {
	var showText bool
	cmd := &cobra.Command{
		Use:   "view <name>",
		Short: "Resolve a document's viewing location, optionally printing its text",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			a, err := newApp(ctx)
			if err != nil {
				return err
			}
			entry, err := a.openDocument(ctx, args[0])
			if err != nil {
				return err
			}
			defer a.viewer.Close()
			out := cmd.OutOrStdout()
			fmt.Fprintln(out, entry.RenderableLocation)
			if !showText {
				return nil
			}
			data, err := a.fetcher.Fetch(ctx, entry.RenderableLocation)
			if err != nil {
				return err
			}
			r, err := docview.Preview(data)
			if err != nil {
				return err
			}
			fmt.Fprintf(out, "-- %s, %d page(s) --\n%s\n", r.MediaType, r.Pages, r.Text)
			return nil
		},
	}
	cmd.Flags().BoolVar(&showText, "text", false, "Fetch the document and print its text")
	return cmd
}

// openDocument views a document the backend lists. The registry is only
// refreshed when name is not already known, so repeated views in one session
// are served from the viewer's location cache.
func (a *app) openDocument(ctx context.Context, name string) (model.FileEntry, error) {
	entry, err := a.registry.Lookup(name)
	if errors.Is(err, library.ErrNotFound) {
		if err := a.registry.Refresh(ctx); err != nil {
			return model.FileEntry{}, err
		}
		entry, err = a.registry.Lookup(name)
	}
	if err != nil {
		return model.FileEntry{}, fmt.Errorf("no document named %q", name)
	}
	return a.viewer.OpenEntry(ctx, entry)
}
