package main

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/dharsanguruparan/LinguaShelf/internal/library"
	"github.com/dharsanguruparan/LinguaShelf/internal/model"
)

func newFilesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "files",
		Short: "List or search documents known to the backend",
	}
	cmd.AddCommand(
		&cobra.Command{
			Use:   "list",
			Short: "List every document",
			RunE: func(cmd *cobra.Command, args []string) error {
				a, err := newApp(cmd.Context())
				if err != nil {
					return err
				}
				if err := a.registry.Refresh(cmd.Context()); err != nil {
					return err
				}
				printEntries(cmd.OutOrStdout(), a.registry.Entries())
				return nil
			},
		},
		&cobra.Command{
			Use:   "search <term>",
			Short: "List documents whose name contains term (case-insensitive)",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				a, err := newApp(cmd.Context())
				if err != nil {
					return err
				}
				if err := a.registry.Refresh(cmd.Context()); err != nil {
					return err
				}
				printEntries(cmd.OutOrStdout(), a.registry.Search(args[0]))
				return nil
			},
		},
	)
	return cmd
}

func newUploadCmd() *cobra.Command {
	var language string
	cmd := &cobra.Command{
		Use:   "upload <path>",
		Short: "Upload a document (.pdf, .docx, .csv)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			a, err := newApp(ctx)
			if err != nil {
				return err
			}
			file, err := library.OpenLocalFile(args[0])
			if err != nil {
				return err
			}
			uploader := library.NewUploader(a.client, a.registry)
			uploader.OpenDraft()
			if err := uploader.SetFile(file); err != nil {
				return err
			}
			if err := uploader.SetLanguage(model.UploadLanguage(language)); err != nil {
				return err
			}
			err = uploader.SubmitDraft(ctx)
			out := cmd.OutOrStdout()
			fmt.Fprintln(out, uploader.State().Status)
			if err != nil {
				return err
			}
			printEntries(out, a.registry.Entries())
			return nil
		},
	}
	cmd.Flags().StringVarP(&language, "language", "l", string(model.DefaultUploadLanguage), "Document language: eng or arabic")
	return cmd
}

func printEntries(w io.Writer, entries []model.FileEntry) {
	if len(entries) == 0 {
		fmt.Fprintln(w, "(no documents)")
		return
	}
	for _, e := range entries {
		fmt.Fprintln(w, e.Name)
	}
}
