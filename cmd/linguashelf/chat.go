package main

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/dharsanguruparan/LinguaShelf/internal/chat"
	"github.com/dharsanguruparan/LinguaShelf/internal/model"
	"github.com/dharsanguruparan/LinguaShelf/internal/transcript"
)

func newChatCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "chat",
		Short: "Interactive query session (one query per line; /view <name>, /close, /quit)",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			a, err := newApp(ctx)
			if err != nil {
				return err
			}
			store := transcript.NewStore()
			flow := chat.New(a.client, store)
			out := cmd.OutOrStdout()
			scanner := bufio.NewScanner(cmd.InOrStdin())
			fmt.Fprint(out, "you> ")
			for scanner.Scan() {
				line := scanner.Text()
				switch cmdLine := strings.TrimSpace(line); {
				case cmdLine == "/quit":
					return nil
				case cmdLine == "/close":
					a.viewer.Close()
					fmt.Fprint(out, "you> ")
					continue
				case strings.HasPrefix(cmdLine, "/view "):
					entry, err := a.openDocument(ctx, strings.TrimSpace(strings.TrimPrefix(cmdLine, "/view ")))
					if err != nil {
						fmt.Fprintf(out, "  %v\n", err)
					} else {
						fmt.Fprintf(out, "  %s\n", entry.RenderableLocation)
					}
					fmt.Fprint(out, "you> ")
					continue
				}
				seen := store.Len()
				flow.SetInput(line)
				if flow.Send(ctx) {
					// the echo is already on screen
					printMessages(out, store.Since(seen+1))
				}
				if ctx.Err() != nil {
					return ctx.Err()
				}
				fmt.Fprint(out, "you> ")
			}
			return scanner.Err()
		},
	}
}

func newAskCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "ask <query...>",
		Short: "Ask a single question",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(cmd.Context())
			if err != nil {
				return err
			}
			store := transcript.NewStore()
			flow := chat.New(a.client, store)
			if !flow.Submit(cmd.Context(), strings.Join(args, " ")) {
				return fmt.Errorf("empty query")
			}
			printMessages(cmd.OutOrStdout(), store.Since(1))
			return nil
		},
	}
}

// Right-to-left entries are wrapped in a directional isolate so terminals lay
// them out without reordering the surrounding prompt.
const (
	rightToLeftIsolate = "\u2067"
	popIsolate         = "\u2069"
)

func printMessages(w io.Writer, msgs []model.Message) {
	for _, m := range msgs {
		text := m.Text
		if m.Language.RightToLeft() {
			text = rightToLeftIsolate + text + popIsolate
		}
		if m.Kind == model.KindSource {
			fmt.Fprintf(w, "  > %s\n", text)
			continue
		}
		fmt.Fprintf(w, "  %s\n", text)
	}
}
