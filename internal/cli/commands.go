package cli

import (
	"errors"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/second-brain/core/internal/modules/capture"
	"github.com/second-brain/core/internal/modules/chat"
	"github.com/second-brain/core/internal/modules/content/note"
	"github.com/second-brain/core/internal/pkg/apperr"
)

func newExtractCmd(opts *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "extract <url>",
		Short: "Fetch a page and print its title, summary and tags",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := opts.env(cmd.OutOrStdout())
			if err != nil {
				return err
			}
			fetcher := capture.NewHTTPFetcher(capture.FetcherOptions{
				Timeout:   e.cfg.Extract.FetchTimeout(),
				MaxBytes:  e.cfg.Extract.MaxBodyBytes,
				UserAgent: e.cfg.Extract.UserAgent,
			})
			svc := capture.NewService(fetcher, e.gateway(), e.log)

			got, err := svc.Extract(cmd.Context(), args[0])
			if err != nil {
				return describe(err)
			}
			if e.json {
				return e.printJSON(got)
			}
			e.printf("%s %s\n", heading("Title:"), got.Title)
			e.printf("%s %s\n", heading("Tags:"), accent(strings.Join(got.Tags, ", ")))
			e.printf("%s (%s)\n%s\n", heading("Summary"), aiLabel(got.AIGenerated), got.Summary)
			for _, point := range got.KeyPoints {
				e.printf("  - %s\n", point)
			}
			return nil
		},
	}
}

func newSummarizeCmd(opts *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "summarize <text...>",
		Short: "Summarize free text",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			text := strings.TrimSpace(strings.Join(args, " "))
			if text == "" {
				return errors.New("text content is required for summarization")
			}
			e, err := opts.env(cmd.OutOrStdout())
			if err != nil {
				return err
			}

			got := e.gateway().SummarizeText(cmd.Context(), text)
			if e.json {
				return e.printJSON(got)
			}
			e.printf("%s (%s)\n%s\n", heading("Summary"), aiLabel(got.AIGenerated), got.Summary)
			for _, point := range got.KeyPoints {
				e.printf("  - %s\n", point)
			}
			return nil
		},
	}
}

func newAskCmd(opts *globalOptions) *cobra.Command {
	var userID string
	cmd := &cobra.Command{
		Use:   "ask <question...>",
		Short: "Answer a question from the notes in the configured store",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := opts.env(cmd.OutOrStdout())
			if err != nil {
				return err
			}
			return e.withStore(cmd.Context(), func(store note.Store) error {
				svc := chat.NewService(store, e.gateway(), e.log)
				got, err := svc.Answer(cmd.Context(), strings.Join(args, " "), userID)
				if err != nil {
					return describe(err)
				}
				if e.json {
					return e.printJSON(got)
				}
				e.printf("%s (%s)\n%s\n", heading("Answer"), aiLabel(got.AIGenerated), got.ResponseText)
				for _, src := range got.Sources {
					e.printf("  %s %s %s\n", accent(src.Title), muted("["+string(src.Kind)+"]"), src.Snippet)
				}
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&userID, "user", "", "Only search notes owned by this user")
	return cmd
}

func newAddCmd(opts *globalOptions) *cobra.Command {
	var (
		title  string
		tags   []string
		kind   string
		userID string
	)
	cmd := &cobra.Command{
		Use:   "add --title <title> [body...]",
		Short: "Store a note",
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := opts.env(cmd.OutOrStdout())
			if err != nil {
				return err
			}
			return e.withStore(cmd.Context(), func(store note.Store) error {
				rec, err := note.NewService(store).Create(cmd.Context(), note.CreateInput{
					OwnerID: userID,
					Title:   title,
					Body:    strings.Join(args, " "),
					Tags:    tags,
					Kind:    kind,
				})
				if err != nil {
					return describe(err)
				}
				if e.json {
					return e.printJSON(map[string]any{
						"id":        rec.ID,
						"title":     rec.Title,
						"tags":      rec.Tags,
						"type":      rec.Kind,
						"createdAt": rec.CreatedAt.UTC().Format(time.RFC3339),
					})
				}
				e.printf("%s %s %s\n", heading("note is added"), accent(rec.ID), muted("["+string(rec.Kind)+"]"))
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&title, "title", "", "Note title")
	cmd.Flags().StringSliceVar(&tags, "tags", nil, "Comma separated tags")
	cmd.Flags().StringVar(&kind, "type", string(note.KindNote), "note, link or insight")
	cmd.Flags().StringVar(&userID, "user", "local", "Owner id")
	return cmd
}

// describe keeps the caller-safe message of classified errors.
func describe(err error) error {
	if msg := apperr.MessageOf(err); msg != "" && apperr.KindOf(err) != apperr.KindInternal {
		return errors.New(msg)
	}
	return err
}

