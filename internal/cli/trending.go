package cli

import (
	"errors"
	"fmt"

	"socialpulse/internal/term"
	"socialpulse/internal/view"

	"github.com/spf13/cobra"
)

var (
	commentOn   int
	commentText string
)

var trendingCmd = &cobra.Command{
	Use:     "trending",
	Aliases: []string{"hot"},
	Short:   "Show the most commented posts, optionally commenting on one",
	Args:    cobra.NoArgs,
	RunE:    trending,
}

func init() {
	trendingCmd.Flags().IntVar(&commentOn, "comment-on", 0, "Post to comment on")
	trendingCmd.Flags().StringVar(&commentText, "text", "", "Comment text")
	RootCmd.AddCommand(trendingCmd)
}

func trending(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()
	out := cmd.OutOrStdout()

	if err := rt.Trending.Load(ctx); err != nil {
		return err
	}

	if commentOn > 0 {
		rt.Trending.ToggleComments(commentOn)
		rt.Trending.SetDraft(commentText)

		ack, err := rt.Trending.SubmitComment(ctx, commentOn)
		switch {
		case errors.Is(err, view.ErrBlankComment):
			return fmt.Errorf("--text is required with --comment-on")
		case err != nil:
			term.RenderTrending(out, rt.Trending.Snapshot())
			return err
		}

		rt.Trending.ToggleComments(commentOn)
		term.RenderCommentAck(out, commentOn, ack)
	}

	term.RenderTrending(out, rt.Trending.Snapshot())
	return nil
}
