package cli

import (
	"fmt"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"socialpulse/internal/term"
	"socialpulse/internal/view"

	"github.com/spf13/cobra"
)

const clearScreen = "\033[H\033[2J"

var feedWatch bool

var feedCmd = &cobra.Command{
	Use:   "feed",
	Short: "Show the latest posts",
	Args:  cobra.NoArgs,
	RunE:  feed,
}

func init() {
	feedCmd.Flags().BoolVarP(&feedWatch, "watch", "w", false, "Keep polling and redraw on every refresh")
	RootCmd.AddCommand(feedCmd)
}

func feed(cmd *cobra.Command, _ []string) error {
	out := cmd.OutOrStdout()

	if !feedWatch {
		if err := rt.Feed.Refresh(cmd.Context()); err != nil {
			return err
		}
		term.RenderFeed(out, rt.Feed.Snapshot())
		return nil
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var mu sync.Mutex
	unsubscribe := rt.Feed.Subscribe(func(snap view.FeedSnapshot) {
		mu.Lock()
		defer mu.Unlock()
		fmt.Fprint(out, clearScreen)
		term.RenderFeed(out, snap)
	})
	defer unsubscribe()

	if err := rt.Feed.Start(ctx); err != nil {
		return err
	}
	<-ctx.Done()
	rt.Feed.Stop()
	return nil
}
