package term

import (
	"fmt"
	"io"
	"strconv"
	"time"

	"socialpulse/internal/models"
	"socialpulse/internal/view"

	"github.com/fatih/color"
	"github.com/olekukonko/tablewriter"
)

const (
	bodyWidth  = 60
	timeLayout = "Jan 2, 2006 15:04"
)

func postedAt(p models.Post) string {
	if !p.Dated() {
		return "unknown"
	}
	return p.CreatedAt.Local().Format(timeLayout)
}

func newTable(w io.Writer, header []string) *tablewriter.Table {
	table := tablewriter.NewWriter(w)
	table.SetHeader(header)
	table.SetAutoWrapText(false)
	return table
}

func postTable(w io.Writer, posts []view.PostItem, showImages bool) {
	header := []string{"#", "Author", "Title", "Posted", "💬"}
	if showImages {
		header = append(header, "Image")
	}
	table := newTable(w, header)
	for _, p := range posts {
		row := []string{
			strconv.Itoa(p.ID),
			p.AuthorName(),
			truncate(p.Title, 40),
			postedAt(p.Post),
			strconv.Itoa(p.CommentCount),
		}
		if showImages {
			row = append(row, p.ImageURL)
		}
		table.Append(row)
	}
	table.Render()
}

// RenderFeed draws the latest posts.
func RenderFeed(w io.Writer, snap view.FeedSnapshot) {
	heading(w, "📰 Latest Posts")

	switch {
	case snap.ShowSpinner():
		muted(w, "Loading...")
		return
	case snap.ShowError():
		errorBanner(w, snap.Error)
		return
	case len(snap.Posts) == 0:
		muted(w, view.FeedEmptyMessage)
		return
	}

	postTable(w, snap.Posts, true)
	if !snap.UpdatedAt.IsZero() {
		muted(w, "Updated "+snap.UpdatedAt.Local().Format(time.Kitchen))
	}
}

// RenderTopUsers draws the ranking and, when a user is expanded, their posts.
func RenderTopUsers(w io.Writer, snap view.TopUsersSnapshot) {
	heading(w, "🏆 Top Users")

	switch {
	case snap.Loading && len(snap.Users) == 0:
		muted(w, "Loading...")
		return
	case snap.ShowError():
		errorBanner(w, snap.Error)
		return
	case len(snap.Users) == 0:
		muted(w, view.TopUsersEmptyMessage)
		return
	}

	table := newTable(w, []string{"Rank", "ID", "User", "Posts", "Avatar"})
	for i, u := range snap.Users {
		row := []string{
			strconv.Itoa(i + 1),
			strconv.Itoa(u.ID),
			u.DisplayName,
			strconv.Itoa(u.PostCount),
			u.AvatarURL,
		}
		if u.ID == snap.SelectedUserID {
			table.Rich(row, []tablewriter.Colors{
				{tablewriter.Bold, tablewriter.FgHiGreenColor},
				{tablewriter.FgHiGreenColor},
				{tablewriter.Bold, tablewriter.FgHiGreenColor},
				{tablewriter.FgHiGreenColor},
				{tablewriter.FgHiGreenColor},
			})
			continue
		}
		table.Append(row)
	}
	table.Render()

	if snap.SelectedUserID == 0 {
		return
	}

	fmt.Fprintln(w)
	heading(w, fmt.Sprintf("Posts by user %d", snap.SelectedUserID))
	switch {
	case snap.PostsLoading:
		muted(w, "Loading...")
	case len(snap.SelectedPosts) == 0:
		muted(w, view.UserPostsEmptyMessage)
	default:
		for _, p := range snap.SelectedPosts {
			fmt.Fprintf(w, "%s %s\n", color.New(color.Bold).Sprint(p.Title), color.New(ColorHiCyan).Sprint("("+postedAt(p.Post)+")"))
			fmt.Fprintln(w, "  "+truncate(p.Body, bodyWidth))
		}
	}
}

// RenderTrending draws the trending posts with the open comment box, if any.
func RenderTrending(w io.Writer, snap view.TrendingSnapshot) {
	heading(w, "🔥 Trending Posts")

	switch {
	case snap.Loading && len(snap.Posts) == 0:
		muted(w, "Loading...")
		return
	case snap.ShowError():
		errorBanner(w, snap.Error)
		return
	case len(snap.Posts) == 0:
		muted(w, view.TrendingEmptyMessage)
		return
	}

	postTable(w, snap.Posts, false)

	if snap.Notice != "" {
		errorBanner(w, snap.Notice)
	}
	if snap.ExpandedPostID != 0 {
		draft := snap.Draft
		if draft == "" {
			draft = "(empty)"
		}
		fmt.Fprintf(w, "%s %s\n", color.New(ColorHiYellow, color.Bold).Sprintf("Comment on #%d:", snap.ExpandedPostID), draft)
	}
}

// RenderCommentAck reports the outcome of a comment submission.
func RenderCommentAck(w io.Writer, postID int, ack models.CommentAck) {
	msg := ack.Message
	if msg == "" {
		msg = "Comment added"
	}
	label := color.New(ColorHiGreen, color.Bold).Sprint("✅ ")
	if ack.Synthetic {
		label = color.New(ColorHiYellow, color.Bold).Sprint("⚠️  ")
	}
	fmt.Fprintf(w, "%s%s (post #%d)\n", label, msg, postID)
}

// RenderCreatedPost reports a created post.
func RenderCreatedPost(w io.Writer, p *models.Post) {
	fmt.Fprintf(w, "%s post #%d %q by %s\n",
		color.New(ColorHiGreen, color.Bold).Sprint("✅ Created"), p.ID, p.Title, p.AuthorName())
}
