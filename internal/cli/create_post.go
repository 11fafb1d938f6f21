package cli

import (
	"socialpulse/internal/models"
	"socialpulse/internal/term"
	"socialpulse/internal/validation"

	"github.com/spf13/cobra"
)

var newPost models.NewPost

var createPostCmd = &cobra.Command{
	Use:   "create-post",
	Short: "Publish a post",
	Args:  cobra.NoArgs,
	RunE:  createPost,
}

func init() {
	createPostCmd.Flags().IntVar(&newPost.UserID, "user-id", 0, "Author of the post")
	createPostCmd.Flags().StringVar(&newPost.Title, "title", "", "Post title")
	createPostCmd.Flags().StringVar(&newPost.Body, "body", "", "Post body")
	_ = createPostCmd.MarkFlagRequired("user-id")
	_ = createPostCmd.MarkFlagRequired("title")
	RootCmd.AddCommand(createPostCmd)
}

func createPost(cmd *cobra.Command, _ []string) error {
	if err := validation.ValidateNewPost(newPost); err != nil {
		return err
	}
	post, err := rt.API.CreatePost(cmd.Context(), newPost)
	if err != nil {
		return err
	}
	term.RenderCreatedPost(cmd.OutOrStdout(), post)
	return nil
}
