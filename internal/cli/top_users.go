package cli

import (
	"socialpulse/internal/term"

	"github.com/spf13/cobra"
)

var expandUserID int

var topUsersCmd = &cobra.Command{
	Use:     "top-users",
	Aliases: []string{"users"},
	Short:   "Show the most active users",
	Args:    cobra.NoArgs,
	RunE:    topUsers,
}

func init() {
	topUsersCmd.Flags().IntVarP(&expandUserID, "expand", "e", 0, "Also show the posts of this user")
	RootCmd.AddCommand(topUsersCmd)
}

func topUsers(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()

	if err := rt.TopUsers.Load(ctx); err != nil {
		return err
	}
	if expandUserID > 0 {
		if err := rt.TopUsers.Toggle(ctx, expandUserID); err != nil {
			return err
		}
	}

	term.RenderTopUsers(cmd.OutOrStdout(), rt.TopUsers.Snapshot())
	return nil
}
