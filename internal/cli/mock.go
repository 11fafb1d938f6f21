package cli

import (
	"fmt"

	"socialpulse/internal/mockdata"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

var genOpts mockdata.GenerateOptions
var genOut string

var mockCmd = &cobra.Command{
	Use:   "mock",
	Short: "Manage fallback datasets",
	// No configuration or runtime needed.
	PersistentPreRunE: func(*cobra.Command, []string) error { return nil },
}

var mockGenerateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Write a fake dataset usable as MOCK_DATA_FILE",
	Args:  cobra.NoArgs,
	RunE:  mockGenerate,
}

func init() {
	mockGenerateCmd.Flags().IntVar(&genOpts.Users, "users", 5, "Number of users")
	mockGenerateCmd.Flags().IntVar(&genOpts.Posts, "posts", 20, "Number of posts")
	mockGenerateCmd.Flags().Int64Var(&genOpts.Seed, "seed", 0, "Seed for reproducible output")
	mockGenerateCmd.Flags().StringVarP(&genOut, "out", "o", "", "Output YAML file")
	_ = mockGenerateCmd.MarkFlagRequired("out")

	mockCmd.AddCommand(mockGenerateCmd)
	RootCmd.AddCommand(mockCmd)
}

func mockGenerate(cmd *cobra.Command, _ []string) error {
	ds := mockdata.Generate(genOpts)
	if err := ds.Write(genOut); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "✅ Wrote %d users and %d posts to %s\n",
		len(ds.Users), len(ds.Posts), color.New(color.Bold, color.FgHiGreen).Sprint(genOut))
	return nil
}
