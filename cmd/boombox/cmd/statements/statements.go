package statements

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ian97531/boombox/cmd/boombox/cmd/common"
	"github.com/ian97531/boombox/internal/app/converter/export"
	"github.com/ian97531/boombox/internal/app/statement"
)

var (
	inputPath  string
	episodeKey string
	outputPath string
	xlsxPath   string
)

func init() {
	Cmd.Flags().StringVarP(&inputPath, "input", "i", "", "merged transcript items")
	Cmd.Flags().StringVarP(&episodeKey, "episode", "e", "", "episode key, e.g. hello-internet_1530000000")
	Cmd.Flags().StringVarP(&outputPath, "output", "o", "", "output file for the statements (default stdout)")
	Cmd.Flags().StringVar(&xlsxPath, "xlsx", "", "also write the statements to this Excel file")

	Cmd.MarkFlagRequired("input")
	Cmd.MarkFlagRequired("episode")
}

// Cmd represents the statements command
var Cmd = &cobra.Command{
	Use:   "statements",
	Short: "Group a transcript into speaker statements",
	Long: `Group a transcript into speaker statements

- Sentences end at terminating punctuation
- Consecutive sentences by the same speaker form one statement`,
	RunE: func(cmd *cobra.Command, args []string) error {
		items, err := common.ReadItems(inputPath)
		if err != nil {
			return err
		}

		built := statement.Build(episodeKey, items)
		if xlsxPath != "" {
			if err := export.StatementsToExcel(built, xlsxPath); err != nil {
				return err
			}
			fmt.Fprintf(cmd.ErrOrStderr(), "exported %d statements to %s\n", len(built), xlsxPath)
		}
		return common.WriteJSON(outputPath, built)
	},
}
