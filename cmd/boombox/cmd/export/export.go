package export

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ian97531/boombox/cmd/boombox/cmd/common"
	"github.com/ian97531/boombox/internal/app"
	xlsxexport "github.com/ian97531/boombox/internal/app/converter/export"
)

var (
	episodeKey     string
	outputFilePath string
	startTime      float64
	limit          int
)

func init() {
	Cmd.Flags().StringVarP(&episodeKey, "episode", "e", "", "episode key, e.g. hello-internet_1530000000")
	Cmd.Flags().StringVarP(&outputFilePath, "outputFilePath", "o", "", "set outputFilePath")
	Cmd.Flags().Float64Var(&startTime, "start", 0, "skip statements ending before this many seconds")
	Cmd.Flags().IntVar(&limit, "limit", 100000, "maximum number of statements")

	Cmd.MarkFlagRequired("episode")
	Cmd.MarkFlagRequired("outputFilePath")
}

// Cmd represents the export command
var Cmd = &cobra.Command{
	Use:   "export",
	Short: "Export the stored statements of an episode to excel",
	Long: `Export the stored statements of an episode to excel

- One row per statement with its speaker, start and end time and text`,
	RunE: func(cmd *cobra.Command, args []string) error {
		dao, cleanup, err := app.InitializeRepository(common.ConfigPath())
		if err != nil {
			return err
		}
		defer cleanup()

		if _, err := dao.GetEpisode(cmd.Context(), episodeKey); err != nil {
			return err
		}
		statements, err := dao.GetStatements(cmd.Context(), episodeKey, startTime, limit)
		if err != nil {
			return err
		}

		if err := xlsxexport.StatementsToExcel(statements, outputFilePath); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "export finished, exported file path: %v\n", outputFilePath)
		return nil
	},
}
