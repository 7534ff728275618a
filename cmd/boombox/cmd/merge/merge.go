package merge

import (
	"github.com/spf13/cobra"

	"github.com/ian97531/boombox/cmd/boombox/cmd/common"
	"github.com/ian97531/boombox/internal/app/transcript"
)

var (
	leftPath   string
	rightPath  string
	outputPath string
	engine     common.EngineFlags
)

func init() {
	Cmd.Flags().StringVarP(&leftPath, "left", "l", "", "items of the preferred provider")
	Cmd.Flags().StringVarP(&rightPath, "right", "r", "", "items of the other provider")
	Cmd.Flags().StringVarP(&outputPath, "output", "o", "", "output file for the merged items (default stdout)")
	engine.Register(Cmd)

	Cmd.MarkFlagRequired("left")
	Cmd.MarkFlagRequired("right")
}

// Cmd represents the merge command
var Cmd = &cobra.Command{
	Use:   "merge",
	Short: "Merge two transcripts of the same audio into one",
	Long: `Merge two transcripts of the same audio into one

- Matching words are kept as they are
- Where the transcripts disagree, the window with the higher average confidence wins
- Speakers of the result follow the left transcript`,
	RunE: func(cmd *cobra.Command, args []string) error {
		opts, err := engine.Options()
		if err != nil {
			return err
		}

		left, err := common.ReadItems(leftPath)
		if err != nil {
			return err
		}
		right, err := common.ReadItems(rightPath)
		if err != nil {
			return err
		}

		merged, err := transcript.Merge(transcript.New(left, 0), transcript.New(right, 0), opts)
		if err != nil {
			return err
		}
		return common.WriteJSON(outputPath, merged.Items())
	},
}
