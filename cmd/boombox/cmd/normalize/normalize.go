package normalize

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/ian97531/boombox/cmd/boombox/cmd/common"
	"github.com/ian97531/boombox/internal/app"
	appnormalize "github.com/ian97531/boombox/internal/app/normalize"
)

var (
	provider   string
	inputPath  string
	segmentKey string
	outputPath string
)

func init() {
	Cmd.Flags().StringVarP(&provider, "provider", "p", "", "provider that produced the payload (aws or watson)")
	Cmd.Flags().StringVarP(&inputPath, "input", "i", "", "raw provider JSON file")
	Cmd.Flags().StringVarP(&segmentKey, "segment", "s", "", "stored segment key to normalize, e.g. podcast/1530000000_episode/0.json")
	Cmd.Flags().StringVarP(&outputPath, "output", "o", "", "output file for normalized items (default stdout)")

	Cmd.MarkFlagRequired("provider")
	Cmd.MarkFlagsOneRequired("input", "segment")
	Cmd.MarkFlagsMutuallyExclusive("input", "segment")
}

// Cmd represents the normalize command
var Cmd = &cobra.Command{
	Use:   "normalize",
	Short: "Convert raw provider output into transcript items",
	Long: `Convert raw provider output into transcript items

- With --input, a local AWS Transcribe or IBM Watson JSON file is normalized and printed
- With --segment, the stored raw segment is normalized and written back to the object store`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if segmentKey != "" {
			return normalizeStored(cmd)
		}

		data, err := os.ReadFile(inputPath)
		if err != nil {
			return fmt.Errorf("failed to read %s: %w", inputPath, err)
		}

		normalizer, err := appnormalize.NewRegistry().Get(provider)
		if err != nil {
			return err
		}
		result, err := normalizer.Normalize(data)
		if err != nil {
			return err
		}

		common.Logger().Info("Normalized payload",
			zap.String("provider", provider),
			zap.Int("words", result.Stats.Words),
			zap.Int("punctuation", result.Stats.Punctuation),
		)
		return common.WriteJSON(outputPath, result.Items)
	},
}

func normalizeStored(cmd *cobra.Command) error {
	application, cleanup, err := app.InitializeApplication(common.ConfigPath())
	if err != nil {
		return err
	}
	defer cleanup()

	result, err := application.Processor.NormalizeSegment(cmd.Context(), provider, segmentKey)
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "normalized %s/%s: %d words, %d punctuation\n",
		provider, segmentKey, result.Stats.Words, result.Stats.Punctuation)
	return nil
}
