package stitch

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/ian97531/boombox/cmd/boombox/cmd/common"
	"github.com/ian97531/boombox/internal/app/transcript"
)

var (
	segmentArgs []string
	outputPath  string
	engine      common.EngineFlags
)

func init() {
	Cmd.Flags().StringArrayVarP(&segmentArgs, "segment", "s", nil,
		"normalized segment as path=offset, offset in seconds (repeatable)")
	Cmd.Flags().StringVarP(&outputPath, "output", "o", "", "output file for the stitched items (default stdout)")
	engine.Register(Cmd)

	Cmd.MarkFlagRequired("segment")
}

// Cmd represents the stitch command
var Cmd = &cobra.Command{
	Use:   "stitch",
	Short: "Join overlapping transcript segments into one transcript",
	Long: `Join overlapping transcript segments into one transcript

- Each segment is a JSON array of normalized items with times relative to its offset
- Segments are ordered by offset and joined where their overlap aligns`,
	Example: `  boombox stitch -s part0.json=0 -s part1.json=1800 -o episode.json`,
	RunE: func(cmd *cobra.Command, args []string) error {
		opts, err := engine.Options()
		if err != nil {
			return err
		}

		segments := make([]*transcript.Transcript, 0, len(segmentArgs))
		for _, arg := range segmentArgs {
			path, offset, err := ParseSegment(arg)
			if err != nil {
				return err
			}
			items, err := common.ReadItems(path)
			if err != nil {
				return err
			}
			segments = append(segments, transcript.New(items, offset))
		}

		stitched, seams, err := transcript.StitchSeams(segments, opts)
		if err != nil {
			return err
		}

		logger := common.Logger()
		for _, seam := range seams {
			logger.Info("Stitched seam",
				zap.Int("left_segment", seam.LeftSegment),
				zap.Int("right_segment", seam.RightSegment),
				zap.Float64("drift", seam.Drift),
				zap.Bool("relabelled", !seam.Speakers.IsIdentity()),
			)
		}
		return common.WriteJSON(outputPath, stitched.Items())
	},
}

// ParseSegment splits path=offset. A missing offset means zero.
func ParseSegment(arg string) (string, float64, error) {
	i := strings.LastIndex(arg, "=")
	if i < 0 {
		return arg, 0, nil
	}
	offset, err := strconv.ParseFloat(arg[i+1:], 64)
	if err != nil || offset < 0 {
		return "", 0, fmt.Errorf("invalid segment offset in %q", arg)
	}
	return arg[:i], offset, nil
}
