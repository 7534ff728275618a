package process

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/ian97531/boombox/cmd/boombox/cmd/common"
	"github.com/ian97531/boombox/internal/app"
	"github.com/ian97531/boombox/internal/app/logging"
	"github.com/ian97531/boombox/internal/app/model"
	"github.com/ian97531/boombox/internal/app/pipeline"
	temporalcommon "github.com/ian97531/boombox/internal/app/temporal/pkg/common"
	"github.com/ian97531/boombox/internal/app/temporal/workflows"
)

var (
	episode      model.EpisodeRef
	title        string
	showProgress bool
	useWorkflow  bool
	wait         bool
)

func init() {
	Cmd.Flags().StringVarP(&episode.PodcastSlug, "podcast", "p", "", "podcast slug")
	Cmd.Flags().StringVarP(&episode.EpisodeSlug, "episode", "e", "", "episode slug")
	Cmd.Flags().Int64VarP(&episode.PublishTimestamp, "timestamp", "t", 0, "episode publish time as unix seconds")
	Cmd.Flags().StringVar(&title, "title", "", "episode title")
	Cmd.Flags().BoolVar(&showProgress, "progress", false, "show progress bars even when not on a terminal")
	Cmd.Flags().BoolVar(&useWorkflow, "workflow", false, "start a Temporal workflow instead of processing in this process")
	Cmd.Flags().BoolVar(&wait, "wait", false, "with --workflow, wait for the workflow to finish")

	Cmd.MarkFlagRequired("podcast")
	Cmd.MarkFlagRequired("episode")
	Cmd.MarkFlagRequired("timestamp")
}

// Cmd represents the process command
var Cmd = &cobra.Command{
	Use:   "process",
	Short: "Run every stage for an episode whose raw segments are stored",
	Long: `Run every stage for an episode whose raw segments are stored

- Normalize each raw segment of both providers
- Stitch the segments of each provider and merge the two transcripts
- Store the speaker statements of the merged transcript`,
	RunE: func(cmd *cobra.Command, args []string) error {
		application, cleanup, err := app.InitializeApplication(common.ConfigPath())
		if err != nil {
			return err
		}
		defer cleanup()

		ctx := cmd.Context()
		logger := application.Logger.With(logging.Episode(episode.Key(), "")...)

		segments, err := application.Processor.DiscoverSegments(ctx, episode)
		if err != nil {
			return err
		}
		for provider, keys := range segments {
			logger.Info("Discovered segments", zap.String("provider", provider), zap.Int("segments", len(keys)))
		}

		if useWorkflow {
			return startWorkflow(cmd, application, segments)
		}

		if err := application.Processor.Register(ctx, episode, title); err != nil {
			return err
		}

		progress := pipeline.NewProgressManager(pipeline.ProgressConfig{
			Enabled: pipeline.ShouldShowProgress(showProgress),
			Writer:  os.Stderr,
		})
		statements, err := application.Processor.WithProgress(progress).ProcessEpisode(ctx, episode, segments)
		progress.Wait()
		if err != nil {
			return err
		}

		fmt.Fprintf(cmd.OutOrStdout(), "processed %s: %d statements\n", episode.Key(), len(statements))
		return nil
	},
}

func startWorkflow(cmd *cobra.Command, application *app.Application, segments map[string][]string) error {
	cfg := application.Config.Temporal
	c, err := temporalcommon.NewTemporalClient(cfg, application.Logger)
	if err != nil {
		return err
	}
	defer c.Close()

	run, err := temporalcommon.StartEpisodeWorkflow(cmd.Context(), c, cfg, workflows.EpisodeWorkflowRequest{
		Episode:  episode,
		Title:    title,
		Segments: segments,
	})
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "started workflow %s (run %s)\n", run.GetID(), run.GetRunID())

	if !wait {
		return nil
	}

	var result workflows.EpisodeWorkflowResult
	if err := run.Get(cmd.Context(), &result); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "processed %s: %d items, %d statements in %s\n",
		result.EpisodeKey, result.Items, result.Statements, result.ProcessingTime)
	return nil
}
