package cmd

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/ian97531/boombox/cmd/boombox/cmd/common"
	"github.com/ian97531/boombox/cmd/boombox/cmd/config"
	"github.com/ian97531/boombox/cmd/boombox/cmd/export"
	"github.com/ian97531/boombox/cmd/boombox/cmd/merge"
	"github.com/ian97531/boombox/cmd/boombox/cmd/normalize"
	"github.com/ian97531/boombox/cmd/boombox/cmd/process"
	"github.com/ian97531/boombox/cmd/boombox/cmd/serve"
	"github.com/ian97531/boombox/cmd/boombox/cmd/statements"
	"github.com/ian97531/boombox/cmd/boombox/cmd/stitch"
	"github.com/ian97531/boombox/cmd/boombox/cmd/version"
	"github.com/ian97531/boombox/cmd/boombox/cmd/worker"
	envconfig "github.com/ian97531/boombox/internal/config"
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "boombox",
	Short: "Align, stitch and merge podcast transcripts from several speech-to-text providers",
	Long: `Align, stitch and merge podcast transcripts from several speech-to-text providers.
- Normalize raw AWS Transcribe and IBM Watson output into word items
- Stitch overlapping segments of one provider into a single transcript
- Merge the transcripts of both providers and group them into speaker statements`,
	TraverseChildren: true,
	SilenceUsage:     true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
// Interrupts cancel the command context.
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := rootCmd.ExecuteContext(ctx)
	stop()
	if err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.AddCommand(config.Cmd)
	rootCmd.AddCommand(normalize.Cmd)
	rootCmd.AddCommand(stitch.Cmd)
	rootCmd.AddCommand(merge.Cmd)
	rootCmd.AddCommand(statements.Cmd)
	rootCmd.AddCommand(process.Cmd)
	rootCmd.AddCommand(export.Cmd)
	rootCmd.AddCommand(serve.Cmd)
	rootCmd.AddCommand(worker.Cmd)
	rootCmd.AddCommand(version.Cmd)

	rootCmd.PersistentFlags().BoolVarP(&common.Verbose, "verbose", "V", false, "verbose output")
	rootCmd.PersistentFlags().StringVarP(&common.ConfigFile, "config", "c", "",
		"config file (default is $"+envconfig.ConfigPathEnv+" or config/boombox.yaml)")
}
