package cli

import (
	"github.com/spf13/cobra"

	"github.com/mgpai22/captime/internal/logging"
)

var (
	verbose    bool
	configPath string
	logger     *logging.Logger
)

var rootCmd = &cobra.Command{
	Use:   "captime",
	Short: "Frame-accurate subtitles from word-level transcripts",
	Long: `Captime turns word-level transcripts (WhisperX JSON) into SRT, WebVTT
and iTunes Timed Text subtitles.

It repairs missing word timestamps, stitches transcripts of consecutive
clips onto one timeline, and closes small gaps between captions on exact
frame boundaries.`,
	SilenceUsage: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		logger = logging.NewLogger(verbose)
	},
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().
		BoolVarP(&verbose, "verbose", "v", false, "Enable verbose output")
	rootCmd.PersistentFlags().
		StringVar(&configPath, "config", "", "YAML config file with rendering defaults")
	rootCmd.PersistentFlags().StringP("output", "o", "", "Output file path (- for stdout)")
}
