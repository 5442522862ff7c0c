package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mgpai22/captime/internal/subtitle"
)

var validateCmd = &cobra.Command{
	Use:   "validate [file.srt...]",
	Short: "Check that SRT files parse and have well-ordered cues",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		var failed int
		for _, path := range args {
			fileLogger := logger.With("path", path)
			if err := subtitle.ValidateSRTFile(path); err != nil {
				failed++
				fileLogger.Errorw("Invalid subtitle file", "error", err)
				continue
			}
			fileLogger.Debugw("Subtitle file is valid")
			fmt.Fprintf(cmd.OutOrStdout(), "%s: ok\n", path)
		}
		if failed > 0 {
			return fmt.Errorf("%d of %d files failed validation", failed, len(args))
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(validateCmd)
}
