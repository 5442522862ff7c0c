package cli

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/mgpai22/captime/internal/audio"
	"github.com/mgpai22/captime/internal/video"
)

var probeCmd = &cobra.Command{
	Use:   "probe [media_file...]",
	Short: "Print clip lengths and frame rates",
	Long: `Print each file's length in seconds and, for video, its frame rate and
the integer rate used for ITT timecodes.

The last line is the comma separated list of lengths, ready for
convert --durations.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runProbe,
}

func init() {
	rootCmd.AddCommand(probeCmd)
}

func runProbe(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	out := cmd.OutOrStdout()

	durations, err := audio.ClipDurations(ctx, args)
	if err != nil {
		return err
	}

	processor := video.NewProcessor()
	lengths := make([]string, len(args))
	for i, path := range args {
		lengths[i] = strconv.FormatFloat(durations[i], 'f', -1, 64)
		if !audio.IsVideoFile(path) {
			fmt.Fprintf(out, "%s: %ss\n", path, lengths[i])
			continue
		}

		info, err := processor.GetInfo(ctx, path)
		if err != nil {
			return err
		}
		logger.Debugw("Probed video",
			"path", path,
			"codec", info.Codec,
			"width", info.Width,
			"height", info.Height,
			"has_audio", info.HasAudio,
		)
		fmt.Fprintf(out, "%s: %ss, %.3f fps (timecode rate %d)\n",
			path, lengths[i], info.FrameRate, info.TimecodeRate())
	}
	fmt.Fprintln(out, strings.Join(lengths, ","))
	return nil
}
