package commands

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"songfetch/internal/core/lrc"
	"songfetch/internal/shared"
)

// NewLyricsCommand looks up lyrics without downloading anything
func NewLyricsCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "lyrics [artist] [title]",
		Short: "Search every lyrics provider for one song.",
		Args:  cobra.ExactArgs(2),
		RunE:  runLyricsCommand,
	}
	cmd.Flags().Int("duration", 0, "Track length in seconds, helps LRCLIB pick the right match")
	cmd.Flags().Bool("srt", false, "Print synced lyrics as SRT")
	cmd.Flags().StringP("output", "o", "", "Write to a file instead of stdout")
	return cmd
}

func runLyricsCommand(cmd *cobra.Command, args []string) error {
	_, sc, err := initConfigAndServices(cmd)
	if err != nil {
		return err
	}
	defer sc.Close()

	ctx, cancel := commandContext()
	defer cancel()

	duration, _ := cmd.Flags().GetInt("duration")
	text, ok := sc.Lyrics.Search(ctx, args[0], args[1], duration)
	if !ok {
		return fmt.Errorf("no lyrics found for %s - %s", args[0], args[1])
	}
	if asSRT, _ := cmd.Flags().GetBool("srt"); asSRT {
		if !lrc.IsSynced(text) {
			return fmt.Errorf("lyrics for %s - %s are not synced", args[0], args[1])
		}
		text = lrc.ToSRT(text)
	}
	out, _ := cmd.Flags().GetString("output")
	return emit(cmd, out, text)
}

// NewSrtCommand converts an .lrc file into .srt next to it
func NewSrtCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "srt [file.lrc]",
		Short: "Convert LRC lyrics to SRT subtitles.",
		Args:  cobra.ExactArgs(1),
		RunE:  runSrtCommand,
	}
	cmd.Flags().StringP("output", "o", "", "Output path (defaults to the input with .srt)")
	return cmd
}

func runSrtCommand(cmd *cobra.Command, args []string) error {
	raw, err := os.ReadFile(args[0])
	if err != nil {
		return err
	}
	srt := lrc.ToSRT(string(raw))
	if srt == "" {
		return fmt.Errorf("%s has no timed lines", args[0])
	}
	out, _ := cmd.Flags().GetString("output")
	if out == "" {
		out = shared.TrimExt(args[0]) + ".srt"
	}
	return emit(cmd, out, srt)
}

// emit writes text to out, or to stdout when out is empty
func emit(cmd *cobra.Command, out, text string) error {
	if out == "" {
		fmt.Fprintln(cmd.OutOrStdout(), text)
		return nil
	}
	if err := os.WriteFile(out, []byte(text), 0644); err != nil {
		return err
	}
	shared.ColorSuccess.Printf("✅ Wrote %s\n", out)
	return nil
}
