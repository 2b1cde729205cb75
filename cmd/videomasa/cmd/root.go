package cmd

import (
	"os"

	"github.com/spf13/cobra"
	"videomasa/cmd/videomasa/cmd/clean"
	"videomasa/cmd/videomasa/cmd/export"
	"videomasa/cmd/videomasa/cmd/history"
	"videomasa/cmd/videomasa/cmd/serve"
	"videomasa/cmd/videomasa/cmd/transcribe"
	"videomasa/cmd/videomasa/cmd/version"
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "videomasa",
	Short: "Download and transcribe videos from a local web page",
	Long: `Download and transcribe videos from a local web page.

- Paste a URL or upload a file, then download it, transcribe it, or both
- yt-dlp fetches the media, whisper transcribes it, ffmpeg makes MP3s
- Files are deleted once every job is finished, unless you asked to keep them
- Running without a subcommand starts the web server`,
	TraverseChildren: true,
	RunE:             serve.Cmd.RunE,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.AddCommand(serve.Cmd)
	rootCmd.AddCommand(transcribe.Cmd)
	rootCmd.AddCommand(history.Cmd)
	rootCmd.AddCommand(export.Cmd)
	rootCmd.AddCommand(clean.Cmd)
	rootCmd.AddCommand(version.Cmd)

	rootCmd.PersistentFlags().BoolP("verbose", "V", false, "verbose output")
}
