// voxhire
//
// An automated voice interview service. It runs the full loop per room:
// intro, questions, one-shot follow-ups, conclusion and a hiring report.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var version = "dev"

var rootCmd = &cobra.Command{
	Use:   "voxhire",
	Short: "voxhire - Automated Voice Interviews",
	Long: `voxhire runs automated technical interviews over voice.

  voxhire serve    Start the interview server`,
	Version: version,
}

func init() {
	rootCmd.AddCommand(serveCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
