package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

const version = "0.3.0"

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number",
	Long:  `Display the current version of the rnndash CLI.`,
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("rnndash version %s\n", version)
		fmt.Println("Paper-trading dashboard for RNN index predictions")
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
