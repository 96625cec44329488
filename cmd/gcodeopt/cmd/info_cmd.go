package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"gcodeopt/internal/document"
	"gcodeopt/pkg/gcode"
)

// infoCmd prints a program's tool metadata without rewriting anything.
var infoCmd = &cobra.Command{
	Use:   "info [program.nc]",
	Short: "Show the tool metadata a program declares",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		buf, err := document.LoadFile(args[0])
		if err != nil {
			return err
		}
		tool := gcode.FindToolInfo(buf)
		if tool == nil {
			fmt.Println("no tool comment found")
			return nil
		}
		fmt.Printf("Tool: %s\n", tool)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(infoCmd)
}
