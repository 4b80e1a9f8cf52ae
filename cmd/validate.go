package main

import (
	"fmt"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"cup_controller/internal/service"
)

func validateCmd() *cobra.Command {
	var stepUnit time.Duration

	cmd := &cobra.Command{
		Use:   "validate <program.yaml>",
		Short: "Check a cycle program file without touching the relay",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			p, err := loadProgram(args[0])
			if err != nil {
				fmt.Fprintf(out, "%s %v\n", color.New(color.FgRed).Sprint("INVALID"), err)
				return err
			}
			fmt.Fprintf(out, "%s %s: %d steps x %d, %d commands, %s\n",
				color.New(color.FgGreen).Sprint("OK"),
				p.Name,
				len(p.Steps),
				p.Repeat,
				len(p.Steps)*p.Repeat,
				service.ProgramDuration(p, stepUnit),
			)
			return nil
		},
	}
	cmd.Flags().DurationVar(&stepUnit, "step-unit", service.DefaultStepUnit, "wall-clock length of one step minute")
	return cmd
}
