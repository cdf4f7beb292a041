package main

import (
	"time"

	"github.com/spf13/cobra"

	"github.com/xenking/catalog-feed/internal/cli"
)

func newDoctorCmd(e *env) *cobra.Command {
	return &cobra.Command{
		Use:   "doctor",
		Short: "Check storage and catalog connectivity",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := e.open(cmd)
			if err != nil {
				return err
			}

			report := a.Checks().Run(cmd.Context())
			p := e.printer.Palette
			t := cli.NewTable()
			for _, res := range report {
				status, detail := p.Green("ok"), ""
				if !res.Healthy() {
					status, detail = p.Red("fail"), res.Err.Error()
				}
				t.AddRow(res.Name, status, res.Duration.Round(time.Millisecond).String(), detail)
			}
			if err := t.Render(cmd.OutOrStdout()); err != nil {
				return err
			}
			return report.Err()
		},
	}
}
