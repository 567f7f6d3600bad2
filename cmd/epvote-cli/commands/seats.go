package commands

import (
	"os"

	"epvote-monitor/lib/scrapers/hemicycle"
	"epvote-monitor/lib/serviceutil"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(seatsCmd)
}

var seatsCmd = &cobra.Command{
	Use:   "seats",
	Short: "Scrapes the hemicycle seating chart and prints member/seat pairs.",
	Run: func(cmd *cobra.Command, args []string) {
		seats, err := hemicycle.Scrape(cmd.Context(), hemicycle.NewRestyRenderer())
		if err != nil {
			serviceutil.Fatal("failed to scrape seating chart", err)
		}

		t := table.NewWriter()
		t.SetOutputMirror(os.Stdout)
		t.AppendHeader(table.Row{"MepId", "Seat"})
		for memberID, seat := range seats {
			t.AppendRow(table.Row{memberID, seat})
		}
		t.SetStyle(table.StyleRounded)
		t.Render()
	},
}
