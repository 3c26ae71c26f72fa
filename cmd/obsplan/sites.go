package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/pscicluna/obsplan/internal/ephem"
)

var sitesCmd = &cobra.Command{
	Use:   "sites",
	Short: "List the builtin observatory registry",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
		fmt.Fprintln(tw, "CODE\tNAME\tLAT\tLON\tHEIGHT\tTIMEZONE")
		for _, code := range ephem.SiteCodes() {
			s, _ := ephem.SiteByName(code)
			fmt.Fprintf(tw, "%s\t%s\t%.4f\t%.4f\t%.0f\t%s\n", s.Code, s.Name, s.LatDeg, s.LonDeg, s.HeightM, s.Timezone)
		}
		return tw.Flush()
	},
}

func init() {
	rootCmd.AddCommand(sitesCmd)
}
