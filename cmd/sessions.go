package cmd

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/agendex/agendex/app"
	"github.com/agendex/agendex/config"
)

var sessionsCmd = &cobra.Command{
	Use:   "sessions",
	Short: "Print the candidate session catalog without solving",
	RunE:  listSessions,
}

func init() {
	rootCmd.AddCommand(sessionsCmd)
}

func listSessions(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(cfgPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	svc, err := app.New(cfg)
	if err != nil {
		return err
	}
	defer svc.Close()

	catalog, err := svc.Catalog()
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tDATE\tSTART\tEND\tCAPACITY\tPERIOD")
	for _, s := range catalog {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%d\t%s\n",
			s.ID, s.Date.Format("2006-01-02"), s.Start.Format("15:04"), s.End.Format("15:04"), s.Capacity, s.Period)
	}
	return w.Flush()
}
