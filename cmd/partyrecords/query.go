package main

import "github.com/spf13/cobra"

func queryCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "query",
		Short: "Query the published records from the CLI",
	}
	cmd.AddCommand(queryMinigamesCmd())
	cmd.AddCommand(queryRecordsCmd())
	cmd.AddCommand(queryLeaderboardCmd())
	cmd.AddCommand(querySQLCmd())
	return cmd
}
