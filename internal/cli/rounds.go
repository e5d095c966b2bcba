package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mmynk/handicap/internal/calculator"
	"github.com/mmynk/handicap/internal/storage"
)

func roundsCmd(a *app) *cobra.Command {
	var playerID string
	var req storage.PageRequest

	c := &cobra.Command{
		Use:   "rounds",
		Short: "List a player's rounds by play date",
		RunE: func(cmd *cobra.Command, _ []string) error {
			svc, err := a.service()
			if err != nil {
				return err
			}
			page, err := svc.ScorePage(cmd.Context(), playerID, req)
			if err != nil {
				return err
			}
			printPage(cmd.OutOrStdout(), page)
			return nil
		},
	}

	c.Flags().StringVarP(&playerID, "player", "p", "", "Player ID (required)")
	c.Flags().IntVar(&req.Page, "page", 1, "Page number")
	c.Flags().IntVar(&req.PerPage, "per-page", 0, "Rounds per page (default from config)")
	c.Flags().BoolVar(&req.Ascending, "asc", false, "List oldest rounds first")
	_ = c.MarkFlagRequired("player")
	return c
}

func indexCmd(a *app) *cobra.Command {
	var playerID string

	c := &cobra.Command{
		Use:   "index",
		Short: "Recalculate the handicap index from stored rounds",
		RunE: func(cmd *cobra.Command, _ []string) error {
			svc, err := a.service()
			if err != nil {
				return err
			}
			res, err := svc.HandicapIndex(cmd.Context(), playerID)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if !res.Rated {
				fmt.Fprintf(out, "No handicap index yet (at least %d rounds are needed).\n", calculator.RatedMinimum)
				return nil
			}
			fmt.Fprintf(out, "Handicap index: %s\n", formatIndex(res.Index))
			if res.Low != nil {
				fmt.Fprintf(out, "Low index:      %s (%s)\n", formatIndex(res.Low.Value), formatDate(res.Low.Date))
			}
			fmt.Fprintf(out, "Counting rounds: %d\n", len(res.Counting))
			return nil
		},
	}

	c.Flags().StringVarP(&playerID, "player", "p", "", "Player ID (required)")
	_ = c.MarkFlagRequired("player")
	return c
}

func countingCmd(a *app) *cobra.Command {
	var playerID string

	c := &cobra.Command{
		Use:   "counting",
		Short: "Show the rounds counting toward the index",
		RunE: func(cmd *cobra.Command, _ []string) error {
			svc, err := a.service()
			if err != nil {
				return err
			}
			counting, err := svc.CountingRounds(cmd.Context(), playerID)
			if err != nil {
				return err
			}
			printCounting(cmd.OutOrStdout(), counting)
			return nil
		},
	}

	c.Flags().StringVarP(&playerID, "player", "p", "", "Player ID (required)")
	_ = c.MarkFlagRequired("player")
	return c
}
