package cli

import (
	"github.com/spf13/cobra"
)

func playerCmd(a *app) *cobra.Command {
	c := &cobra.Command{
		Use:   "player",
		Short: "Manage players",
	}
	c.AddCommand(playerAddCmd(a), playerShowCmd(a))
	return c
}

func playerAddCmd(a *app) *cobra.Command {
	var name, email string

	c := &cobra.Command{
		Use:   "add",
		Short: "Register a player",
		RunE: func(cmd *cobra.Command, _ []string) error {
			svc, err := a.service()
			if err != nil {
				return err
			}
			player, err := svc.CreatePlayer(cmd.Context(), name, email)
			if err != nil {
				return err
			}
			printPlayer(cmd.OutOrStdout(), player)
			return nil
		},
	}

	c.Flags().StringVar(&name, "name", "", "Player name (required)")
	c.Flags().StringVar(&email, "email", "", "Contact email")
	_ = c.MarkFlagRequired("name")
	return c
}

func playerShowCmd(a *app) *cobra.Command {
	var playerID string

	c := &cobra.Command{
		Use:   "show",
		Short: "Show a player's handicap summary",
		RunE: func(cmd *cobra.Command, _ []string) error {
			svc, err := a.service()
			if err != nil {
				return err
			}
			player, err := svc.GetPlayer(cmd.Context(), playerID)
			if err != nil {
				return err
			}
			printPlayer(cmd.OutOrStdout(), player)
			return nil
		},
	}

	c.Flags().StringVarP(&playerID, "player", "p", "", "Player ID (required)")
	_ = c.MarkFlagRequired("player")
	return c
}
