package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mmynk/handicap/internal/models"
)

// roundFlags are the score fields shared by round add and round update.
type roundFlags struct {
	date   string
	holes  int
	rating float64
	slope  int
	score  int
	course string
}

func (f *roundFlags) register(c *cobra.Command, withHoles bool) {
	c.Flags().StringVarP(&f.date, "date", "d", "", "Date played, DD-MM-YYYY (required)")
	c.Flags().Float64Var(&f.rating, "rating", 0, "Course rating (required)")
	c.Flags().IntVar(&f.slope, "slope", 0, "Slope rating (required)")
	c.Flags().IntVar(&f.score, "score", 0, "Adjusted gross score (required)")
	c.Flags().StringVar(&f.course, "course", "", "Course name")
	if withHoles {
		c.Flags().IntVar(&f.holes, "holes", 18, "Holes played: 9 or 18")
	}
	for _, name := range []string{"date", "rating", "slope", "score"} {
		_ = c.MarkFlagRequired(name)
	}
}

func (f *roundFlags) round() (models.Round, error) {
	played, err := models.ParseDate(f.date)
	if err != nil {
		return models.Round{}, fmt.Errorf("invalid --date %q (expected DD-MM-YYYY): %w", f.date, err)
	}
	holes := f.holes
	if holes == 0 {
		holes = 18
	}
	return models.Round{
		Played:        played,
		Holes:         holes,
		CourseRating:  f.rating,
		Slope:         f.slope,
		AdjustedScore: f.score,
		Course:        f.course,
	}, nil
}

func roundCmd(a *app) *cobra.Command {
	c := &cobra.Command{
		Use:   "round",
		Short: "Record and correct rounds",
	}
	c.AddCommand(roundAddCmd(a), roundUpdateCmd(a), roundDeleteCmd(a), roundImportCmd(a))
	return c
}

func roundAddCmd(a *app) *cobra.Command {
	var playerID string
	var f roundFlags

	c := &cobra.Command{
		Use:   "add",
		Short: "Submit a round and update the handicap index",
		RunE: func(cmd *cobra.Command, _ []string) error {
			round, err := f.round()
			if err != nil {
				return err
			}
			svc, err := a.service()
			if err != nil {
				return err
			}
			res, err := svc.AddRound(cmd.Context(), playerID, round)
			if err != nil {
				return err
			}
			printRoundResult(cmd.OutOrStdout(), res)
			return nil
		},
	}

	c.Flags().StringVarP(&playerID, "player", "p", "", "Player ID (required)")
	_ = c.MarkFlagRequired("player")
	f.register(c, true)
	return c
}

func roundUpdateCmd(a *app) *cobra.Command {
	var playerID, roundID string
	var f roundFlags

	c := &cobra.Command{
		Use:   "update",
		Short: "Correct a recorded round",
		RunE: func(cmd *cobra.Command, _ []string) error {
			round, err := f.round()
			if err != nil {
				return err
			}
			round.ID = roundID
			svc, err := a.service()
			if err != nil {
				return err
			}
			res, err := svc.ReviseRound(cmd.Context(), playerID, round)
			if err != nil {
				return err
			}
			printRoundResult(cmd.OutOrStdout(), res)
			return nil
		},
	}

	c.Flags().StringVarP(&playerID, "player", "p", "", "Player ID (required)")
	c.Flags().StringVarP(&roundID, "round", "r", "", "Round ID (required)")
	_ = c.MarkFlagRequired("player")
	_ = c.MarkFlagRequired("round")
	f.register(c, false)
	return c
}

func roundDeleteCmd(a *app) *cobra.Command {
	var playerID, roundID string

	c := &cobra.Command{
		Use:   "delete",
		Short: "Delete a recorded round",
		RunE: func(cmd *cobra.Command, _ []string) error {
			svc, err := a.service()
			if err != nil {
				return err
			}
			res, err := svc.RemoveRound(cmd.Context(), playerID, roundID)
			if err != nil {
				return err
			}
			printRoundResult(cmd.OutOrStdout(), res)
			return nil
		},
	}

	c.Flags().StringVarP(&playerID, "player", "p", "", "Player ID (required)")
	c.Flags().StringVarP(&roundID, "round", "r", "", "Round ID (required)")
	_ = c.MarkFlagRequired("player")
	_ = c.MarkFlagRequired("round")
	return c
}

func roundImportCmd(a *app) *cobra.Command {
	var playerID, file string

	c := &cobra.Command{
		Use:   "import",
		Short: "Submit rounds from a YAML file in file order",
		RunE: func(cmd *cobra.Command, _ []string) error {
			rounds, err := loadImportFile(file)
			if err != nil {
				return err
			}
			svc, err := a.service()
			if err != nil {
				return err
			}

			results, err := svc.ImportRounds(cmd.Context(), playerID, rounds)
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Imported %d of %d rounds.\n", len(results), len(rounds))
			if err != nil {
				return err
			}
			if n := len(results); n > 0 {
				printSummary(out, results[n-1].Summary)
			}
			return nil
		},
	}

	c.Flags().StringVarP(&playerID, "player", "p", "", "Player ID (required)")
	c.Flags().StringVarP(&file, "file", "f", "", "YAML file of rounds (required)")
	_ = c.MarkFlagRequired("player")
	_ = c.MarkFlagRequired("file")
	return c
}
