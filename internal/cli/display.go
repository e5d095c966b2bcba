package cli

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/mmynk/handicap/internal/calculator"
	"github.com/mmynk/handicap/internal/models"
	"github.com/mmynk/handicap/internal/service"
)

func formatDate(t time.Time) string {
	return t.Format(models.DateLayout)
}

func formatIndex(v float64) string {
	return fmt.Sprintf("%.1f", v)
}

func printPlayer(w io.Writer, p *models.Player) {
	fmt.Fprintf(w, "Player: %s\n", p.Name)
	fmt.Fprintf(w, "ID:     %s\n", p.ID)
	if p.Email != "" {
		fmt.Fprintf(w, "Email:  %s\n", p.Email)
	}
	printSummary(w, p.Summary)
}

func printSummary(w io.Writer, s models.Summary) {
	if !s.Rated() {
		fmt.Fprintf(w, "No handicap index yet (at least %d rounds are needed).\n", calculator.RatedMinimum)
		return
	}
	fmt.Fprintf(w, "Handicap index: %s\n", formatIndex(*s.HandicapIndex))
	if s.Low != nil {
		fmt.Fprintf(w, "Low index:      %s (%s)\n", formatIndex(s.Low.Value), formatDate(s.Low.Date))
	}
}

func printRoundResult(w io.Writer, res *service.RoundResult) {
	switch res.Disposition {
	case calculator.Staged:
		fmt.Fprintln(w, "Nine-hole round saved. It will be combined with your next nine-hole round.")
	case calculator.Removed:
		fmt.Fprintf(w, "Round %s removed.\n", res.Round.ID)
	default:
		r := res.Round
		fmt.Fprintf(w, "Round %s (%s): %s on %s, differential %s\n",
			res.Disposition, r.ID, courseName(r), formatDate(r.Played), formatIndex(r.Differential))
	}

	if res.Discount > 0 {
		fmt.Fprintf(w, "Exceptional score reduction: -%s\n", formatIndex(res.Discount))
	}
	printSummary(w, res.Summary)
}

func courseName(r models.Round) string {
	if r.Course == "" {
		return "unnamed course"
	}
	return r.Course
}

func printRoundTable(w io.Writer, rounds []models.Round) {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "DATE\tCOURSE\tRATING\tSLOPE\tSCORE\tDIFF\tID")
	for _, r := range rounds {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%d\t%d\t%s\t%s\n",
			formatDate(r.Played), r.Course, formatIndex(r.CourseRating), r.Slope, r.AdjustedScore, formatIndex(r.Differential), r.ID)
	}
	tw.Flush()
}

func printPage(w io.Writer, page *models.RoundPage) {
	if len(page.Rounds) == 0 {
		fmt.Fprintln(w, "No rounds recorded.")
		return
	}
	printRoundTable(w, page.Rounds)
	fmt.Fprintf(w, "Page %d of %d (%d rounds): %s\n", page.Page, page.Pages, page.Total, pageLinks(page))
}

// pageLinks renders navigation like "1 [2] 3 4 … 12".
func pageLinks(page *models.RoundPage) string {
	parts := make([]string, 0, len(page.Links))
	for _, n := range page.Links {
		switch n {
		case 0:
			parts = append(parts, "…")
		case page.Page:
			parts = append(parts, fmt.Sprintf("[%d]", n))
		default:
			parts = append(parts, fmt.Sprint(n))
		}
	}
	return strings.Join(parts, " ")
}

func printCounting(w io.Writer, counting []calculator.CountingRound) {
	if len(counting) == 0 {
		fmt.Fprintf(w, "No counting rounds yet (at least %d rounds are needed).\n", calculator.RatedMinimum)
		return
	}
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "RANK\tDATE\tCOURSE\tDIFF")
	for _, c := range counting {
		fmt.Fprintf(tw, "%d/%d\t%s\t%s\t%s\n",
			c.Rank, c.WindowSize, formatDate(c.Round.Played), c.Round.Course, formatIndex(c.Round.Differential))
	}
	tw.Flush()
}
