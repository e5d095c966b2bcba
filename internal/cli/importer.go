package cli

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/mmynk/handicap/internal/models"
)

// importFile is the YAML layout accepted by round import:
//
//	rounds:
//	  - date: 01-03-2024
//	    holes: 18
//	    rating: 71.2
//	    slope: 128
//	    score: 88
//	    course: Newbattle
type importFile struct {
	Rounds []importRound `yaml:"rounds"`
}

type importRound struct {
	Date   string  `yaml:"date"`
	Holes  int     `yaml:"holes"`
	Rating float64 `yaml:"rating"`
	Slope  int     `yaml:"slope"`
	Score  int     `yaml:"score"`
	Course string  `yaml:"course"`
}

func loadImportFile(path string) ([]models.Round, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read import file: %w", err)
	}
	return parseImport(data)
}

func parseImport(data []byte) ([]models.Round, error) {
	var f importFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("failed to parse import file: %w", err)
	}

	rounds := make([]models.Round, 0, len(f.Rounds))
	for i, r := range f.Rounds {
		played, err := models.ParseDate(r.Date)
		if err != nil {
			return nil, fmt.Errorf("round %d: invalid date %q: %w", i+1, r.Date, err)
		}
		holes := r.Holes
		if holes == 0 {
			holes = 18
		}
		rounds = append(rounds, models.Round{
			Played:        played,
			Holes:         holes,
			CourseRating:  r.Rating,
			Slope:         r.Slope,
			AdjustedScore: r.Score,
			Course:        r.Course,
		})
	}
	return rounds, nil
}
