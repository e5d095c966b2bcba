package service

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"math"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mmynk/handicap/internal/calculator"
	"github.com/mmynk/handicap/internal/metrics"
	"github.com/mmynk/handicap/internal/models"
	"github.com/mmynk/handicap/internal/storage"
	"github.com/mmynk/handicap/internal/storage/sqlstore"
)

var start = time.Date(2024, time.March, 1, 0, 0, 0, 0, time.UTC)

// setupTestService creates a service backed by a fresh SQLite database.
func setupTestService(t *testing.T, opts ...Option) (*ScoringService, storage.Store) {
	t.Helper()
	store, err := sqlstore.NewSQLite(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return NewScoringService(store, opts...), store
}

func newPlayer(t *testing.T, svc *ScoringService) string {
	t.Helper()
	player, err := svc.CreatePlayer(context.Background(), "Tom", "")
	require.NoError(t, err)
	return player.ID
}

// eighteen is an 18-hole round on a standard-slope course whose differential
// equals the strokes over par 72.
func eighteen(day int, over int) models.Round {
	return models.Round{
		Played:        start.AddDate(0, 0, day),
		Holes:         18,
		CourseRating:  72,
		Slope:         113,
		AdjustedScore: 72 + over,
		Course:        "Newbattle",
	}
}

func nineHoles(day int, rating float64, slope, score int, course string) models.Round {
	return models.Round{
		Played:        start.AddDate(0, 0, day),
		Holes:         9,
		CourseRating:  rating,
		Slope:         slope,
		AdjustedScore: score,
		Course:        course,
	}
}

func addRounds(t *testing.T, svc *ScoringService, playerID string, rounds ...models.Round) *RoundResult {
	t.Helper()
	var last *RoundResult
	for _, r := range rounds {
		res, err := svc.AddRound(context.Background(), playerID, r)
		require.NoError(t, err)
		last = res
	}
	return last
}

func TestCreatePlayer(t *testing.T) {
	svc, _ := setupTestService(t)
	ctx := context.Background()

	player, err := svc.CreatePlayer(ctx, "  Ann  ", "ann@example.com")
	require.NoError(t, err)
	assert.Equal(t, "Ann", player.Name)

	got, err := svc.GetPlayer(ctx, player.ID)
	require.NoError(t, err)
	assert.Equal(t, "ann@example.com", got.Email)
	assert.False(t, got.Summary.Rated())

	_, err = svc.CreatePlayer(ctx, " ", "")
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestAddRoundValidation(t *testing.T) {
	svc, _ := setupTestService(t)
	ctx := context.Background()
	playerID := newPlayer(t, svc)

	bad := []models.Round{
		{Holes: 18, CourseRating: 72, Slope: 113, AdjustedScore: 80},
		func() models.Round { r := eighteen(0, 5); r.Slope = 0; return r }(),
		func() models.Round { r := eighteen(0, 5); r.CourseRating = 0; return r }(),
		func() models.Round { r := eighteen(0, 5); r.AdjustedScore = -1; return r }(),
	}
	for i, r := range bad {
		_, err := svc.AddRound(ctx, playerID, r)
		assert.ErrorIs(t, err, ErrInvalidInput, "case %d", i)
	}

	r := eighteen(0, 5)
	r.Holes = 12
	_, err := svc.AddRound(ctx, playerID, r)
	assert.ErrorIs(t, err, calculator.ErrUnsupportedHoles)

	_, err = svc.AddRound(ctx, "missing", eighteen(0, 5))
	assert.ErrorIs(t, err, storage.ErrNotFound)
}

func TestAddRoundSmallSample(t *testing.T) {
	svc, _ := setupTestService(t)
	ctx := context.Background()
	playerID := newPlayer(t, svc)

	res := addRounds(t, svc, playerID, eighteen(0, 20), eighteen(1, 14))
	assert.False(t, res.Rated)
	assert.Equal(t, calculator.Recorded, res.Disposition)

	// Three rounds: best differential 12 minus 2.
	res = addRounds(t, svc, playerID, eighteen(2, 12))
	require.True(t, res.Rated)
	assert.Equal(t, 10.0, res.Index)

	player, err := svc.GetPlayer(ctx, playerID)
	require.NoError(t, err)
	require.NotNil(t, player.Summary.HandicapIndex)
	assert.Equal(t, 10.0, *player.Summary.HandicapIndex)
	assert.Nil(t, player.Summary.Low)

	// Four rounds: best differential 12 minus 1.
	res = addRounds(t, svc, playerID, eighteen(3, 16))
	assert.Equal(t, 11.0, res.Index)

	// Five rounds: no adjustment.
	res = addRounds(t, svc, playerID, eighteen(4, 18))
	assert.Equal(t, 12.0, res.Index)
}

func TestNineHoleMerge(t *testing.T) {
	svc, store := setupTestService(t)
	ctx := context.Background()
	playerID := newPlayer(t, svc)

	res, err := svc.AddRound(ctx, playerID, nineHoles(0, 34.0, 120, 44, "Front"))
	require.NoError(t, err)
	assert.Equal(t, calculator.Staged, res.Disposition)
	assert.False(t, res.Rated)

	rec, err := store.LoadRecord(ctx, playerID)
	require.NoError(t, err)
	assert.IsType(t, calculator.PendingNine{}, rec.Pending)
	assert.Empty(t, rec.Rounds)
	assert.Empty(t, rec.History)

	res, err = svc.AddRound(ctx, playerID, nineHoles(1, 35.5, 124, 46, "Back"))
	require.NoError(t, err)
	assert.Equal(t, calculator.Merged, res.Disposition)

	rec, err = store.LoadRecord(ctx, playerID)
	require.NoError(t, err)
	assert.Equal(t, calculator.NoPending{}, rec.Pending)
	require.Len(t, rec.Rounds, 1)

	merged := rec.Rounds[0]
	assert.Equal(t, 18, merged.Holes)
	assert.Equal(t, 69.5, merged.CourseRating)
	assert.Equal(t, 122, merged.Slope)
	assert.Equal(t, 90, merged.AdjustedScore)
	assert.InDelta(t, 19.0, merged.Differential, 0.05)
	assert.True(t, merged.Played.Equal(start.AddDate(0, 0, 1)))
	assert.Equal(t, "Front 9: Front, back 9: Back.", merged.Course)
}

func TestNineHoleMergeAfterRating(t *testing.T) {
	var logs bytes.Buffer
	prev := slog.Default()
	slog.SetDefault(slog.New(slog.NewJSONHandler(&logs, nil)))
	t.Cleanup(func() { slog.SetDefault(prev) })

	svc, store := setupTestService(t)
	ctx := context.Background()
	playerID := newPlayer(t, svc)

	addRounds(t, svc, playerID, nineHoles(0, 34.0, 120, 44, "Front"))
	addRounds(t, svc, playerID, eighteen(1, 10), eighteen(2, 12), eighteen(3, 14))
	assert.NotContains(t, logs.String(), `"level":"WARN"`)

	// The staged nine still merges once three rounds are on record.
	res := addRounds(t, svc, playerID, nineHoles(4, 35.5, 124, 46, "Back"))
	assert.Equal(t, calculator.Merged, res.Disposition)

	rec, err := store.LoadRecord(ctx, playerID)
	require.NoError(t, err)
	assert.Equal(t, calculator.NoPending{}, rec.Pending)
	assert.Len(t, rec.Rounds, 4)

	out := logs.String()
	assert.Contains(t, out, `"level":"WARN"`)
	assert.Contains(t, out, "Merged a nine-hole round staged before the rating minimum")
	assert.Contains(t, out, `"prior_rounds":3`)
}

func TestNineHoleInflation(t *testing.T) {
	svc, store := setupTestService(t)
	ctx := context.Background()
	playerID := newPlayer(t, svc)

	addRounds(t, svc, playerID, eighteen(0, 10), eighteen(1, 12), eighteen(2, 14))
	res, err := svc.AddRound(ctx, playerID, nineHoles(3, 36, 113, 40, "Short"))
	require.NoError(t, err)
	assert.Equal(t, calculator.Inflated, res.Disposition)

	rec, err := store.LoadRecord(ctx, playerID)
	require.NoError(t, err)
	require.Len(t, rec.Rounds, 4)
	inflated := rec.Rounds[3]
	assert.Equal(t, 72.0, inflated.CourseRating)
	assert.Equal(t, 81, inflated.AdjustedScore)
	assert.Equal(t, 9.0, inflated.Differential)
	assert.Equal(t, "9 holes converted to 18: Short.", inflated.Course)
	assert.Equal(t, calculator.NoPending{}, rec.Pending)
}

func TestRecomputeMatchesStoredIndex(t *testing.T) {
	svc, _ := setupTestService(t)
	ctx := context.Background()
	playerID := newPlayer(t, svc)

	overs := []int{18, 11, 23, 15, 9, 14, 20, 16, 12, 19}
	var last *RoundResult
	for i, over := range overs {
		last = addRounds(t, svc, playerID, eighteen(i, over))
	}

	res, err := svc.HandicapIndex(ctx, playerID)
	require.NoError(t, err)
	require.True(t, res.Rated)
	assert.Equal(t, last.Index, res.Index)

	player, err := svc.GetPlayer(ctx, playerID)
	require.NoError(t, err)
	assert.Equal(t, res.Index, *player.Summary.HandicapIndex)
}

func TestLowIndexEstablishedAtTwenty(t *testing.T) {
	svc, _ := setupTestService(t)
	ctx := context.Background()
	playerID := newPlayer(t, svc)

	var last *RoundResult
	for i := 0; i < 20; i++ {
		last = addRounds(t, svc, playerID, eighteen(i, 10+i%5))
	}

	assert.Equal(t, calculator.LowEstablished, last.LowReset)
	require.NotNil(t, last.Summary.Low)
	assert.Equal(t, last.Index, last.Summary.Low.Value)
	assert.True(t, last.Summary.Low.Date.Equal(start.AddDate(0, 0, 19)))

	player, err := svc.GetPlayer(ctx, playerID)
	require.NoError(t, err)
	require.NotNil(t, player.Summary.Low)
	assert.Equal(t, last.Index, player.Summary.Low.Value)
	assert.True(t, player.Summary.Low.Date.Equal(start.AddDate(0, 0, 19)))
}

func TestCapsAfterTwenty(t *testing.T) {
	svc, _ := setupTestService(t)
	playerID := newPlayer(t, svc)

	for i := 0; i < 20; i++ {
		addRounds(t, svc, playerID, eighteen(i, 10))
	}
	var last *RoundResult
	for i := 20; i < 40; i++ {
		last = addRounds(t, svc, playerID, eighteen(i, 30))
		require.NotNil(t, last.Summary.Low)
		assert.LessOrEqual(t, last.Index, last.Summary.Low.Value+5)
	}
	// Hard cap at low 8.0 + 5, less the two-stroke reduction for the round.
	assert.Equal(t, 11.0, last.Index)
	assert.Equal(t, 2.0, last.Discount)

	res, err := svc.HandicapIndex(context.Background(), playerID)
	require.NoError(t, err)
	assert.Equal(t, 13.0, res.Index)
}

func TestExceptionalScoreDiscount(t *testing.T) {
	tests := []struct {
		name     string
		over     int
		discount float64
	}{
		{name: "below threshold", over: 6, discount: 0},
		{name: "seven strokes", over: 7, discount: 1},
		{name: "ten strokes", over: 10, discount: 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, _ := setupTestService(t)
			playerID := newPlayer(t, svc)

			// Twenty rounds at differential 0; the new round is the only
			// non-zero differential and never counts, so the index stays 0.
			for i := 0; i < 20; i++ {
				addRounds(t, svc, playerID, eighteen(i, 0))
			}
			res := addRounds(t, svc, playerID, eighteen(20, tt.over))
			assert.Equal(t, tt.discount, res.Discount)
			assert.Equal(t, -tt.discount, res.Index)
		})
	}
}

func TestHistoryPruning(t *testing.T) {
	svc, store := setupTestService(t)
	ctx := context.Background()
	playerID := newPlayer(t, svc)

	// Rounds every four weeks across two years.
	var lastPlayed time.Time
	for i := 0; i < 26; i++ {
		r := eighteen(i*28, 10+i%4)
		addRounds(t, svc, playerID, r)
		lastPlayed = r.Played
	}

	rec, err := store.LoadRecord(ctx, playerID)
	require.NoError(t, err)
	require.NotEmpty(t, rec.History)
	cutoff := lastPlayed.Add(-calculator.HistoryWindow)
	for _, e := range rec.History {
		assert.False(t, e.Date.Before(cutoff), "entry %s older than window", e.Date.Format(time.DateOnly))
	}
}

func TestReviseRound(t *testing.T) {
	svc, store := setupTestService(t)
	ctx := context.Background()
	playerID := newPlayer(t, svc)

	addRounds(t, svc, playerID, eighteen(0, 20), eighteen(1, 14))
	third := addRounds(t, svc, playerID, eighteen(2, 12))
	require.Equal(t, 10.0, third.Index)

	revised := third.Round
	revised.AdjustedScore = 72 + 16
	res, err := svc.ReviseRound(ctx, playerID, revised)
	require.NoError(t, err)
	assert.Equal(t, calculator.Revised, res.Disposition)
	assert.Equal(t, 12.0, res.Index)
	assert.Equal(t, 16.0, res.Round.Differential)

	rec, err := store.LoadRecord(ctx, playerID)
	require.NoError(t, err)
	require.Len(t, rec.History, 1)
	assert.Equal(t, 12.0, rec.History[0].Index)
	assert.Equal(t, 16.0, rec.Rounds[2].Differential)

	revised.ID = "missing"
	_, err = svc.ReviseRound(ctx, playerID, revised)
	assert.ErrorIs(t, err, calculator.ErrRoundNotFound)
}

func TestReviseRoundKeepsImprovedLow(t *testing.T) {
	svc, _ := setupTestService(t)
	ctx := context.Background()
	playerID := newPlayer(t, svc)

	first := addRounds(t, svc, playerID, eighteen(0, 10))
	for i := 1; i < 19; i++ {
		addRounds(t, svc, playerID, eighteen(i, 10))
	}
	// The twentieth round establishes the low at 10.0 and its two-stroke
	// discount improves it to 8.0.
	twentieth := addRounds(t, svc, playerID, eighteen(19, 20))
	require.Equal(t, 8.0, twentieth.Index)
	require.Equal(t, calculator.LowImproved, twentieth.LowReset)
	require.Equal(t, 8.0, twentieth.Summary.Low.Value)

	revised := first.Round
	revised.Course = "Newbattle (old course)"
	res, err := svc.ReviseRound(ctx, playerID, revised)
	require.NoError(t, err)
	assert.Equal(t, 10.0, res.Index)

	player, err := svc.GetPlayer(ctx, playerID)
	require.NoError(t, err)
	require.NotNil(t, player.Summary.Low)
	assert.Equal(t, 8.0, player.Summary.Low.Value)
	assert.True(t, player.Summary.Low.Date.Equal(twentieth.Round.Played))
}

func TestRemoveRound(t *testing.T) {
	svc, store := setupTestService(t)
	ctx := context.Background()
	playerID := newPlayer(t, svc)

	first := addRounds(t, svc, playerID, eighteen(0, 20))
	addRounds(t, svc, playerID, eighteen(1, 14), eighteen(2, 12))

	res, err := svc.RemoveRound(ctx, playerID, first.Round.ID)
	require.NoError(t, err)
	assert.Equal(t, calculator.Removed, res.Disposition)
	assert.False(t, res.Rated)

	player, err := svc.GetPlayer(ctx, playerID)
	require.NoError(t, err)
	assert.Nil(t, player.Summary.HandicapIndex)

	rec, err := store.LoadRecord(ctx, playerID)
	require.NoError(t, err)
	assert.Len(t, rec.Rounds, 2)

	_, err = svc.RemoveRound(ctx, playerID, first.Round.ID)
	assert.ErrorIs(t, err, calculator.ErrRoundNotFound)
}

func TestCountingRounds(t *testing.T) {
	svc, _ := setupTestService(t)
	ctx := context.Background()
	playerID := newPlayer(t, svc)

	counting, err := svc.CountingRounds(ctx, playerID)
	require.NoError(t, err)
	assert.Empty(t, counting)

	addRounds(t, svc, playerID, eighteen(0, 20), eighteen(1, 14), eighteen(2, 12))
	counting, err = svc.CountingRounds(ctx, playerID)
	require.NoError(t, err)
	require.Len(t, counting, 1)
	assert.Equal(t, 12.0, counting[0].Round.Differential)
	assert.Equal(t, 1, counting[0].Rank)
	assert.Equal(t, 3, counting[0].WindowSize)

	again, err := svc.CountingRounds(ctx, playerID)
	require.NoError(t, err)
	assert.Equal(t, counting, again)
}

func TestScorePage(t *testing.T) {
	svc, _ := setupTestService(t, WithPerPage(3))
	ctx := context.Background()
	playerID := newPlayer(t, svc)

	for i := 0; i < 7; i++ {
		addRounds(t, svc, playerID, eighteen(i, 10+i))
	}

	page, err := svc.ScorePage(ctx, playerID, storage.PageRequest{Page: 1})
	require.NoError(t, err)
	assert.Equal(t, 3, page.PerPage)
	assert.Equal(t, 3, page.Pages)
	require.Len(t, page.Rounds, 3)
	assert.Equal(t, 16, page.Rounds[0].AdjustedScore-72)

	_, err = svc.ScorePage(ctx, playerID, storage.PageRequest{Page: 9})
	assert.ErrorIs(t, err, storage.ErrPageOutOfRange)

	_, err = svc.ScorePage(ctx, playerID, storage.PageRequest{Page: 0, PerPage: 3})
	assert.ErrorIs(t, err, storage.ErrPageOutOfRange)
}

func TestImportRounds(t *testing.T) {
	svc, _ := setupTestService(t)
	ctx := context.Background()
	playerID := newPlayer(t, svc)

	bad := eighteen(3, 10)
	bad.Slope = 0
	results, err := svc.ImportRounds(ctx, playerID, []models.Round{
		eighteen(0, 20), nineHoles(1, 36, 113, 40, "A"), nineHoles(2, 36, 113, 42, "B"), bad,
	})
	assert.ErrorIs(t, err, ErrInvalidInput)
	require.Len(t, results, 3)
	assert.Equal(t, calculator.Staged, results[1].Disposition)
	assert.Equal(t, calculator.Merged, results[2].Disposition)
}

func TestMetricsRecorded(t *testing.T) {
	reg := prometheus.NewRegistry()
	svc, _ := setupTestService(t, WithMetrics(metrics.New(reg)))
	ctx := context.Background()
	playerID := newPlayer(t, svc)

	addRounds(t, svc, playerID, eighteen(0, 10), nineHoles(1, 36, 113, 40, "A"))
	_, err := svc.AddRound(ctx, "missing", eighteen(2, 10))
	require.Error(t, err)

	count, err := testutil.GatherAndCount(reg, "handicap_rounds_submitted_total")
	require.NoError(t, err)
	assert.Equal(t, 2, count)

	failures, err := testutil.GatherAndCount(reg, "handicap_operation_failures_total")
	require.NoError(t, err)
	assert.Equal(t, 1, failures)
}

func TestConcurrentAddRound(t *testing.T) {
	svc, store := setupTestService(t)
	ctx := context.Background()
	playerID := newPlayer(t, svc)

	const n = 12
	var wg sync.WaitGroup
	errs := make(chan error, n)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			if _, err := svc.AddRound(ctx, playerID, eighteen(i, 10+i)); err != nil {
				errs <- fmt.Errorf("round %d: %w", i, err)
			}
		}(i)
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		t.Error(err)
	}

	rec, err := store.LoadRecord(ctx, playerID)
	require.NoError(t, err)
	assert.Len(t, rec.Rounds, n)
	// Every addition from the third round on appends one history entry.
	assert.Len(t, rec.History, n-2)

	res, err := svc.HandicapIndex(ctx, playerID)
	require.NoError(t, err)
	require.NotNil(t, rec.Summary.HandicapIndex)
	assert.True(t, math.Abs(res.Index-*rec.Summary.HandicapIndex) < 1e-9)
}
