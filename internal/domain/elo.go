package domain

import "math"

const (
	KFactor       = 32.0
	InitialRating = 1200
)

// Result scores from one side's point of view.
const (
	ScoreWin  = 1.0
	ScoreDraw = 0.5
	ScoreLoss = 0.0
)

// ExpectedScore is the probability-like expectation of A against B.
func ExpectedScore(ratingA, ratingB int) float64 {
	return 1.0 / (1.0 + math.Pow(10.0, float64(ratingB-ratingA)/400.0))
}

// CalculateElo returns the new rating for player A.
// score is 1.0 for a win, 0.5 for a draw, and 0.0 for a loss.
func CalculateElo(ratingA, ratingB int, score float64) int {
	newRating := float64(ratingA) + KFactor*(score-ExpectedScore(ratingA, ratingB))

	if newRating < 0 {
		return 0
	}
	return int(math.Round(newRating))
}

// UpdateRatings applies one game result to both sides at once.
func UpdateRatings(ratingA, ratingB int, scoreA float64) (int, int) {
	return CalculateElo(ratingA, ratingB, scoreA), CalculateElo(ratingB, ratingA, 1-scoreA)
}

// ScoreFor converts a finished board into a result score for player.
func ScoreFor(b Board, player Cell) float64 {
	switch b.Winner() {
	case player:
		return ScoreWin
	case Empty:
		return ScoreDraw
	default:
		return ScoreLoss
	}
}
