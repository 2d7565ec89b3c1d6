package scoring

import "math"

const (
	MaxScore = 100
	MinScore = 0

	harshEventPenalty = 5
	highSpeedKmh      = 90
	highSpeedPenalty  = 20
	fastSpeedKmh      = 70
	fastSpeedPenalty  = 10
)

// ComputeScore folds a finished trip into a 0-100 safety score. A trip with
// no speed samples has no speeding penalty.
func ComputeScore(events HarshEvents, history []float64) int {
	score := MaxScore
	score -= events.Braking * harshEventPenalty
	score -= events.Acceleration * harshEventPenalty

	avg := MeanSpeed(history)
	switch {
	case avg > highSpeedKmh:
		score -= highSpeedPenalty
	case avg > fastSpeedKmh:
		score -= fastSpeedPenalty
	}

	return clampScore(score)
}

// MeanSpeed returns the arithmetic mean of history, or 0 when it is empty.
func MeanSpeed(history []float64) float64 {
	if len(history) == 0 {
		return 0
	}
	sum := 0.0
	for _, v := range history {
		sum += v
	}
	return sum / float64(len(history))
}

// FoldOverall pulls the running overall score halfway toward the new trip
// score. Without a previous value the trip score becomes the overall score.
func FoldOverall(prev int, hasPrev bool, tripScore int) int {
	if !hasPrev {
		return tripScore
	}
	return clampScore(int(math.Round(float64(prev+tripScore) / 2)))
}

// Rating returns the feedback line shown next to an overall score.
func Rating(score int) string {
	switch {
	case score >= 80:
		return "Excellent driving!"
	case score >= 60:
		return "Good, but room to improve"
	default:
		return "Focus on safety lessons"
	}
}

func clampScore(score int) int {
	if score < MinScore {
		return MinScore
	}
	if score > MaxScore {
		return MaxScore
	}
	return score
}
