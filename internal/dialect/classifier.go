package dialect

import "strings"

const (
	// MaxLines bounds how much of a document Detect reads.
	MaxLines = 400
	// minScore and minConfidence gate Confident.
	minScore      = 6
	minConfidence = 0.65
)

// Classification is the result of scoring evidence for a document.
type Classification struct {
	Family          Family
	Score           int
	TotalScore      int
	Confidence      float64
	RunnerUp        Family
	RunnerUpScore   int
	ObservedSignals int
}

// Confident reports whether the winner is strong enough to act on.
func (c Classification) Confident() bool {
	return c.Family != Unknown && c.Score >= minScore && c.Confidence >= minConfidence
}

// Classifier scores evidence and chooses a dominant family.
type Classifier struct{}

func (Classifier) Classify(e *Evidence) Classification {
	if e == nil || len(e.hints) == 0 {
		return Classification{Family: Unknown}
	}

	var scores [familyCount]int
	total := 0
	observed := 0
	for _, h := range e.hints {
		observed++
		if h.Score <= 0 {
			continue
		}
		if h.Family <= Unknown || h.Family >= familyCount {
			continue
		}
		scores[h.Family] += h.Score
		total += h.Score
	}

	best, bestScore := Unknown, 0
	runner, runnerScore := Unknown, 0
	for f := Keyword; f < familyCount; f++ {
		score := scores[f]
		if score > bestScore {
			runner, runnerScore = best, bestScore
			best, bestScore = f, score
			continue
		}
		if score > runnerScore {
			runner, runnerScore = f, score
		}
	}
	// ничья не решает ничего
	if bestScore == runnerScore {
		best = Unknown
	}

	conf := 0.0
	if total > 0 {
		conf = float64(bestScore) / float64(total)
	}
	return Classification{
		Family:          best,
		Score:           bestScore,
		TotalScore:      total,
		Confidence:      conf,
		RunnerUp:        runner,
		RunnerUpScore:   runnerScore,
		ObservedSignals: observed,
	}
}

// Detect collects evidence from the first MaxLines lines of src and classifies it.
func Detect(src string) Classification {
	e := NewEvidence()
	for i, line := range strings.SplitN(src, "\n", MaxLines+1) {
		if i == MaxLines {
			break
		}
		ObserveLine(e, i+1, line)
	}
	return Classifier{}.Classify(e)
}
