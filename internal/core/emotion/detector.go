package emotion

import "strings"

// State is a learner emotion label attached to a turn.
type State string

const (
	Neutral      State = "neutral"
	Confused     State = "confused"
	Frustrated   State = "frustrated"
	Enthusiastic State = "enthusiastic"
	Curious      State = "curious"
	Overwhelmed  State = "overwhelmed"
	Bored        State = "bored"
)

// Analysis carries the dominant emotion with the phrases that triggered it.
type Analysis struct {
	State      State
	Confidence float64
	Indicators []string
}

var indicators = map[State][]string{
	Confused: {
		"i don't understand", "what does that mean", "can you explain",
		"i'm lost", "confusing", "unclear", "i don't get it",
		"makes no sense", "can you repeat", "i'm confused", "don't follow", "clarify",
	},
	Frustrated: {
		"this is hard", "difficult", "impossible", "can't do this",
		"giving up", "frustrated", "annoying", "hate this",
		"why won't this work", "nothing works", "fed up", "too complicated",
	},
	Enthusiastic: {
		"interesting", "cool", "awesome", "love this", "fascinating",
		"that's great", "amazing", "wow", "excellent", "i want to learn",
		"show me", "teach me",
	},
	Curious: {
		"why does", "how does", "what if", "tell me more", "what about",
		"curious", "wonder", "dive deeper", "learn more",
	},
	Overwhelmed: {
		"too much", "too fast", "slow down", "overwhelming",
		"too many things", "information overload", "can't keep up",
		"too advanced", "need a break", "head spinning",
	},
	Bored: {
		"boring", "tired", "uninteresting", "dull",
		"when will this end", "skip this", "already know", "whatever",
	},
}

// Detector scores text against per-emotion keyword lists.
type Detector struct{}

func New() *Detector { return &Detector{} }

// Analyze returns the dominant emotion in text, or Neutral when nothing
// matched. Confidence grows with the number of matched phrases.
func (d *Detector) Analyze(text string) Analysis {
	lower := strings.ToLower(text)

	best := Analysis{State: Neutral}
	bestScore := 0
	for state, phrases := range indicators {
		score := 0
		var found []string
		for _, p := range phrases {
			if strings.Contains(lower, p) {
				score++
				found = append(found, p)
			}
		}
		if score > bestScore {
			bestScore = score
			best = Analysis{State: state, Indicators: found}
		}
	}
	if bestScore == 0 {
		return Analysis{State: Neutral, Confidence: 0.5}
	}
	conf := 0.5 + 0.15*float64(bestScore)
	if conf > 0.95 {
		conf = 0.95
	}
	best.Confidence = conf
	return best
}
