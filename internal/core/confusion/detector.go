package confusion

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"strings"
)

// Metrics is the outcome of one confusion analysis cycle.
type Metrics struct {
	ConfusionLevel float64
	AttentionLevel float64
	ReadingPace    string
	Indicators     []string
	Suggestions    []string
	Explanation    string
}

// Detected reports whether the level clears the advisory threshold.
func (m Metrics) Detected(threshold float64) bool {
	return m.ConfusionLevel >= threshold
}

// FrameAnalyzer is the slice of the LLM client the detector needs.
type FrameAnalyzer interface {
	AnalyzeImage(ctx context.Context, prompt string, image []byte, mime string) (string, error)
}

// Detector analyzes webcam frames plus the text the learner is reading.
// With a vision model it asks for facial confusion indicators; without one
// (or when the call fails) it degrades to a text-complexity estimate so the
// monitor keeps working offline.
type Detector struct {
	vision FrameAnalyzer
}

func New(vision FrameAnalyzer) *Detector {
	return &Detector{vision: vision}
}

const framePrompt = `You are analyzing a webcam frame of a student reading study material.
Look for facial indicators of confusion: furrowed brow, squinting, leaning in, looking away.
The student is currently reading: %TEXT%
Respond with ONLY JSON: {"confusion_level": 0.0, "indicators": ["..."], "explanation": "..."}
confusion_level is 0.0 (fully clear) to 1.0 (completely lost).`

type visionResult struct {
	ConfusionLevel float64  `json:"confusion_level"`
	Indicators     []string `json:"indicators"`
	Explanation    string   `json:"explanation"`
}

// Analyze evaluates one sample. imageData may be a raw base64 string or a
// data: URL as browsers produce from canvas captures.
func (d *Detector) Analyze(ctx context.Context, imageData, contextText string) Metrics {
	complexity := TextComplexity(contextText)

	frame, mime := decodeFrame(imageData)
	if d.vision != nil && len(frame) > 0 {
		prompt := strings.Replace(framePrompt, "%TEXT%", truncate(contextText, 500), 1)
		raw, err := d.vision.AnalyzeImage(ctx, prompt, frame, mime)
		if err == nil {
			if res, ok := parseVisionResult(raw); ok {
				return d.finish(res.ConfusionLevel, complexity, res.Indicators, res.Explanation)
			}
		}
		// API failures are soft: fall through to the text estimate.
	}

	indicators := []string{"text complexity estimate only"}
	return d.finish(complexity, complexity, indicators, "")
}

func (d *Detector) finish(level, complexity float64, indicators []string, explanation string) Metrics {
	// Complex material nudges the estimate upward.
	if complexity > 0.7 {
		level += 0.2
		indicators = append(indicators, "complex text detected")
	}
	if level > 1.0 {
		level = 1.0
	}
	if level < 0 {
		level = 0
	}
	attention := 0.95 - level
	if attention < 0.05 {
		attention = 0.05
	}
	pace := "normal"
	if level > 0.6 {
		pace = "slow"
	}
	return Metrics{
		ConfusionLevel: level,
		AttentionLevel: attention,
		ReadingPace:    pace,
		Indicators:     indicators,
		Suggestions:    Suggestions(level, indicators),
		Explanation:    explanation,
	}
}

func parseVisionResult(raw string) (visionResult, bool) {
	start := strings.Index(raw, "{")
	end := strings.LastIndex(raw, "}")
	if start == -1 || end <= start {
		return visionResult{}, false
	}
	var res visionResult
	if err := json.Unmarshal([]byte(raw[start:end+1]), &res); err != nil {
		return visionResult{}, false
	}
	if res.ConfusionLevel < 0 || res.ConfusionLevel > 1 {
		return visionResult{}, false
	}
	return res, true
}

func decodeFrame(imageData string) ([]byte, string) {
	mime := "image/jpeg"
	payload := imageData
	if strings.HasPrefix(imageData, "data:") {
		rest := strings.TrimPrefix(imageData, "data:")
		if i := strings.Index(rest, ";base64,"); i >= 0 {
			if m := rest[:i]; m != "" {
				mime = m
			}
			payload = rest[i+len(";base64,"):]
		}
	}
	data, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return nil, mime
	}
	return data, mime
}

var technicalTerms = []string{
	"algorithm", "function", "variable", "parameter",
	"implementation", "optimization", "framework", "methodology",
}

// TextComplexity estimates how hard a passage is on a 0..1 scale from word
// length, sentence length, and technical vocabulary density.
func TextComplexity(text string) float64 {
	words := strings.Fields(text)
	if len(words) == 0 {
		return 0
	}

	totalLen := 0
	technical := 0
	for _, w := range words {
		totalLen += len(w)
		lw := strings.ToLower(strings.Trim(w, ".,;:()"))
		for _, t := range technicalTerms {
			if lw == t {
				technical++
				break
			}
		}
	}
	avgWordLen := float64(totalLen) / float64(len(words))

	sentences := strings.Count(text, ".")
	if sentences == 0 {
		sentences = 1
	}
	avgSentenceLen := float64(len(words)) / float64(sentences)

	complexity := clamp(avgWordLen/10)*0.3 +
		clamp(avgSentenceLen/20)*0.4 +
		(float64(technical)/float64(len(words)))*0.3
	return clamp(complexity)
}

// Suggestions picks up to three reading tips for the measured level.
func Suggestions(level float64, indicators []string) []string {
	var out []string
	switch {
	case level >= 0.7:
		out = []string{
			"Take a pause - this section seems challenging",
			"Try breaking this concept down into smaller pieces",
			"Re-read the previous paragraph for context",
		}
	case level >= 0.5:
		out = []string{
			"This part might be tricky - slow down your reading",
			"Try connecting this to something you already know",
			"Consider taking notes on key points",
		}
	case level >= 0.3:
		out = []string{
			"You're doing well - maintain this pace",
			"Keep focusing on the main concepts",
		}
	default:
		out = []string{
			"Excellent understanding, keep going",
			"Great reading pace",
		}
	}

	joined := strings.ToLower(strings.Join(indicators, " "))
	if strings.Contains(joined, "complex text") && len(out) < 3 {
		out = append(out, "Complex content detected - take your time")
	}
	if len(out) > 3 {
		out = out[:3]
	}
	return out
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}

func clamp(v float64) float64 {
	if v > 1 {
		return 1
	}
	if v < 0 {
		return 0
	}
	return v
}
