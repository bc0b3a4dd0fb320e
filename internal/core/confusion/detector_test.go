package confusion

import (
	"context"
	"encoding/base64"
	"errors"
	"strings"
	"testing"
)

type fakeVision struct {
	raw string
	err error
}

func (f *fakeVision) AnalyzeImage(ctx context.Context, prompt string, image []byte, mime string) (string, error) {
	return f.raw, f.err
}

func frameData() string {
	return "data:image/jpeg;base64," + base64.StdEncoding.EncodeToString([]byte("not-a-real-jpeg"))
}

func TestAnalyzeUsesVisionResult(t *testing.T) {
	d := New(&fakeVision{raw: `{"confusion_level": 0.8, "indicators": ["furrowed brow"], "explanation": "struggling"}`})
	m := d.Analyze(context.Background(), frameData(), "short text")
	if m.ConfusionLevel < 0.8 {
		t.Fatalf("expected level >= 0.8, got %.2f", m.ConfusionLevel)
	}
	if !m.Detected(0.6) {
		t.Fatal("expected detection above threshold")
	}
	if m.ReadingPace != "slow" {
		t.Fatalf("expected slow pace at high confusion, got %s", m.ReadingPace)
	}
	if m.Explanation != "struggling" {
		t.Fatalf("unexpected explanation %q", m.Explanation)
	}
}

func TestAnalyzeFallsBackOnVisionError(t *testing.T) {
	d := New(&fakeVision{err: errors.New("quota exceeded")})
	m := d.Analyze(context.Background(), frameData(), "cats are nice")
	if m.ConfusionLevel > 0.5 {
		t.Fatalf("simple text should score low, got %.2f", m.ConfusionLevel)
	}
	if len(m.Suggestions) == 0 || len(m.Suggestions) > 3 {
		t.Fatalf("expected 1-3 suggestions, got %d", len(m.Suggestions))
	}
}

func TestAnalyzeNoFrameUsesTextOnly(t *testing.T) {
	d := New(&fakeVision{raw: `{"confusion_level": 0.9}`})
	m := d.Analyze(context.Background(), "%%%not-base64%%%", "plain words here")
	if m.ConfusionLevel >= 0.9 {
		t.Fatal("vision must not run without a decodable frame")
	}
}

func TestTextComplexityOrdering(t *testing.T) {
	simple := TextComplexity("The cat sat. It was warm. We smiled.")
	dense := TextComplexity("The optimization algorithm recalibrates hyperparameter initialization across the framework implementation methodology while the parameter interdependencies compound")
	if simple >= dense {
		t.Fatalf("expected dense prose to score higher: simple=%.2f dense=%.2f", simple, dense)
	}
	if TextComplexity("") != 0 {
		t.Fatal("empty text must score zero")
	}
}

func TestSuggestionsBands(t *testing.T) {
	high := Suggestions(0.8, nil)
	if len(high) != 3 {
		t.Fatalf("expected 3 suggestions at high confusion, got %d", len(high))
	}
	if !strings.Contains(strings.ToLower(high[0]), "pause") {
		t.Fatalf("unexpected top suggestion %q", high[0])
	}
	low := Suggestions(0.1, nil)
	if len(low) == 0 || len(low) > 3 {
		t.Fatalf("expected 1-3 suggestions at low confusion, got %d", len(low))
	}
}
