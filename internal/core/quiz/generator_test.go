package quiz

import (
	"context"
	"strings"
	"testing"

	"github.com/profai/profai-backend/pkg/types"
)

type fakeLLM struct {
	raw string
	err error
}

func (f *fakeLLM) GenerateJSON(ctx context.Context, system, prompt string) (string, error) {
	return f.raw, f.err
}

func TestGenerateChapterQuizParsesModelOutput(t *testing.T) {
	raw := `Here is your quiz:
{"questions": [
  {"id": "q1", "question": "What is backprop?", "options": ["Gradient flow", "A dance", "A database", "A browser"], "correct_answer": 0, "difficulty": "easy", "concepts": ["gradients"],},
  {"question": "", "options": ["a", "b"], "correct_answer": 0},
  {"question": "Pick one", "options": ["only"], "correct_answer": 0},
  {"question": "Out of range", "options": ["a", "b"], "correct_answer": 5}
]}`
	g := New(&fakeLLM{raw: raw})
	qs, err := g.GenerateChapterQuiz(context.Background(), "content", "Neural Nets", "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(qs) != 1 {
		t.Fatalf("expected 1 valid question after filtering, got %d", len(qs))
	}
	if qs[0].Question != "What is backprop?" {
		t.Fatalf("unexpected question %q", qs[0].Question)
	}
}

func TestGenerateChapterQuizFallsBackOnGarbage(t *testing.T) {
	g := New(&fakeLLM{raw: "I cannot produce a quiz right now."})
	qs, err := g.GenerateChapterQuiz(context.Background(), "content", "Title", "mixed")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(qs) != 3 {
		t.Fatalf("expected fallback questions, got %d", len(qs))
	}
	if !strings.HasPrefix(qs[0].ID, "fallback") {
		t.Fatalf("expected fallback questions, got id %q", qs[0].ID)
	}
}

func TestParseQuestionsFillsDefaults(t *testing.T) {
	qs := ParseQuestions(`{"questions": [{"question": "Q", "options": ["a","b","c","d"], "correct_answer": 2}]}`)
	if len(qs) != 1 {
		t.Fatalf("expected 1 question, got %d", len(qs))
	}
	q := qs[0]
	if q.ID != "q1" || q.Difficulty != "medium" || len(q.Concepts) != 1 {
		t.Fatalf("defaults not applied: %+v", q)
	}
}

func twoQuestions() []types.QuizQuestion {
	return []types.QuizQuestion{
		{ID: "q1", Options: []string{"a", "b"}, CorrectAnswer: 0, Concepts: []string{"loops"}},
		{ID: "q2", Options: []string{"a", "b"}, CorrectAnswer: 1, Concepts: []string{"recursion"}},
	}
}

func TestEvaluateScoring(t *testing.T) {
	res := Evaluate(twoQuestions(), []int{0, 0})
	if res.CorrectAnswers != 1 || res.TotalQuestions != 2 {
		t.Fatalf("unexpected counts: %+v", res)
	}
	if res.Percentage != 50 {
		t.Fatalf("expected 50%%, got %.1f", res.Percentage)
	}
	if len(res.StrongConcepts) != 1 || res.StrongConcepts[0] != "loops" {
		t.Fatalf("unexpected strong concepts %v", res.StrongConcepts)
	}
	if len(res.WeakConcepts) != 1 || res.WeakConcepts[0] != "recursion" {
		t.Fatalf("unexpected weak concepts %v", res.WeakConcepts)
	}
}

func TestEvaluateShortAnswersCountUnansweredWrong(t *testing.T) {
	res := Evaluate(twoQuestions(), []int{0})
	if res.CorrectAnswers != 1 {
		t.Fatalf("expected 1 correct, got %d", res.CorrectAnswers)
	}
	if len(res.WeakConcepts) != 1 {
		t.Fatalf("unanswered question must register weak concepts, got %v", res.WeakConcepts)
	}
}

func TestRecommendationsBands(t *testing.T) {
	cases := []struct {
		score float64
		want  string
	}{
		{0.95, "Excellent"},
		{0.75, "Good understanding"},
		{0.55, "Partial understanding"},
		{0.25, "strongly recommended"},
	}
	for _, tc := range cases {
		recs := Recommendations(tc.score, []string{"x"})
		if len(recs) == 0 || !strings.Contains(recs[0], tc.want) {
			t.Fatalf("score %.2f: expected %q in first recommendation, got %v", tc.score, tc.want, recs)
		}
	}
}
