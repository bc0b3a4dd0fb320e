package quiz

import (
	"context"
	"encoding/json"
	"fmt"
	"regexp"
	"strings"

	"github.com/profai/profai-backend/pkg/types"
)

// TextGenerator is the slice of the LLM client quiz generation needs.
type TextGenerator interface {
	GenerateJSON(ctx context.Context, system, prompt string) (string, error)
}

// Generator builds per-chapter quizzes with the LLM and grades submissions.
type Generator struct {
	llm TextGenerator
}

func New(llm TextGenerator) *Generator {
	return &Generator{llm: llm}
}

const quizSystem = "You are an assessment designer for an AI tutoring product. " +
	"You write clear multiple-choice questions that test conceptual understanding and practical application."

// GenerateChapterQuiz produces 5-8 questions for chapter content. When the
// model output cannot be parsed it returns the fallback questions rather
// than an error, so the learner can still take a quiz.
func (g *Generator) GenerateChapterQuiz(ctx context.Context, content, title, difficulty string) ([]types.QuizQuestion, error) {
	if difficulty == "" {
		difficulty = "mixed"
	}
	prompt := fmt.Sprintf(`Generate an adaptive quiz for the chapter: %q

CHAPTER CONTENT:
%s

REQUIREMENTS:
- 5-8 multiple choice questions, 4 options each
- Difficulty mix: %s
- Focus on practical application and conceptual understanding
- Include a short explanation for each answer

Respond with ONLY JSON:
{"questions": [{"id": "q1", "question": "...", "options": ["A","B","C","D"], "correct_answer": 0, "explanation": "...", "difficulty": "easy|medium|hard", "topic": "...", "concepts": ["..."]}]}`,
		title, truncate(content, 2000), difficulty)

	raw, err := g.llm.GenerateJSON(ctx, quizSystem, prompt)
	if err != nil {
		return nil, fmt.Errorf("quiz generation: %w", err)
	}
	questions := ParseQuestions(raw)
	if len(questions) == 0 {
		questions = FallbackQuestions()
	}
	return questions, nil
}

var (
	trailingComma = regexp.MustCompile(`,\s*([}\]])`)
)

type quizDoc struct {
	Questions []types.QuizQuestion `json:"questions"`
}

// ParseQuestions extracts and validates questions from raw model output,
// repairing the common JSON defects small models produce.
func ParseQuestions(raw string) []types.QuizQuestion {
	start := strings.Index(raw, "{")
	end := strings.LastIndex(raw, "}")
	if start == -1 || end <= start {
		return nil
	}
	jsonStr := trailingComma.ReplaceAllString(raw[start:end+1], "$1")

	var doc quizDoc
	if err := json.Unmarshal([]byte(jsonStr), &doc); err != nil {
		return nil
	}

	out := make([]types.QuizQuestion, 0, len(doc.Questions))
	for i, q := range doc.Questions {
		q.Question = strings.TrimSpace(q.Question)
		if q.Question == "" || len(q.Options) < 2 {
			continue
		}
		if q.CorrectAnswer < 0 || q.CorrectAnswer >= len(q.Options) {
			continue
		}
		if q.ID == "" {
			q.ID = fmt.Sprintf("q%d", i+1)
		}
		if q.Difficulty == "" {
			q.Difficulty = "medium"
		}
		if len(q.Concepts) == 0 {
			q.Concepts = []string{"general"}
		}
		out = append(out, q)
	}
	return out
}

// FallbackQuestions keeps the quiz flow alive when generation output is
// unusable.
func FallbackQuestions() []types.QuizQuestion {
	return []types.QuizQuestion{
		{
			ID:       "fallback1",
			Question: "What was the main topic covered in this chapter?",
			Options: []string{
				"The core concepts and their applications",
				"Random unrelated information",
				"Only basic definitions",
				"Abstract theories without examples",
			},
			CorrectAnswer: 0,
			Explanation:   "Chapters focus on core concepts and their practical applications.",
			Difficulty:    "easy",
			Topic:         "comprehension",
			Concepts:      []string{"understanding", "main ideas"},
		},
		{
			ID:       "fallback2",
			Question: "How would you apply what you learned?",
			Options: []string{
				"Practice with real-world examples",
				"Memorize all definitions",
				"Skip to the next chapter",
				"Only read the summary",
			},
			CorrectAnswer: 0,
			Explanation:   "Active practice with real-world examples helps solidify learning.",
			Difficulty:    "medium",
			Topic:         "application",
			Concepts:      []string{"practical application"},
		},
		{
			ID:       "fallback3",
			Question: "What should be your next learning step?",
			Options: []string{
				"Review and practice the concepts",
				"Move on without understanding",
				"Only read more theory",
				"Ask someone else to explain everything",
			},
			CorrectAnswer: 0,
			Explanation:   "Reviewing and practicing reinforces understanding before moving forward.",
			Difficulty:    "easy",
			Topic:         "learning strategy",
			Concepts:      []string{"review", "practice"},
		},
	}
}

// Evaluate grades answers against questions. Answers shorter than the
// question list leave the remainder unanswered (counted wrong); the index
// -1 likewise means unanswered.
func Evaluate(questions []types.QuizQuestion, answers []int) types.SubmitQuizResp {
	correct := 0
	var weak, strong []string
	for i, q := range questions {
		answered := i < len(answers) && answers[i] == q.CorrectAnswer
		if answered {
			correct++
			strong = append(strong, q.Concepts...)
		} else {
			weak = append(weak, q.Concepts...)
		}
	}

	pct := 0.0
	if len(questions) > 0 {
		pct = float64(correct) / float64(len(questions)) * 100
	}
	weak = dedupe(weak)
	strong = dedupe(strong)
	return types.SubmitQuizResp{
		Percentage:      pct,
		CorrectAnswers:  correct,
		TotalQuestions:  len(questions),
		StrongConcepts:  strong,
		WeakConcepts:    weak,
		Recommendations: Recommendations(pct/100, weak),
	}
}

// Recommendations returns study advice banded by score (a 0..1 fraction).
func Recommendations(score float64, weakConcepts []string) []string {
	var recs []string
	switch {
	case score >= 0.9:
		recs = append(recs,
			"Excellent work! You've mastered this chapter.",
			"Ready for advanced topics in this area.")
	case score >= 0.7:
		recs = append(recs, "Good understanding! Minor review needed.")
		if len(weakConcepts) > 0 {
			recs = append(recs, "Review these concepts: "+joinFirst(weakConcepts, 3))
		}
	case score >= 0.5:
		recs = append(recs,
			"Partial understanding. More study recommended.",
			"Focus on: "+joinFirst(weakConcepts, 3),
			"Try different learning approaches for difficult concepts.")
	default:
		recs = append(recs,
			"Chapter review strongly recommended.",
			"Consider asking for help with core concepts.",
			"Re-read the chapter and take notes.")
	}
	return recs
}

func joinFirst(items []string, n int) string {
	if len(items) > n {
		items = items[:n]
	}
	return strings.Join(items, ", ")
}

func dedupe(items []string) []string {
	seen := make(map[string]struct{}, len(items))
	out := items[:0]
	for _, s := range items {
		if _, ok := seen[s]; ok {
			continue
		}
		seen[s] = struct{}{}
		out = append(out, s)
	}
	return out
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
