package curriculum

import (
	"strings"

	"github.com/profai/profai-backend/pkg/types"
)

// Catalog serves the built-in lesson plans behind GET /curriculum.
// Playlist-derived curricula live in the playlist package; this is the
// static learning-path content.
type Catalog struct {
	lessons []types.Lesson
}

func NewCatalog() *Catalog {
	return &Catalog{lessons: builtinLessons()}
}

// Get returns the lesson plan for a learning path, optionally filtered by a
// subject substring match on title and outline.
func (c *Catalog) Get(learningPath, subject string) types.CurriculumResp {
	path := strings.ToLower(strings.TrimSpace(learningPath))
	if path == "" {
		path = "hybrid"
	}

	var lessons []types.Lesson
	for _, l := range c.lessons {
		if path != "hybrid" && l.Path != path {
			continue
		}
		if subject != "" && !matchesSubject(l, subject) {
			continue
		}
		lessons = append(lessons, l)
	}

	title := "AI Learning Curriculum"
	switch path {
	case "theory":
		title = "AI Theory Curriculum"
	case "tooling":
		title = "AI Tooling Curriculum"
	}
	return types.CurriculumResp{
		Title:           title,
		Description:     "A structured path from AI fundamentals to building production applications.",
		Lessons:         lessons,
		Recommendations: recommend(lessons),
	}
}

func matchesSubject(l types.Lesson, subject string) bool {
	s := strings.ToLower(subject)
	if strings.Contains(strings.ToLower(l.Title), s) {
		return true
	}
	for _, o := range l.ContentOutline {
		if strings.Contains(strings.ToLower(o), s) {
			return true
		}
	}
	return false
}

func recommend(lessons []types.Lesson) []string {
	if len(lessons) == 0 {
		return []string{"No lessons matched; try a broader subject or the hybrid path."}
	}
	recs := []string{"Start with: " + lessons[0].Title}
	for _, l := range lessons {
		if len(l.Prerequisites) == 0 && l.Difficulty == "beginner" && l.Title != lessons[0].Title {
			recs = append(recs, "Also suitable as a first lesson: "+l.Title)
			break
		}
	}
	return recs
}

func builtinLessons() []types.Lesson {
	return []types.Lesson{
		{
			ID:              "ai_fundamentals",
			Title:           "AI Fundamentals: From Narrow to General Intelligence",
			Path:            "theory",
			Format:          "micro_learning",
			DurationMinutes: 10,
			Difficulty:      "beginner",
			Prerequisites:   []string{},
			LearningObjectives: []string{
				"Distinguish between narrow and general AI",
				"Understand key AI paradigms",
				"Identify real-world AI applications",
			},
			ContentOutline: []string{
				"What is AI? Definition and scope",
				"Types of AI: Narrow vs General vs Super",
				"Current AI capabilities and limitations",
				"Real-world examples and applications",
			},
		},
		{
			ID:              "machine_learning_basics",
			Title:           "Machine Learning Core Concepts",
			Path:            "theory",
			Format:          "deep_dive",
			DurationMinutes: 25,
			Difficulty:      "beginner",
			Prerequisites:   []string{"ai_fundamentals"},
			LearningObjectives: []string{
				"Understand supervised vs unsupervised learning",
				"Grasp the concept of training data",
				"Identify when to use different ML approaches",
			},
			ContentOutline: []string{
				"Supervised learning: classification and regression",
				"Unsupervised learning: clustering and dimensionality reduction",
				"Reinforcement learning basics",
				"Training, validation, and test sets",
				"Overfitting and generalization",
			},
		},
		{
			ID:              "neural_networks",
			Title:           "Neural Networks and Deep Learning",
			Path:            "theory",
			Format:          "deep_dive",
			DurationMinutes: 30,
			Difficulty:      "intermediate",
			Prerequisites:   []string{"machine_learning_basics"},
			LearningObjectives: []string{
				"Explain how a neural network transforms inputs to outputs",
				"Understand backpropagation at an intuitive level",
				"Recognize common architectures and their uses",
			},
			ContentOutline: []string{
				"Neurons, weights, and activation functions",
				"Forward pass and loss functions",
				"Backpropagation and gradient descent",
				"CNNs, RNNs, and transformers at a glance",
			},
		},
		{
			ID:              "dev_environment",
			Title:           "Set Up a Python AI Development Environment",
			Path:            "tooling",
			Format:          "video_tutorials",
			DurationMinutes: 20,
			Difficulty:      "beginner",
			Prerequisites:   []string{},
			LearningObjectives: []string{
				"Install and manage an AI toolchain",
				"Run a first model inference locally",
			},
			ContentOutline: []string{
				"Interpreter and package management",
				"Notebooks vs scripts",
				"API keys and environment configuration",
				"Running your first completion",
			},
		},
		{
			ID:              "prompt_engineering",
			Title:           "Prompt Engineering: Create Production Prompts",
			Path:            "tooling",
			Format:          "slide_based",
			DurationMinutes: 25,
			Difficulty:      "intermediate",
			Prerequisites:   []string{"ai_fundamentals"},
			LearningObjectives: []string{
				"Apply few-shot and chain-of-thought patterns",
				"Design prompts that survive model updates",
				"Evaluate prompt quality systematically",
			},
			ContentOutline: []string{
				"Prompt engineering principles",
				"Few-shot vs zero-shot",
				"Chain of thought reasoning",
				"Prompt evaluation and regression testing",
			},
		},
		{
			ID:              "first_ai_app",
			Title:           "Build Your First AI App",
			Path:            "tooling",
			Format:          "deep_dive",
			DurationMinutes: 45,
			Difficulty:      "intermediate",
			Prerequisites:   []string{"dev_environment", "prompt_engineering"},
			LearningObjectives: []string{
				"Wire an LLM API into a small web service",
				"Handle errors and rate limits gracefully",
				"Ship a working chatbot end to end",
			},
			ContentOutline: []string{
				"Designing the request/response shape",
				"Calling the model API",
				"Streaming vs one-shot responses",
				"Deploying the app",
			},
		},
	}
}
