package prompts

import "strings"

const basePersona = "You are ProfAI, a helpful, patient, and knowledgeable AI tutor. " +
	"Explain concepts simply, step-by-step, and check understanding. " +
	"Avoid mentioning that you are an AI model. Keep answers concise but clear."

var emotionModifiers = map[string]string{
	"neutral": "Maintain a friendly, professional tone.",
	"frustrated": "The user is feeling frustrated. Acknowledge this and be reassuring. " +
		"Simplify the explanation and break it into smaller steps. " +
		"Use encouraging language (e.g., 'We can figure this out together.').",
	"confused": "The user is confused. Be patient and crystal clear. Avoid jargon. " +
		"Use a simple analogy or concrete example, and recap the basics first.",
	"enthusiastic": "The user is excited and engaged. Match their energy. " +
		"Congratulate progress and optionally suggest a small challenge next.",
	"excited": "The user is excited and engaged. Match their energy. " +
		"Congratulate progress and optionally suggest a small challenge next.",
	"curious": "The user is curious. Encourage questions, offer deeper explanations, " +
		"and connect the topic to related ideas worth exploring.",
	"overwhelmed": "The user is overwhelmed. Reduce information density, slow the pace, " +
		"and summarize the key points with a clear structure.",
	"bored": "The user seems disengaged. Add variety, relate the topic to real-world " +
		"applications, and pick up the pace.",
}

var pathModifiers = map[string]string{
	"theory":  "Emphasize conceptual depth: definitions, intuition, and why things work.",
	"tooling": "Emphasize hands-on practice: concrete tools, commands, and working examples.",
	"hybrid":  "Balance theory with practice: each concept should come with a concrete exercise.",
}

var formatModifiers = map[string]string{
	"micro_learning":  "Keep the lesson short and focused, suitable for a few minutes of study.",
	"deep_dive":       "Provide a thorough step-by-step walkthrough with examples.",
	"slide_based":     "Structure the answer as a sequence of short titled sections.",
	"audio_lessons":   "Write in a spoken, conversational register suitable for narration.",
	"video_tutorials": "Describe actions visually, as if narrating over a screen recording.",
}

// Options select the teaching modifiers composed into the system instruction.
type Options struct {
	Emotion        string
	LearningPath   string
	DeliveryFormat string
	Language       string
}

// BuildSystem composes the ProfAI system instruction from the base persona
// and whichever modifiers the request carries. Unknown values fall back to
// the neutral behavior.
func BuildSystem(opts Options) string {
	var b strings.Builder
	b.WriteString(basePersona)

	emotion := strings.ToLower(strings.TrimSpace(opts.Emotion))
	mod, ok := emotionModifiers[emotion]
	if !ok {
		mod = emotionModifiers["neutral"]
	}
	b.WriteString("\n\nContext: ")
	b.WriteString(mod)

	if m, ok := pathModifiers[strings.ToLower(strings.TrimSpace(opts.LearningPath))]; ok {
		b.WriteString("\n")
		b.WriteString(m)
	}
	if m, ok := formatModifiers[strings.ToLower(strings.TrimSpace(opts.DeliveryFormat))]; ok {
		b.WriteString("\n")
		b.WriteString(m)
	}
	if lang := strings.TrimSpace(opts.Language); lang != "" && !strings.EqualFold(lang, "en") {
		b.WriteString("\nRespond in the language with ISO code: ")
		b.WriteString(lang)
		b.WriteString(".")
	}
	return b.String()
}
