package types

type AskReq struct {
	Text                string    `json:"text"`
	Emotion             string    `json:"emotion,omitempty"`
	PlayAudio           bool      `json:"play_audio"`
	LearningPath        string    `json:"learning_path,omitempty"`
	DeliveryFormat      string    `json:"delivery_format,omitempty"`
	ConversationHistory []Message `json:"conversation_history,omitempty"`
	Language            string    `json:"language,omitempty"`
}

type AskResp struct {
	Answer    string `json:"answer"`
	AudioPath string `json:"audio_path,omitempty"`
}

type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type VoiceChatResp struct {
	Transcription   string `json:"transcription"`
	Response        string `json:"response"`
	AudioURL        string `json:"audio_url,omitempty"`
	DetectedEmotion string `json:"detected_emotion,omitempty"`
}

type TTSReq struct {
	Text      string `json:"text"`
	PlayAudio bool   `json:"play_audio"`
	Language  string `json:"language,omitempty"`
}

type TTSResp struct {
	AudioPath string `json:"audio_path"`
}

type CurriculumResp struct {
	Title           string   `json:"title"`
	Description     string   `json:"description"`
	Lessons         []Lesson `json:"lessons"`
	Recommendations []string `json:"recommendations"`
}

type Lesson struct {
	ID                 string   `json:"id"`
	Title              string   `json:"title"`
	Path               string   `json:"path"`
	Format             string   `json:"format"`
	DurationMinutes    int      `json:"duration_minutes"`
	Difficulty         string   `json:"difficulty"`
	Prerequisites      []string `json:"prerequisites"`
	LearningObjectives []string `json:"learning_objectives"`
	ContentOutline     []string `json:"content_outline"`
}

type YouTubeProcessReq struct {
	URL      string `json:"url"`
	Language string `json:"language,omitempty"`
}

type YouTubeProcessResp struct {
	Success      bool          `json:"success"`
	FlashcardSet *FlashcardSet `json:"flashcard_set,omitempty"`
	Error        string        `json:"error,omitempty"`
}

type Flashcard struct {
	ID           string   `json:"id"`
	Question     string   `json:"question"`
	Answer       string   `json:"answer"`
	Category     string   `json:"category"`
	Difficulty   string   `json:"difficulty"`
	Tags         []string `json:"tags,omitempty"`
	Status       string   `json:"status"`
	ReviewCount  int      `json:"review_count"`
	CreatedAt    string   `json:"created_at,omitempty"`
	LastReviewed string   `json:"last_reviewed,omitempty"`
}

type FlashcardSet struct {
	ID            string      `json:"id"`
	Title         string      `json:"title"`
	Description   string      `json:"description"`
	VideoURL      string      `json:"video_url,omitempty"`
	VideoTitle    string      `json:"video_title,omitempty"`
	Cards         []Flashcard `json:"cards"`
	TotalCards    int         `json:"total_cards"`
	LearnedCards  int         `json:"learned_cards"`
	LearningCards int         `json:"learning_cards"`
	CreatedAt     string      `json:"created_at,omitempty"`
}

type FlashcardSetSummary struct {
	ID            string `json:"id"`
	Title         string `json:"title"`
	Description   string `json:"description"`
	VideoTitle    string `json:"video_title,omitempty"`
	TotalCards    int    `json:"total_cards"`
	LearnedCards  int    `json:"learned_cards"`
	LearningCards int    `json:"learning_cards"`
	CreatedAt     string `json:"created_at,omitempty"`
}

type UpdateCardStatusReq struct {
	Status string `json:"status"`
}

type PlaylistProcessReq struct {
	PlaylistURL string `json:"playlist_url"`
}

type PlaylistProcessResp struct {
	Success      bool   `json:"success"`
	CurriculumID string `json:"curriculum_id,omitempty"`
	Title        string `json:"title,omitempty"`
	Chapters     int    `json:"chapters,omitempty"`
	Error        string `json:"error,omitempty"`
}

type Chapter struct {
	ID          string      `json:"id"`
	Title       string      `json:"title"`
	Description string      `json:"description"`
	VideoURL    string      `json:"video_url"`
	VideoID     string      `json:"video_id"`
	Duration    string      `json:"duration"`
	Notes       string      `json:"notes"`
	Flashcards  []Flashcard `json:"flashcards"`
	Completed   bool        `json:"completed"`
	CompletedAt string      `json:"completed_at,omitempty"`
	Order       int         `json:"order"`
}

type PlaylistCurriculum struct {
	ID                 string    `json:"id"`
	Title              string    `json:"title"`
	Description        string    `json:"description"`
	PlaylistURL        string    `json:"playlist_url"`
	Creator            string    `json:"creator,omitempty"`
	Chapters           []Chapter `json:"chapters"`
	TotalChapters      int       `json:"total_chapters"`
	CompletedChapters  int       `json:"completed_chapters"`
	ProgressPercentage float64   `json:"progress_percentage"`
	CreatedAt          string    `json:"created_at,omitempty"`
	LastAccessed       string    `json:"last_accessed,omitempty"`
}

type CurriculumSummary struct {
	ID                 string  `json:"id"`
	Title              string  `json:"title"`
	Description        string  `json:"description"`
	Creator            string  `json:"creator,omitempty"`
	TotalChapters      int     `json:"total_chapters"`
	CompletedChapters  int     `json:"completed_chapters"`
	ProgressPercentage float64 `json:"progress_percentage"`
	CreatedAt          string  `json:"created_at,omitempty"`
	LastAccessed       string  `json:"last_accessed,omitempty"`
}

type ChapterProgressReq struct {
	Completed bool `json:"completed"`
}

type GenerateQuizReq struct {
	ChapterContent       string `json:"chapter_content"`
	ChapterTitle         string `json:"chapter_title"`
	DifficultyPreference string `json:"difficulty_preference,omitempty"`
}

type QuizQuestion struct {
	ID            string   `json:"id"`
	Question      string   `json:"question"`
	Options       []string `json:"options"`
	CorrectAnswer int      `json:"correct_answer"`
	Explanation   string   `json:"explanation,omitempty"`
	Difficulty    string   `json:"difficulty"`
	Topic         string   `json:"topic,omitempty"`
	Concepts      []string `json:"concepts,omitempty"`
}

type GenerateQuizResp struct {
	QuizID    string         `json:"quiz_id"`
	Questions []QuizQuestion `json:"questions"`
}

type SubmitQuizReq struct {
	QuizID      string         `json:"quiz_id"`
	UserAnswers []int          `json:"user_answers"`
	Questions   []QuizQuestion `json:"questions,omitempty"`
}

type SubmitQuizResp struct {
	Percentage      float64  `json:"percentage"`
	CorrectAnswers  int      `json:"correct_answers"`
	TotalQuestions  int      `json:"total_questions"`
	StrongConcepts  []string `json:"strong_concepts"`
	WeakConcepts    []string `json:"weak_concepts"`
	Recommendations []string `json:"recommendations"`
}

type DetectConfusionReq struct {
	FrameData       string  `json:"frame_data,omitempty"`
	ImageData       string  `json:"image_data,omitempty"`
	ContextText     string  `json:"context_text,omitempty"`
	CurrentText     string  `json:"current_text,omitempty"`
	ReadingPosition float64 `json:"reading_position,omitempty"`
}

type DetectConfusionResp struct {
	ConfusionDetected     bool     `json:"confusion_detected"`
	Confidence            float64  `json:"confidence"`
	ConfusionLevel        float64  `json:"confusion_level"`
	Suggestions           []string `json:"suggestions"`
	ContextualExplanation string   `json:"contextual_explanation,omitempty"`
}

type Advisory struct {
	Type        string   `json:"type"`
	TS          int64    `json:"ts"`
	Confidence  float64  `json:"confidence"`
	Suggestions []string `json:"suggestions"`
	Explanation string   `json:"explanation,omitempty"`
}
