package http

import (
	"net/http"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/profai/profai-backend/internal/config"
	"github.com/profai/profai-backend/internal/core/confusion"
	"github.com/profai/profai-backend/internal/core/curriculum"
	"github.com/profai/profai-backend/internal/core/devfake"
	"github.com/profai/profai-backend/internal/core/emotion"
	"github.com/profai/profai-backend/internal/core/gemini"
	"github.com/profai/profai-backend/internal/core/playlist"
	"github.com/profai/profai-backend/internal/core/quiz"
	ttsprov "github.com/profai/profai-backend/internal/core/tts"
	"github.com/profai/profai-backend/internal/core/youtube"
	"github.com/profai/profai-backend/internal/http/handlers"
	"github.com/profai/profai-backend/internal/logging"
	"github.com/profai/profai-backend/internal/repo/sqlite"
	"github.com/profai/profai-backend/pkg/ws"
)

// NewRouter wires the full API surface. The store and logger are owned by
// the caller; everything else is constructed here.
func NewRouter(cfg config.Config, store *sqlite.Store, log *logging.Logger) (*gin.Engine, error) {
	var llm handlers.LLM
	if cfg.DevFake {
		log.Warn("dev fake mode enabled, serving canned model responses")
		llm = devfake.New()
	} else {
		client, err := gemini.New(cfg.GeminiAPIKey, cfg.GeminiModel)
		if err != nil {
			return nil, err
		}
		llm = client
	}

	var speech ttsprov.Provider
	if cfg.DevFake || cfg.ElevenLabsKey == "" {
		speech = ttsprov.NewStub()
	} else {
		speech = ttsprov.NewElevenLabs(cfg.ElevenLabsKey, cfg.ElevenLabsVoice, cfg.AudioDir)
	}

	yt := youtube.NewClient()
	hub := ws.NewHub()

	flashRepo := sqlite.NewFlashcardRepo(store)
	curRepo := sqlite.NewCurriculumRepo(store)
	quizRepo := sqlite.NewQuizRepo(store)

	ch := handlers.NewChatHandler(llm, speech, emotion.New(), log)
	cuh := handlers.NewCurriculumHandler(curriculum.NewCatalog())
	fh := handlers.NewFlashcardsHandler(youtube.NewProcessor(yt, llm, log), flashRepo, log)
	ph := handlers.NewPlaylistHandler(playlist.NewProcessor(yt, llm, curRepo, log), curRepo, log)
	qh := handlers.NewQuizHandler(quiz.New(llm), quizRepo, log)
	coh := handlers.NewConfusionHandler(confusion.New(llm), hub, log)

	r := gin.Default()
	r.Use(cors.New(cors.Config{
		AllowOrigins: []string{
			"http://localhost:3000",
			"http://localhost:5173",
			"http://127.0.0.1:3000",
			"http://127.0.0.1:5173",
		},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Authorization", "Content-Type", "X-Requested-With"},
		AllowCredentials: true,
	}))

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "healthy", "service": "profai-backend"})
	})
	r.Static("/audio", cfg.AudioDir)

	r.POST("/ask", ch.Ask)
	r.POST("/voice-chat", ch.VoiceChat)
	r.POST("/tts", ch.Synthesize)
	r.GET("/curriculum", cuh.Get)

	r.POST("/youtube/process", fh.ProcessVideo)
	r.GET("/flashcards/sets", fh.ListSets)
	r.GET("/flashcards/sets/:id", fh.GetSet)
	r.DELETE("/flashcards/sets/:id", fh.DeleteSet)
	r.GET("/flashcards/sets/:id/due", fh.DueCards)
	r.PUT("/flashcards/sets/:id/cards/:cardId/status", fh.UpdateCardStatus)

	r.POST("/playlist/process", ph.Process)
	r.GET("/playlist/curricula", ph.ListCurricula)
	r.GET("/playlist/curriculum/:id", ph.GetCurriculum)
	r.DELETE("/playlist/curriculum/:id", ph.DeleteCurriculum)
	r.PUT("/playlist/curriculum/:id/chapter/:chapterId/progress", ph.ChapterProgress)

	r.POST("/generate-quiz", qh.Generate)
	r.POST("/submit-quiz", qh.Submit)
	r.POST("/detect-confusion", coh.Detect)
	r.GET("/v1/advisories", coh.Advisories)

	return r, nil
}
