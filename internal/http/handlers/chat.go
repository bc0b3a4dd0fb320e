package handlers

import (
	"context"
	"io"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/profai/profai-backend/internal/core/emotion"
	"github.com/profai/profai-backend/internal/core/prompts"
	"github.com/profai/profai-backend/internal/core/tts"
	"github.com/profai/profai-backend/internal/logging"
	"github.com/profai/profai-backend/pkg/types"
)

// LLM is the full model surface the handlers need. Both the Gemini client
// and the dev fake satisfy it.
type LLM interface {
	Chat(ctx context.Context, system string, history []types.Message, text string) (string, error)
	GenerateJSON(ctx context.Context, system, prompt string) (string, error)
	AnalyzeImage(ctx context.Context, prompt string, image []byte, mime string) (string, error)
	Transcribe(ctx context.Context, audio []byte, mime, language string) (string, error)
}

type ChatHandler struct {
	LLM     LLM
	TTS     tts.Provider
	Emotion *emotion.Detector
	Log     *logging.Logger
}

func NewChatHandler(llm LLM, provider tts.Provider, det *emotion.Detector, log *logging.Logger) *ChatHandler {
	return &ChatHandler{LLM: llm, TTS: provider, Emotion: det, Log: log}
}

// Ask answers a text question, optionally with synthesized speech.
func (h *ChatHandler) Ask(c *gin.Context) {
	var req types.AskReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "bad_request"})
		return
	}
	if strings.TrimSpace(req.Text) == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "text is required"})
		return
	}

	emo := req.Emotion
	if emo == "" {
		emo = string(h.Emotion.Analyze(req.Text).State)
	}
	system := prompts.BuildSystem(prompts.Options{
		Emotion:        emo,
		LearningPath:   req.LearningPath,
		DeliveryFormat: req.DeliveryFormat,
		Language:       req.Language,
	})
	answer, err := h.LLM.Chat(c.Request.Context(), system, req.ConversationHistory, req.Text)
	if err != nil {
		h.Log.Error("chat failed", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "chat_failed"})
		return
	}

	resp := types.AskResp{Answer: answer}
	if req.PlayAudio {
		path, err := h.TTS.Synthesize(c.Request.Context(), answer, req.Language)
		if err != nil {
			// Voice is best effort, the text answer still goes out.
			h.Log.Warn("tts failed", "error", err)
		} else {
			resp.AudioPath = path
		}
	}
	c.JSON(http.StatusOK, resp)
}

// VoiceChat accepts a recorded audio clip, transcribes it, answers, and
// replies with speech.
func (h *ChatHandler) VoiceChat(c *gin.Context) {
	file, header, err := c.Request.FormFile("audio_file")
	if err != nil {
		// Older clients upload under "audio".
		file, header, err = c.Request.FormFile("audio")
	}
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "audio file is required"})
		return
	}
	defer file.Close()
	audio, err := io.ReadAll(io.LimitReader(file, 16<<20))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "bad_request"})
		return
	}
	mime := header.Header.Get("Content-Type")
	if mime == "" {
		mime = "audio/webm"
	}
	language := c.Query("language")
	if language == "" {
		language = c.PostForm("language")
	}

	text, err := h.LLM.Transcribe(c.Request.Context(), audio, mime, language)
	if err != nil {
		h.Log.Error("transcription failed", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "transcription_failed"})
		return
	}
	if strings.TrimSpace(text) == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "could not understand audio"})
		return
	}

	analysis := h.Emotion.Analyze(text)
	system := prompts.BuildSystem(prompts.Options{
		Emotion:      string(analysis.State),
		LearningPath: c.PostForm("learning_path"),
		Language:     language,
	})
	answer, err := h.LLM.Chat(c.Request.Context(), system, nil, text)
	if err != nil {
		h.Log.Error("chat failed", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "chat_failed"})
		return
	}

	resp := types.VoiceChatResp{
		Transcription:   text,
		Response:        answer,
		DetectedEmotion: string(analysis.State),
	}
	if path, err := h.TTS.Synthesize(c.Request.Context(), answer, language); err != nil {
		h.Log.Warn("tts failed", "error", err)
	} else {
		resp.AudioURL = path
	}
	c.JSON(http.StatusOK, resp)
}

// Synthesize converts text to speech and returns the audio path.
func (h *ChatHandler) Synthesize(c *gin.Context) {
	var req types.TTSReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "bad_request"})
		return
	}
	if strings.TrimSpace(req.Text) == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "text is required"})
		return
	}
	path, err := h.TTS.Synthesize(c.Request.Context(), req.Text, req.Language)
	if err != nil {
		h.Log.Error("tts failed", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "tts_failed"})
		return
	}
	c.JSON(http.StatusOK, types.TTSResp{AudioPath: path})
}
