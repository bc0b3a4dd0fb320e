package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/profai/profai-backend/internal/core/confusion"
	"github.com/profai/profai-backend/internal/logging"
	"github.com/profai/profai-backend/pkg/types"
	"github.com/profai/profai-backend/pkg/ws"
)

// advisoryThreshold is the confusion level above which an advisory is
// pushed to websocket subscribers.
const advisoryThreshold = 0.5

type ConfusionHandler struct {
	Detector *confusion.Detector
	Hub      *ws.Hub
	Log      *logging.Logger
	Upgrader websocket.Upgrader
}

func NewConfusionHandler(d *confusion.Detector, hub *ws.Hub, log *logging.Logger) *ConfusionHandler {
	return &ConfusionHandler{
		Detector: d,
		Hub:      hub,
		Log:      log,
		Upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool { return true },
		},
	}
}

// Detect analyzes a webcam frame plus reading context for confusion. When
// the level clears the advisory threshold, subscribers get a push too.
func (h *ConfusionHandler) Detect(c *gin.Context) {
	var req types.DetectConfusionReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "bad_request"})
		return
	}
	frame := req.FrameData
	if frame == "" {
		frame = req.ImageData
	}
	contextText := req.ContextText
	if contextText == "" {
		contextText = req.CurrentText
	}

	m := h.Detector.Analyze(c.Request.Context(), frame, contextText)
	detected := m.Detected(advisoryThreshold)
	if detected {
		h.Hub.Broadcast(types.Advisory{
			Type:        "confusion",
			TS:          time.Now().UnixMilli(),
			Confidence:  m.ConfusionLevel,
			Suggestions: m.Suggestions,
			Explanation: m.Explanation,
		})
	}
	c.JSON(http.StatusOK, types.DetectConfusionResp{
		ConfusionDetected:     detected,
		Confidence:            m.ConfusionLevel,
		ConfusionLevel:        m.ConfusionLevel,
		Suggestions:           m.Suggestions,
		ContextualExplanation: m.Explanation,
	})
}

// Advisories upgrades to a websocket that streams confusion advisories.
func (h *ConfusionHandler) Advisories(c *gin.Context) {
	conn, err := h.Upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		return
	}
	id := uuid.NewString()
	h.Hub.Add(id, conn)
	defer func() {
		h.Hub.Remove(id)
		conn.Close()
	}()

	conn.SetReadLimit(1 << 20)
	conn.SetReadDeadline(time.Now().Add(60 * time.Second))
	conn.SetPongHandler(func(string) error {
		conn.SetReadDeadline(time.Now().Add(60 * time.Second))
		return nil
	})

	// Reads only to keep the connection alive; advisories flow one way
	// through the hub.
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			return
		}
		conn.SetReadDeadline(time.Now().Add(60 * time.Second))
	}
}
