package ws

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"github.com/gofiber/contrib/websocket"
	"github.com/lk16/patzer/internal/models"
	"github.com/lk16/patzer/internal/repository"
	"github.com/lk16/patzer/internal/services"
)

// Conn is the part of a websocket connection the Handler uses.
type Conn interface {
	ReadMessage() (int, []byte, error)
	WriteMessage(messageType int, data []byte) error
}

// Analyzer runs analysis requests.
type Analyzer interface {
	Analyze(ctx context.Context, request models.AnalysisRequest) (*models.Analysis, error)
}

type Handler struct {
	analyzer Analyzer
	ws       Conn
}

// NewHandler creates a new Handler that analyzes through the repository.
func NewHandler(ws Conn, services *services.Services) *Handler {
	return NewHandlerWithAnalyzer(ws, repository.NewAnalysisRepositoryFromServices(services))
}

func NewHandlerWithAnalyzer(ws Conn, analyzer Analyzer) *Handler {
	return &Handler{analyzer: analyzer, ws: ws}
}

func (h *Handler) readMessage() (*Incoming, error) {
	var req Incoming

	msgType, msg, err := h.ws.ReadMessage()
	if err != nil {
		return nil, fmt.Errorf("ws read error: %w", err)
	}

	slog.Debug("read ws message", "msgType", msgType, "msg", string(msg))

	if msgType != websocket.TextMessage {
		return nil, fmt.Errorf("unexpected message type: %d", msgType)
	}

	if err = json.Unmarshal(msg, &req); err != nil {
		return nil, fmt.Errorf("unmarshal error: %w", err)
	}

	return &req, nil
}

func (h *Handler) writeMessage(outgoing *Outgoing) error {
	msg, err := json.Marshal(outgoing)
	if err != nil {
		return fmt.Errorf("marshal error: %w", err)
	}

	slog.Debug("write ws message", "msg", string(msg))

	if err = h.ws.WriteMessage(websocket.TextMessage, msg); err != nil {
		return fmt.Errorf("write error: %w", err)
	}

	return nil
}

func (h *Handler) handleMessage(req *Incoming) (*Outgoing, error) {
	if req.Event == "" {
		return nil, errors.New("event field is either empty or missing")
	}

	switch req.Event {
	case analysisRequestEvent:
		return h.handleAnalysisRequest(req)
	default:
		return nil, fmt.Errorf("unknown event: %s", req.Event)
	}
}

// Handle handles the websocket connection until the client goes away or sends something we
// cannot understand. Failed analyses are reported to the client and do not end the connection.
func (h *Handler) Handle() error {
	for {
		req, err := h.readMessage()
		if err != nil {
			return fmt.Errorf("ws read error: %w", err)
		}

		respData, err := h.handleMessage(req)
		if err != nil {
			return fmt.Errorf("ws handle error: %w", err)
		}

		if err = h.writeMessage(respData); err != nil {
			return fmt.Errorf("ws write error: %w", err)
		}
	}
}

func (h *Handler) handleAnalysisRequest(req *Incoming) (*Outgoing, error) {
	var reqData models.AnalysisRequest
	if err := json.Unmarshal(req.Data, &reqData); err != nil {
		return nil, fmt.Errorf("ws analysis request unmarshal error: %w", err)
	}

	if err := reqData.Validate(); err != nil {
		return &Outgoing{ID: req.ID, Error: err.Error()}, nil
	}

	analysis, err := h.analyzer.Analyze(context.Background(), reqData)
	if err != nil {
		slog.Error("ws analysis failed", "id", req.ID, "error", err)
		return &Outgoing{ID: req.ID, Error: err.Error()}, nil
	}

	return &Outgoing{ID: req.ID, Data: analysis}, nil
}
