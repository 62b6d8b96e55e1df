package main

import (
	"encoding/json"
	"net/http"

	"github.com/storelens/knowledge-augment/internal/observability"
	"github.com/storelens/knowledge-augment/internal/strategy"
	"github.com/storelens/knowledge-augment/pkg/engine"
)

// AugmentHandler handles augmentation requests.
type AugmentHandler struct {
	logger *observability.Logger
	engine *engine.Engine
}

// NewAugmentHandler creates a new augmentation handler.
func NewAugmentHandler(logger *observability.Logger, eng *engine.Engine) *AugmentHandler {
	return &AugmentHandler{logger: logger.WithComponent("api"), engine: eng}
}

// AugmentRequestDTO is the API request body.
type AugmentRequestDTO struct {
	Message       string                  `json:"message"`
	History       []string                `json:"history,omitempty"`
	QuestionDepth string                  `json:"questionDepth,omitempty"`
	TurnCount     int                     `json:"turnCount,omitempty"`
	Limit         int                     `json:"limit,omitempty"`
	Context       *ConversationContextDTO `json:"context,omitempty"`
}

// ConversationContextDTO carries multi-turn signals tracked by the caller.
type ConversationContextDTO struct {
	Phase               string   `json:"phase,omitempty"`
	AccumulatedEntities []string `json:"accumulatedEntities,omitempty"`
	UnresolvedGaps      []string `json:"unresolvedGaps,omitempty"`
	ProfileHint         string   `json:"profileHint,omitempty"`
}

type errorResponse struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}

// Augment runs the pipeline for one message. An empty message is not an
// error: it yields the default-topic, no-search result.
func (h *AugmentHandler) Augment(w http.ResponseWriter, r *http.Request) {
	var reqDTO AugmentRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&reqDTO); err != nil {
		h.writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	req := engine.Request{
		Message:       reqDTO.Message,
		History:       reqDTO.History,
		QuestionDepth: reqDTO.QuestionDepth,
		TurnCount:     reqDTO.TurnCount,
		Limit:         reqDTO.Limit,
	}
	if c := reqDTO.Context; c != nil {
		req.Context = &strategy.ConversationContext{
			Phase:               strategy.Phase(c.Phase),
			AccumulatedEntities: c.AccumulatedEntities,
			UnresolvedGaps:      c.UnresolvedGaps,
			ProfileHint:         c.ProfileHint,
		}
	}

	result, err := h.engine.Augment(r.Context(), req)
	if err != nil {
		h.logger.Error().Err(err).Msg("Augmentation failed")
		h.writeError(w, http.StatusInternalServerError, "augmentation failed", err.Error())
		return
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(result); err != nil {
		h.logger.Error().Err(err).Msg("Failed to encode response")
	}
}

func (h *AugmentHandler) writeError(w http.ResponseWriter, status int, msg, details string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(errorResponse{Error: msg, Details: details})
}
