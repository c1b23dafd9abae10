package handler

import (
	"net/http"

	"github.com/Omjadhav321/bhaskar-solar-platform/internal/domain"
	"github.com/Omjadhav321/bhaskar-solar-platform/internal/repository"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// ============================================================
// Messages
// ============================================================

func sendMessageHandler(messages *repository.MessageRepo, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "POST /v1/messages")
		defer span.End()

		var req struct {
			ToUserID string `json:"toUserId"`
			Text     string `json:"text"`
		}
		if err := decodeJSON(r, &req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}

		msg, err := messages.Send(UserIDFromContext(ctx), req.ToUserID, req.Text)
		if err != nil {
			handleServiceError(w, err, logger)
			return
		}
		writeJSON(w, http.StatusCreated, msg)
	}
}

func listConversationsHandler(messages *repository.MessageRepo, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "GET /v1/messages/conversations")
		defer span.End()

		partners := messages.UserConversations(UserIDFromContext(ctx))
		if partners == nil {
			partners = []string{}
		}
		writeJSON(w, http.StatusOK, map[string]any{"partners": partners})
	}
}

func getConversationHandler(messages *repository.MessageRepo, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "GET /v1/messages/conversations/{partnerId}")
		defer span.End()

		msgs := messages.Conversation(UserIDFromContext(ctx), chi.URLParam(r, "partnerId"))
		if msgs == nil {
			msgs = []domain.Message{}
		}
		writeJSON(w, http.StatusOK, map[string]any{"messages": msgs})
	}
}

func markMessagesReadHandler(messages *repository.MessageRepo, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		_, span := tracer.Start(r.Context(), "POST /v1/messages/read")
		defer span.End()

		var req struct {
			IDs []string `json:"ids"`
		}
		if err := decodeJSON(r, &req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}
		messages.MarkRead(req.IDs)
		w.WriteHeader(http.StatusNoContent)
	}
}

func unreadCountHandler(messages *repository.MessageRepo, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "GET /v1/messages/unread-count")
		defer span.End()

		writeJSON(w, http.StatusOK, map[string]any{
			"count": messages.UnreadCount(UserIDFromContext(ctx)),
		})
	}
}
