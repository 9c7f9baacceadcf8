package api

import (
	"net/http"
	"strconv"

	"stayhub/auth"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type createConversationRequest struct {
	ParticipantIDs []uuid.UUID `json:"participant_ids"`
}

type addParticipantRequest struct {
	UserID uuid.UUID `json:"user_id" binding:"required"`
}

type postMessageRequest struct {
	SenderID    uuid.UUID `json:"sender_id" binding:"required"`
	MessageBody string    `json:"message_body"`
}

func (h *Handler) listConversations(c *gin.Context) {
	userID, _ := auth.ActingUser(c)
	views, err := h.conversations.ListConversations(userID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": views})
}

func (h *Handler) createConversation(c *gin.Context) {
	userID, _ := auth.ActingUser(c)

	var req createConversationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid body", "kind": "invalid_input"})
		return
	}

	view, err := h.conversations.CreateConversation(userID, req.ParticipantIDs)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, view)
}

func (h *Handler) getConversation(c *gin.Context) {
	userID, _ := auth.ActingUser(c)
	conversationID, ok := pathUUID(c, "id")
	if !ok {
		return
	}

	detail, err := h.conversations.GetConversationDetail(userID, conversationID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, detail)
}

func (h *Handler) addParticipant(c *gin.Context) {
	userID, _ := auth.ActingUser(c)
	conversationID, ok := pathUUID(c, "id")
	if !ok {
		return
	}

	var req addParticipantRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid body", "kind": "invalid_input"})
		return
	}

	if err := h.conversations.AddParticipant(userID, conversationID, req.UserID); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *Handler) postMessage(c *gin.Context) {
	userID, _ := auth.ActingUser(c)
	conversationID, ok := pathUUID(c, "id")
	if !ok {
		return
	}

	var req postMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid body", "kind": "invalid_input"})
		return
	}

	message, err := h.messages.SubmitMessage(c.Request.Context(), userID, conversationID, req.SenderID, req.MessageBody)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, message)
}

func (h *Handler) searchMessages(c *gin.Context) {
	userID, _ := auth.ActingUser(c)
	conversationID, ok := pathUUID(c, "id")
	if !ok {
		return
	}

	limit := 20
	if v := c.Query("limit"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil && parsed > 0 && parsed <= 100 {
			limit = parsed
		}
	}

	results, err := h.messages.SearchMessages(c.Request.Context(), userID, conversationID, c.Query("q"), limit)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": results})
}

// pathUUID parses a uuid path parameter, answering 400 itself on garbage.
func pathUUID(c *gin.Context, name string) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param(name))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "malformed identifier", "kind": "invalid_input"})
		return uuid.Nil, false
	}
	return id, true
}
