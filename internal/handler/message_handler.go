package handler

import (
	"teamchat/internal/domain"
	"teamchat/internal/repository"
	"teamchat/internal/services"
	"teamchat/internal/transport/httpdto"

	"github.com/gin-gonic/gin"
)

type MessageHandler struct {
	messages  *services.MessageService
	reactions *services.ReactionService
}

func NewMessageHandler(messages *services.MessageService, reactions *services.ReactionService) *MessageHandler {
	return &MessageHandler{messages: messages, reactions: reactions}
}

func (h *MessageHandler) Create(c *gin.Context) {
	var req httpdto.CreateMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid request")
		return
	}
	workspaceID, err := domain.Parse[domain.WorkspaceID](req.WorkspaceID)
	if err != nil {
		badRequest(c, "invalid workspace_id")
		return
	}
	channelID, valid := optionalID[domain.ChannelID](c, "channel_id", req.ChannelID)
	if !valid {
		return
	}
	conversationID, valid := optionalID[domain.ConversationID](c, "conversation_id", req.ConversationID)
	if !valid {
		return
	}
	parentID, valid := optionalID[domain.MessageID](c, "parent_message_id", req.ParentMessageID)
	if !valid {
		return
	}

	id, err := h.messages.Create(c.Request.Context(), caller(c), services.CreateMessageInput{
		Body:            req.Body,
		Image:           req.Image,
		WorkspaceID:     workspaceID,
		ChannelID:       channelID,
		ConversationID:  conversationID,
		ParentMessageID: parentID,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	created(c, id.UUID)
}

// List serves one page of a channel, conversation or thread. Pass the
// continue_cursor of the previous page as cursor to read further back.
func (h *MessageHandler) List(c *gin.Context) {
	channelID, valid := optionalID[domain.ChannelID](c, "channel_id", c.Query("channel_id"))
	if !valid {
		return
	}
	conversationID, valid := optionalID[domain.ConversationID](c, "conversation_id", c.Query("conversation_id"))
	if !valid {
		return
	}
	parentID, valid := optionalID[domain.MessageID](c, "parent_message_id", c.Query("parent_message_id"))
	if !valid {
		return
	}
	numItems, err := parseInt(c.Query("num_items"))
	if err != nil {
		badRequest(c, "invalid num_items")
		return
	}

	page, err := h.messages.List(c.Request.Context(), caller(c), services.ListMessagesInput{
		ChannelID:       channelID,
		ConversationID:  conversationID,
		ParentMessageID: parentID,
		Page:            repository.PageRequest{NumItems: numItems, Cursor: c.Query("cursor")},
	})
	if err != nil {
		respondError(c, err)
		return
	}
	ok(c, httpdto.NewMessagePage(page))
}

func (h *MessageHandler) Get(c *gin.Context) {
	id, valid := pathID[domain.MessageID](c, "id")
	if !valid {
		return
	}
	msg, err := h.messages.Get(c.Request.Context(), caller(c), id)
	if err != nil {
		respondError(c, err)
		return
	}
	if msg == nil {
		ok[*httpdto.Message](c, nil)
		return
	}
	dto := httpdto.NewMessage(*msg)
	ok(c, &dto)
}

func (h *MessageHandler) Update(c *gin.Context) {
	id, valid := pathID[domain.MessageID](c, "id")
	if !valid {
		return
	}
	var req httpdto.UpdateMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid request")
		return
	}
	if _, err := h.messages.Update(c.Request.Context(), caller(c), id, req.Body); err != nil {
		respondError(c, err)
		return
	}
	okID(c, id.UUID)
}

func (h *MessageHandler) Remove(c *gin.Context) {
	id, valid := pathID[domain.MessageID](c, "id")
	if !valid {
		return
	}
	if _, err := h.messages.Remove(c.Request.Context(), caller(c), id); err != nil {
		respondError(c, err)
		return
	}
	okID(c, id.UUID)
}

func (h *MessageHandler) ToggleReaction(c *gin.Context) {
	id, valid := pathID[domain.MessageID](c, "id")
	if !valid {
		return
	}
	var req httpdto.ToggleReactionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid request")
		return
	}
	reactionID, err := h.reactions.Toggle(c.Request.Context(), caller(c), id, req.Value)
	if err != nil {
		respondError(c, err)
		return
	}
	okID(c, reactionID.UUID)
}
