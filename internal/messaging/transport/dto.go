// Package transport defines request/response DTOs for the messaging API.
package transport

import (
	"time"

	"educater_backend/internal/messaging/repository"

	"github.com/google/uuid"
)

// CreateGroupRequest creates a group chat.
type CreateGroupRequest struct {
	Name      string   `json:"name" validate:"required,min=1,max=120"`
	MemberIDs []string `json:"memberIds" validate:"required,min=1,dive,required"`
}

// PostMessageRequest posts a message to a group or a conversation.
type PostMessageRequest struct {
	Body string `json:"body" validate:"required,min=1,max=4000"`
}

// GroupChatResponse is the API representation of a group chat.
type GroupChatResponse struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	CreatedBy string    `json:"createdBy"`
	MemberIDs []string  `json:"memberIds"`
	CreatedAt time.Time `json:"createdAt"`
}

// ConversationResponse is the API representation of a direct conversation.
// OtherRepID is resolved from the caller's perspective.
type ConversationResponse struct {
	ID         uuid.UUID `json:"id"`
	OtherRepID string    `json:"otherRepId"`
	CreatedAt  time.Time `json:"createdAt"`
}

// MessageResponse is the API representation of a message.
type MessageResponse struct {
	ID         uuid.UUID `json:"id"`
	ChannelID  uuid.UUID `json:"channelId"`
	SenderID   string    `json:"senderId"`
	SenderName string    `json:"senderName"`
	Body       string    `json:"body"`
	CreatedAt  time.Time `json:"createdAt"`
}

// FromGroup converts a repository group chat to its API shape.
func FromGroup(g repository.GroupChat) GroupChatResponse {
	return GroupChatResponse{
		ID:        g.ID,
		Name:      g.Name,
		CreatedBy: g.CreatedBy,
		MemberIDs: g.MemberIDs,
		CreatedAt: g.CreatedAt,
	}
}

// FromGroupList converts a slice of group chats.
func FromGroupList(groups []repository.GroupChat) []GroupChatResponse {
	out := make([]GroupChatResponse, len(groups))
	for i, g := range groups {
		out[i] = FromGroup(g)
	}
	return out
}

// FromConversation converts a conversation, naming the counterpart from the
// viewer's side.
func FromConversation(conv repository.Conversation, viewerID string) ConversationResponse {
	other := conv.RepA
	if other == viewerID {
		other = conv.RepB
	}
	return ConversationResponse{ID: conv.ID, OtherRepID: other, CreatedAt: conv.CreatedAt}
}

// FromConversationList converts a slice of conversations.
func FromConversationList(convs []repository.Conversation, viewerID string) []ConversationResponse {
	out := make([]ConversationResponse, len(convs))
	for i, conv := range convs {
		out[i] = FromConversation(conv, viewerID)
	}
	return out
}

// FromMessage converts a repository message to its API shape.
func FromMessage(m repository.Message) MessageResponse {
	return MessageResponse{
		ID:         m.ID,
		ChannelID:  m.ChannelID,
		SenderID:   m.SenderID,
		SenderName: m.SenderName,
		Body:       m.Body,
		CreatedAt:  m.CreatedAt,
	}
}

// FromMessageList converts a slice of messages.
func FromMessageList(messages []repository.Message) []MessageResponse {
	out := make([]MessageResponse, len(messages))
	for i, m := range messages {
		out[i] = FromMessage(m)
	}
	return out
}
