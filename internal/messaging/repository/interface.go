package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// GroupChat is a named chat room with an explicit member list.
type GroupChat struct {
	ID        uuid.UUID
	Name      string
	CreatedBy string
	MemberIDs []string
	CreatedAt time.Time
}

// Conversation is a one-on-one channel between two reps. The pair is stored
// in canonical order (RepA < RepB) so each pair has exactly one row.
type Conversation struct {
	ID        uuid.UUID
	RepA      string
	RepB      string
	CreatedAt time.Time
}

// Message is a single chat message. ChannelID refers to either a group chat
// or a direct conversation.
type Message struct {
	ID         uuid.UUID
	ChannelID  uuid.UUID
	SenderID   string
	SenderName string
	Body       string
	CreatedAt  time.Time
}

// CreateGroupParams contains parameters for creating a group chat.
type CreateGroupParams struct {
	Name      string
	CreatedBy string
	MemberIDs []string
}

// InsertMessageParams contains parameters for storing a message.
type InsertMessageParams struct {
	ChannelID  uuid.UUID
	SenderID   string
	SenderName string
	Body       string
}

// Repository defines persistence operations for group chats, direct
// conversations and their messages.
type Repository interface {
	CreateGroup(ctx context.Context, params CreateGroupParams) (GroupChat, error)
	ListGroups(ctx context.Context, repID string) ([]GroupChat, error)
	GetGroup(ctx context.Context, id uuid.UUID) (GroupChat, error)
	DeleteGroup(ctx context.Context, id uuid.UUID) error

	GetOrCreateConversation(ctx context.Context, repA, repB string) (Conversation, error)
	ListConversations(ctx context.Context, repID string) ([]Conversation, error)

	InsertMessage(ctx context.Context, params InsertMessageParams) (Message, error)
	ListMessages(ctx context.Context, channelID uuid.UUID, limit int) ([]Message, error)
}
