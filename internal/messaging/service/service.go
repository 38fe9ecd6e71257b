// Package service implements team messaging: group chats with explicit
// member lists, and one-on-one direct conversations. Every stored message is
// published on the event bus so the notification layer can fan it out.
package service

import (
	"context"
	"slices"
	"strings"

	"educater_backend/internal/events"
	"educater_backend/internal/messaging/repository"
	"educater_backend/platform/apperr"
	"educater_backend/platform/logger"

	"github.com/google/uuid"
)

// RepDirectory resolves rep IDs to profiles. Satisfied by the reps service.
type RepDirectory interface {
	Exists(ctx context.Context, id string) (bool, error)
}

// Service provides messaging operations.
type Service struct {
	repo repository.Repository
	reps RepDirectory
	bus  events.Bus
	log  *logger.Logger
}

// New creates a new messaging service.
func New(repo repository.Repository, reps RepDirectory, bus events.Bus, log *logger.Logger) *Service {
	return &Service{repo: repo, reps: reps, bus: bus, log: log}
}

// CreateGroupParams contains parameters for creating a group chat.
type CreateGroupParams struct {
	Name      string
	CreatedBy string
	MemberIDs []string
}

// CreateGroup creates a group chat. The creator is always a member, whether
// or not they listed themselves.
func (s *Service) CreateGroup(ctx context.Context, params CreateGroupParams) (repository.GroupChat, error) {
	name := strings.TrimSpace(params.Name)
	if name == "" {
		return repository.GroupChat{}, apperr.Validation("group name is required")
	}

	members := normalizeMembers(params.MemberIDs, params.CreatedBy)
	if len(members) < 2 {
		return repository.GroupChat{}, apperr.Validation("a group chat needs at least one other member")
	}

	for _, id := range members {
		if id == params.CreatedBy {
			continue
		}
		ok, err := s.reps.Exists(ctx, id)
		if err != nil {
			return repository.GroupChat{}, err
		}
		if !ok {
			return repository.GroupChat{}, apperr.Validation("unknown member: " + id)
		}
	}

	group, err := s.repo.CreateGroup(ctx, repository.CreateGroupParams{
		Name:      name,
		CreatedBy: params.CreatedBy,
		MemberIDs: members,
	})
	if err != nil {
		return repository.GroupChat{}, err
	}

	s.log.Info("group chat created", "groupId", group.ID, "name", group.Name, "members", len(group.MemberIDs))
	return group, nil
}

// ListGroups returns the group chats the rep belongs to.
func (s *Service) ListGroups(ctx context.Context, repID string) ([]repository.GroupChat, error) {
	return s.repo.ListGroups(ctx, repID)
}

// DeleteGroup removes a group chat and its message history.
func (s *Service) DeleteGroup(ctx context.Context, id uuid.UUID) error {
	return s.repo.DeleteGroup(ctx, id)
}

// GroupMessages returns the recent history of a group chat. Non-members get
// a not-found rather than a forbidden so membership is not probeable.
func (s *Service) GroupMessages(ctx context.Context, groupID uuid.UUID, repID string) ([]repository.Message, error) {
	group, err := s.repo.GetGroup(ctx, groupID)
	if err != nil {
		return nil, err
	}
	if !slices.Contains(group.MemberIDs, repID) {
		return nil, apperr.NotFound("group chat not found")
	}
	return s.repo.ListMessages(ctx, groupID, 0)
}

// PostGroupMessage stores a message on a group chat and publishes it to the
// other members.
func (s *Service) PostGroupMessage(ctx context.Context, groupID uuid.UUID, senderID, senderName, body string) (repository.Message, error) {
	body = strings.TrimSpace(body)
	if body == "" {
		return repository.Message{}, apperr.Validation("message body is required")
	}

	group, err := s.repo.GetGroup(ctx, groupID)
	if err != nil {
		return repository.Message{}, err
	}
	if !slices.Contains(group.MemberIDs, senderID) {
		return repository.Message{}, apperr.NotFound("group chat not found")
	}

	msg, err := s.repo.InsertMessage(ctx, repository.InsertMessageParams{
		ChannelID:  groupID,
		SenderID:   senderID,
		SenderName: senderName,
		Body:       body,
	})
	if err != nil {
		return repository.Message{}, err
	}

	s.publishPosted(ctx, msg, recipientsExcept(group.MemberIDs, senderID))
	return msg, nil
}

// OpenConversation returns the direct conversation between the caller and
// another rep, creating it on first contact.
func (s *Service) OpenConversation(ctx context.Context, meID, otherID string) (repository.Conversation, error) {
	if meID == otherID {
		return repository.Conversation{}, apperr.Validation("cannot open a conversation with yourself")
	}
	ok, err := s.reps.Exists(ctx, otherID)
	if err != nil {
		return repository.Conversation{}, err
	}
	if !ok {
		return repository.Conversation{}, apperr.NotFound("rep not found")
	}
	return s.repo.GetOrCreateConversation(ctx, meID, otherID)
}

// ListConversations returns the caller's direct conversations.
func (s *Service) ListConversations(ctx context.Context, repID string) ([]repository.Conversation, error) {
	return s.repo.ListConversations(ctx, repID)
}

// ConversationMessages returns the recent history of the conversation with
// another rep.
func (s *Service) ConversationMessages(ctx context.Context, meID, otherID string) ([]repository.Message, error) {
	conv, err := s.OpenConversation(ctx, meID, otherID)
	if err != nil {
		return nil, err
	}
	return s.repo.ListMessages(ctx, conv.ID, 0)
}

// PostDirectMessage stores a message on the conversation with another rep
// and publishes it to them.
func (s *Service) PostDirectMessage(ctx context.Context, meID, meName, otherID, body string) (repository.Message, error) {
	body = strings.TrimSpace(body)
	if body == "" {
		return repository.Message{}, apperr.Validation("message body is required")
	}

	conv, err := s.OpenConversation(ctx, meID, otherID)
	if err != nil {
		return repository.Message{}, err
	}

	msg, err := s.repo.InsertMessage(ctx, repository.InsertMessageParams{
		ChannelID:  conv.ID,
		SenderID:   meID,
		SenderName: meName,
		Body:       body,
	})
	if err != nil {
		return repository.Message{}, err
	}

	s.publishPosted(ctx, msg, []string{otherID})
	return msg, nil
}

func (s *Service) publishPosted(ctx context.Context, msg repository.Message, recipients []string) {
	s.bus.Publish(ctx, events.MessagePosted{
		BaseEvent:    events.NewBaseEvent(),
		MessageID:    msg.ID,
		ChannelID:    msg.ChannelID,
		SenderID:     msg.SenderID,
		SenderName:   msg.SenderName,
		Body:         msg.Body,
		RecipientIDs: recipients,
	})
}

// normalizeMembers dedupes the member list and guarantees the creator is in
// it.
func normalizeMembers(ids []string, creator string) []string {
	seen := map[string]bool{creator: true}
	members := []string{creator}
	for _, id := range ids {
		id = strings.TrimSpace(id)
		if id == "" || seen[id] {
			continue
		}
		seen[id] = true
		members = append(members, id)
	}
	return members
}

func recipientsExcept(ids []string, excluded string) []string {
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		if id != excluded {
			out = append(out, id)
		}
	}
	return out
}
