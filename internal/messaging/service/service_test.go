package service

import (
	"context"
	"slices"
	"testing"
	"time"

	"educater_backend/internal/events"
	"educater_backend/internal/messaging/repository"
	"educater_backend/platform/apperr"
	platformevents "educater_backend/platform/events"
	"educater_backend/platform/logger"

	"github.com/google/uuid"
)

// stubRepo is an in-memory repository.Repository.
type stubRepo struct {
	groups   map[uuid.UUID]repository.GroupChat
	convs    map[uuid.UUID]repository.Conversation
	messages map[uuid.UUID][]repository.Message
}

func newStubRepo() *stubRepo {
	return &stubRepo{
		groups:   make(map[uuid.UUID]repository.GroupChat),
		convs:    make(map[uuid.UUID]repository.Conversation),
		messages: make(map[uuid.UUID][]repository.Message),
	}
}

func (r *stubRepo) CreateGroup(_ context.Context, params repository.CreateGroupParams) (repository.GroupChat, error) {
	g := repository.GroupChat{
		ID:        uuid.New(),
		Name:      params.Name,
		CreatedBy: params.CreatedBy,
		MemberIDs: params.MemberIDs,
		CreatedAt: time.Now(),
	}
	r.groups[g.ID] = g
	return g, nil
}

func (r *stubRepo) ListGroups(_ context.Context, repID string) ([]repository.GroupChat, error) {
	var out []repository.GroupChat
	for _, g := range r.groups {
		if slices.Contains(g.MemberIDs, repID) {
			out = append(out, g)
		}
	}
	return out, nil
}

func (r *stubRepo) GetGroup(_ context.Context, id uuid.UUID) (repository.GroupChat, error) {
	g, ok := r.groups[id]
	if !ok {
		return repository.GroupChat{}, apperr.NotFound("group chat not found")
	}
	return g, nil
}

func (r *stubRepo) DeleteGroup(_ context.Context, id uuid.UUID) error {
	if _, ok := r.groups[id]; !ok {
		return apperr.NotFound("group chat not found")
	}
	delete(r.groups, id)
	return nil
}

func (r *stubRepo) GetOrCreateConversation(_ context.Context, repA, repB string) (repository.Conversation, error) {
	if repB < repA {
		repA, repB = repB, repA
	}
	for _, conv := range r.convs {
		if conv.RepA == repA && conv.RepB == repB {
			return conv, nil
		}
	}
	conv := repository.Conversation{ID: uuid.New(), RepA: repA, RepB: repB, CreatedAt: time.Now()}
	r.convs[conv.ID] = conv
	return conv, nil
}

func (r *stubRepo) ListConversations(_ context.Context, repID string) ([]repository.Conversation, error) {
	var out []repository.Conversation
	for _, conv := range r.convs {
		if conv.RepA == repID || conv.RepB == repID {
			out = append(out, conv)
		}
	}
	return out, nil
}

func (r *stubRepo) InsertMessage(_ context.Context, params repository.InsertMessageParams) (repository.Message, error) {
	m := repository.Message{
		ID:         uuid.New(),
		ChannelID:  params.ChannelID,
		SenderID:   params.SenderID,
		SenderName: params.SenderName,
		Body:       params.Body,
		CreatedAt:  time.Now(),
	}
	r.messages[params.ChannelID] = append(r.messages[params.ChannelID], m)
	return m, nil
}

func (r *stubRepo) ListMessages(_ context.Context, channelID uuid.UUID, _ int) ([]repository.Message, error) {
	return r.messages[channelID], nil
}

// stubDirectory knows a fixed set of rep IDs.
type stubDirectory struct {
	known map[string]bool
}

func (d *stubDirectory) Exists(_ context.Context, id string) (bool, error) {
	return d.known[id], nil
}

// recordingBus captures published events so tests can assert on them.
type recordingBus struct {
	published []platformevents.Event
}

func (b *recordingBus) Publish(_ context.Context, event platformevents.Event) {
	b.published = append(b.published, event)
}

func (b *recordingBus) PublishSync(_ context.Context, event platformevents.Event) error {
	b.published = append(b.published, event)
	return nil
}

func (b *recordingBus) Subscribe(string, platformevents.Handler) {}

func newTestService(known ...string) (*Service, *stubRepo, *recordingBus) {
	repo := newStubRepo()
	bus := &recordingBus{}
	dir := &stubDirectory{known: make(map[string]bool)}
	for _, id := range known {
		dir.known[id] = true
	}
	svc := New(repo, dir, bus, logger.New("test"))
	return svc, repo, bus
}

func TestCreateGroupIncludesCreator(t *testing.T) {
	ctx := context.Background()
	svc, _, _ := newTestService("thandi", "keagan", "sipho")

	group, err := svc.CreateGroup(ctx, CreateGroupParams{
		Name:      "Western Cape Team",
		CreatedBy: "thandi",
		MemberIDs: []string{"keagan", "sipho", "keagan"},
	})
	if err != nil {
		t.Fatalf("CreateGroup: %v", err)
	}

	want := []string{"thandi", "keagan", "sipho"}
	if !slices.Equal(group.MemberIDs, want) {
		t.Fatalf("members = %v, want %v", group.MemberIDs, want)
	}
}

func TestCreateGroupRejectsUnknownMember(t *testing.T) {
	ctx := context.Background()
	svc, _, _ := newTestService("thandi")

	_, err := svc.CreateGroup(ctx, CreateGroupParams{
		Name:      "Ghost squad",
		CreatedBy: "thandi",
		MemberIDs: []string{"nobody"},
	})
	if !apperr.Is(err, apperr.KindValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestPostGroupMessagePublishesToOtherMembers(t *testing.T) {
	ctx := context.Background()
	svc, _, bus := newTestService("thandi", "keagan", "sipho")

	group, err := svc.CreateGroup(ctx, CreateGroupParams{
		Name:      "Western Cape Team",
		CreatedBy: "thandi",
		MemberIDs: []string{"keagan", "sipho"},
	})
	if err != nil {
		t.Fatalf("CreateGroup: %v", err)
	}

	msg, err := svc.PostGroupMessage(ctx, group.ID, "keagan", "Keagan Smith", "  Appointment booked at Oakdale!  ")
	if err != nil {
		t.Fatalf("PostGroupMessage: %v", err)
	}
	if msg.Body != "Appointment booked at Oakdale!" {
		t.Fatalf("body = %q, want trimmed", msg.Body)
	}

	if len(bus.published) != 1 {
		t.Fatalf("published %d events, want 1", len(bus.published))
	}
	posted, ok := bus.published[0].(events.MessagePosted)
	if !ok {
		t.Fatalf("published %T, want MessagePosted", bus.published[0])
	}
	wantRecipients := []string{"thandi", "sipho"}
	if !slices.Equal(posted.RecipientIDs, wantRecipients) {
		t.Fatalf("recipients = %v, want %v", posted.RecipientIDs, wantRecipients)
	}
	if posted.ChannelID != group.ID || posted.SenderID != "keagan" {
		t.Fatalf("unexpected event payload: %+v", posted)
	}
}

func TestPostGroupMessageRejectsNonMember(t *testing.T) {
	ctx := context.Background()
	svc, _, bus := newTestService("thandi", "keagan", "outsider")

	group, err := svc.CreateGroup(ctx, CreateGroupParams{
		Name:      "Private",
		CreatedBy: "thandi",
		MemberIDs: []string{"keagan"},
	})
	if err != nil {
		t.Fatalf("CreateGroup: %v", err)
	}

	_, err = svc.PostGroupMessage(ctx, group.ID, "outsider", "Out Sider", "hello?")
	if !apperr.Is(err, apperr.KindNotFound) {
		t.Fatalf("expected not-found for non-member, got %v", err)
	}
	if len(bus.published) != 0 {
		t.Fatalf("published %d events, want 0", len(bus.published))
	}
}

func TestDirectMessagesShareOneConversationPerPair(t *testing.T) {
	ctx := context.Background()
	svc, repo, bus := newTestService("thandi", "keagan")

	first, err := svc.PostDirectMessage(ctx, "thandi", "Thandi M", "keagan", "Morning!")
	if err != nil {
		t.Fatalf("PostDirectMessage: %v", err)
	}
	reply, err := svc.PostDirectMessage(ctx, "keagan", "Keagan Smith", "thandi", "Morning, any news from Oakdale?")
	if err != nil {
		t.Fatalf("reply: %v", err)
	}

	if first.ChannelID != reply.ChannelID {
		t.Fatalf("messages landed on different channels: %s vs %s", first.ChannelID, reply.ChannelID)
	}
	if len(repo.convs) != 1 {
		t.Fatalf("have %d conversations, want 1", len(repo.convs))
	}

	history, err := svc.ConversationMessages(ctx, "thandi", "keagan")
	if err != nil {
		t.Fatalf("ConversationMessages: %v", err)
	}
	if len(history) != 2 {
		t.Fatalf("history has %d messages, want 2", len(history))
	}

	if len(bus.published) != 2 {
		t.Fatalf("published %d events, want 2", len(bus.published))
	}
	posted := bus.published[0].(events.MessagePosted)
	if !slices.Equal(posted.RecipientIDs, []string{"keagan"}) {
		t.Fatalf("recipients = %v, want [keagan]", posted.RecipientIDs)
	}
}

func TestDirectMessageToSelfRejected(t *testing.T) {
	ctx := context.Background()
	svc, _, _ := newTestService("thandi")

	_, err := svc.PostDirectMessage(ctx, "thandi", "Thandi M", "thandi", "note to self")
	if !apperr.Is(err, apperr.KindValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestDirectMessageToUnknownRepRejected(t *testing.T) {
	ctx := context.Background()
	svc, _, _ := newTestService("thandi")

	_, err := svc.PostDirectMessage(ctx, "thandi", "Thandi M", "ghost", "anyone there?")
	if !apperr.Is(err, apperr.KindNotFound) {
		t.Fatalf("expected not-found error, got %v", err)
	}
}
