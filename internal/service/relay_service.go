package service

import (
	"context"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/siddharthray/chatApp-backend/internal/domain"
	"github.com/siddharthray/chatApp-backend/internal/hub"
	"github.com/siddharthray/chatApp-backend/internal/store"
	"github.com/siddharthray/chatApp-backend/pkg/log"
)

type relayService struct {
	hub   *hub.Hub
	store store.PresenceStore
}

// NewRelayService wires the relay to the events stack's hub and the
// presence store.
func NewRelayService(h *hub.Hub, st store.PresenceStore) RelayService {
	return &relayService{hub: h, store: st}
}

// HandleChat answers a native-stack chat envelope with its echo. The
// response goes to the sender only.
func (s *relayService) HandleChat(_ context.Context, c *hub.Client, env *domain.Envelope) error {
	return c.SendMessage(domain.NewChatResponse(env.PayloadText()))
}

// HandleJoinRoom puts the connection in a room. Membership policy is
// single-room: joining while already joined leaves the previous room
// first. The joiner privately receives the room's recent history, then the
// whole room gets the updated member list.
func (s *relayService) HandleJoinRoom(ctx context.Context, c *hub.Client, room, username string) error {
	if c.Session.InRoom() {
		s.leaveCurrentRoom(ctx, c)
	}

	s.hub.JoinRoom(c, room)
	c.Session.Join(room, username)

	if err := s.store.Join(ctx, room, username); err != nil {
		s.logDegraded(c, room, err, "presence join not persisted")
	}

	// History and member snapshot are independent reads; fetch them in
	// parallel. Either failing degrades that one side effect only.
	var (
		history    []domain.MessageRecord
		members    []string
		hasHistory bool
		hasMembers bool
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		recs, err := s.store.Recent(gctx, room)
		if err != nil {
			s.logDegraded(c, room, err, "history unavailable for joiner")
			return nil
		}
		history, hasHistory = recs, true
		return nil
	})
	g.Go(func() error {
		snapshot, err := s.store.Members(gctx, room)
		if err != nil {
			s.logDegraded(c, room, err, "member list unavailable")
			return nil
		}
		members, hasMembers = snapshot, true
		return nil
	})
	g.Wait()

	if hasHistory {
		if history == nil {
			history = []domain.MessageRecord{}
		}
		if err := c.SendMessage(&domain.OutboundEnvelope{Type: domain.MsgTypeHistory, Payload: history}); err != nil {
			return err
		}
	}
	if hasMembers {
		return s.hub.BroadcastToRoom(room, &domain.OutboundEnvelope{Type: domain.MsgTypeUserList, Payload: members}, "")
	}
	return nil
}

// HandleSendMsg appends the message to the room's bounded log and fans it
// out to every connection in the room, sender included.
func (s *relayService) HandleSendMsg(ctx context.Context, c *hub.Client, room, from, text string) error {
	rec := domain.MessageRecord{
		From: from,
		Text: text,
		Time: time.Now().UnixMilli(),
	}

	if err := s.store.Append(ctx, room, rec); err != nil {
		s.logDegraded(c, room, err, "message not persisted")
	}

	return s.hub.BroadcastToRoom(room, &domain.OutboundEnvelope{Type: domain.MsgTypeReceiveMsg, Payload: rec}, "")
}

// HandleDisconnect runs once per connection, from the single teardown
// path. A connection that never joined a room mutates nothing and
// broadcasts nothing.
func (s *relayService) HandleDisconnect(ctx context.Context, c *hub.Client) error {
	if !c.Session.InRoom() {
		return nil
	}
	s.leaveCurrentRoom(ctx, c)
	return nil
}

func (s *relayService) leaveCurrentRoom(ctx context.Context, c *hub.Client) {
	room, username := c.Session.Current()
	if room == "" {
		return
	}

	s.hub.LeaveRoom(c, room)
	c.Session.Leave()

	if err := s.store.Leave(ctx, room, username); err != nil {
		s.logDegraded(c, room, err, "presence leave not persisted")
	}

	members, err := s.store.Members(ctx, room)
	if err != nil {
		s.logDegraded(c, room, err, "member list unavailable after leave")
		return
	}
	s.hub.BroadcastToRoom(room, &domain.OutboundEnvelope{Type: domain.MsgTypeUserList, Payload: members}, "")
}

func (s *relayService) logDegraded(c *hub.Client, room string, err error, msg string) {
	l := log.L()
	l.Error().
		Str(log.FieldConnID, c.ID).
		Str(log.FieldRoom, room).
		Err(err).
		Msg(msg)
}
