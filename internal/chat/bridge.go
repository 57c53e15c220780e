package chat

import (
	"sync"

	"github.com/rvidyu/market-chitchat-39-sub000/internal/models"
)

// Event is one new-message notification flowing through the bridge.
type Event struct {
	Message        models.Message
	ConversationID string
}

// Bridge fans new-message events out to per-viewer subscriptions.
// Delivery is at-most-once per published event; no ordering is assumed
// across distinct conversations; the aggregator's full rebuild on
// refetch makes ordering irrelevant for correctness.
type Bridge struct {
	mu   sync.RWMutex
	subs map[string]*Subscription // viewerID -> active subscription
}

func NewBridge() *Bridge {
	return &Bridge{subs: make(map[string]*Subscription)}
}

// Subscription routes events for one viewer: events for the active
// conversation go to onRead (the message is being seen live), all
// others to onNotify. One subscription per mounted view; Stop tears it
// down deterministically and is safe to call more than once.
type Subscription struct {
	viewerID string
	bridge   *Bridge

	mu       sync.Mutex
	activeID string
	stopped  bool

	events chan Event
	done   chan struct{}

	onRead   func(conversationID string)
	onNotify func(ev Event)
}

// Subscribe registers a subscription for viewerID, replacing (and
// stopping) any previous one so remounts never leak duplicate
// subscriptions.
func (b *Bridge) Subscribe(viewerID string, onRead func(conversationID string), onNotify func(ev Event)) *Subscription {
	sub := &Subscription{
		viewerID: viewerID,
		bridge:   b,
		events:   make(chan Event, 32),
		done:     make(chan struct{}),
		onRead:   onRead,
		onNotify: onNotify,
	}

	b.mu.Lock()
	prev := b.subs[viewerID]
	b.subs[viewerID] = sub
	b.mu.Unlock()

	if prev != nil {
		prev.Stop()
	}

	go sub.dispatch()
	return sub
}

// Publish routes a stored message to its recipient's subscription, if
// any. A full events buffer drops the event rather than blocking the
// send path; the polling backstop picks the message up.
func (b *Bridge) Publish(msg models.Message) {
	b.mu.RLock()
	sub := b.subs[msg.RecipientID]
	b.mu.RUnlock()
	if sub == nil {
		return
	}

	ev := Event{
		Message:        msg,
		ConversationID: ConversationID(msg.SenderID, msg.RecipientID),
	}
	select {
	case sub.events <- ev:
	case <-sub.done:
	default:
	}
}

func (s *Subscription) dispatch() {
	for {
		select {
		case ev := <-s.events:
			s.mu.Lock()
			active := s.activeID
			s.mu.Unlock()

			if active != "" && active == ev.ConversationID {
				if s.onRead != nil {
					s.onRead(ev.ConversationID)
				}
			} else if s.onNotify != nil {
				s.onNotify(ev)
			}
		case <-s.done:
			return
		}
	}
}

// SetActive records which conversation the viewer currently has open.
// Empty string means none.
func (s *Subscription) SetActive(conversationID string) {
	s.mu.Lock()
	s.activeID = conversationID
	s.mu.Unlock()
}

// Stop tears the subscription down. Idempotent.
func (s *Subscription) Stop() {
	s.mu.Lock()
	if s.stopped {
		s.mu.Unlock()
		return
	}
	s.stopped = true
	s.mu.Unlock()

	s.bridge.mu.Lock()
	if s.bridge.subs[s.viewerID] == s {
		delete(s.bridge.subs, s.viewerID)
	}
	s.bridge.mu.Unlock()

	close(s.done)
}
