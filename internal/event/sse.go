package event

import (
	"sync"
	"time"

	"github.com/rs/zerolog/log"
)

const clientSendTimeout = 5 * time.Second

type SSEServer struct {
	clients map[string]map[chan Event]bool
	events  chan Event
	mu      sync.Mutex
}

func NewSSEServer() EventSender {
	return &SSEServer{
		clients: make(map[string]map[chan Event]bool),
		events:  make(chan Event, 64),
	}
}

// Register subscribes a client channel to a topic.
func (s *SSEServer) Register(topic string, client chan Event) {
	s.mu.Lock()
	if _, ok := s.clients[topic]; !ok {
		s.clients[topic] = make(map[chan Event]bool)
	}
	s.clients[topic][client] = true
	s.mu.Unlock()
	log.Info().Msgf("New client registered to topic %s", topic)
}

// Unregister removes a client channel from a topic and closes it.
func (s *SSEServer) Unregister(topic string, client chan Event) {
	s.mu.Lock()
	if clients, ok := s.clients[topic]; ok {
		if clients[client] {
			delete(clients, client)
			close(client)
		}
		if len(clients) == 0 {
			delete(s.clients, topic)
		}
	}
	s.mu.Unlock()
	log.Info().Msgf("Client unregistered from topic %s", topic)
}

// Broadcast queues an event for delivery to all clients of its topic.
func (s *SSEServer) Broadcast(event Event) {
	s.events <- event
}

// Run drains the event stream. A slow client gets clientSendTimeout to
// accept an event before it is skipped; it is never allowed to stall the
// other subscribers of the topic.
func (s *SSEServer) Run() {
	for event := range s.events {
		s.mu.Lock()
		clients := make([]chan Event, 0, len(s.clients[event.Topic]))
		for client := range s.clients[event.Topic] {
			clients = append(clients, client)
		}
		s.mu.Unlock()

		var wg sync.WaitGroup
		for _, client := range clients {
			wg.Add(1)
			go func(c chan Event) {
				defer wg.Done()
				defer func() {
					// The client may have unregistered (and closed its
					// channel) between the snapshot and the send.
					_ = recover()
				}()

				select {
				case c <- event:
				case <-time.After(clientSendTimeout):
					log.Warn().Str("topic", event.Topic).Str("type", event.Type).Msg("dropping event for slow client")
				}
			}(client)
		}
		wg.Wait()
	}
}
