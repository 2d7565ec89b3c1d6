package stream

import (
	"context"
	"encoding/json"
	"log"
	"strings"
	"sync"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// Hub fans trip snapshots out to local WebSocket clients and, when Redis is
// configured, to other processes watching the same trip.
type Hub struct {
	id      string
	redis   *redis.Client
	clients map[string]map[*Client]struct{}
	mu      sync.RWMutex
	cancel  context.CancelFunc
	done    chan struct{}
}

type Client struct {
	TripID string
	Send   chan []byte
}

type envelope struct {
	Origin  string          `json:"origin"`
	Payload json.RawMessage `json:"payload"`
}

func NewHub(redisClient *redis.Client) *Hub {
	h := &Hub{
		id:      uuid.NewString(),
		redis:   redisClient,
		clients: map[string]map[*Client]struct{}{},
		done:    make(chan struct{}),
	}

	if redisClient != nil {
		ctx, cancel := context.WithCancel(context.Background())
		h.cancel = cancel
		pubsub := redisClient.PSubscribe(ctx, redisChannel("*"))
		go h.forwardRedis(ctx, pubsub)
	} else {
		close(h.done)
	}
	return h
}

func (h *Hub) Register(tripID string) *Client {
	client := &Client{
		TripID: tripID,
		Send:   make(chan []byte, 64),
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	if h.clients[tripID] == nil {
		h.clients[tripID] = map[*Client]struct{}{}
	}
	h.clients[tripID][client] = struct{}{}
	return client
}

func (h *Hub) Unregister(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if tripClients, ok := h.clients[client.TripID]; ok {
		if _, registered := tripClients[client]; !registered {
			return
		}
		delete(tripClients, client)
		if len(tripClients) == 0 {
			delete(h.clients, client.TripID)
		}
		close(client.Send)
	}
}

// Broadcast delivers payload to every local client watching tripID. Slow
// clients miss messages rather than blocking the caller.
func (h *Hub) Broadcast(tripID string, payload []byte) {
	h.deliver(tripID, payload)

	if h.redis != nil {
		msg, _ := json.Marshal(envelope{Origin: h.id, Payload: payload})
		if err := h.redis.Publish(context.Background(), redisChannel(tripID), msg).Err(); err != nil {
			log.Printf("[stream] redis publish error: %v", err)
		}
	}
}

func (h *Hub) deliver(tripID string, payload []byte) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	for client := range h.clients[tripID] {
		select {
		case client.Send <- payload:
		default:
		}
	}
}

// Close stops the Redis subscription, if any.
func (h *Hub) Close() {
	if h.cancel != nil {
		h.cancel()
	}
	<-h.done
}

func (h *Hub) forwardRedis(ctx context.Context, pubsub *redis.PubSub) {
	defer close(h.done)
	defer pubsub.Close()

	ch := pubsub.Channel()
	for {
		select {
		case <-ctx.Done():
			return
		case msg, ok := <-ch:
			if !ok {
				return
			}
			var env envelope
			if err := json.Unmarshal([]byte(msg.Payload), &env); err != nil {
				log.Printf("[stream] dropping malformed redis message: %v", err)
				continue
			}
			if env.Origin == h.id {
				continue
			}
			h.deliver(tripIDFromChannel(msg.Channel), env.Payload)
		}
	}
}

func redisChannel(tripID string) string {
	return "trip:" + tripID + ":snapshot"
}

func tripIDFromChannel(ch string) string {
	// trip:{id}:snapshot
	const prefix = "trip:"
	const suffix = ":snapshot"
	if len(ch) <= len(prefix)+len(suffix) || !strings.HasPrefix(ch, prefix) || !strings.HasSuffix(ch, suffix) {
		return ""
	}
	return ch[len(prefix) : len(ch)-len(suffix)]
}
