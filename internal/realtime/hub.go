package realtime

import (
	"go.uber.org/zap"

	"github.com/skillmatch/skillmatch/internal/observability"
)

// Hub maintains the set of connected clients and routes envelopes to the
// clients subscribed to each topic.
type Hub struct {
	clients map[*Client]bool

	// Register requests from the clients.
	Register chan *Client

	// Unregister requests from clients.
	Unregister chan *Client

	// subscribe/unsubscribe requests issued by client read pumps.
	subscribe   chan subscription
	unsubscribe chan subscription

	// broadcast carries an envelope destined for one topic.
	broadcast chan topicMessage

	// topic -> set of subscribed clients.
	subscriptions map[string]map[*Client]bool

	logger  *zap.Logger
	metrics *observability.Metrics
}

type subscription struct {
	client *Client
	topic  string
}

type topicMessage struct {
	topic string
	data  []byte
}

// NewHub creates a new Hub.
func NewHub(logger *zap.Logger, metrics *observability.Metrics) *Hub {
	return &Hub{
		clients:       make(map[*Client]bool),
		Register:      make(chan *Client),
		Unregister:    make(chan *Client),
		subscribe:     make(chan subscription),
		unsubscribe:   make(chan subscription),
		broadcast:     make(chan topicMessage, 64),
		subscriptions: make(map[string]map[*Client]bool),
		logger:        logger,
		metrics:       metrics,
	}
}

// Run starts the Hub's routing loop.
func (h *Hub) Run() {
	for {
		select {
		case client := <-h.Register:
			h.clients[client] = true
			// every client always hears its own user topic
			h.addSubscription(client, UserTopic(client.UserID))
			h.metrics.WSConnected()
			h.logger.Info("client connected",
				zap.String("user_id", client.UserID),
				zap.Int("total_clients", len(h.clients)))

		case client := <-h.Unregister:
			if _, ok := h.clients[client]; ok {
				delete(h.clients, client)
				close(client.Send)
				h.removeClient(client)
				h.metrics.WSDisconnected()
				h.logger.Info("client disconnected",
					zap.String("user_id", client.UserID),
					zap.Int("total_clients", len(h.clients)))
			}

		case sub := <-h.subscribe:
			h.addSubscription(sub.client, sub.topic)

		case sub := <-h.unsubscribe:
			if subs, ok := h.subscriptions[sub.topic]; ok {
				delete(subs, sub.client)
				if len(subs) == 0 {
					delete(h.subscriptions, sub.topic)
				}
			}

		case msg := <-h.broadcast:
			for client := range h.subscriptions[msg.topic] {
				select {
				case client.Send <- msg.data:
				default:
					// slow consumer; drop the connection rather than block
					close(client.Send)
					delete(h.clients, client)
					h.removeClient(client)
					h.metrics.WSDisconnected()
				}
			}
		}
	}
}

// BroadcastTo sends an envelope to all clients subscribed to the topic.
func (h *Hub) BroadcastTo(topic string, data []byte) {
	h.broadcast <- topicMessage{topic: topic, data: data}
}

func (h *Hub) addSubscription(client *Client, topic string) {
	if h.subscriptions[topic] == nil {
		h.subscriptions[topic] = make(map[*Client]bool)
	}
	h.subscriptions[topic][client] = true
}

func (h *Hub) removeClient(client *Client) {
	for topic, subs := range h.subscriptions {
		if _, ok := subs[client]; ok {
			delete(subs, client)
			if len(subs) == 0 {
				delete(h.subscriptions, topic)
			}
		}
	}
}
