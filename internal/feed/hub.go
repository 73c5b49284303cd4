package feed

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	gorillaWS "github.com/gorilla/websocket"

	"github.com/kechcole/Blog-App/internal/common/constants"
	"github.com/kechcole/Blog-App/internal/common/logger"
	"github.com/kechcole/Blog-App/internal/observability/metrics"
	postdomain "github.com/kechcole/Blog-App/internal/post/domain"
)

// event is the wire shape broadcast to feed subscribers.
type event struct {
	Type      string    `json:"type"`
	PostID    string    `json:"post_id"`
	Title     string    `json:"title"`
	AuthorID  string    `json:"author_id"`
	CreatedAt time.Time `json:"created_at"`
}

// Hub fans newly published posts out to connected websocket subscribers. The
// feed is read-only: clients never send application messages, so there is no
// inbound routing, only the broadcast path.
type Hub struct {
	log        *logger.Logger
	upgrader   gorillaWS.Upgrader
	register   chan *client
	unregister chan *client
	broadcast  chan []byte
	done       chan struct{}
	clients    map[*client]struct{}
}

func NewHub(log *logger.Logger) *Hub {
	return &Hub{
		log: log,
		upgrader: gorillaWS.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     func(r *http.Request) bool { return true },
		},
		register:   make(chan *client),
		unregister: make(chan *client),
		broadcast:  make(chan []byte, constants.FeedSendBufferSize),
		done:       make(chan struct{}),
		clients:    make(map[*client]struct{}),
	}
}

// Run owns the client set. It exits when ctx is cancelled, closing every
// subscriber on the way out. Closing done releases any goroutine still
// waiting on register or unregister after the loop has stopped.
func (h *Hub) Run(ctx context.Context) {
	defer close(h.done)

	for {
		select {
		case <-ctx.Done():
			for c := range h.clients {
				close(c.send)
				delete(h.clients, c)
			}
			return

		case c := <-h.register:
			h.clients[c] = struct{}{}
			metrics.FeedClientsConnected.Inc()

		case c := <-h.unregister:
			if _, ok := h.clients[c]; ok {
				delete(h.clients, c)
				close(c.send)
				metrics.FeedClientsConnected.Dec()
			}

		case message := <-h.broadcast:
			for c := range h.clients {
				select {
				case c.send <- message:
				default:
					// Slow consumer; drop it rather than stall the feed.
					delete(h.clients, c)
					close(c.send)
					metrics.FeedClientsConnected.Dec()
				}
			}
			metrics.FeedMessagesBroadcast.Inc()
		}
	}
}

// NotifyPostCreated satisfies the post publishing notifier contract. It never
// blocks the caller: when the broadcast buffer is full the event is dropped.
func (h *Hub) NotifyPostCreated(summary postdomain.Summary) {
	payload, err := json.Marshal(event{
		Type:      "post_created",
		PostID:    string(summary.ID),
		Title:     summary.Title,
		AuthorID:  summary.AuthorID,
		CreatedAt: summary.CreatedAt,
	})
	if err != nil {
		h.log.Errorf("feed marshal failed post_id=%s: %v", string(summary.ID), err)
		return
	}

	select {
	case h.broadcast <- payload:
	default:
		h.log.Warnf("feed broadcast buffer full, dropping event post_id=%s", string(summary.ID))
	}
}

// ServeHTTP upgrades the connection and hands it to the hub.
func (h *Hub) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.log.Warnf("feed upgrade failed: %v", err)
		return
	}

	c := newClient(h, conn, h.log)
	select {
	case h.register <- c:
		c.start()
	case <-h.done:
		conn.Close()
	}
}
