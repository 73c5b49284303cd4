package feed

import (
	"time"

	gorillaWS "github.com/gorilla/websocket"

	"github.com/kechcole/Blog-App/internal/common/constants"
	"github.com/kechcole/Blog-App/internal/common/logger"
)

type client struct {
	hub  *Hub
	conn *gorillaWS.Conn
	send chan []byte
	log  *logger.Logger
}

func newClient(hub *Hub, conn *gorillaWS.Conn, log *logger.Logger) *client {
	return &client{
		hub:  hub,
		conn: conn,
		send: make(chan []byte, constants.FeedSendBufferSize),
		log:  log,
	}
}

func (c *client) start() {
	go c.writePump()
	go c.readPump()
}

// readPump only services control frames; the feed has no inbound messages.
// Anything the client sends is discarded.
func (c *client) readPump() {
	defer func() {
		// The hub may already be shut down, in which case nobody reads
		// unregister and done is closed.
		select {
		case c.hub.unregister <- c:
		case <-c.hub.done:
		}
		c.conn.Close()
	}()

	c.conn.SetReadLimit(512)
	c.conn.SetReadDeadline(time.Now().Add(constants.FeedPongWait))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(constants.FeedPongWait))
		return nil
	})

	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			if gorillaWS.IsUnexpectedCloseError(err, gorillaWS.CloseGoingAway, gorillaWS.CloseAbnormalClosure, gorillaWS.CloseNormalClosure) {
				c.log.Warnf("feed read error: %v", err)
			}
			return
		}
	}
}

func (c *client) writePump() {
	ticker := time.NewTicker(constants.FeedPingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case message, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(constants.FeedWriteWait))
			if !ok {
				c.conn.WriteMessage(gorillaWS.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(gorillaWS.TextMessage, message); err != nil {
				return
			}

		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(constants.FeedWriteWait))
			if err := c.conn.WriteMessage(gorillaWS.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
