package api

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/manokmart/manokmart-BE/internal/event"
)

// streamOrderEvents establishes an SSE connection carrying delivery and
// order status updates for one order. Events are sent as
// 'event: {eventType}\ndata: {jsonData}'.
func (server *Server) streamOrderEvents(c *gin.Context) {
	order, ok := server.loadOrder(c)
	if !ok {
		return
	}

	topic := event.OrderTopic(order.ID)

	c.Writer.Header().Set("Content-Type", "text/event-stream")
	c.Writer.Header().Set("Cache-Control", "no-cache")
	c.Writer.Header().Set("Connection", "keep-alive")
	c.Status(http.StatusOK)

	clientChan := make(chan event.Event)
	server.eventSender.Register(topic, clientChan)
	defer server.eventSender.Unregister(topic, clientChan)

	for {
		select {
		case ev := <-clientChan:
			data, _ := json.Marshal(ev.Data)
			fmt.Fprintf(c.Writer, "event: %s\ndata: %s\n\n", ev.Type, data)
			c.Writer.Flush()
		case <-c.Request.Context().Done():
			return
		}
	}
}
