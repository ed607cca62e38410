package handlers

import (
	"io"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"respos-api/middleware"
	"respos-api/realtime"
)

// Stream delivers change events over SSE. Clients pick collections with
// ?collections=orders,tables; notification events are scoped to the
// caller. Subscriptions are torn down when the client goes away and
// recreated on the next connect — events missed in between are not
// replayed, the client refetches on its next invalidation or manual
// refresh.
func (h *Handler) Stream(c *gin.Context) {
	emp := middleware.GetEmployee(c)

	raw := c.DefaultQuery("collections", "tables,orders,order_items,void_requests,notifications")
	var wanted []realtime.Collection
	for _, name := range strings.Split(raw, ",") {
		name = strings.TrimSpace(name)
		found := false
		for _, known := range realtime.Collections {
			if string(known) == name {
				wanted = append(wanted, known)
				found = true
				break
			}
		}
		if !found {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Unknown collection: " + name})
			return
		}
	}

	merged := make(chan realtime.ChangeEvent)
	done := c.Request.Context().Done()
	for _, collection := range wanted {
		filter := realtime.Filter{}
		if collection == realtime.CollectionNotifications {
			filter.Recipient = &emp.ID
		}
		sub := h.Bus.Subscribe(collection, filter)
		defer sub.Close()
		go func(sub *realtime.Subscription) {
			for ev := range sub.C {
				select {
				case merged <- ev:
				case <-done:
					return
				}
			}
		}(sub)
	}

	c.Header("Cache-Control", "no-cache")
	c.Stream(func(w io.Writer) bool {
		select {
		case ev := <-merged:
			c.SSEvent("change", ev)
			return true
		case <-done:
			return false
		}
	})
}
