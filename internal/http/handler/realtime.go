package handler

import (
	"bufio"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"

	"gymapi/internal/realtime"
)

const sseKeepAlive = 25 * time.Second

// StreamChanges streams change events for :table as Server-Sent Events.
// Events from other organizations are filtered out.
func StreamChanges(hub *realtime.Hub) fiber.Handler {
	return func(c *fiber.Ctx) error {
		table := c.Params("table")
		if !realtime.IsTable(table) {
			return writeError(c, fiber.StatusNotFound, "UNKNOWN_TABLE", "table does not publish changes")
		}
		org := actor(c).OrgID

		c.Set(fiber.HeaderContentType, "text/event-stream")
		c.Set(fiber.HeaderCacheControl, "no-cache")
		c.Set(fiber.HeaderConnection, "keep-alive")
		c.Set("X-Accel-Buffering", "no")

		events, cancel := hub.Subscribe(table)
		c.Context().SetBodyStreamWriter(func(w *bufio.Writer) {
			defer cancel()
			ticker := time.NewTicker(sseKeepAlive)
			defer ticker.Stop()

			fmt.Fprintf(w, ": subscribed %s\n\n", table)
			if w.Flush() != nil {
				return
			}
			for {
				select {
				case ev, ok := <-events:
					if !ok {
						return
					}
					if org != "" && ev.OrgID != "" && ev.OrgID != org {
						continue
					}
					if writeEvent(w, ev) != nil {
						return
					}
				case <-ticker.C:
					fmt.Fprint(w, ": ping\n\n")
					if w.Flush() != nil {
						return
					}
				}
			}
		})
		return nil
	}
}

func writeEvent(w *bufio.Writer, ev realtime.Event) error {
	b, err := json.Marshal(ev)
	if err != nil {
		return err
	}
	fmt.Fprintf(w, "event: %s\ndata: %s\n\n", strings.ToLower(ev.Type), b)
	return w.Flush()
}
