package httpapi

import (
	"bufio"
	"encoding/json"
	"fmt"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/valyala/fasthttp"
)

const streamHeartbeat = 15 * time.Second

// transcriptStream pushes new transcript entries as server-sent events.
// Clients catch up on history with GET /transcript first.
func (h *handlers) transcriptStream(c *fiber.Ctx) error {
	c.Set("Content-Type", "text/event-stream")
	c.Set("Cache-Control", "no-cache")
	c.Set("Connection", "keep-alive")

	sub := h.Transcript.Subscribe(100)
	logger := h.Logger

	c.Context().SetBodyStreamWriter(fasthttp.StreamWriter(func(w *bufio.Writer) {
		defer h.Transcript.Unsubscribe(sub)

		// fasthttp holds the headers in w until the first flush.
		fmt.Fprint(w, ": connected\n\n")
		if err := w.Flush(); err != nil {
			return
		}

		ticker := time.NewTicker(streamHeartbeat)
		defer ticker.Stop()

		for {
			select {
			case e, ok := <-sub.Ch:
				if !ok {
					return
				}
				raw, err := json.Marshal(e)
				if err != nil {
					logger.Error("failed to encode transcript entry", "entry_id", e.ID, "error", err)
					continue
				}
				fmt.Fprintf(w, "id: %s\nevent: log\ndata: %s\n\n", e.ID, raw)
			case <-ticker.C:
				fmt.Fprint(w, ": ping\n\n")
			}
			// A flush error means the client went away.
			if err := w.Flush(); err != nil {
				return
			}
		}
	}))
	return nil
}
