package progress

import (
	"bufio"
	"encoding/json"
	"fmt"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

// POST /api/progress
// Yeni bir iş numarası üretir; istemci bunu job_id form alanı olarak gönderir
func NewJobHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		return c.Status(fiber.StatusCreated).JSON(fiber.Map{
			"job_id": NewJobID(),
		})
	}
}

// GET /api/progress/:id
// İşin ilerleme mesajlarını Server-Sent Events olarak akıtır.
// İş bitince "done" olayı gönderilir; idle süresince mesaj gelmezse akış kapanır.
func StreamHandler(hub *Hub, idle time.Duration) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := c.Params("id")
		if _, err := uuid.Parse(id); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Geçersiz iş numarası")
		}

		c.Set("Content-Type", "text/event-stream")
		c.Set("Cache-Control", "no-cache")
		c.Set("Connection", "keep-alive")

		events := hub.Subscribe(id)
		c.Context().SetBodyStreamWriter(func(w *bufio.Writer) {
			defer hub.Release(id, events)

			if err := writeEvent(w, Event{Message: "Bağlantı kuruldu"}); err != nil {
				return
			}

			timer := time.NewTimer(idle)
			defer timer.Stop()
			for {
				select {
				case ev, ok := <-events:
					if !ok {
						_ = writeEvent(w, Event{Message: "Tamamlandı", Percent: 100, Done: true})
						return
					}
					if err := writeEvent(w, ev); err != nil {
						// İstemci bağlantıyı kapattı
						return
					}
					timer.Reset(idle)
				case <-timer.C:
					return
				}
			}
		})
		return nil
	}
}

func writeEvent(w *bufio.Writer, ev Event) error {
	data, err := json.Marshal(ev)
	if err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w, "data: %s\n\n", data); err != nil {
		return err
	}
	return w.Flush()
}
