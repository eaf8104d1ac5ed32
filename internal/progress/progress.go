// Package progress, uzun süren mutabakat isteklerinin ilerleme mesajlarını
// taşır. Mesajlar sadece bilgilendirme amaçlıdır; geri basınç veya onay yoktur.
package progress

import (
	"sync"
	"time"

	"github.com/google/uuid"
)

// Func: (mesaj, yüzde 0-100) alan ilerleme callback'i
type Func func(message string, percent int)

// Report: nil callback ile de güvenle çağrılabilir
func (f Func) Report(message string, percent int) {
	if f != nil {
		f(message, percent)
	}
}

// Event: SSE ile istemciye giden ilerleme olayı
type Event struct {
	Message string `json:"message"`
	Percent int    `json:"percent"`
	Done    bool   `json:"done,omitempty"`
}

const (
	topicBuffer = 64
	finishedTTL = 5 * time.Minute
)

type topic struct {
	ch         chan Event
	finishedAt time.Time
}

// Hub: iş numarası (job id) başına bir olay kanalı tutar.
// Her iş için tek abone beklenir.
type Hub struct {
	mu     sync.Mutex
	topics map[string]*topic
	now    func() time.Time
}

func NewHub() *Hub {
	return &Hub{topics: make(map[string]*topic), now: time.Now}
}

// NewJobID: istemcinin ilerleme takibi için kullanacağı yeni iş numarası
func NewJobID() string {
	return uuid.NewString()
}

// getOrCreate: kilit altında çağrılmalı
func (h *Hub) getOrCreate(id string) *topic {
	if t, ok := h.topics[id]; ok {
		return t
	}
	h.sweep()
	t := &topic{ch: make(chan Event, topicBuffer)}
	h.topics[id] = t
	return t
}

// sweep: bitmiş ama kimsenin dinlemediği işleri temizler
func (h *Hub) sweep() {
	now := h.now()
	for id, t := range h.topics {
		if !t.finishedAt.IsZero() && now.Sub(t.finishedAt) > finishedTTL {
			delete(h.topics, id)
		}
	}
}

// Reporter: verilen iş için yayın yapan callback. id boşsa nil döner.
func (h *Hub) Reporter(id string) Func {
	if id == "" {
		return nil
	}
	return func(message string, percent int) {
		h.publish(id, Event{Message: message, Percent: percent})
	}
}

func (h *Hub) publish(id string, ev Event) {
	h.mu.Lock()
	defer h.mu.Unlock()

	t := h.getOrCreate(id)
	if !t.finishedAt.IsZero() {
		return
	}
	select {
	case t.ch <- ev:
	default:
		// Tampon dolu: mesaj düşer, iş beklemez
	}
}

// Subscribe: işin olay kanalı. İş bitince kanal kapanır; kapanmadan önce
// tamponlanmış olaylar okunabilir.
func (h *Hub) Subscribe(id string) <-chan Event {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.getOrCreate(id).ch
}

// Finish: işi bitmiş olarak işaretler ve kanalı kapatır
func (h *Hub) Finish(id string) {
	if id == "" {
		return
	}
	h.mu.Lock()
	defer h.mu.Unlock()

	t := h.getOrCreate(id)
	if t.finishedAt.IsZero() {
		t.finishedAt = h.now()
		close(t.ch)
	}
}

// Release: abone ayrıldığında işi haritadan siler
func (h *Hub) Release(id string, ch <-chan Event) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if t, ok := h.topics[id]; ok && (<-chan Event)(t.ch) == ch {
		delete(h.topics, id)
	}
}

// Len: takip edilen iş sayısı
func (h *Hub) Len() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.topics)
}
