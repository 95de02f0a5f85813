package realtime

import (
	"sync"
)

type client struct {
	id        string
	auctionID uint
	send      chan []byte
}

// Hub fans messages out to the connections of each auction room
type Hub struct {
	mu    sync.RWMutex
	rooms map[uint]map[*client]struct{}
}

func NewHub() *Hub {
	return &Hub{rooms: make(map[uint]map[*client]struct{})}
}

func (h *Hub) join(c *client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	room, ok := h.rooms[c.auctionID]
	if !ok {
		room = make(map[*client]struct{})
		h.rooms[c.auctionID] = room
	}
	room[c] = struct{}{}
}

// leave removes c and closes its send channel. Safe to call more than once.
func (h *Hub) leave(c *client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	room, ok := h.rooms[c.auctionID]
	if !ok {
		return
	}
	if _, member := room[c]; !member {
		return
	}
	delete(room, c)
	close(c.send)
	if len(room) == 0 {
		delete(h.rooms, c.auctionID)
	}
}

// Broadcast queues msg for every connection in the auction's room and returns
// how many accepted it. Connections whose queue is full are dropped.
func (h *Hub) Broadcast(auctionID uint, msg []byte) int {
	var slow []*client
	delivered := 0

	h.mu.RLock()
	for c := range h.rooms[auctionID] {
		select {
		case c.send <- msg:
			delivered++
		default:
			slow = append(slow, c)
		}
	}
	h.mu.RUnlock()

	for _, c := range slow {
		h.leave(c)
	}
	return delivered
}

// RoomSize reports the number of connections in an auction's room
func (h *Hub) RoomSize(auctionID uint) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.rooms[auctionID])
}
