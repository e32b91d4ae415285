package services

import (
	"encoding/json"
	"log"
	"sync"
	"time"

	"opsdeck/internal/models"

	"github.com/gorilla/websocket"
)

// WebSocketMessage represents a message sent over WebSocket
type WebSocketMessage struct {
	Type      string      `json:"type"` // "stats", "output", "ping", "error"
	Timestamp time.Time   `json:"timestamp"`
	Token     string      `json:"token,omitempty"`
	Data      interface{} `json:"data,omitempty"`
	Error     string      `json:"error,omitempty"`
}

// StatsPayload represents real-time system stats
type StatsPayload struct {
	CPU       *models.CPUStatus               `json:"cpu"`
	Memory    *models.MemoryStatus            `json:"memory"`
	Disk      *models.DiskStatus              `json:"disk"`
	Network   *models.AggregatedNetworkStatus `json:"network"`
	Processes []models.ProcessStatus          `json:"processes,omitempty"`
	Timestamp time.Time                       `json:"timestamp"`
}

// ClientConnection represents a connected WebSocket client
type ClientConnection struct {
	ID    string
	Conn  *websocket.Conn
	Send  chan WebSocketMessage
	Close chan bool
}

// WebSocketHub manages all connected stats clients
type WebSocketHub struct {
	clients    map[string]*ClientConnection
	broadcast  chan WebSocketMessage
	register   chan *ClientConnection
	unregister chan string
	mu         sync.RWMutex
	ticker     *time.Ticker
	done       chan bool
}

var wsHub *WebSocketHub

// InitWebSocketHub initializes the WebSocket hub
func InitWebSocketHub() *WebSocketHub {
	wsHub = &WebSocketHub{
		clients:    make(map[string]*ClientConnection),
		broadcast:  make(chan WebSocketMessage, 256),
		register:   make(chan *ClientConnection),
		unregister: make(chan string),
		done:       make(chan bool),
	}

	go wsHub.run()

	return wsHub
}

// run manages the hub's event loop
func (h *WebSocketHub) run() {
	// Broadcast stats every second
	h.ticker = time.NewTicker(1 * time.Second)
	defer h.ticker.Stop()

	for {
		select {
		case <-h.done:
			return

		case client := <-h.register:
			h.mu.Lock()
			h.clients[client.ID] = client
			total := len(h.clients)
			h.mu.Unlock()
			log.Printf("[WS] Client connected: %s (total: %d)", client.ID, total)

		case clientID := <-h.unregister:
			h.mu.Lock()
			if client, exists := h.clients[clientID]; exists {
				delete(h.clients, clientID)
				close(client.Send)
			}
			total := len(h.clients)
			h.mu.Unlock()
			log.Printf("[WS] Client disconnected: %s (total: %d)", clientID, total)

		case msg := <-h.broadcast:
			h.mu.RLock()
			for _, client := range h.clients {
				select {
				case client.Send <- msg:
				default:
					// Client's send channel is full, skip this message
				}
			}
			h.mu.RUnlock()

		case <-h.ticker.C:
			h.mu.RLock()
			idle := len(h.clients) == 0
			h.mu.RUnlock()
			if idle {
				continue
			}

			stats := h.gatherStats()
			data, err := json.Marshal(stats)
			if err != nil {
				log.Printf("[WS] Error marshaling stats: %v", err)
				continue
			}

			msg := WebSocketMessage{
				Type:      "stats",
				Timestamp: time.Now(),
				Data:      json.RawMessage(data),
			}

			select {
			case h.broadcast <- msg:
			default:
				// Channel full, skip this broadcast
			}
		}
	}
}

// gatherStats collects current system statistics
func (h *WebSocketHub) gatherStats() *StatsPayload {
	cpu, _ := GetCachedCPU()
	memory, _ := GetCachedMemory()
	disk, _ := GetCachedDisk()
	networkInterfaces, _ := GetCachedNetwork()
	processes, _, _, _ := GetCachedProcesses()

	var aggregatedNet *models.AggregatedNetworkStatus
	if len(networkInterfaces) > 0 {
		totalBytesSent := uint64(0)
		totalBytesRecv := uint64(0)
		for _, iface := range networkInterfaces {
			totalBytesSent += iface.BytesSent
			totalBytesRecv += iface.BytesRecv
		}

		sentRate, recvRate := GetNetworkRates()
		aggregatedNet = &models.AggregatedNetworkStatus{
			BytesSent:     totalBytesSent,
			BytesRecv:     totalBytesRecv,
			BytesSentRate: sentRate,
			BytesRecvRate: recvRate,
			Interfaces:    networkInterfaces,
		}
	}

	// Limit processes to top 10 to keep the payload small
	topProcesses := processes
	if len(topProcesses) > 10 {
		topProcesses = topProcesses[:10]
	}

	return &StatsPayload{
		CPU:       cpu,
		Memory:    memory,
		Disk:      disk,
		Network:   aggregatedNet,
		Processes: topProcesses,
		Timestamp: time.Now(),
	}
}

// Register adds a new client to the hub
func (h *WebSocketHub) Register(client *ClientConnection) {
	h.register <- client
}

// Unregister removes a client from the hub
func (h *WebSocketHub) Unregister(clientID string) {
	h.unregister <- clientID
}

// Broadcast sends a message to all connected clients
func (h *WebSocketHub) Broadcast(msg WebSocketMessage) {
	h.broadcast <- msg
}

// GetWebSocketHub returns the WebSocket hub
func GetWebSocketHub() *WebSocketHub {
	return wsHub
}

// StopWebSocketHub gracefully stops the hub
func StopWebSocketHub() {
	if wsHub != nil {
		wsHub.done <- true
	}
}
