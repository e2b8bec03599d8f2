package service

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"

	"sketch_party/internal/models"
)

const eventChannel = "sketch_party:room_events"

// Client 代表一個 WebSocket 客戶端連接
type Client struct {
	Conn     *websocket.Conn      // WebSocket 連接
	UserID   uint                 // 用戶 ID
	RoomID   uint                 // 房間 ID
	SendChan chan *models.Message // 消息發送通道，用於異步傳送消息
}

// WebSocketManager 管理所有的 WebSocket 連接，作為房間狀態變更的廣播通道
// 設定 redis 時事件先發佈到 redis，再由訂閱迴圈送回本機客戶端，
// 讓多個後端實例共享同一份廣播
type WebSocketManager struct {
	clients    map[uint]map[*Client]bool // 兩層 map: roomID -> client -> bool
	clientsMux sync.RWMutex              // 用於保護 clients map 的讀寫鎖
	rdb        *redis.Client             // 可為 nil，表示只做單機廣播
	log        *logrus.Logger
}

// NewWebSocketManager 創建並初始化新的 WebSocket 管理器
func NewWebSocketManager(rdb *redis.Client, log *logrus.Logger) *WebSocketManager {
	return &WebSocketManager{
		clients: make(map[uint]map[*Client]bool),
		rdb:     rdb,
		log:     log,
	}
}

// Start 啟動 redis 訂閱迴圈，沒有設定 redis 時不需要呼叫
func (m *WebSocketManager) Start(ctx context.Context) {
	if m.rdb == nil {
		return
	}
	go m.subscribeLoop(ctx)
}

func (m *WebSocketManager) subscribeLoop(ctx context.Context) {
	sub := m.rdb.Subscribe(ctx, eventChannel)
	defer sub.Close()

	ch := sub.Channel()
	for {
		select {
		case <-ctx.Done():
			return
		case payload, ok := <-ch:
			if !ok {
				return
			}
			var msg models.Message
			if err := json.Unmarshal([]byte(payload.Payload), &msg); err != nil {
				m.log.WithError(err).Warn("invalid room event payload")
				continue
			}
			m.broadcastLocal(msg.RoomID, &msg)
		}
	}
}

// BroadcastEvent 向房間廣播一則事件
func (m *WebSocketManager) BroadcastEvent(roomID uint, eventType string, payload interface{}) {
	msg := models.NewRoomEvent(eventType, roomID, payload)

	if m.rdb != nil {
		// 經由 redis 發佈，訂閱迴圈會送回本機客戶端
		data, err := json.Marshal(msg)
		if err != nil {
			m.log.WithError(err).Error("marshal room event failed")
			return
		}
		if err := m.rdb.Publish(context.Background(), eventChannel, data).Err(); err != nil {
			m.log.WithError(err).Warn("publish room event failed, falling back to local broadcast")
			m.broadcastLocal(roomID, msg)
		}
		return
	}

	m.broadcastLocal(roomID, msg)
}

// broadcastLocal 向本機連到該房間的所有客戶端送出消息
// 送出時持有讀鎖，和 removeClient 關閉通道互斥，避免對已關閉的通道寫入
func (m *WebSocketManager) broadcastLocal(roomID uint, message *models.Message) {
	var dead []*Client

	m.clientsMux.RLock()
	for client := range m.clients[roomID] {
		select {
		case client.SendChan <- message:
			// 消息成功加入發送隊列
		default:
			// 客戶端消息隊列已滿，稍後關閉連接
			dead = append(dead, client)
		}
	}
	m.clientsMux.RUnlock()

	for _, client := range dead {
		m.removeClient(client)
		client.Conn.Close()
	}
}

// HandleConnection 處理新的 WebSocket 連接請求，阻塞直到連接關閉
func (m *WebSocketManager) HandleConnection(conn *websocket.Conn, roomID, userID uint) {
	client := &Client{
		Conn:     conn,
		UserID:   userID,
		RoomID:   roomID,
		SendChan: make(chan *models.Message, 256), // 設置緩衝大小為 256 的消息通道
	}

	m.addClient(client)

	// 確保連接關閉時清理資源
	defer func() {
		m.removeClient(client)
		conn.Close()
	}()

	// 啟動讀寫處理
	go m.writePump(client)
	m.readPump(client)
}

// readPump 持續讀取客戶端消息，遊戲操作都走 HTTP，
// 這裡只負責心跳回應與偵測連接關閉
func (m *WebSocketManager) readPump(client *Client) {
	client.Conn.SetReadLimit(4096) // 設置最大消息大小為 4KB
	client.Conn.SetReadDeadline(time.Now().Add(60 * time.Second))
	client.Conn.SetPongHandler(func(string) error {
		client.Conn.SetReadDeadline(time.Now().Add(60 * time.Second))
		return nil
	})

	for {
		if _, _, err := client.Conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				m.log.WithError(err).Debug("websocket unexpected close")
			}
			break
		}
	}
}

// writePump 處理向客戶端發送消息的邏輯
func (m *WebSocketManager) writePump(client *Client) {
	// 設置心跳檢查計時器
	ticker := time.NewTicker(54 * time.Second)
	defer ticker.Stop()

	for {
		select {
		case message, ok := <-client.SendChan:
			// 設置寫入超時
			client.Conn.SetWriteDeadline(time.Now().Add(10 * time.Second))
			if !ok {
				client.Conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}

			messageBytes, err := json.Marshal(message)
			if err != nil {
				m.log.WithError(err).Error("message encoding error")
				continue
			}

			if err := client.Conn.WriteMessage(websocket.TextMessage, messageBytes); err != nil {
				return
			}

		case <-ticker.C:
			// 發送心跳包
			client.Conn.SetWriteDeadline(time.Now().Add(10 * time.Second))
			if err := client.Conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// addClient 安全地添加新的客戶端連接
func (m *WebSocketManager) addClient(client *Client) {
	m.clientsMux.Lock()
	defer m.clientsMux.Unlock()

	if m.clients[client.RoomID] == nil {
		m.clients[client.RoomID] = make(map[*Client]bool)
	}
	m.clients[client.RoomID][client] = true
}

// removeClient 安全地移除客戶端連接
func (m *WebSocketManager) removeClient(client *Client) {
	m.clientsMux.Lock()
	defer m.clientsMux.Unlock()

	if clients, ok := m.clients[client.RoomID]; ok {
		if _, present := clients[client]; !present {
			return
		}
		delete(clients, client)
		close(client.SendChan)
		// 如果房間空了，刪除房間
		if len(clients) == 0 {
			delete(m.clients, client.RoomID)
		}
	}
}

// RoomClientCount 獲取指定房間的在線客戶端數量
func (m *WebSocketManager) RoomClientCount(roomID uint) int {
	m.clientsMux.RLock()
	defer m.clientsMux.RUnlock()

	return len(m.clients[roomID])
}
