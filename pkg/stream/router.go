// 文件: pkg/stream/router.go
// StreamRouter: 按 ≤180 个 topic 一组分片的 WebSocket 出站连接管理器
//
// 每个分片独立拨号、独立重连，互不影响；接收到的帧解析成 CanonicalEvent
// 后统一送进一个 channel，交给 dispatch 循环消费。连接/重连模式沿用
// gorilla/websocket 常见的带缓冲发送 channel + done channel 的写法。

package stream

import (
	"context"
	"encoding/json"
	"log"
	"net/url"
	"time"

	"github.com/gorilla/websocket"
)

const (
	maxTopicsPerShard = 180
	pingInterval      = 20 * time.Second
	reconnectDelay    = 2 * time.Second
)

// RouterConfig 配置出站连接的目标地址和订阅主题
type RouterConfig struct {
	BaseURL string   // 例如 wss://stream.exchange.com/stream
	Topics  []string // 完整的 stream 名称列表，例如 "btcusdt@aggTrade"
}

// StreamRouter 把 Topics 切成若干 ≤180 个 topic 的分片，各自维护一条连接
type StreamRouter struct {
	cfg RouterConfig
	out chan CanonicalEvent
}

// NewStreamRouter 构造一个尚未启动拨号的 router
func NewStreamRouter(cfg RouterConfig) *StreamRouter {
	return &StreamRouter{cfg: cfg, out: make(chan CanonicalEvent, 4096)}
}

// Events 返回解析后事件的只读 channel
func (r *StreamRouter) Events() <-chan CanonicalEvent { return r.out }

// Run 为每个分片启动一个连接 goroutine，阻塞直到 ctx 被取消
func (r *StreamRouter) Run(ctx context.Context) {
	shards := chunkTopics(r.cfg.Topics, maxTopicsPerShard)
	for _, topics := range shards {
		go r.runShard(ctx, topics)
	}
	<-ctx.Done()
}

func chunkTopics(topics []string, size int) [][]string {
	var out [][]string
	for i := 0; i < len(topics); i += size {
		end := i + size
		if end > len(topics) {
			end = len(topics)
		}
		out = append(out, topics[i:end])
	}
	return out
}

// runShard 维护一条连接的拨号/重连/ping 循环；topic 分组在重连时保留不变
func (r *StreamRouter) runShard(ctx context.Context, topics []string) {
	for {
		select {
		case <-ctx.Done():
			return
		default:
		}

		if err := r.connectAndServe(ctx, topics); err != nil {
			log.Printf("[Stream] shard disconnected (topics=%d): %v", len(topics), err)
		}

		select {
		case <-ctx.Done():
			return
		case <-time.After(reconnectDelay):
		}
	}
}

func (r *StreamRouter) connectAndServe(ctx context.Context, topics []string) error {
	u, err := url.Parse(r.cfg.BaseURL)
	if err != nil {
		return err
	}
	conn, _, err := websocket.DefaultDialer.DialContext(ctx, u.String(), nil)
	if err != nil {
		return err
	}
	defer conn.Close()

	if err := subscribe(conn, topics); err != nil {
		return err
	}

	done := make(chan struct{})
	go r.pingLoop(ctx, conn, done)
	defer close(done)

	for {
		select {
		case <-ctx.Done():
			return nil
		default:
		}

		_, data, err := conn.ReadMessage()
		if err != nil {
			return err
		}

		var frame RawFrame
		if json.Unmarshal(data, &frame) != nil {
			continue
		}
		ev, ok := ParseFrame(frame)
		if !ok {
			continue
		}
		select {
		case r.out <- ev:
		case <-ctx.Done():
			return nil
		}
	}
}

func (r *StreamRouter) pingLoop(ctx context.Context, conn *websocket.Conn, done chan struct{}) {
	ticker := time.NewTicker(pingInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-done:
			return
		case <-ticker.C:
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

type subscribeRequest struct {
	Method string   `json:"method"`
	Params []string `json:"params"`
	ID     int64    `json:"id"`
}

func subscribe(conn *websocket.Conn, topics []string) error {
	req := subscribeRequest{Method: "SUBSCRIBE", Params: topics, ID: 1}
	return conn.WriteJSON(req)
}
