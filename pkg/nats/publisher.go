// 文件: pkg/nats/publisher.go
// NATS 信号发布者 — 轻量级替代 Kafka，适合本地开发直接订阅信号流
//
// 这里只认识一种载荷: 通过门控的 SignalVector。它不是通用消息总线，
// 跟 pkg/kafka 的延迟任务载荷是两条完全独立的路径（见 pkg/signal 的
// NatsBroadcaster 和 KafkaScheduler）。

package nats

import (
	"encoding/json"
	"fmt"

	"github.com/nats-io/nats.go"
	"github.com/quantgate/gate/pkg/monitor"
)

// Publisher NATS 发布者
type Publisher struct {
	conn *nats.Conn
}

// NewPublisher 创建发布者
func NewPublisher(url string) (*Publisher, error) {
	conn, err := nats.Connect(url)
	if err != nil {
		return nil, fmt.Errorf("connect to nats: %w", err)
	}
	return &Publisher{conn: conn}, nil
}

// PublishSignal 把一条通过门控的信号序列化成 JSON 发布到 subject
func (p *Publisher) PublishSignal(subject string, v *monitor.SignalVector) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("marshal signal vector: %w", err)
	}
	return p.conn.Publish(subject, data)
}

// Close 关闭连接
func (p *Publisher) Close() {
	p.conn.Close()
}
