// 文件: pkg/nats/subscriber.go
// NATS 信号订阅者

package nats

import (
	"encoding/json"
	"fmt"
	"log"

	"github.com/nats-io/nats.go"
	"github.com/quantgate/gate/pkg/monitor"
)

// SignalHandler 收到一条信号广播时被调用；解码失败的消息会被记日志并跳过，
// 不会传给 handler。
type SignalHandler func(subject string, v *monitor.SignalVector) error

// Subscriber NATS 订阅者
type Subscriber struct {
	conn    *nats.Conn
	subs    []*nats.Subscription
	handler SignalHandler
}

// NewSubscriber 创建订阅者
func NewSubscriber(url string, handler SignalHandler) (*Subscriber, error) {
	conn, err := nats.Connect(url)
	if err != nil {
		return nil, fmt.Errorf("connect to nats: %w", err)
	}
	return &Subscriber{
		conn:    conn,
		handler: handler,
	}, nil
}

// Subscribe 订阅主题
func (s *Subscriber) Subscribe(subjects ...string) error {
	for _, subject := range subjects {
		sub, err := s.conn.Subscribe(subject, func(msg *nats.Msg) {
			var v monitor.SignalVector
			if err := json.Unmarshal(msg.Data, &v); err != nil {
				log.Printf("[NATS] decode signal failed subject=%s: %v", msg.Subject, err)
				return
			}
			if err := s.handler(msg.Subject, &v); err != nil {
				log.Printf("[NATS] handle error: subject=%s, err=%v", msg.Subject, err)
			}
		})
		if err != nil {
			return fmt.Errorf("subscribe %s: %w", subject, err)
		}
		s.subs = append(s.subs, sub)
	}
	return nil
}

// Close 关闭
func (s *Subscriber) Close() error {
	for _, sub := range s.subs {
		sub.Unsubscribe()
	}
	s.conn.Close()
	return nil
}
