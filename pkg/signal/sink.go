// 文件: pkg/signal/sink.go
// SignalSink: 把 SignalVector 持久化的接口及其 MongoDB 实现

package signal

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"

	"github.com/quantgate/gate/pkg/monitor"
)

// SignalSink 持久化一个信号向量并返回分配给它的 id
type SignalSink interface {
	Persist(ctx context.Context, exchange string, v *monitor.SignalVector) (id string, err error)
}

// MongoSink 把信号写进 MongoDB 的 signals 集合，一次性产生一个文档
type MongoSink struct {
	db *mongo.Database
}

// NewMongoSink 包装一个已经连接好的数据库句柄
func NewMongoSink(db *mongo.Database) *MongoSink {
	return &MongoSink{db: db}
}

const signalsCollection = "signals"

func (s *MongoSink) Persist(ctx context.Context, exchange string, v *monitor.SignalVector) (string, error) {
	id := NewID()
	doc := bson.M{"_id": id, "exchange": exchange, "createdAt": v.SignalTimestampMs}
	raw, err := bson.Marshal(v)
	if err != nil {
		return "", fmt.Errorf("signal: marshal vector: %w", err)
	}
	var fields bson.M
	if err := bson.Unmarshal(raw, &fields); err != nil {
		return "", fmt.Errorf("signal: unmarshal vector fields: %w", err)
	}
	for k, val := range fields {
		doc[k] = val
	}

	opts := options.UpdateOne().SetUpsert(true)
	_, err = s.db.Collection(signalsCollection).UpdateOne(ctx,
		bson.M{"_id": id}, bson.M{"$set": doc}, opts)
	if err != nil {
		return "", fmt.Errorf("signal: persist %s: %w", id, err)
	}
	return id, nil
}
