// 文件: pkg/obworker/store.go
// OrderbookStore: 按信号 id upsert 一个文档，每个偏移的快照追加到 snapshots 数组

package obworker

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
)

const orderbookCollection = "signal_orderbooks"

// Snapshot 是 snapshots 数组里的一条记录
type Snapshot struct {
	TOffsetSec         int     `bson:"tOffsetSec"`
	TsMs               int64   `bson:"tsMs"`
	BidSum             float64 `bson:"bidSum"`
	AskSum             float64 `bson:"askSum"`
	Imbalance          float64 `bson:"imbalance"`
	BidSumUsdt         float64 `bson:"bidSumUsdt"`
	AskSumUsdt         float64 `bson:"askSumUsdt"`
	TotalLiquidityUsdt float64 `bson:"totalLiquidityUsdt"`
	ImbalanceUsdt      float64 `bson:"imbalanceUsdt"`
	MidPrice           float64 `bson:"midPrice"`
	BestBid            float64 `bson:"bestBid"`
	BestAsk            float64 `bson:"bestAsk"`
	SpreadBps          float64 `bson:"spreadBps"`
}

// OrderbookStore 持久化一次深度快照的特征，按信号 id 聚合成一个数组文档
type OrderbookStore interface {
	AppendSnapshot(ctx context.Context, signalID, symbol string, snap Snapshot) error
}

// MongoOrderbookStore 用 upsert + $push 实现按信号 id 聚合的追加写
type MongoOrderbookStore struct {
	db *mongo.Database
}

// NewMongoOrderbookStore 包装一个已经连接好的数据库句柄
func NewMongoOrderbookStore(db *mongo.Database) *MongoOrderbookStore {
	return &MongoOrderbookStore{db: db}
}

func (s *MongoOrderbookStore) AppendSnapshot(ctx context.Context, signalID, symbol string, snap Snapshot) error {
	opts := options.UpdateOne().SetUpsert(true)
	_, err := s.db.Collection(orderbookCollection).UpdateOne(ctx,
		bson.M{"_id": signalID},
		bson.M{
			"$set":  bson.M{"symbol": symbol},
			"$push": bson.M{"snapshots": snap},
		},
		opts,
	)
	if err != nil {
		return fmt.Errorf("obworker: append snapshot signalId=%s offset=%d: %w", signalID, snap.TOffsetSec, err)
	}
	return nil
}
