// 文件: pkg/trajectory/store.go
// TrajectoryStore: 把一次价格轨迹计算结果写进 signal_trajectories 集合

package trajectory

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
)

const trajectoriesCollection = "signal_trajectories"

// priceRow 是 prices 数组里的一行，字段顺序与名字匹配信号文档的约定
type priceRow struct {
	TOffsetSec int      `bson:"tOffsetSec"`
	Price      *float64 `bson:"price"`
	Volume     float64  `bson:"volume"`
}

// TrajectoryStore 持久化一次价格轨迹计算的结果
type TrajectoryStore interface {
	Persist(ctx context.Context, signalID, symbol, exchange string, result Result) error
}

// MongoTrajectoryStore 把结果写进 signal_trajectories，每个信号一个文档
type MongoTrajectoryStore struct {
	db *mongo.Database
}

// NewMongoTrajectoryStore 包装一个已经连接好的数据库句柄
func NewMongoTrajectoryStore(db *mongo.Database) *MongoTrajectoryStore {
	return &MongoTrajectoryStore{db: db}
}

func (s *MongoTrajectoryStore) Persist(ctx context.Context, signalID, symbol, exchange string, result Result) error {
	rows := make([]priceRow, 0, len(result.Prices))
	for _, p := range result.Prices {
		rows = append(rows, priceRow{TOffsetSec: p.TOffsetSec, Price: p.Price, Volume: p.Volume})
	}

	doc := bson.M{
		"signalId": signalID,
		"symbol":   normalizeSymbol(symbol),
		"exchange": exchange,
		"sigma30m": result.Sigma30m,
		"prices":   rows,
	}

	opts := options.UpdateOne().SetUpsert(true)
	_, err := s.db.Collection(trajectoriesCollection).UpdateOne(ctx,
		bson.M{"signalId": signalID}, bson.M{"$set": doc}, opts)
	if err != nil {
		return fmt.Errorf("trajectory: persist %s: %w", signalID, err)
	}
	return nil
}
