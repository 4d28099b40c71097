// 每日统计输出，每个房间每天一条记录
package output

import (
	"context"
	"fmt"

	"git.fiblab.net/general/common/v2/mongoutil"
	"github.com/tsinghua-fib-lab/agentsociety-epidemic/entity/room"
	"github.com/tsinghua-fib-lab/agentsociety-epidemic/utils/config"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

// Recorder 每日统计的输出目标
type Recorder interface {
	// Record 写入第day天（从0开始）所有房间的最新统计
	Record(ctx context.Context, day int32, rooms []*room.Room) error
	Close(ctx context.Context) error
}

// Documents 第day天每个房间一条记录，按房间顺序
func Documents(day int32, rooms []*room.Room) []any {
	docs := make([]any, 0, len(rooms))
	for _, r := range rooms {
		c := r.Latest()
		docs = append(docs, bson.M{
			"day":        day,
			"room":       r.ID(),
			"name":       r.Name(),
			"kind":       r.Kind().String(),
			"population": r.Population(),
			"vulnerable": c.Vulnerable,
			"infected":   c.Infected,
			"cured":      c.Cured,
			"deceased":   c.Deceased,
		})
	}
	return docs
}

// Nop 丢弃所有输出
type Nop struct{}

func (Nop) Record(context.Context, int32, []*room.Room) error { return nil }
func (Nop) Close(context.Context) error { return nil }

// Mongo 写入MongoDB集合的输出
type Mongo struct {
	client *mongo.Client
	coll   *mongo.Collection
}

// NewMongo 连接MongoDB并定位输出集合
// 说明：集合中已有的数据会被清空，保证一次仿真对应一份完整的记录
func NewMongo(ctx context.Context, c config.Output) (*Mongo, error) {
	client := mongoutil.NewClient(c.URI)
	coll := client.Database(c.GetDb()).Collection(c.GetColl())
	if _, err := coll.DeleteMany(ctx, bson.M{}); err != nil {
		_ = client.Disconnect(ctx)
		return nil, fmt.Errorf("output: clear %s.%s: %w", c.GetDb(), c.GetColl(), err)
	}
	log.Infof("output to %s.%s", c.GetDb(), c.GetColl())
	return &Mongo{client: client, coll: coll}, nil
}

func (m *Mongo) Record(ctx context.Context, day int32, rooms []*room.Room) error {
	docs := Documents(day, rooms)
	if len(docs) == 0 {
		return nil
	}
	if _, err := m.coll.InsertMany(ctx, docs); err != nil {
		return fmt.Errorf("output: day %d: %w", day, err)
	}
	return nil
}

func (m *Mongo) Close(ctx context.Context) error {
	return m.client.Disconnect(ctx)
}

// New 根据配置创建输出，URI为空时不输出
func New(ctx context.Context, c config.Output) (Recorder, error) {
	if c.URI == "" {
		return Nop{}, nil
	}
	return NewMongo(ctx, c)
}
