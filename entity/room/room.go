package room

import (
	"errors"
	"fmt"

	"git.fiblab.net/general/common/v2/geometry"
	"github.com/samber/lo"
	"github.com/tsinghua-fib-lab/agentsociety-epidemic/entity"
	"github.com/tsinghua-fib-lab/agentsociety-epidemic/entity/agent"
	"github.com/tsinghua-fib-lab/agentsociety-epidemic/utils/container"
	"github.com/tsinghua-fib-lab/agentsociety-epidemic/utils/randengine"
)

// ErrInvalidGeometry 房间尺寸不大于两倍边距
var ErrInvalidGeometry = errors.New("room: everything is border")

// Kind 房间用途
type Kind int32

const (
	KindPopulation Kind = iota // 人群居住的房间
	KindErrand                 // 所有人定期往返的公共房间（超市）
	KindIsolation              // 隔离房间
	KindExtra                  // 外部控制器追加的其他房间
)

func (k Kind) String() string {
	switch k {
	case KindPopulation:
		return "population"
	case KindErrand:
		return "errand"
	case KindIsolation:
		return "isolation"
	case KindExtra:
		return "extra"
	default:
		return fmt.Sprintf("Kind(%d)", int32(k))
	}
}

// Room 有边界的二维区域
// 功能：持有一组人，负责房间内的感染结算、病程结算与每日统计
// 说明：病原体不能跨越房间，只能随人的跳转传播
type Room struct {
	id     int32
	name   string
	kind   Kind
	width  float64
	height float64
	border float64

	agents *container.IndexedArray[*agent.Agent] // 房间内的人，按进入顺序
	data   []entity.StatusCount                  // 每天的状态统计，只追加
}

// New 创建房间
// 参数：id-房间编号，name-房间名，kind-用途，width/height-尺寸，border-边距
// 返回：房间与错误；任一尺寸不大于两倍边距时返回ErrInvalidGeometry
func New(id int32, name string, kind Kind, width, height, border float64) (*Room, error) {
	if err := checkGeometry(width, height, border); err != nil {
		return nil, err
	}
	return &Room{
		id:     id,
		name:   name,
		kind:   kind,
		width:  width,
		height: height,
		border: border,
		agents: container.NewIndexedArray[*agent.Agent](),
		data:   make([]entity.StatusCount, 0),
	}, nil
}

func checkGeometry(width, height, border float64) error {
	if border < 0 || width <= 2*border || height <= 2*border {
		return fmt.Errorf("%w: size %vx%v, border %v", ErrInvalidGeometry, width, height, border)
	}
	return nil
}

func (r *Room) ID() int32 {
	return r.id
}

func (r *Room) Name() string {
	return r.name
}

func (r *Room) Kind() Kind {
	return r.kind
}

func (r *Room) Width() float64 {
	return r.width
}

func (r *Room) Height() float64 {
	return r.height
}

func (r *Room) Border() float64 {
	return r.border
}

func (r *Room) String() string {
	return fmt.Sprintf("Room{id=%d, name=%s, kind=%v, size=%vx%v, population=%d}",
		r.id, r.name, r.kind, r.width, r.height, r.Population())
}

// InInterior 位置是否严格位于边距以内
func (r *Room) InInterior(p geometry.Point) bool {
	return r.border < p.X && p.X < r.width-r.border &&
		r.border < p.Y && p.Y < r.height-r.border
}

// RandomPosition 在边距以内均匀随机取一个位置
func (r *Room) RandomPosition(generator *randengine.Engine) geometry.Point {
	return geometry.Point{
		X: r.border + generator.Float64()*(r.width-2*r.border),
		Y: r.border + generator.Float64()*(r.height-2*r.border),
	}
}

// Clamp 把位置约束到[border, size-border]
func (r *Room) Clamp(p geometry.Point) geometry.Point {
	return geometry.Point{
		X: lo.Clamp(p.X, r.border, r.width-r.border),
		Y: lo.Clamp(p.Y, r.border, r.height-r.border),
		Z: p.Z,
	}
}

// Resize 修改房间尺寸
// 功能：校验新尺寸，并把房间内所有人约束回新的内部区域
// 返回：尺寸非法时返回ErrInvalidGeometry，房间保持不变
func (r *Room) Resize(width, height float64) error {
	if err := checkGeometry(width, height, r.border); err != nil {
		return err
	}
	r.width, r.height = width, height
	for _, a := range r.agents.Data() {
		a.ClampIntoRoom()
	}
	return nil
}

// Agents 房间内的人，按进入顺序
// 说明：返回内部切片，调用方不得修改
func (r *Room) Agents() []*agent.Agent {
	return r.agents.Data()
}

// Population 房间当前人数
func (r *Room) Population() int32 {
	return int32(r.agents.Len())
}

// Contains 人是否在房间内
func (r *Room) Contains(a *agent.Agent) bool {
	return r.agents.Contains(a)
}

// Add 把人加入房间成员，人已在房间中时panic
// 说明：只应由房间内创建或场景的跳转原语调用
func (r *Room) Add(a *agent.Agent) {
	if !r.agents.Add(a) {
		log.Panicf("%v already in %v", a, r)
	}
}

// Remove 把人移出房间成员，人不在房间中时panic
func (r *Room) Remove(a *agent.Agent) {
	if !r.agents.Remove(a) {
		log.Panicf("%v not in %v", a, r)
	}
}

// Move 房间内所有人移动一帧
func (r *Room) Move(generator *randengine.Engine) {
	for _, a := range r.agents.Data() {
		a.KeepGoing(generator)
	}
}

// CalculateDeath 结算房间内所有感染者一天的病程
// 参数：pool-床位池，generator-随机数引擎
// 返回：本次离开感染状态的人
func (r *Room) CalculateDeath(pool entity.IBedPool, generator *randengine.Engine) []*agent.Agent {
	done := make([]*agent.Agent, 0)
	for _, a := range r.agents.Data() {
		if a.AdvanceDisease(pool, generator) {
			done = append(done, a)
		}
	}
	return done
}

// RecordDaily 追加当天的状态统计
func (r *Room) RecordDaily() entity.StatusCount {
	var c entity.StatusCount
	for _, a := range r.agents.Data() {
		c.Add(a.Status())
	}
	r.data = append(r.data, c)
	return c
}

// Data 每天的状态统计
func (r *Room) Data() []entity.StatusCount {
	return r.data
}

// Latest 最近一天的状态统计，尚无记录时返回零值
func (r *Room) Latest() entity.StatusCount {
	if len(r.data) == 0 {
		return entity.StatusCount{}
	}
	return r.data[len(r.data)-1]
}
