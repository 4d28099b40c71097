package entity

import (
	"fmt"

	"git.fiblab.net/general/common/v2/geometry"
	"github.com/tsinghua-fib-lab/agentsociety-epidemic/utils/randengine"
)

// Status 人的健康状态
type Status int32

const (
	StatusVulnerable Status = iota // 易感
	StatusInfected                 // 感染
	StatusCured                    // 治愈（终态）
	StatusDeceased                 // 死亡（终态）
)

// Statuses 所有健康状态，按严重程度从轻到重
var Statuses = []Status{StatusVulnerable, StatusInfected, StatusCured, StatusDeceased}

func (s Status) String() string {
	switch s {
	case StatusVulnerable:
		return "vulnerable"
	case StatusInfected:
		return "infected"
	case StatusCured:
		return "cured"
	case StatusDeceased:
		return "deceased"
	default:
		return fmt.Sprintf("Status(%d)", int32(s))
	}
}

// Terminal 是否为不可再转移的终态
func (s Status) Terminal() bool {
	return s == StatusCured || s == StatusDeceased
}

// Participates 是否参与传播（只有易感者与感染者参与）
func (s Status) Participates() bool {
	return s == StatusVulnerable || s == StatusInfected
}

// CanBecome 状态转移是否合法：V -> I -> {C, D}
func (s Status) CanBecome(next Status) bool {
	switch s {
	case StatusVulnerable:
		return next == StatusInfected
	case StatusInfected:
		return next == StatusCured || next == StatusDeceased
	default:
		return false
	}
}

// StatusCount 某一天各健康状态的人数
type StatusCount struct {
	Vulnerable int32 `json:"vulnerable" bson:"vulnerable"`
	Infected   int32 `json:"infected" bson:"infected"`
	Cured      int32 `json:"cured" bson:"cured"`
	Deceased   int32 `json:"deceased" bson:"deceased"`
}

// Add 计入一个处于状态s的人
func (c *StatusCount) Add(s Status) {
	switch s {
	case StatusVulnerable:
		c.Vulnerable++
	case StatusInfected:
		c.Infected++
	case StatusCured:
		c.Cured++
	case StatusDeceased:
		c.Deceased++
	}
}

// Plus 两个统计相加
func (c StatusCount) Plus(o StatusCount) StatusCount {
	return StatusCount{
		Vulnerable: c.Vulnerable + o.Vulnerable,
		Infected:   c.Infected + o.Infected,
		Cured:      c.Cured + o.Cured,
		Deceased:   c.Deceased + o.Deceased,
	}
}

// Total 总人数
func (c StatusCount) Total() int32 {
	return c.Vulnerable + c.Infected + c.Cured + c.Deceased
}

// entity/room/room.go的依赖倒置
// 人只需要知道所在房间的几何信息
type IRoom interface {
	ID() int32                                                  // 房间ID
	Name() string                                               // 房间名
	Width() float64                                             // 宽度
	Height() float64                                            // 高度
	Border() float64                                            // 边距
	InInterior(p geometry.Point) bool                           // 是否严格位于边距以内
	RandomPosition(generator *randengine.Engine) geometry.Point // 随机的内部位置
	Clamp(p geometry.Point) geometry.Point                      // 把位置约束到内部
}

// entity/bed/pool.go的依赖倒置
type IBedPool interface {
	Acquire() bool // 申请一个床位，没有空床时返回false
	Release()      // 归还一个床位
}
