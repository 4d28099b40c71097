package agent

import (
	"fmt"
	"math"

	"git.fiblab.net/general/common/v2/geometry"
	"github.com/tsinghua-fib-lab/agentsociety-epidemic/entity"
	"github.com/tsinghua-fib-lab/agentsociety-epidemic/utils/container"
	"github.com/tsinghua-fib-lab/agentsociety-epidemic/utils/randengine"
)

const (
	turnAround   = .5 // 离开安全区域时的转向量（圈）
	headingStd   = .1 // 每帧转向量的标准差（圈）
	maxHeadingDr = .5 // 超过该值的转向量被丢弃
)

// Agent 仿真中的一个人
// 功能：记录位置、朝向、健康状态、感染计时与床位占用
// 说明：同一时刻只属于一个房间；房间成员关系只能由场景的跳转原语修改
type Agent struct {
	container.IndexedItemBase

	id     int32
	room   entity.IRoom
	params Params

	position geometry.Point // 当前位置
	heading  float64        // 朝向，单位为圈，取值[0,1)

	status       entity.Status
	infectedDays int32 // 本次感染已经过的天数

	needsBed bool // 感染后是否需要床位，创建时确定
	hasBed   bool // 是否占用床位，仅在感染期间可能为true
}

// New 创建一个人
// 功能：在房间内随机位置以随机朝向创建一个易感者
// 参数：id-唯一编号（创建顺序），room-所在房间，params-参数，needsBed-感染后是否需要床位，generator-随机数引擎
// 说明：不会把人加入房间成员，由调用方负责
func New(id int32, room entity.IRoom, params Params, needsBed bool, generator *randengine.Engine) *Agent {
	a := &Agent{
		id:       id,
		room:     room,
		params:   params,
		position: room.RandomPosition(generator),
		heading:  generator.Float64(),
		status:   entity.StatusVulnerable,
		needsBed: needsBed,
	}
	a.SetIndex(-1)
	return a
}

func (a *Agent) ID() int32 {
	return a.id
}

func (a *Agent) Room() entity.IRoom {
	return a.room
}

func (a *Agent) Position() geometry.Point {
	return a.position
}

func (a *Agent) Heading() float64 {
	return a.heading
}

func (a *Agent) Status() entity.Status {
	return a.status
}

func (a *Agent) InfectedDays() int32 {
	return a.infectedDays
}

func (a *Agent) Params() Params {
	return a.params
}

func (a *Agent) InfectionRadius() float64 {
	return a.params.InfectionRadius
}

func (a *Agent) InfectionProbability() float64 {
	return a.params.InfectionProbability
}

func (a *Agent) NeedsBed() bool {
	return a.needsBed
}

func (a *Agent) HasBed() bool {
	return a.hasBed
}

func (a *Agent) String() string {
	return fmt.Sprintf("Agent{id=%d, room=%d, status=%v, pos=(%.2f, %.2f)}",
		a.id, a.room.ID(), a.status, a.position.X, a.position.Y)
}

// SetParams 替换参数（用于在线调参），不影响位置与状态
func (a *Agent) SetParams(params Params) {
	a.params = params
}

// MoveTo 把人放到指定房间的指定位置
// 功能：更新房间引用与位置；pos为nil时在新房间中随机取一个内部位置
// 说明：只修改人自身，房间成员集合由调用方（场景的Jump）同步修改
func (a *Agent) MoveTo(room entity.IRoom, pos *geometry.Point, generator *randengine.Engine) {
	a.room = room
	if pos != nil {
		a.position = *pos
	} else {
		a.position = room.RandomPosition(generator)
	}
}

// ClampIntoRoom 把位置约束到所在房间内部，用于房间尺寸变化后
func (a *Agent) ClampIntoRoom() {
	a.position = a.room.Clamp(a.position)
}

// KeepGoing 移动一帧
// 功能：有偏随机游走
// 算法说明：
// 1. 不在房间安全区域内（距任一边不超过边距）时转向半圈，引导回到内部
// 2. 否则朝向加上N(0, 0.1)的扰动，绝对值超过0.5的扰动被丢弃（本帧不转向）
// 3. 朝向取模到[0,1)，位置沿朝向前进speed
// 说明：不对位置做硬约束，允许短暂越过边距；死亡的人不移动
func (a *Agent) KeepGoing(generator *randengine.Engine) {
	if a.status == entity.StatusDeceased {
		return
	}
	var dh float64
	if !a.room.InInterior(a.position) {
		dh = turnAround
	} else {
		dh = generator.Normal(0, headingStd)
		if math.Abs(dh) > maxHeadingDr {
			dh = 0
		}
	}
	a.heading = math.Mod(a.heading+dh, 1)
	if a.heading < 0 {
		a.heading += 1
	}
	angle := 2 * math.Pi * a.heading
	a.position = geometry.Point{
		X: a.position.X + a.params.Speed*math.Cos(angle),
		Y: a.position.Y + a.params.Speed*math.Sin(angle),
		Z: a.position.Z,
	}
}

// Infect 易感者转为感染者，感染天数归零
// 说明：非易感者调用属于程序错误
func (a *Agent) Infect() {
	a.transition(entity.StatusInfected)
	a.infectedDays = 0
}

// GrantBed 为刚感染且需要床位的人记录占用床位
// 说明：床位计数由调用方先行从床位池中扣减
func (a *Agent) GrantBed() {
	if a.status != entity.StatusInfected || a.hasBed {
		log.Panicf("grant bed to %v (has bed: %v)", a, a.hasBed)
	}
	a.hasBed = true
}

// AdvanceDisease 结算一天的病程
// 功能：感染者感染天数+1，达到持续天数后判定死亡或治愈
// 参数：pool-床位池，generator-随机数引擎
// 返回：是否在本次结算中离开感染状态
// 算法说明：
// 1. 占用床位者先归还床位，按有床位死亡率判定
// 2. 无床位者按无床位死亡率判定
func (a *Agent) AdvanceDisease(pool entity.IBedPool, generator *randengine.Engine) bool {
	if a.status != entity.StatusInfected {
		return false
	}
	a.infectedDays++
	if a.infectedDays < a.params.MaxInfectedDays {
		return false
	}
	p := a.params.DeathProbabilityWithoutCare
	if a.hasBed {
		pool.Release()
		a.hasBed = false
		p = a.params.DeathProbabilityWithCare
	}
	if generator.PTrue(p) {
		a.transition(entity.StatusDeceased)
	} else {
		a.transition(entity.StatusCured)
	}
	return true
}

func (a *Agent) transition(next entity.Status) {
	if !a.status.CanBecome(next) {
		log.Panicf("illegal status transition %v -> %v for %v", a.status, next, a)
	}
	a.status = next
}
