package scenario

import (
	"git.fiblab.net/general/common/v2/geometry"
	"github.com/tsinghua-fib-lab/agentsociety-epidemic/entity/agent"
	"github.com/tsinghua-fib-lab/agentsociety-epidemic/entity/room"
)

// EventKind 触发跳转决策的时机
type EventKind int32

const (
	EventTick EventKind = iota // 每帧移动之前
	EventDay                   // 每天结算之后
)

func (k EventKind) String() string {
	if k == EventDay {
		return "day"
	}
	return "tick"
}

// Event 跳转决策的上下文
type Event struct {
	Kind EventKind
	Day  int32 // 已完成结算的天数
	Step int64 // 累计帧数
}

// Transfer 一次跳转请求
// 说明：Pos为nil时在目标房间随机取位置
type Transfer struct {
	Agent *agent.Agent
	To    *room.Room
	Pos   *geometry.Point
}

// TransferPolicy 场景变体（跳转策略）
// 功能：决定何时、把谁跳转到哪个房间；成员关系的修改统一由场景的Jump执行
// 说明：策略在Setup中可以追加房间并建立以人ID为键的私有状态表
type TransferPolicy interface {
	Name() string
	// Setup 在人群创建完成后调用一次
	Setup(s *Scenario) error
	// Decide 返回本次需要执行的跳转，按返回顺序执行
	Decide(s *Scenario, ev Event) []Transfer
}

// nonePolicy 基础场景，从不跳转
type nonePolicy struct{}

// None 基础场景策略
func None() TransferPolicy {
	return nonePolicy{}
}

func (nonePolicy) Name() string { return "none" }
func (nonePolicy) Setup(*Scenario) error { return nil }
func (nonePolicy) Decide(*Scenario, Event) []Transfer { return nil }
