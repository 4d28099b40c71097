package scenario

import (
	"git.fiblab.net/general/common/v2/geometry"
	"git.fiblab.net/general/common/v2/parallel"
	"github.com/tsinghua-fib-lab/agentsociety-epidemic/entity"
	"github.com/tsinghua-fib-lab/agentsociety-epidemic/entity/agent"
	"github.com/tsinghua-fib-lab/agentsociety-epidemic/entity/room"
)

// Jump 跳转原语，房间成员关系唯一的修改途径
// 功能：把人从当前房间移出、加入目标房间、更新房间引用并重新定位
// 参数：a-人，to-目标房间（必须属于本场景），pos-目标位置，nil表示随机内部位置
// 说明：移出与加入在同一次调用中完成，不存在人不属于任何房间的中间状态；
// 指定的位置会被约束到目标房间内部，房间尺寸在记录位置之后可能已经改变
func (s *Scenario) Jump(a *agent.Agent, to *room.Room, pos *geometry.Point) {
	if r, err := s.GetRoomOrError(to.ID()); err != nil || r != to {
		log.Panicf("jump %v to foreign %v", a, to)
	}
	if pos != nil {
		clamped := to.Clamp(*pos)
		pos = &clamped
	}
	from := s.GetRoom(a.Room().ID())
	from.Remove(a)
	to.Add(a)
	a.MoveTo(to, pos, s.generator)
}

func (s *Scenario) applyTransfers(transfers []Transfer) {
	for _, t := range transfers {
		s.Jump(t.Agent, t.To, t.Pos)
	}
}

// AdvanceTick 推进一帧
// 功能：先执行策略的帧决策，再让所有房间的人按房间顺序移动一步
func (s *Scenario) AdvanceTick() {
	s.applyTransfers(s.policy.Decide(s, Event{
		Kind: EventTick,
		Day:  s.clock.Day,
		Step: s.clock.InternalStep,
	}))
	for _, r := range s.rooms {
		r.Move(s.generator)
	}
	s.clock.NextTick()
}

// AdvanceDay 推进一天的流行病学结算
// 功能：对应外部接口advance_day
// 返回：天序号横轴与按严重程度累加的堆叠序列
// 算法说明：
// 1. 按房间顺序结算传播，新感染者按发现顺序追加到待分配列表
// 2. 按列表顺序为需要床位的人分配床位，先到先得，没有分到的人不再重试
// 3. 按房间顺序结算病程（死亡或治愈并归还床位）
// 4. 记录各房间与全局的当天统计
// 5. 执行策略的天决策（例如把当天出现症状的人送去隔离）
func (s *Scenario) AdvanceDay() ([]int32, Series) {
	s.calculateInfected()
	s.calculateBeds()
	s.calculateDeath()
	s.updateData()
	s.clock.NextDay()
	s.applyTransfers(s.policy.Decide(s, Event{
		Kind: EventDay,
		Day:  s.clock.Day,
		Step: s.clock.InternalStep,
	}))
	return s.Series()
}

// Step 由外部驱动按帧调用
// 功能：当天的帧走完时先结算一天，再推进一帧
// 返回：本次调用是否结算了一天
func (s *Scenario) Step() bool {
	day := false
	if s.clock.DayDue() {
		s.AdvanceDay()
		day = true
	}
	s.AdvanceTick()
	return day
}

func (s *Scenario) calculateInfected() {
	for _, r := range s.rooms {
		s.newlyInfected = append(s.newlyInfected, r.CalculateInfected(s.generator)...)
	}
}

func (s *Scenario) calculateBeds() {
	for _, a := range s.newlyInfected {
		if a.NeedsBed() && s.pool.Acquire() {
			a.GrantBed()
		}
	}
	s.newlyInfected = s.newlyInfected[:0]
}

func (s *Scenario) calculateDeath() {
	for _, r := range s.rooms {
		r.CalculateDeath(s.pool, s.generator)
	}
}

func (s *Scenario) updateData() {
	// 各房间只写自己的统计
	parallel.GoFor(s.rooms, func(r *room.Room) { r.RecordDaily() })
	var total entity.StatusCount
	for _, r := range s.rooms {
		total = total.Plus(r.Latest())
	}
	s.data = append(s.data, total)
	log.Debugf("day %d: %+v, beds %d/%d", len(s.data), total, s.pool.Available(), s.pool.Capacity())
}
