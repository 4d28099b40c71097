package scenario

import (
	"fmt"

	"github.com/samber/lo"
	"github.com/tsinghua-fib-lab/agentsociety-epidemic/clock"
	"github.com/tsinghua-fib-lab/agentsociety-epidemic/entity"
	"github.com/tsinghua-fib-lab/agentsociety-epidemic/entity/agent"
	"github.com/tsinghua-fib-lab/agentsociety-epidemic/entity/bed"
	"github.com/tsinghua-fib-lab/agentsociety-epidemic/entity/room"
	"github.com/tsinghua-fib-lab/agentsociety-epidemic/utils/config"
	"github.com/tsinghua-fib-lab/agentsociety-epidemic/utils/randengine"
)

// Scenario 仿真场景（控制器）
// 功能：持有所有房间、床位池、时钟与唯一的随机数引擎，推进帧与天，汇总统计
// 说明：单线程同步执行；场景变体通过TransferPolicy接入，不通过继承
type Scenario struct {
	params    config.Scenario
	generator *randengine.Engine
	clock     *clock.Clock

	rooms  []*room.Room   // 所有房间，ID即下标
	agents []*agent.Agent // 所有人，ID即下标（创建顺序）
	pool   *bed.Pool      // 共享床位池
	policy TransferPolicy // 跳转策略

	newlyInfected []*agent.Agent       // 当天新感染、等待分配床位的人
	data          []entity.StatusCount // 所有房间每天的状态统计之和
}

// New 创建场景并生成人群
// 功能：对应外部接口create(params)
// 参数：params-场景参数，policy-跳转策略，nil表示基础场景
// 返回：场景与错误
// 算法说明：
// 1. 创建params.Rooms个人群房间，房间尺寸非法时返回错误
// 2. 每个房间无放回抽取NumberInfected个初始感染者与int(BedChance*Members)个需要床位的人，超过人数时返回错误
// 3. 每个房间按顺序创建Members个人，个体参数按Jitter扰动
// 4. 床位数为int(HealthcareMax*总人数)
// 5. 调用策略的Setup
func New(params config.Scenario, policy TransferPolicy) (*Scenario, error) {
	if policy == nil {
		policy = None()
	}
	if params.Rooms <= 0 || params.Members < 0 {
		return nil, fmt.Errorf("scenario: invalid population %d rooms x %d members", params.Rooms, params.Members)
	}
	s := &Scenario{
		params:        params,
		generator:     randengine.New(params.Seed),
		clock:         clock.New(params.FramesPerDay),
		rooms:         make([]*room.Room, 0, params.Rooms),
		agents:        make([]*agent.Agent, 0, params.Rooms*params.Members),
		policy:        policy,
		newlyInfected: make([]*agent.Agent, 0),
		data:          make([]entity.StatusCount, 0),
	}
	members := int(params.Members)
	for l := range params.Rooms {
		r, err := s.AddRoom(fmt.Sprintf("room %d", l), room.KindPopulation, params.Shape.Width, params.Shape.Height)
		if err != nil {
			return nil, err
		}
		infected, err := s.generator.Sample(members, int(params.NumberInfected))
		if err != nil {
			return nil, fmt.Errorf("scenario: initial infected of room %d: %w", l, err)
		}
		needBed, err := s.generator.Sample(members, int(params.BedChance*float64(members)))
		if err != nil {
			return nil, fmt.Errorf("scenario: bed need of room %d: %w", l, err)
		}
		for m := range members {
			_, needsBed := needBed[m]
			a := agent.New(
				int32(len(s.agents)), r,
				s.agentParams().Perturb(s.generator, params.Jitter),
				needsBed, s.generator,
			)
			r.Add(a)
			s.agents = append(s.agents, a)
			if _, ok := infected[m]; ok {
				a.Infect()
			}
		}
	}
	s.pool = bed.NewPool(s.healthcareCapacity(params.HealthcareMax))
	if err := s.policy.Setup(s); err != nil {
		return nil, fmt.Errorf("scenario: setup %s: %w", s.policy.Name(), err)
	}
	log.Infof("scenario %s: %d rooms, %d persons, %d beds", s.policy.Name(), len(s.rooms), len(s.agents), s.pool.Capacity())
	return s, nil
}

// agentParams 由场景参数得到的同质个体参数
func (s *Scenario) agentParams() agent.Params {
	return agent.Params{
		InfectionRadius:             s.params.Radius,
		InfectionProbability:        s.params.InfectionRate,
		Speed:                       s.params.Speed,
		MaxInfectedDays:             s.params.MaxInfectedTime,
		DeathProbabilityWithCare:    s.params.DeathRate,
		DeathProbabilityWithoutCare: s.params.DeathRateWithoutHealthcare,
	}
}

func (s *Scenario) healthcareCapacity(fraction float64) int32 {
	return int32(fraction * float64(len(s.agents)))
}

// AddRoom 追加一个房间
// 功能：对应外部接口add_room(geometry)，供超市、隔离等变体使用
// 参数：name-房间名，kind-用途，width/height-尺寸（边距使用场景参数）
// 返回：新房间与错误
func (s *Scenario) AddRoom(name string, kind room.Kind, width, height float64) (*room.Room, error) {
	r, err := room.New(int32(len(s.rooms)), name, kind, width, height, s.params.Border)
	if err != nil {
		return nil, fmt.Errorf("scenario: add room %q: %w", name, err)
	}
	s.rooms = append(s.rooms, r)
	log.Debugf("add %v", r)
	return r, nil
}

// GetRoom 输入房间ID，查找房间，如果不存在则panic
func (s *Scenario) GetRoom(id int32) *room.Room {
	r, err := s.GetRoomOrError(id)
	if err != nil {
		log.Panic(err)
	}
	return r
}

// GetRoomOrError 输入房间ID，查找房间，如果不存在则返回error
func (s *Scenario) GetRoomOrError(id int32) (*room.Room, error) {
	if id < 0 || int(id) >= len(s.rooms) {
		return nil, fmt.Errorf("no id %d in room data", id)
	}
	return s.rooms[id], nil
}

// GetAgentOrError 输入人的ID，查找人，如果不存在则返回error
func (s *Scenario) GetAgentOrError(id int32) (*agent.Agent, error) {
	if id < 0 || int(id) >= len(s.agents) {
		return nil, fmt.Errorf("no id %d in agent data", id)
	}
	return s.agents[id], nil
}

// Rooms 所有房间，按创建顺序
func (s *Scenario) Rooms() []*room.Room {
	return s.rooms
}

// RoomsOfKind 指定用途的房间，按创建顺序
func (s *Scenario) RoomsOfKind(kind room.Kind) []*room.Room {
	return lo.Filter(s.rooms, func(r *room.Room, _ int) bool {
		return r.Kind() == kind
	})
}

// PopulationRooms 人群房间
func (s *Scenario) PopulationRooms() []*room.Room {
	return s.RoomsOfKind(room.KindPopulation)
}

// Agents 所有人，按创建顺序
func (s *Scenario) Agents() []*agent.Agent {
	return s.agents
}

func (s *Scenario) Pool() *bed.Pool {
	return s.pool
}

func (s *Scenario) Clock() *clock.Clock {
	return s.clock
}

// Generator 场景唯一的随机数引擎，策略也必须使用它
func (s *Scenario) Generator() *randengine.Engine {
	return s.generator
}

func (s *Scenario) Params() config.Scenario {
	return s.params
}

func (s *Scenario) Policy() TransferPolicy {
	return s.policy
}

// Day 已完成结算的天数
func (s *Scenario) Day() int32 {
	return s.clock.Day
}

// Data 所有房间每天的状态统计之和
func (s *Scenario) Data() []entity.StatusCount {
	return s.data
}

// HealthcareMax 床位总数，作为统计图上的参考线
func (s *Scenario) HealthcareMax() int32 {
	return s.pool.Capacity()
}
