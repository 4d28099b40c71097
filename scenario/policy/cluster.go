package policy

import (
	"fmt"

	"github.com/tsinghua-fib-lab/agentsociety-epidemic/entity"
	"github.com/tsinghua-fib-lab/agentsociety-epidemic/entity/agent"
	"github.com/tsinghua-fib-lab/agentsociety-epidemic/entity/room"
	"github.com/tsinghua-fib-lab/agentsociety-epidemic/scenario"
	"github.com/tsinghua-fib-lab/agentsociety-epidemic/utils/config"
)

// Cluster 多房间场景
// 功能：每个人群房间中有一小部分人（跳跃者）每隔固定帧数跳到另一个随机的人群房间
// 说明：病原体不能跨越房间，房间之间只能通过跳跃者传播
type Cluster struct {
	jumpyPercentage float64
	jumpTime        int32

	jumpers []*agent.Agent  // 跳跃者，按人的ID排序
	elapsed map[int32]int32 // 跳跃者距上次跳跃的帧数
}

func NewCluster(c config.ClusterPolicy) *Cluster {
	return &Cluster{
		jumpyPercentage: c.JumpyPercentage,
		jumpTime:        max(c.JumpTime, 1),
		elapsed:         make(map[int32]int32),
	}
}

func (p *Cluster) Name() string {
	return "cluster"
}

// Setup 在每个人群房间中无放回抽取int(n*jumpyPercentage)个跳跃者
// 说明：跳跃计时初始化为[0, jumpTime)内的均匀随机整数，避免所有人同一帧跳跃
func (p *Cluster) Setup(s *scenario.Scenario) error {
	g := s.Generator()
	for _, r := range s.PopulationRooms() {
		n := int(r.Population())
		chosen, err := g.Sample(n, int(float64(n)*p.jumpyPercentage))
		if err != nil {
			return fmt.Errorf("jumpers of room %d: %w", r.ID(), err)
		}
		for i, a := range r.Agents() {
			if _, ok := chosen[i]; ok {
				p.jumpers = append(p.jumpers, a)
			}
		}
	}
	sortByID(p.jumpers)
	for _, a := range p.jumpers {
		p.elapsed[a.ID()] = int32(g.Float64() * float64(p.jumpTime))
	}
	log.Infof("cluster: %d jumpers, jump every %d ticks", len(p.jumpers), p.jumpTime)
	return nil
}

// Decide 每帧推进跳跃者的计时，到期者跳到另一个均匀随机的人群房间的随机位置
// 说明：只在人群房间中计时；死亡的人不再跳跃；只有一个人群房间时不跳跃
func (p *Cluster) Decide(s *scenario.Scenario, ev scenario.Event) []scenario.Transfer {
	if ev.Kind != scenario.EventTick {
		return nil
	}
	rooms := s.PopulationRooms()
	if len(rooms) < 2 {
		return nil
	}
	var transfers []scenario.Transfer
	for _, a := range p.jumpers {
		from := s.GetRoom(a.Room().ID())
		if a.Status() == entity.StatusDeceased || from.Kind() != room.KindPopulation {
			continue
		}
		p.elapsed[a.ID()]++
		if p.elapsed[a.ID()] < p.jumpTime {
			continue
		}
		p.elapsed[a.ID()] = 0
		transfers = append(transfers, scenario.Transfer{
			Agent: a,
			To:    otherRoom(s, rooms, from),
		})
	}
	return transfers
}

// otherRoom 除from以外均匀随机的房间
func otherRoom(s *scenario.Scenario, rooms []*room.Room, from *room.Room) *room.Room {
	weight := make([]float64, len(rooms))
	for i, r := range rooms {
		if r != from {
			weight[i] = 1
		}
	}
	return rooms[s.Generator().DiscreteDistribution(weight)]
}

// IsJumper 人是否为跳跃者
func (p *Cluster) IsJumper(a *agent.Agent) bool {
	_, ok := p.elapsed[a.ID()]
	return ok
}
