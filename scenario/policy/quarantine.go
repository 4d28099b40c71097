package policy

import (
	"fmt"

	"git.fiblab.net/general/common/v2/geometry"
	"github.com/tsinghua-fib-lab/agentsociety-epidemic/entity"
	"github.com/tsinghua-fib-lab/agentsociety-epidemic/entity/agent"
	"github.com/tsinghua-fib-lab/agentsociety-epidemic/entity/room"
	"github.com/tsinghua-fib-lab/agentsociety-epidemic/scenario"
	"github.com/tsinghua-fib-lab/agentsociety-epidemic/utils/config"
)

// origin 被隔离前所在的房间与位置
type origin struct {
	room     *room.Room
	position geometry.Point
}

// Quarantine 隔离场景
// 功能：追加一个隔离房间；有症状的人一旦感染就被送去隔离，治愈或死亡后回到隔离前的房间与位置
// 说明：隔离房间与其他房间一样结算传播，但其中只有感染者与刚离开感染状态的人
type Quarantine struct {
	symptomChance float64

	ward        *room.Room
	symptomatic map[int32]struct{}
	origins     map[int32]origin
}

func NewQuarantine(c config.QuarantinePolicy) *Quarantine {
	return &Quarantine{
		symptomChance: c.SymptomChance,
		symptomatic:   make(map[int32]struct{}),
		origins:       make(map[int32]origin),
	}
}

func (p *Quarantine) Name() string {
	return "quarantine"
}

// Ward 隔离房间
func (p *Quarantine) Ward() *room.Room {
	return p.ward
}

// Symptomatic 人感染后是否会出现症状
func (p *Quarantine) Symptomatic(a *agent.Agent) bool {
	_, ok := p.symptomatic[a.ID()]
	return ok
}

// Setup 在每个人群房间中无放回抽取int(n*symptomChance)个有症状的人，并追加与人群房间同尺寸的隔离房间
func (p *Quarantine) Setup(s *scenario.Scenario) error {
	g := s.Generator()
	for _, r := range s.PopulationRooms() {
		n := int(r.Population())
		chosen, err := g.Sample(n, int(float64(n)*p.symptomChance))
		if err != nil {
			return fmt.Errorf("symptomatic of room %d: %w", r.ID(), err)
		}
		for i, a := range r.Agents() {
			if _, ok := chosen[i]; ok {
				p.symptomatic[a.ID()] = struct{}{}
			}
		}
	}
	shape := s.Params().Shape
	ward, err := s.AddRoom("quarantine", room.KindIsolation, shape.Width, shape.Height)
	if err != nil {
		return err
	}
	p.ward = ward
	log.Infof("quarantine: %d symptomatic", len(p.symptomatic))
	return nil
}

// Decide 每帧与每天结算后都执行
// 算法说明：
// 1. 不在隔离房间中的有症状感染者被送去隔离房间的随机位置，记录隔离前的房间与位置
// 2. 隔离房间中已治愈或死亡的人回到隔离前的房间与位置
func (p *Quarantine) Decide(s *scenario.Scenario, _ scenario.Event) []scenario.Transfer {
	var transfers []scenario.Transfer
	for _, r := range s.Rooms() {
		if r == p.ward {
			continue
		}
		for _, a := range r.Agents() {
			if a.Status() != entity.StatusInfected || !p.Symptomatic(a) {
				continue
			}
			p.origins[a.ID()] = origin{room: r, position: a.Position()}
			transfers = append(transfers, scenario.Transfer{Agent: a, To: p.ward})
		}
	}
	for _, a := range p.ward.Agents() {
		if !a.Status().Terminal() {
			continue
		}
		o, ok := p.origins[a.ID()]
		if !ok {
			log.Panicf("%v in quarantine without origin", a)
		}
		delete(p.origins, a.ID())
		pos := o.position
		transfers = append(transfers, scenario.Transfer{Agent: a, To: o.room, Pos: &pos})
	}
	return transfers
}
