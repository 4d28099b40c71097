package room

import (
	"math"
	"sort"

	"github.com/samber/lo"
	"github.com/tsinghua-fib-lab/agentsociety-epidemic/entity"
	"github.com/tsinghua-fib-lab/agentsociety-epidemic/entity/agent"
	"github.com/tsinghua-fib-lab/agentsociety-epidemic/utils/randengine"
)

// grid 单位网格，按位置取整分桶
type grid struct {
	w, h  int
	cells [][]*agent.Agent
}

func newGrid(width, height float64) *grid {
	w := max(int(math.Ceil(width)), 1)
	h := max(int(math.Ceil(height)), 1)
	return &grid{
		w:     w,
		h:     h,
		cells: make([][]*agent.Agent, w*h),
	}
}

// cell 位置所在格子，越界的位置归入最近的边缘格子
func (g *grid) cell(x, y float64) (int, int) {
	return lo.Clamp(int(x), 0, g.w-1), lo.Clamp(int(y), 0, g.h-1)
}

func (g *grid) add(a *agent.Agent) {
	p := a.Position()
	i, j := g.cell(p.X, p.Y)
	g.cells[i*g.h+j] = append(g.cells[i*g.h+j], a)
}

func (g *grid) at(i, j int) []*agent.Agent {
	return g.cells[i*g.h+j]
}

// CalculateInfected 结算房间内一天的传播
// 功能：基于空间分桶找出所有距离足够近的易感者-感染者对，对每一对做一次伯努利试验
// 参数：generator-随机数引擎
// 返回：本次新感染的人，按发现顺序
// 算法说明：
// 1. 只有易感者与感染者参与；按位置取整分入单位网格
// 2. 参与者按感染半径降序稳定排序（半径相同时保持房间内顺序），排序位置即为秩
// 3. 按秩依次处理每个人，只检查秩更小（已处理过）的邻居，每一对只检查一次；扫描范围为本次参与者中最大半径向上取整的格子数，且不超出房间
// 4. 两人距离不超过二者中较大的半径（即秩更小一方的半径，含边界）且恰有一方为感染者时，以感染者的感染概率做一次试验，成功则易感者记为待感染
// 5. 扫描期间不修改任何人的状态；扫描结束后按发现顺序统一转为感染者
// 说明：因为状态在扫描结束前不变，同一天内不会出现链式传播，一对人也不会双向翻转
func (r *Room) CalculateInfected(generator *randengine.Engine) []*agent.Agent {
	participants := make([]*agent.Agent, 0, r.agents.Len())
	for _, a := range r.agents.Data() {
		if a.Status().Participates() {
			participants = append(participants, a)
		}
	}
	if len(participants) == 0 {
		return nil
	}
	sort.SliceStable(participants, func(i, j int) bool {
		return participants[i].InfectionRadius() > participants[j].InfectionRadius()
	})
	rank := make(map[*agent.Agent]int, len(participants))
	g := newGrid(r.width, r.height)
	for i, a := range participants {
		rank[a] = i
		g.add(a)
	}
	reach := int(math.Ceil(participants[0].InfectionRadius()))

	pending := make(map[*agent.Agent]struct{})
	discovered := make([]*agent.Agent, 0)
	for index, a := range participants {
		p := a.Position()
		x, y := g.cell(p.X, p.Y)
		for i := max(x-reach, 0); i <= min(x+reach, g.w-1); i++ {
			for j := max(y-reach, 0); j <= min(y+reach, g.h-1); j++ {
				for _, other := range g.at(i, j) {
					if rank[other] >= index {
						continue
					}
					var source, target *agent.Agent
					switch {
					case a.Status() == entity.StatusInfected && other.Status() == entity.StatusVulnerable:
						source, target = a, other
					case other.Status() == entity.StatusInfected && a.Status() == entity.StatusVulnerable:
						source, target = other, a
					default:
						continue
					}
					if _, ok := pending[target]; ok {
						continue
					}
					// other的秩更小，因此半径不小于a
					q := other.Position()
					if math.Hypot(p.X-q.X, p.Y-q.Y) > other.InfectionRadius() {
						continue
					}
					if generator.PTrue(source.InfectionProbability()) {
						pending[target] = struct{}{}
						discovered = append(discovered, target)
					}
				}
			}
		}
	}
	for _, a := range discovered {
		a.Infect()
	}
	if len(discovered) > 0 {
		log.Debugf("room %d: %d newly infected", r.id, len(discovered))
	}
	return discovered
}
