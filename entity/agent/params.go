package agent

import (
	"math"

	"github.com/samber/lo"
	"github.com/tsinghua-fib-lab/agentsociety-epidemic/utils/randengine"
)

// Params 人的疾病与行为参数
type Params struct {
	InfectionRadius             float64 // 感染半径
	InfectionProbability        float64 // 每次接触的感染概率
	Speed                       float64 // 每帧移动距离
	MaxInfectedDays             int32   // 感染持续天数
	DeathProbabilityWithCare    float64 // 有床位时的死亡率
	DeathProbabilityWithoutCare float64 // 无床位时的死亡率
}

// Perturb 为参数添加个体随机扰动
// 功能：每个参数乘以(1 + jitter*clamp(.5*N(0,1), -1, 1))，概率限制在[0,1]，天数至少为1
// 参数：generator-随机数引擎，jitter-扰动幅度，为0时原样返回
func (p Params) Perturb(generator *randengine.Engine, jitter float64) Params {
	if jitter <= 0 {
		return p
	}
	noise := func() float64 {
		return 1 + jitter*lo.Clamp(.5*generator.NormFloat64(), -1, 1)
	}
	return Params{
		InfectionRadius:             math.Max(p.InfectionRadius*noise(), 0),
		InfectionProbability:        lo.Clamp(p.InfectionProbability*noise(), 0, 1),
		Speed:                       math.Max(p.Speed*noise(), 0),
		MaxInfectedDays:             max(int32(math.Round(float64(p.MaxInfectedDays)*noise())), 1),
		DeathProbabilityWithCare:    lo.Clamp(p.DeathProbabilityWithCare*noise(), 0, 1),
		DeathProbabilityWithoutCare: lo.Clamp(p.DeathProbabilityWithoutCare*noise(), 0, 1),
	}
}
