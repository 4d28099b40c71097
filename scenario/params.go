package scenario

import (
	"fmt"
	"math"
	"sort"

	"github.com/samber/lo"
)

// parameter 可在线调整的参数
type parameter struct {
	min, max float64
	apply    func(s *Scenario, v float64) error
}

// 参数名与滑块取值范围
var parameters = map[string]parameter{
	"infection_rate": {0, 1, func(s *Scenario, v float64) error {
		s.params.InfectionRate = v
		s.ApplyParams()
		return nil
	}},
	"radius": {.1, 10, func(s *Scenario, v float64) error {
		s.params.Radius = v
		s.ApplyParams()
		return nil
	}},
	"speed": {0, 5, func(s *Scenario, v float64) error {
		s.params.Speed = v
		s.ApplyParams()
		return nil
	}},
	"deathrate": {0, 1, func(s *Scenario, v float64) error {
		s.params.DeathRate = v
		s.ApplyParams()
		return nil
	}},
	"deathrate_without_healthcare": {0, 1, func(s *Scenario, v float64) error {
		s.params.DeathRateWithoutHealthcare = v
		s.ApplyParams()
		return nil
	}},
	"max_infected_time": {1, 100, func(s *Scenario, v float64) error {
		s.params.MaxInfectedTime = int32(math.Round(v))
		s.ApplyParams()
		return nil
	}},
	"frames_per_day": {1, 100, func(s *Scenario, v float64) error {
		s.params.FramesPerDay = int32(math.Round(v))
		s.clock.SetTicksPerDay(s.params.FramesPerDay)
		return nil
	}},
	"healthcare_max": {0, 1, func(s *Scenario, v float64) error {
		s.params.HealthcareMax = v
		s.pool.SetCapacity(s.healthcareCapacity(v))
		return nil
	}},
	"room_width": {10, 1000, func(s *Scenario, v float64) error {
		return s.resizePopulationRooms(v, s.params.Shape.Height)
	}},
	"room_height": {10, 1000, func(s *Scenario, v float64) error {
		return s.resizePopulationRooms(s.params.Shape.Width, v)
	}},
}

// Parameters 所有可调参数名，按字典序
func Parameters() []string {
	names := lo.Keys(parameters)
	sort.Strings(names)
	return names
}

// ParameterRange 参数的取值范围
func ParameterRange(name string) (low, high float64, ok bool) {
	p, ok := parameters[name]
	return p.min, p.max, ok
}

// SetParameter 在线修改一个参数
// 功能：对应外部接口set_parameter(name, value)；超出范围的值被约束到[min,max]而不是拒绝
// 参数：name-参数名，value-参数值
// 返回：实际生效的值；参数名未知或房间尺寸非法时返回错误
// 说明：个体参数会被统一覆盖为新的同质参数，创建时的个体扰动不再保留
func (s *Scenario) SetParameter(name string, value float64) (float64, error) {
	p, ok := parameters[name]
	if !ok {
		return value, fmt.Errorf("unknown parameter %q", name)
	}
	v := lo.Clamp(value, p.min, p.max)
	if v != value {
		log.Warnf("parameter %s=%v clamped to %v", name, value, v)
	}
	if err := p.apply(s, v); err != nil {
		return v, err
	}
	log.Infof("parameter %s set to %v", name, v)
	return v, nil
}

// SetParameters 批量修改参数，按参数名字典序依次生效，遇到错误立即返回
func (s *Scenario) SetParameters(values map[string]float64) (map[string]float64, error) {
	names := lo.Keys(values)
	sort.Strings(names)
	applied := make(map[string]float64, len(values))
	for _, name := range names {
		v, err := s.SetParameter(name, values[name])
		if err != nil {
			return applied, err
		}
		applied[name] = v
	}
	return applied, nil
}

// ApplyParams 把当前场景参数重新应用到所有人
func (s *Scenario) ApplyParams() {
	params := s.agentParams()
	for _, a := range s.agents {
		a.SetParams(params)
	}
}

// resizePopulationRooms 修改所有人群房间的尺寸并把人约束回房间内部
func (s *Scenario) resizePopulationRooms(width, height float64) error {
	rooms := s.PopulationRooms()
	for _, r := range rooms {
		if err := r.Resize(width, height); err != nil {
			return err
		}
	}
	s.params.Shape.Width, s.params.Shape.Height = width, height
	return nil
}
