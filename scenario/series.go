package scenario

import (
	"github.com/samber/lo"
	"github.com/tsinghua-fib-lab/agentsociety-epidemic/entity"
)

// Series 用于堆叠面积图的每日序列
// 说明：每条序列是该状态与所有更严重状态的人数之和：
// Deceased = d，Cured = c + d，Infected = i + c + d，Vulnerable = v + i + c + d（即总人数）
type Series struct {
	Vulnerable []int32 `json:"vulnerable"`
	Infected   []int32 `json:"infected"`
	Cured      []int32 `json:"cured"`
	Deceased   []int32 `json:"deceased"`
}

// Stack 把每日统计转换为横轴与堆叠序列
func Stack(data []entity.StatusCount) ([]int32, Series) {
	x := lo.Map(data, func(_ entity.StatusCount, i int) int32 { return int32(i) })
	return x, Series{
		Deceased: lo.Map(data, func(c entity.StatusCount, _ int) int32 {
			return c.Deceased
		}),
		Cured: lo.Map(data, func(c entity.StatusCount, _ int) int32 {
			return c.Deceased + c.Cured
		}),
		Infected: lo.Map(data, func(c entity.StatusCount, _ int) int32 {
			return c.Deceased + c.Cured + c.Infected
		}),
		Vulnerable: lo.Map(data, func(c entity.StatusCount, _ int) int32 {
			return c.Total()
		}),
	}
}

// Polygon 闭合的填充多边形
// 功能：在横轴首尾各补一个点、在序列首尾各补一个0，使每条序列可以直接作为多边形填充
func Polygon(x []int32, s Series) ([]int32, Series) {
	if len(x) == 0 {
		return x, s
	}
	pad := func(v []int32) []int32 {
		out := make([]int32, 0, len(v)+2)
		out = append(out, 0)
		out = append(out, v...)
		return append(out, 0)
	}
	px := make([]int32, 0, len(x)+2)
	px = append(px, x[0])
	px = append(px, x...)
	px = append(px, x[len(x)-1])
	return px, Series{
		Vulnerable: pad(s.Vulnerable),
		Infected:   pad(s.Infected),
		Cured:      pad(s.Cured),
		Deceased:   pad(s.Deceased),
	}
}

// Series 当前的横轴与堆叠序列
func (s *Scenario) Series() ([]int32, Series) {
	return Stack(s.data)
}
