package policy

import (
	"strings"

	"github.com/samber/lo"
	"github.com/tsinghua-fib-lab/agentsociety-epidemic/scenario"
)

// Chain 多个场景变体的组合
// 说明：按顺序执行，后一个变体在决策时已经看到前一个变体跳转后的结果
type Chain struct {
	policies []scenario.TransferPolicy
}

func NewChain(policies ...scenario.TransferPolicy) *Chain {
	return &Chain{policies: policies}
}

func (c *Chain) Name() string {
	return strings.Join(lo.Map(c.policies, func(p scenario.TransferPolicy, _ int) string {
		return p.Name()
	}), "+")
}

func (c *Chain) Setup(s *scenario.Scenario) error {
	for _, p := range c.policies {
		if err := p.Setup(s); err != nil {
			return err
		}
	}
	return nil
}

// Decide 依次执行每个变体的跳转，自身不返回跳转
func (c *Chain) Decide(s *scenario.Scenario, ev scenario.Event) []scenario.Transfer {
	for _, p := range c.policies {
		for _, t := range p.Decide(s, ev) {
			s.Jump(t.Agent, t.To, t.Pos)
		}
	}
	return nil
}
