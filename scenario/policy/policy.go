// 场景变体：多房间跳跃、超市、隔离
// 每个变体只决定何时把谁跳转到哪个房间，房间成员关系统一由场景的Jump修改
package policy

import (
	"fmt"
	"sort"

	"github.com/tsinghua-fib-lab/agentsociety-epidemic/entity/agent"
	"github.com/tsinghua-fib-lab/agentsociety-epidemic/scenario"
	"github.com/tsinghua-fib-lab/agentsociety-epidemic/utils/config"
)

// FromConfig 根据配置中的变体名列表创建跳转策略
// 参数：params-场景参数，Policies为空或只有none时返回基础场景
// 返回：跳转策略；变体名未知或重复时返回错误
func FromConfig(params config.Scenario) (scenario.TransferPolicy, error) {
	policies := make([]scenario.TransferPolicy, 0, len(params.Policies))
	seen := make(map[string]bool)
	for _, name := range params.Policies {
		if seen[name] {
			return nil, fmt.Errorf("policy: duplicated %q", name)
		}
		seen[name] = true
		switch name {
		case "none":
		case "cluster":
			policies = append(policies, NewCluster(params.Cluster))
		case "supermarket":
			policies = append(policies, NewSupermarket(params.Supermarket))
		case "quarantine":
			policies = append(policies, NewQuarantine(params.Quarantine))
		default:
			return nil, fmt.Errorf("policy: unknown %q", name)
		}
	}
	switch len(policies) {
	case 0:
		return scenario.None(), nil
	case 1:
		return policies[0], nil
	default:
		return NewChain(policies...), nil
	}
}

func sortByID(agents []*agent.Agent) {
	sort.Slice(agents, func(i, j int) bool {
		return agents[i].ID() < agents[j].ID()
	})
}
