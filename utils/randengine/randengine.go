// 随机数引擎，包装了golang.org/x/exp/rand，提供了一些常用的随机数生成方法
// 整个仿真只使用一个引擎实例，保证给定种子下结果可复现
package randengine

import (
	"errors"
	"flag"
	"fmt"
	"log"

	"golang.org/x/exp/rand"
)

var (
	seedOffset = flag.Uint64("rand.seed_offset", 0, "seed offset") // 种子偏移量，用于调整随机数生成
)

// ErrSampleTooLarge 抽样数量超过总体数量
var ErrSampleTooLarge = errors.New("randengine: sample larger than population")

// Engine 随机数引擎
// 功能：提供仿真所需的随机数生成功能（均匀分布、正态分布、伯努利试验、无放回抽样）
// 说明：基于golang.org/x/exp/rand库；仿真是单线程的，因此不加锁
type Engine struct {
	*rand.Rand // 底层随机数生成器
}

// New 创建随机数引擎
// 功能：初始化一个新的随机数引擎实例
// 参数：seed-随机数种子
// 返回：随机数引擎指针
// 说明：种子偏移量允许在不修改配置的情况下调整随机数序列
func New(seed uint64) *Engine {
	return &Engine{Rand: rand.New(rand.NewSource(seed + *seedOffset))}
}

// DiscreteDistribution 按给定概率分布生成随机数
// 功能：根据权重数组生成离散分布的随机数
// 参数：weight-权重数组，每个元素表示对应索引的概率权重
// 返回：随机生成的索引值（0到len(weight)-1）
func (e *Engine) DiscreteDistribution(weight []float64) int32 {
	random := .0
	for _, w := range weight {
		random += w
	}
	random *= e.Float64()
	sum := 0.
	for i, w := range weight {
		sum += w
		if sum > random {
			return int32(i)
		}
	}
	log.Panicf("randengine: DiscreteDistribution: sum: %f random: %f", sum, random)
	return -1
}

// PTrue 以指定概率返回true
// 功能：伯努利试验，p<=0时恒为false，p>=1时恒为true
func (e *Engine) PTrue(p float64) bool {
	return e.Float64() < p
}

// Uniform 生成[low, high)范围内均匀分布的浮点数
func (e *Engine) Uniform(low, high float64) float64 {
	return low + e.Float64()*(high-low)
}

// Normal 生成均值为mean、标准差为std的正态分布随机数
func (e *Engine) Normal(mean, std float64) float64 {
	return mean + std*e.NormFloat64()
}

// Sample 从[0, n)中无放回抽取k个整数
// 功能：等价于对总体做部分Fisher-Yates洗牌，返回集合形式便于查询
// 参数：n-总体大小，k-抽样数量
// 返回：被抽中下标的集合；k>n时返回ErrSampleTooLarge
func (e *Engine) Sample(n, k int) (map[int]struct{}, error) {
	if k < 0 || k > n {
		return nil, fmt.Errorf("%w: %d out of %d", ErrSampleTooLarge, k, n)
	}
	pool := make([]int, n)
	for i := range pool {
		pool[i] = i
	}
	chosen := make(map[int]struct{}, k)
	for i := 0; i < k; i++ {
		j := i + e.Intn(n-i)
		pool[i], pool[j] = pool[j], pool[i]
		chosen[pool[i]] = struct{}{}
	}
	return chosen, nil
}
