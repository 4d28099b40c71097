// Package bed 医疗床位池
// 所有房间共享一个床位池，感染且需要床位的人在感染当天申请，离开感染状态时归还
package bed

import (
	"fmt"

	"github.com/sirupsen/logrus"
)

var log = logrus.WithField("module", "bed")

// Pool 有上限的床位计数器
// 说明：available始终位于[0, capacity]，越界属于程序错误，直接panic
type Pool struct {
	capacity  int32
	available int32
}

// NewPool 创建一个全部空闲的床位池，capacity小于0时按0处理
func NewPool(capacity int32) *Pool {
	capacity = max(capacity, 0)
	return &Pool{
		capacity:  capacity,
		available: capacity,
	}
}

func (p *Pool) Capacity() int32 {
	return p.capacity
}

func (p *Pool) Available() int32 {
	return p.available
}

// Occupied 已占用床位数
func (p *Pool) Occupied() int32 {
	return p.capacity - p.available
}

// Acquire 申请一个床位
// 返回：有空床时占用一个并返回true，否则返回false
func (p *Pool) Acquire() bool {
	if p.available <= 0 {
		return false
	}
	p.available--
	return true
}

// Release 归还一个床位
// 说明：没有被占用的床位时归还属于程序错误
func (p *Pool) Release() {
	if p.available >= p.capacity {
		log.Panicf("release bed to a full pool (capacity %d)", p.capacity)
	}
	p.available++
}

// SetCapacity 调整床位总数
// 功能：已占用的床位保持不变，新容量不会低于已占用数
// 返回：实际生效的容量
func (p *Pool) SetCapacity(capacity int32) int32 {
	occupied := p.Occupied()
	capacity = max(capacity, occupied)
	p.capacity = capacity
	p.available = capacity - occupied
	return capacity
}

func (p *Pool) String() string {
	return fmt.Sprintf("Pool{available=%d, capacity=%d}", p.available, p.capacity)
}
