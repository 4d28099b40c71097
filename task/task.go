package task

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/tsinghua-fib-lab/agentsociety-epidemic/output"
	"github.com/tsinghua-fib-lab/agentsociety-epidemic/scenario"
	"github.com/tsinghua-fib-lab/agentsociety-epidemic/utils/config"
)

// Context 仿真任务上下文
// 功能：包含一次仿真任务的所有变量和状态，替代全局变量
// 说明：场景本身不是并发安全的，运行循环与控制服务通过mu串行访问
type Context struct {
	mu sync.Mutex

	// 场景
	scenario *scenario.Scenario
	// 每日统计输出
	recorder output.Recorder

	// 帧间隔
	interval time.Duration
	// 总天数，0表示不限
	days int32
	// 心跳日志间隔天数
	heartbeat int32

	// 是否正在播放
	playing atomic.Bool
	// 关闭指令
	closed atomic.Bool
	done   chan struct{}
}

// NewContext 创建仿真任务上下文
// 参数：s-场景，c-运行控制配置，recorder-每日统计输出，nil表示不输出
// 返回：Context实例，c.Paused为true时处于暂停状态
func NewContext(s *scenario.Scenario, c config.Control, recorder output.Recorder) *Context {
	if recorder == nil {
		recorder = output.Nop{}
	}
	ctx := &Context{
		scenario:  s,
		recorder:  recorder,
		interval:  time.Duration(max(c.TickInterval, 1)) * time.Millisecond,
		days:      c.Days,
		heartbeat: max(c.Heartbeat, 1),
		done:      make(chan struct{}),
	}
	ctx.playing.Store(!c.Paused)
	return ctx
}

// Do 在持有锁的情况下访问场景
func (ctx *Context) Do(f func(s *scenario.Scenario) error) error {
	ctx.mu.Lock()
	defer ctx.mu.Unlock()
	return f(ctx.scenario)
}

func (ctx *Context) Play() {
	if !ctx.playing.Swap(true) {
		log.Info("play")
	}
}

func (ctx *Context) Pause() {
	if ctx.playing.Swap(false) {
		log.Info("pause")
	}
}

func (ctx *Context) Playing() bool {
	return ctx.playing.Load()
}

// Day 已完成结算的天数
func (ctx *Context) Day() int32 {
	ctx.mu.Lock()
	defer ctx.mu.Unlock()
	return ctx.scenario.Day()
}

// Finished 是否已达到配置的总天数
func (ctx *Context) Finished() bool {
	if ctx.days <= 0 {
		return false
	}
	ctx.mu.Lock()
	defer ctx.mu.Unlock()
	return ctx.scenario.Day() >= ctx.days
}

// Step 推进一帧
// 功能：调用场景的Step；结算了一天时输出当天统计并按间隔打印心跳日志
// 返回：是否结算了一天，以及输出的错误
func (ctx *Context) Step(c context.Context) (bool, error) {
	ctx.mu.Lock()
	defer ctx.mu.Unlock()
	if !ctx.scenario.Step() {
		return false, nil
	}
	return true, ctx.afterDay(c)
}

// StepDay 连续推进帧，直到结算完一天
func (ctx *Context) StepDay(c context.Context) error {
	ctx.mu.Lock()
	defer ctx.mu.Unlock()
	for !ctx.scenario.Step() {
	}
	return ctx.afterDay(c)
}

func (ctx *Context) afterDay(c context.Context) error {
	s := ctx.scenario
	day := s.Day()
	if day%ctx.heartbeat == 0 {
		latest := s.Data()[len(s.Data())-1]
		log.Infof(
			"DAY: %d vulnerable=%d infected=%d cured=%d deceased=%d beds=%d/%d",
			day, latest.Vulnerable, latest.Infected, latest.Cured, latest.Deceased,
			s.Pool().Occupied(), s.Pool().Capacity(),
		)
	}
	return ctx.recorder.Record(c, day-1, s.Rooms())
}

// Run 运行
// 功能：按帧间隔推进场景，暂停时空转，直到达到总天数、c被取消或调用Close
// 说明：输出错误只记录日志，不中断仿真
func (ctx *Context) Run(c context.Context) {
	log.Infof("engine start: %v per tick, %d days", ctx.interval, ctx.days)
	ticker := time.NewTicker(ctx.interval)
	defer ticker.Stop()
	for !ctx.Finished() {
		select {
		case <-c.Done():
			log.Infof("engine cancelled: %v", c.Err())
			return
		case <-ctx.done:
			log.Info("engine closed")
			return
		case <-ticker.C:
		}
		if !ctx.playing.Load() {
			continue
		}
		if _, err := ctx.Step(c); err != nil {
			log.Errorf("record failed: %v", err)
		}
	}
	log.Infof("engine complete")
}

// Close 停止运行循环，可重复调用
func (ctx *Context) Close() {
	if ctx.closed.Swap(true) {
		return
	}
	close(ctx.done)
}
