package clock

import (
	"fmt"
)

// Clock 仿真时钟
// 功能：管理帧（移动子步）与天（流行病学步）两级时间推进
// 说明：每天由TicksPerDay帧组成，天的结算发生在一天的帧全部完成之后
type Clock struct {
	TicksPerDay int32 // 每天的帧数

	Tick         int32 // 当天已完成的帧数
	InternalStep int64 // 累计完成的帧数
	Day          int32 // 已完成结算的天数
}

// New 创建新的时钟实例
// 参数：ticksPerDay-每天的帧数，小于1时按1处理
func New(ticksPerDay int32) *Clock {
	c := &Clock{}
	c.SetTicksPerDay(ticksPerDay)
	c.Init()
	return c
}

// Init 重置时钟状态
func (c *Clock) Init() {
	c.Tick = 0
	c.InternalStep = 0
	c.Day = 0
}

// SetTicksPerDay 修改每天的帧数，已经走过的帧数保留
func (c *Clock) SetTicksPerDay(ticksPerDay int32) {
	if ticksPerDay < 1 {
		ticksPerDay = 1
	}
	c.TicksPerDay = ticksPerDay
}

// DayDue 当天的帧是否已经走完，需要进行天结算
func (c *Clock) DayDue() bool {
	return c.Tick >= c.TicksPerDay
}

// NextTick 推进一帧
func (c *Clock) NextTick() {
	c.Tick++
	c.InternalStep++
}

// NextDay 完成一天的结算，帧计数归零
func (c *Clock) NextDay() {
	c.Tick = 0
	c.Day++
}

// String 获取时钟的字符串表示（Day X tick Y/Z）
func (c *Clock) String() string {
	return fmt.Sprintf("Day %d tick %d/%d", c.Day, c.Tick, c.TicksPerDay)
}
