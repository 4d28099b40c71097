package policy

import (
	"git.fiblab.net/general/common/v2/geometry"
	"github.com/tsinghua-fib-lab/agentsociety-epidemic/entity"
	"github.com/tsinghua-fib-lab/agentsociety-epidemic/entity/room"
	"github.com/tsinghua-fib-lab/agentsociety-epidemic/scenario"
	"github.com/tsinghua-fib-lab/agentsociety-epidemic/utils/config"
	"github.com/tsinghua-fib-lab/agentsociety-epidemic/utils/randengine"
)

const (
	purchaseIntervalBase  = 50
	purchaseIntervalRange = 20
	purchaseIntervalShift = 2
)

// shopper 每个人的购物状态
type shopper struct {
	interval int32 // 两次购物之间的帧数
	elapsed  int32 // 距上次购物的帧数
	inMarket int32 // 本次在超市已停留的帧数

	shopping bool           // 是否正在购物
	home     *room.Room     // 出发的房间
	position geometry.Point // 出发的位置
}

// Supermarket 超市场景
// 功能：追加一个所有人定期前往的超市房间，购物结束后回到出发时的房间与位置
type Supermarket struct {
	shoppingTime int32
	shape        config.Shape

	market   *room.Room
	shoppers map[int32]*shopper
}

func NewSupermarket(c config.SupermarketPolicy) *Supermarket {
	return &Supermarket{
		shoppingTime: max(c.ShoppingTime, 1),
		shape:        c.Shape,
		shoppers:     make(map[int32]*shopper),
	}
}

func (p *Supermarket) Name() string {
	return "supermarket"
}

// Market 超市房间
func (p *Supermarket) Market() *room.Room {
	return p.market
}

func purchaseInterval(g *randengine.Engine) int32 {
	return purchaseIntervalBase + int32(g.Float64()*purchaseIntervalRange-purchaseIntervalShift)
}

// Setup 追加超市房间，并为每个人抽取购物间隔与初始计时
func (p *Supermarket) Setup(s *scenario.Scenario) error {
	market, err := s.AddRoom("market", room.KindErrand, p.shape.Width, p.shape.Height)
	if err != nil {
		return err
	}
	p.market = market
	g := s.Generator()
	for _, a := range s.Agents() {
		interval := purchaseInterval(g)
		p.shoppers[a.ID()] = &shopper{
			interval: interval,
			elapsed:  int32(g.Float64() * float64(interval)),
		}
	}
	return nil
}

// Decide 每帧推进所有人的购物计时
// 算法说明：
// 1. 在超市中的人停留满shoppingTime帧后回到出发时的房间与位置，并重新抽取购物间隔
// 2. 在人群房间中的人计时+1，到达购物间隔时记录当前房间与位置并跳到超市的随机位置
// 说明：被其他变体移出超市（例如隔离）的人暂停计时，回到超市后继续；死亡的人不再出发购物
func (p *Supermarket) Decide(s *scenario.Scenario, ev scenario.Event) []scenario.Transfer {
	if ev.Kind != scenario.EventTick {
		return nil
	}
	g := s.Generator()
	var transfers []scenario.Transfer
	for _, a := range s.Agents() {
		sh := p.shoppers[a.ID()]
		if sh == nil {
			continue
		}
		current := s.GetRoom(a.Room().ID())
		if sh.shopping {
			if current != p.market {
				continue
			}
			sh.inMarket++
			if sh.inMarket < p.shoppingTime {
				continue
			}
			sh.shopping = false
			sh.inMarket = 0
			sh.interval = purchaseInterval(g)
			pos := sh.position
			transfers = append(transfers, scenario.Transfer{Agent: a, To: sh.home, Pos: &pos})
			continue
		}
		if a.Status() == entity.StatusDeceased || current.Kind() != room.KindPopulation {
			continue
		}
		sh.elapsed++
		if sh.elapsed < sh.interval {
			continue
		}
		sh.elapsed = 0
		sh.shopping = true
		sh.home = current
		sh.position = a.Position()
		transfers = append(transfers, scenario.Transfer{Agent: a, To: p.market})
	}
	return transfers
}
