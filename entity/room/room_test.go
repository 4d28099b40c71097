package room_test

import (
	"testing"

	"git.fiblab.net/general/common/v2/geometry"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tsinghua-fib-lab/agentsociety-epidemic/entity"
	"github.com/tsinghua-fib-lab/agentsociety-epidemic/entity/agent"
	"github.com/tsinghua-fib-lab/agentsociety-epidemic/entity/bed"
	"github.com/tsinghua-fib-lab/agentsociety-epidemic/entity/room"
	"github.com/tsinghua-fib-lab/agentsociety-epidemic/utils/randengine"
)

func sureParams(radius float64) agent.Params {
	return agent.Params{
		InfectionRadius:             radius,
		InfectionProbability:        1,
		Speed:                       .5,
		MaxInfectedDays:             1,
		DeathProbabilityWithCare:    0,
		DeathProbabilityWithoutCare: 0,
	}
}

type fixture struct {
	t      *testing.T
	g      *randengine.Engine
	r      *room.Room
	nextID int32
}

func newFixture(t *testing.T) *fixture {
	r, err := room.New(0, "test", room.KindPopulation, 20, 20, 2)
	require.NoError(t, err)
	return &fixture{t: t, g: randengine.New(1), r: r}
}

func (f *fixture) place(x, y float64, params agent.Params, status entity.Status) *agent.Agent {
	a := agent.New(f.nextID, f.r, params, false, f.g)
	f.nextID++
	a.MoveTo(f.r, &geometry.Point{X: x, Y: y}, f.g)
	f.r.Add(a)
	switch status {
	case entity.StatusInfected:
		a.Infect()
	case entity.StatusCured:
		a.Infect()
		require.True(f.t, a.AdvanceDisease(bed.NewPool(0), f.g))
		require.Equal(f.t, entity.StatusCured, a.Status())
	}
	return a
}

func TestNewInvalidGeometry(t *testing.T) {
	_, err := room.New(0, "thin", room.KindPopulation, 4, 10, 2)
	assert.ErrorIs(t, err, room.ErrInvalidGeometry)
	_, err = room.New(0, "flat", room.KindPopulation, 10, 3, 2)
	assert.ErrorIs(t, err, room.ErrInvalidGeometry)
	r, err := room.New(0, "ok", room.KindPopulation, 4.5, 4.5, 2)
	assert.NoError(t, err)
	assert.Equal(t, int32(0), r.Population())
}

func TestInfectionDistanceIsInclusive(t *testing.T) {
	f := newFixture(t)
	f.place(5, 5, sureParams(2), entity.StatusInfected)
	atEdge := f.place(7, 5, sureParams(2), entity.StatusVulnerable)
	beyond := f.place(5, 7.001, sureParams(2), entity.StatusVulnerable)

	newly := f.r.CalculateInfected(f.g)
	assert.Equal(t, []*agent.Agent{atEdge}, newly)
	assert.Equal(t, entity.StatusInfected, atEdge.Status())
	assert.Equal(t, int32(0), atEdge.InfectedDays())
	assert.Equal(t, entity.StatusVulnerable, beyond.Status())
}

func TestInfectionUsesLargerRadius(t *testing.T) {
	// the vulnerable agent has the larger radius
	f := newFixture(t)
	f.place(5, 5, sureParams(1), entity.StatusInfected)
	wide := f.place(7.5, 5, sureParams(3), entity.StatusVulnerable)
	f.r.CalculateInfected(f.g)
	assert.Equal(t, entity.StatusInfected, wide.Status())

	// the infected agent has the larger radius
	f = newFixture(t)
	f.place(5, 5, sureParams(3), entity.StatusInfected)
	narrow := f.place(7.5, 5, sureParams(1), entity.StatusVulnerable)
	f.r.CalculateInfected(f.g)
	assert.Equal(t, entity.StatusInfected, narrow.Status())

	// out of both radii
	f = newFixture(t)
	f.place(5, 5, sureParams(1), entity.StatusInfected)
	far := f.place(8.5, 5, sureParams(3), entity.StatusVulnerable)
	f.r.CalculateInfected(f.g)
	assert.Equal(t, entity.StatusVulnerable, far.Status())
}

func TestInfectionIsNotChainedWithinADay(t *testing.T) {
	f := newFixture(t)
	f.place(5, 5, sureParams(2), entity.StatusInfected)
	first := f.place(7, 5, sureParams(2), entity.StatusVulnerable)
	second := f.place(9, 5, sureParams(2), entity.StatusVulnerable)

	newly := f.r.CalculateInfected(f.g)
	assert.Equal(t, []*agent.Agent{first}, newly)
	assert.Equal(t, entity.StatusVulnerable, second.Status())

	newly = f.r.CalculateInfected(f.g)
	assert.Equal(t, []*agent.Agent{second}, newly)
}

func TestInfectionPairNeverFlipsBack(t *testing.T) {
	f := newFixture(t)
	src := f.place(5, 5, sureParams(2), entity.StatusInfected)
	dst := f.place(6, 5, sureParams(2), entity.StatusVulnerable)
	f.r.CalculateInfected(f.g)
	assert.Equal(t, entity.StatusInfected, src.Status())
	assert.Equal(t, entity.StatusInfected, dst.Status())
	// both infected now, nothing left to resolve
	assert.Empty(t, f.r.CalculateInfected(f.g))
}

func TestTerminalAgentsDoNotParticipate(t *testing.T) {
	f := newFixture(t)
	cured := f.place(5, 5, sureParams(2), entity.StatusCured)
	f.place(12, 12, sureParams(2), entity.StatusInfected)
	neighbour := f.place(6, 5, sureParams(2), entity.StatusVulnerable)

	assert.Empty(t, f.r.CalculateInfected(f.g))
	assert.Equal(t, entity.StatusCured, cured.Status())
	assert.Equal(t, entity.StatusVulnerable, neighbour.Status())
}

func TestInfectionProbabilityZero(t *testing.T) {
	f := newFixture(t)
	safe := sureParams(2)
	safe.InfectionProbability = 0
	f.place(5, 5, safe, entity.StatusInfected)
	v := f.place(6, 5, sureParams(2), entity.StatusVulnerable)
	for range 50 {
		f.r.CalculateInfected(f.g)
	}
	assert.Equal(t, entity.StatusVulnerable, v.Status())
}

func TestInfectionOutsideRoomBounds(t *testing.T) {
	f := newFixture(t)
	f.place(-0.5, 5, sureParams(2), entity.StatusInfected)
	v := f.place(0.5, 5, sureParams(2), entity.StatusVulnerable)
	f.place(25, 25, sureParams(2), entity.StatusVulnerable)
	assert.NotPanics(t, func() { f.r.CalculateInfected(f.g) })
	assert.Equal(t, entity.StatusInfected, v.Status())
}

func TestCalculateDeathReleasesBeds(t *testing.T) {
	f := newFixture(t)
	pool := bed.NewPool(1)
	params := sureParams(2)
	params.MaxInfectedDays = 2
	a := agent.New(f.nextID, f.r, params, true, f.g)
	f.r.Add(a)
	a.Infect()
	require.True(t, pool.Acquire())
	a.GrantBed()

	assert.Empty(t, f.r.CalculateDeath(pool, f.g))
	assert.Equal(t, int32(1), a.InfectedDays())
	assert.Equal(t, int32(0), pool.Available())

	assert.Equal(t, []*agent.Agent{a}, f.r.CalculateDeath(pool, f.g))
	assert.Equal(t, entity.StatusCured, a.Status())
	assert.False(t, a.HasBed())
	assert.Equal(t, int32(1), pool.Available())
}

func TestRecordDaily(t *testing.T) {
	f := newFixture(t)
	f.place(5, 5, sureParams(2), entity.StatusInfected)
	f.place(15, 15, sureParams(2), entity.StatusVulnerable)
	f.place(15, 5, sureParams(2), entity.StatusCured)

	c := f.r.RecordDaily()
	assert.Equal(t, entity.StatusCount{Vulnerable: 1, Infected: 1, Cured: 1}, c)
	assert.Equal(t, f.r.Population(), c.Total())
	assert.Equal(t, c, f.r.Latest())
	f.r.RecordDaily()
	assert.Len(t, f.r.Data(), 2)
}

func TestResizeClampsAgents(t *testing.T) {
	f := newFixture(t)
	a := f.place(17, 17, sureParams(2), entity.StatusVulnerable)
	require.NoError(t, f.r.Resize(10, 12))
	assert.Equal(t, 8., a.Position().X)
	assert.Equal(t, 10., a.Position().Y)

	assert.ErrorIs(t, f.r.Resize(3, 12), room.ErrInvalidGeometry)
	assert.Equal(t, 10., f.r.Width())
}

func TestMembership(t *testing.T) {
	f := newFixture(t)
	a := f.place(5, 5, sureParams(2), entity.StatusVulnerable)
	assert.True(t, f.r.Contains(a))
	assert.Panics(t, func() { f.r.Add(a) })
	f.r.Remove(a)
	assert.False(t, f.r.Contains(a))
	assert.Panics(t, func() { f.r.Remove(a) })
}

func TestRandomPositionInside(t *testing.T) {
	f := newFixture(t)
	for range 1000 {
		p := f.r.RandomPosition(f.g)
		assert.GreaterOrEqual(t, p.X, 2.)
		assert.Less(t, p.X, 18.)
		assert.GreaterOrEqual(t, p.Y, 2.)
		assert.Less(t, p.Y, 18.)
	}
}
