package config_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tsinghua-fib-lab/agentsociety-epidemic/utils/config"
)

func TestLoadKeepsDefaults(t *testing.T) {
	c, err := config.Load([]byte(`
scenario:
  members: 300
  rooms: 4
  policies: [cluster, quarantine]
  quarantine:
    symptom_chance: 0.8
control:
  days: 50
`))
	require.NoError(t, err)
	assert.Equal(t, int32(300), c.Scenario.Members)
	assert.Equal(t, int32(4), c.Scenario.Rooms)
	assert.Equal(t, []string{"cluster", "quarantine"}, c.Scenario.Policies)
	assert.Equal(t, 0.8, c.Scenario.Quarantine.SymptomChance)
	assert.Equal(t, int32(50), c.Control.Days)
	// untouched fields keep their defaults
	assert.Equal(t, int32(12), c.Scenario.FramesPerDay)
	assert.Equal(t, 100., c.Scenario.Shape.Width)
	assert.Equal(t, int32(10), c.Scenario.Cluster.JumpTime)
}

func TestLoadStrict(t *testing.T) {
	_, err := config.Load([]byte("scenario:\n  memberz: 3\n"))
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	_, err := config.Load([]byte("scenario:\n  frames_per_day: 0\n"))
	assert.Error(t, err)
	_, err = config.Load([]byte("output:\n  uri: mongodb://localhost:27017\n"))
	assert.Error(t, err)
	_, err = config.Load([]byte("output:\n  uri: mongodb://localhost:27017\n  db: sim\n  col: days\n"))
	assert.NoError(t, err)
}
