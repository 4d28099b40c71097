package server_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"connectrpc.com/connect"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tsinghua-fib-lab/agentsociety-epidemic/scenario"
	"github.com/tsinghua-fib-lab/agentsociety-epidemic/server"
	"github.com/tsinghua-fib-lab/agentsociety-epidemic/task"
	"github.com/tsinghua-fib-lab/agentsociety-epidemic/utils/config"
	"google.golang.org/protobuf/types/known/emptypb"
	"google.golang.org/protobuf/types/known/structpb"
)

func setup(t *testing.T) (*task.Context, string) {
	p := config.DefaultScenario()
	p.Seed = 1
	p.Members = 20
	p.Shape = config.Shape{Width: 20, Height: 20}
	p.FramesPerDay = 2
	s, err := scenario.New(p, nil)
	require.NoError(t, err)
	tc := task.NewContext(s, config.Control{Paused: true}, nil)
	ts := httptest.NewServer(server.New(tc).Handler())
	t.Cleanup(ts.Close)
	return tc, ts.URL
}

func call[Req, Res any](t *testing.T, url, procedure string, req *Req) (*Res, error) {
	client := connect.NewClient[Req, Res](http.DefaultClient, url+procedure)
	res, err := client.CallUnary(context.Background(), connect.NewRequest(req))
	if err != nil {
		return nil, err
	}
	return res.Msg, nil
}

func mustStruct(t *testing.T, m map[string]any) *structpb.Struct {
	s, err := structpb.NewStruct(m)
	require.NoError(t, err)
	return s
}

func TestSnapshot(t *testing.T) {
	_, url := setup(t)
	res, err := call[emptypb.Empty, structpb.Struct](t, url, server.SnapshotProcedure, &emptypb.Empty{})
	require.NoError(t, err)
	m := res.AsMap()
	assert.Equal(t, 0., m["day"])
	assert.Equal(t, false, m["playing"])
	assert.Equal(t, "none", m["policy"])
	assert.Equal(t, 4., m["healthcare_max"])
	rooms := m["rooms"].([]any)
	require.Len(t, rooms, 1)
	r := rooms[0].(map[string]any)
	assert.Equal(t, "room 0", r["name"])
	assert.Equal(t, "population", r["kind"])
	agents := r["agents"].([]any)
	require.Len(t, agents, 20)
	a := agents[0].(map[string]any)
	assert.Equal(t, 2., a["radius"])
	assert.Contains(t, []any{"vulnerable", "infected"}, a["status"])
}

func TestStepDayAndSeries(t *testing.T) {
	_, url := setup(t)
	for i := range 3 {
		res, err := call[emptypb.Empty, structpb.Struct](t, url, server.StepDayProcedure, &emptypb.Empty{})
		require.NoError(t, err)
		assert.Equal(t, float64(i+1), res.GetFields()["day"].GetNumberValue())
	}

	res, err := call[structpb.Struct, structpb.Struct](t, url, server.SeriesProcedure, mustStruct(t, nil))
	require.NoError(t, err)
	m := res.AsMap()
	assert.Equal(t, []any{0., 1., 2.}, m["x"])
	assert.Equal(t, []any{20., 20., 20.}, m["vulnerable"])

	res, err = call[structpb.Struct, structpb.Struct](t, url, server.SeriesProcedure, mustStruct(t, map[string]any{"polygon": true}))
	require.NoError(t, err)
	m = res.AsMap()
	assert.Equal(t, []any{0., 0., 1., 2., 2.}, m["x"])
	assert.Equal(t, []any{0., 20., 20., 20., 0.}, m["vulnerable"])
}

func TestSetParameter(t *testing.T) {
	tc, url := setup(t)
	res, err := call[structpb.Struct, structpb.Struct](t, url, server.SetParameterProcedure,
		mustStruct(t, map[string]any{"name": "speed", "value": 50}))
	require.NoError(t, err)
	assert.Equal(t, 5., res.GetFields()["value"].GetNumberValue())
	require.NoError(t, tc.Do(func(s *scenario.Scenario) error {
		assert.Equal(t, 5., s.Agents()[0].Params().Speed)
		return nil
	}))

	_, err = call[structpb.Struct, structpb.Struct](t, url, server.SetParameterProcedure,
		mustStruct(t, map[string]any{"name": "gravity", "value": 1}))
	assert.Equal(t, connect.CodeNotFound, connect.CodeOf(err))

	_, err = call[structpb.Struct, structpb.Struct](t, url, server.SetParameterProcedure,
		mustStruct(t, map[string]any{"name": "speed"}))
	assert.Equal(t, connect.CodeInvalidArgument, connect.CodeOf(err))
}

func TestPlayPause(t *testing.T) {
	tc, url := setup(t)
	_, err := call[emptypb.Empty, emptypb.Empty](t, url, server.PlayProcedure, &emptypb.Empty{})
	require.NoError(t, err)
	assert.True(t, tc.Playing())
	_, err = call[emptypb.Empty, emptypb.Empty](t, url, server.PauseProcedure, &emptypb.Empty{})
	require.NoError(t, err)
	assert.False(t, tc.Playing())
}

func TestAddRoom(t *testing.T) {
	tc, url := setup(t)
	res, err := call[structpb.Struct, structpb.Struct](t, url, server.AddRoomProcedure,
		mustStruct(t, map[string]any{"name": "hall", "width": 15, "height": 25}))
	require.NoError(t, err)
	assert.Equal(t, 1., res.GetFields()["id"].GetNumberValue())
	require.NoError(t, tc.Do(func(s *scenario.Scenario) error {
		r := s.GetRoom(1)
		assert.Equal(t, "hall", r.Name())
		assert.Equal(t, 25., r.Height())
		return nil
	}))

	_, err = call[structpb.Struct, structpb.Struct](t, url, server.AddRoomProcedure,
		mustStruct(t, map[string]any{"width": 1, "height": 1}))
	assert.Equal(t, connect.CodeInvalidArgument, connect.CodeOf(err))
}
