// 仿真控制服务
// 基于connect的一元调用，请求与响应使用google.protobuf.Struct/Empty，供渲染前端与脚本调用
package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"connectrpc.com/connect"
	"github.com/samber/lo"
	"github.com/tsinghua-fib-lab/agentsociety-epidemic/entity/agent"
	"github.com/tsinghua-fib-lab/agentsociety-epidemic/entity/room"
	"github.com/tsinghua-fib-lab/agentsociety-epidemic/scenario"
	"github.com/tsinghua-fib-lab/agentsociety-epidemic/task"
	"google.golang.org/protobuf/types/known/emptypb"
	"google.golang.org/protobuf/types/known/structpb"
)

const ServiceName = "epidemic.v1.ControlService"

// 各接口的路径
const (
	SnapshotProcedure     = "/" + ServiceName + "/Snapshot"
	SeriesProcedure       = "/" + ServiceName + "/Series"
	SetParameterProcedure = "/" + ServiceName + "/SetParameter"
	PlayProcedure         = "/" + ServiceName + "/Play"
	PauseProcedure        = "/" + ServiceName + "/Pause"
	StepDayProcedure      = "/" + ServiceName + "/StepDay"
	AddRoomProcedure      = "/" + ServiceName + "/AddRoom"
)

// Server 仿真控制服务
type Server struct {
	t *task.Context
}

func New(t *task.Context) *Server {
	return &Server{t: t}
}

// Handler 注册所有接口
func (s *Server) Handler(opts ...connect.HandlerOption) http.Handler {
	mux := http.NewServeMux()
	mux.Handle(SnapshotProcedure, connect.NewUnaryHandler(SnapshotProcedure, s.Snapshot, opts...))
	mux.Handle(SeriesProcedure, connect.NewUnaryHandler(SeriesProcedure, s.Series, opts...))
	mux.Handle(SetParameterProcedure, connect.NewUnaryHandler(SetParameterProcedure, s.SetParameter, opts...))
	mux.Handle(PlayProcedure, connect.NewUnaryHandler(PlayProcedure, s.Play, opts...))
	mux.Handle(PauseProcedure, connect.NewUnaryHandler(PauseProcedure, s.Pause, opts...))
	mux.Handle(StepDayProcedure, connect.NewUnaryHandler(StepDayProcedure, s.StepDay, opts...))
	mux.Handle(AddRoomProcedure, connect.NewUnaryHandler(AddRoomProcedure, s.AddRoom, opts...))
	return mux
}

// RunServer 启动控制服务，直到c被取消
func RunServer(c context.Context, address string, t *task.Context) error {
	srv := &http.Server{
		Addr:    address,
		Handler: New(t).Handler(),
	}
	go func() {
		<-c.Done()
		_ = srv.Shutdown(context.Background())
	}()
	log.Infof("Server listening at %v", address)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Snapshot 渲染快照
// 功能：返回时钟、床位与每个房间中每个人的位置、状态与感染半径（用于绘制感染光环）
func (s *Server) Snapshot(ctx context.Context, req *connect.Request[emptypb.Empty]) (*connect.Response[structpb.Struct], error) {
	var res *structpb.Struct
	err := s.t.Do(func(sc *scenario.Scenario) (err error) {
		res, err = structpb.NewStruct(snapshot(sc, s.t.Playing()))
		return
	})
	if err != nil {
		return nil, connect.NewError(connect.CodeInternal, err)
	}
	return connect.NewResponse(res), nil
}

func snapshot(sc *scenario.Scenario, playing bool) map[string]any {
	c := sc.Clock()
	pool := sc.Pool()
	return map[string]any{
		"day":            sc.Day(),
		"tick":           c.Tick,
		"ticks_per_day":  c.TicksPerDay,
		"playing":        playing,
		"policy":         sc.Policy().Name(),
		"healthcare_max": sc.HealthcareMax(),
		"beds_available": pool.Available(),
		"rooms": lo.Map(sc.Rooms(), func(r *room.Room, _ int) any {
			return map[string]any{
				"id":     r.ID(),
				"name":   r.Name(),
				"kind":   r.Kind().String(),
				"width":  r.Width(),
				"height": r.Height(),
				"agents": lo.Map(r.Agents(), func(a *agent.Agent, _ int) any {
					p := a.Position()
					return map[string]any{
						"id":     a.ID(),
						"x":      p.X,
						"y":      p.Y,
						"status": a.Status().String(),
						"radius": a.InfectionRadius(),
					}
				}),
			}
		}),
	}
}

func int32s(v []int32) []any {
	return lo.Map(v, func(x int32, _ int) any { return x })
}

// Series 堆叠统计序列
// 功能：请求中polygon为true时返回首尾补零的闭合多边形
func (s *Server) Series(ctx context.Context, req *connect.Request[structpb.Struct]) (*connect.Response[structpb.Struct], error) {
	polygon := req.Msg.GetFields()["polygon"].GetBoolValue()
	var res *structpb.Struct
	err := s.t.Do(func(sc *scenario.Scenario) (err error) {
		x, series := sc.Series()
		if polygon {
			x, series = scenario.Polygon(x, series)
		}
		res, err = structpb.NewStruct(map[string]any{
			"x":              int32s(x),
			"vulnerable":     int32s(series.Vulnerable),
			"infected":       int32s(series.Infected),
			"cured":          int32s(series.Cured),
			"deceased":       int32s(series.Deceased),
			"healthcare_max": sc.HealthcareMax(),
		})
		return
	})
	if err != nil {
		return nil, connect.NewError(connect.CodeInternal, err)
	}
	return connect.NewResponse(res), nil
}

// SetParameter 在线修改参数
// 功能：请求为{name, value}，超出范围的值被约束后生效，返回实际生效的值
func (s *Server) SetParameter(ctx context.Context, req *connect.Request[structpb.Struct]) (*connect.Response[structpb.Struct], error) {
	fields := req.Msg.GetFields()
	name := fields["name"].GetStringValue()
	value, ok := fields["value"].GetKind().(*structpb.Value_NumberValue)
	if name == "" || !ok {
		return nil, connect.NewError(connect.CodeInvalidArgument, errors.New("name and numeric value are required"))
	}
	if _, _, known := scenario.ParameterRange(name); !known {
		return nil, connect.NewError(connect.CodeNotFound, fmt.Errorf("unknown parameter %q", name))
	}
	var applied float64
	err := s.t.Do(func(sc *scenario.Scenario) (err error) {
		applied, err = sc.SetParameter(name, value.NumberValue)
		return
	})
	if err != nil {
		return nil, connect.NewError(connect.CodeInvalidArgument, err)
	}
	res, err := structpb.NewStruct(map[string]any{"name": name, "value": applied})
	if err != nil {
		return nil, connect.NewError(connect.CodeInternal, err)
	}
	return connect.NewResponse(res), nil
}

func (s *Server) Play(ctx context.Context, req *connect.Request[emptypb.Empty]) (*connect.Response[emptypb.Empty], error) {
	s.t.Play()
	return connect.NewResponse(&emptypb.Empty{}), nil
}

func (s *Server) Pause(ctx context.Context, req *connect.Request[emptypb.Empty]) (*connect.Response[emptypb.Empty], error) {
	s.t.Pause()
	return connect.NewResponse(&emptypb.Empty{}), nil
}

// StepDay 立即推进到下一天结算完成，返回新的天数
func (s *Server) StepDay(ctx context.Context, req *connect.Request[emptypb.Empty]) (*connect.Response[structpb.Struct], error) {
	if err := s.t.StepDay(ctx); err != nil {
		log.Errorf("record failed: %v", err)
	}
	res, err := structpb.NewStruct(map[string]any{"day": s.t.Day()})
	if err != nil {
		return nil, connect.NewError(connect.CodeInternal, err)
	}
	return connect.NewResponse(res), nil
}

// AddRoom 追加一个房间
// 功能：请求为{name, width, height}，新房间用途为extra，返回房间ID
func (s *Server) AddRoom(ctx context.Context, req *connect.Request[structpb.Struct]) (*connect.Response[structpb.Struct], error) {
	fields := req.Msg.GetFields()
	name := fields["name"].GetStringValue()
	width := fields["width"].GetNumberValue()
	height := fields["height"].GetNumberValue()
	var id int32
	err := s.t.Do(func(sc *scenario.Scenario) error {
		if name == "" {
			name = fmt.Sprintf("room %d", len(sc.Rooms()))
		}
		r, err := sc.AddRoom(name, room.KindExtra, width, height)
		if err != nil {
			return err
		}
		id = r.ID()
		return nil
	})
	if err != nil {
		return nil, connect.NewError(connect.CodeInvalidArgument, err)
	}
	res, err := structpb.NewStruct(map[string]any{"id": id, "name": name})
	if err != nil {
		return nil, connect.NewError(connect.CodeInternal, err)
	}
	return connect.NewResponse(res), nil
}
