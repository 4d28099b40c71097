package main

import (
	"context"
	"encoding/base64"
	"flag"
	"os"
	"os/signal"
	"syscall"

	easy "git.fiblab.net/utils/logrus-easy-formatter"
	"github.com/sirupsen/logrus"
	"github.com/tsinghua-fib-lab/agentsociety-epidemic/output"
	"github.com/tsinghua-fib-lab/agentsociety-epidemic/scenario"
	"github.com/tsinghua-fib-lab/agentsociety-epidemic/scenario/policy"
	"github.com/tsinghua-fib-lab/agentsociety-epidemic/server"
	"github.com/tsinghua-fib-lab/agentsociety-epidemic/task"
	"github.com/tsinghua-fib-lab/agentsociety-epidemic/utils/config"
)

var (
	// 配置文件路径
	configPath = flag.String("config", "", "config file path")
	// 配置文件Base64编码后的数据
	configData = flag.String("config-data", "", "config file base64 encoded data")
	// 控制服务监听地址，覆盖配置文件中的control.listen
	listen = flag.String("listen", "", "control service listening address (empty means use config)")

	// log
	logLevels = map[string]logrus.Level{
		"trace":    logrus.TraceLevel,
		"debug":    logrus.DebugLevel,
		"info":     logrus.InfoLevel,
		"warn":     logrus.WarnLevel,
		"error":    logrus.ErrorLevel,
		"critical": logrus.FatalLevel,
		"off":      logrus.PanicLevel,
	}
	logLevel = flag.String("log.level", "info", "日志级别（可选项：trace debug info warn error critical off）")

	log = logrus.WithField("module", "epidemic")
)

func main() {
	flag.Parse()
	logrus.SetFormatter(&easy.Formatter{
		TimestampFormat: "2006-01-02 15:04:05.0000",
		LogFormat:       "[%module%] [%time%] [%lvl%] %msg%\n",
	})
	if level, ok := logLevels[*logLevel]; ok {
		logrus.SetLevel(level)
	} else {
		log.Panicf("log.level must be one of %v", logLevels)
	}
	// 获取配置，未指定时使用默认配置
	var file []byte
	var err error
	if *configPath != "" {
		file, err = os.ReadFile(*configPath)
		if err != nil {
			log.Panicf("config file load err: %v", err)
		}
	} else if *configData != "" {
		file, err = base64.StdEncoding.DecodeString(*configData)
		if err != nil {
			log.Panicf("config data load err: %v", err)
		}
	} else {
		log.Warn("no config specified, use defaults")
	}
	c, err := config.Load(file)
	if err != nil {
		log.Panicf("config file load err: %v", err)
	}
	if *listen != "" {
		c.Control.Listen = *listen
	}
	log.Infof("%+v", c)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	p, err := policy.FromConfig(c.Scenario)
	if err != nil {
		log.Panicf("policy err: %v", err)
	}
	s, err := scenario.New(c.Scenario, p)
	if err != nil {
		log.Panicf("scenario err: %v", err)
	}
	recorder, err := output.New(ctx, c.Output)
	if err != nil {
		log.Panicf("output err: %v", err)
	}
	defer recorder.Close(context.Background())

	t := task.NewContext(s, c.Control, recorder)
	if c.Control.Listen != "" {
		go func() {
			if err := server.RunServer(ctx, c.Control.Listen, t); err != nil {
				log.Errorf("server err: %v", err)
				stop()
			}
		}()
	}
	t.Run(ctx)
}
