package server

import "github.com/sirupsen/logrus"

// log 控制服务模块的日志记录器
var log = logrus.WithField("module", "server")
