package policy

import "github.com/sirupsen/logrus"

// log 场景变体模块的日志记录器
var log = logrus.WithField("module", "policy")
