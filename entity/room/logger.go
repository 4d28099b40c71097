package room

import "github.com/sirupsen/logrus"

var log = logrus.WithField("module", "room")
