package main

import (
	"github.com/sirupsen/logrus"

	"staffdesk/internal/api"
)

func main() {
	logrus.Info("App start")
	api.StartServer()
	logrus.Info("App terminated")
}
