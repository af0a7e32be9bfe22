package main

import (
	log "github.com/sirupsen/logrus"

	"VortexFrontEnd/internal/util"
	"VortexFrontEnd/internal/vqueue"
)

func main() {
	util.InitLogger(log.InfoLevel)
	vqueue.ParseCmdArgs()
}
