package main

import (
	log "github.com/sirupsen/logrus"

	"VortexFrontEnd/internal/util"
	"VortexFrontEnd/internal/vlog"
)

func main() {
	util.InitLogger(log.InfoLevel)
	vlog.ParseCmdArgs()
}
