package main

import (
	log "github.com/sirupsen/logrus"

	"VortexFrontEnd/internal/util"
	"VortexFrontEnd/internal/vexecd"
)

func main() {
	util.InitLogger(log.InfoLevel)
	vexecd.ParseCmdArgs()
}
