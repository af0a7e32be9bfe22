package main

import (
	log "github.com/sirupsen/logrus"

	"VortexFrontEnd/internal/util"
	"VortexFrontEnd/internal/vbatch"
)

func main() {
	util.InitLogger(log.InfoLevel)
	vbatch.ParseCmdArgs()
}
