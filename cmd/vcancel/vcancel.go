package main

import (
	log "github.com/sirupsen/logrus"

	"VortexFrontEnd/internal/util"
	"VortexFrontEnd/internal/vcancel"
)

func main() {
	util.InitLogger(log.InfoLevel)
	vcancel.ParseCmdArgs()
}
