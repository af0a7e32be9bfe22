package main

import (
	log "github.com/sirupsen/logrus"

	"VortexFrontEnd/internal/util"
	"VortexFrontEnd/internal/vinfo"
)

func main() {
	util.InitLogger(log.InfoLevel)
	vinfo.ParseCmdArgs()
}
