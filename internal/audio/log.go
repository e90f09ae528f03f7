package audio

import "audiodev/internal/log"

var audioLog = log.Subsystem("AUDI")
