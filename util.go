// utility functions
package main

import (
	"sync"

	"github.com/jonboulle/clockwork"
	log "github.com/sirupsen/logrus"
)

var wg sync.WaitGroup

// build features, filled in by init() of the tagged files
var features []string

type commChannels struct {
	// nothing closes quit in production, the countdown runs forever
	quit chan struct{}
}

type runtimeConfig struct {
	settings      configSettings
	comms         commChannels
	clock         clockwork.Clock
	logger        log.FieldLogger
	display       display
	buttons       buttons
	led           led
	sounds        sounds
	status        *statusBoard
	statusService statusService
}

func initCommChannels() commChannels {
	return commChannels{quit: make(chan struct{})}
}

func initRuntime(settings configSettings, clock clockwork.Clock) runtimeConfig {
	return runtimeConfig{
		settings: settings,
		clock:    clock,
		comms:    initCommChannels(),
		logger:   threadLogger("Main"),
		status:   &statusBoard{},
	}
}

// each worker logs under its own name
func threadLogger(name string) log.FieldLogger {
	return log.WithField("thread", name)
}

func quitting(comms commChannels) bool {
	select {
	case <-comms.quit:
		return true
	default:
		return false
	}
}
