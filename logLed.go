package main

import (
	"fmt"

	log "github.com/sirupsen/logrus"
)

type logLed struct {
	leds   map[int]bool
	audit  []string
	logger log.FieldLogger
}

func (ll *logLed) init() error {
	ll.leds = make(map[int]bool)
	ll.audit = make([]string, 0)
	ll.logger = threadLogger("LEDs")
	return nil
}

func (ll *logLed) set(pinNum int, on bool) {
	ll.leds[pinNum] = on
	msg := fmt.Sprintf("Set LED %v to %v", pinNum, on)
	ll.logger.Info(msg)
	ll.audit = append(ll.audit, msg)
}

func (ll *logLed) on(pinNum int) {
	ll.set(pinNum, true)
}

func (ll *logLed) off(pinNum int) {
	ll.set(pinNum, false)
}
