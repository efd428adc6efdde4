package main

import (
	"sync"

	// gpio lib
	"github.com/stianeikeland/go-rpio"
)

var (
	gpioOnce sync.Once
	gpioErr  error
)

// openGPIO maps the GPIO registers once for the button and the LED
func openGPIO() error {
	gpioOnce.Do(func() {
		gpioErr = rpio.Open()
	})
	return gpioErr
}

type rpioButtons struct {
	btn  buttonMap
	rpin rpio.Pin
}

func (rb *rpioButtons) initButtons(settings configSettings) error {
	return openGPIO()
}

func (rb *rpioButtons) setupButton(btn buttonMap, rt runtimeConfig) error {
	rb.btn = btn
	rb.rpin = rpio.Pin(btn.pinNum)

	rb.rpin.Input() // Input mode
	if btn.pullup {
		rb.rpin.PullUp() // GND => button press
	} else {
		rb.rpin.PullDown() // +V -> button press
	}
	rt.logger.Infof("button on GPIO %d, pullup %t", btn.pinNum, btn.pullup)
	return nil
}

func (rb *rpioButtons) closeButtons() {
	rpio.Close()
}

func (rb *rpioButtons) readLevel() (rpio.State, error) {
	return rb.rpin.Read(), nil
}
