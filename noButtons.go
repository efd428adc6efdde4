package main

import (
	"github.com/stianeikeland/go-rpio"
)

// noButtons is a button nobody presses, unless a test sets it
type noButtons struct {
	btn   buttonMap
	state rpio.State
	err   error
	reads int
}

func (nb *noButtons) readLevel() (rpio.State, error) {
	nb.reads++
	return nb.state, nb.err
}

func (nb *noButtons) setupButton(btn buttonMap, rt runtimeConfig) error {
	nb.btn = btn
	nb.state = btn.releasedLevel()
	return nil
}

func (nb *noButtons) initButtons(settings configSettings) error {
	return nil
}

func (nb *noButtons) closeButtons() {
}

func (nb *noButtons) press() {
	nb.state = nb.btn.pressedLevel()
}

func (nb *noButtons) release() {
	nb.state = nb.btn.releasedLevel()
}
