package main

import (
	"github.com/stianeikeland/go-rpio"
)

// 4 character display, positions 1-4; updates are queued until Commit
type display interface {
	OpenDisplay(settings configSettings) error
	DebugDump(on bool)
	Clear()
	SetChar(pos int, c byte) error
	SetDigit(pos int, d byte) error
	SetNumber(pos int, val float64, width int, base int) error
	SetBrightness(b uint8) error
	Commit() error
	Text() string
	Brightness() uint8
	DisplayOn(on bool) error
}

// the single button
type buttons interface {
	initButtons(settings configSettings) error
	setupButton(btn buttonMap, rt runtimeConfig) error
	readLevel() (rpio.State, error)
	closeButtons()
}

type led interface {
	init() error
	set(pin int, on bool)
	on(pin int)
	off(pin int)
}

type sounds interface {
	playIt(rt runtimeConfig, sfreqs []string, timing []string, stop chan bool)
	playMP3(rt runtimeConfig, fName string, stop chan bool)
}

type statusService interface {
	launch(handler *apiHandler, addr string)
	stop()
}
