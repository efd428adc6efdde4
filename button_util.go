package main

import (
	"time"

	log "github.com/sirupsen/logrus"
	"github.com/stianeikeland/go-rpio"
)

// how the button is wired
type buttonMap struct {
	pinNum int    // GPIO pin
	pullup bool   // true: pulled up, GND => button press (LOW is pressed)
	key    string // keyboard key in simulation mode
}

// check the press state, and return the press state
type pressState struct {
	pressed bool      // is it pressed?
	start   time.Time // when did this state start?
	count   int       // # of whole seconds since it started
	changed bool      // did the above data change at all?
}

type button struct {
	button buttonMap
	state  pressState
}

func (s *configSettings) GetButtonMap() buttonMap {
	return buttonMap{
		pinNum: s.GetInt(sButtonPin),
		pullup: s.GetBool(sButtonPullup),
		key:    s.GetString(sButtonKey),
	}
}

func newButton(bm buttonMap, now time.Time) button {
	return button{button: bm, state: pressState{pressed: false, start: now}}
}

// isPressed interprets the pin level based on the pullup value
func (bm buttonMap) isPressed(level rpio.State) bool {
	if bm.pullup {
		// 0 is pressed, 1 is not
		return level == rpio.Low
	}
	// 1 is pressed, 0 is not
	return level == rpio.High
}

// pressedLevel is the pin level of a pressed button
func (bm buttonMap) pressedLevel() rpio.State {
	if bm.pullup {
		return rpio.Low
	}
	return rpio.High
}

func (bm buttonMap) releasedLevel() rpio.State {
	if bm.pullup {
		return rpio.High
	}
	return rpio.Low
}

// checkButton folds a fresh pin reading into the button's press state
func checkButton(btn button, level rpio.State, now time.Time, logger log.FieldLogger) button {
	prev := btn.state
	btn.state.changed = false

	if btn.button.isPressed(level) {
		if prev.pressed {
			// no button state change, update the duration count
			btn.state.count = int(now.Sub(prev.start) / time.Second)
			btn.state.changed = btn.state.count != prev.count
		} else {
			// just noticed it was pressed
			btn.state = pressState{pressed: true, start: now, count: 0, changed: true}
		}
	} else if prev.pressed {
		// just noticed the release
		logger.Infof("button released after %v", now.Sub(prev.start))
		btn.state = pressState{pressed: false, start: now, count: 0, changed: true}
	}

	if btn.state.changed {
		logger.Infof("button changed state: %+v", btn.state)
	}
	return btn
}
