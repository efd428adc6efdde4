package main

import (
	"dscheirer.com/countdown/alphanum4"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
)

const (
	brightnessMin = alphanum4.BrightnessMin
	brightnessMax = alphanum4.BrightnessMax
)

const (
	stateCounting = iota
	stateHalted
	stateDoneIdle
	stateDoneResetReady
)

var stateNames = map[int]string{
	stateCounting:       "COUNTING",
	stateHalted:         "HALTED",
	stateDoneIdle:       "DONE_IDLE",
	stateDoneResetReady: "DONE_RESET_READY",
}

// countdown owns the remaining count and the display buffer. remaining
// never goes below zero and only goes back to start from zero.
type countdown struct {
	start     int
	remaining int
	state     int
	render    renderFunc
	display   display
	logger    log.FieldLogger
}

func newCountdown(start int, render renderFunc, d display, logger log.FieldLogger) *countdown {
	return &countdown{
		start:     start,
		remaining: start,
		state:     stateCounting,
		render:    render,
		display:   d,
		logger:    logger,
	}
}

func (c *countdown) setState(state int) {
	if state != c.state {
		c.logger.Infof("%s -> %s (%d left)", stateNames[c.state], stateNames[state], c.remaining)
	}
	c.state = state
}

// show puts a 4 character word on the display
func (c *countdown) show(word string) error {
	c.display.Clear()
	for i := 0; i < len(word); i++ {
		if err := c.display.SetChar(i+1, word[i]); err != nil {
			return err
		}
	}
	return nil
}

// tick queues the display updates for one loop iteration and reports
// whether the pacing delay applies. It does not commit.
func (c *countdown) tick(pressed bool) (bool, error) {
	if c.remaining == 0 {
		if pressed {
			c.remaining = c.start
			c.setState(stateDoneResetReady)
			return false, c.display.SetBrightness(brightnessMin)
		}
		c.setState(stateDoneIdle)
		if err := c.display.SetBrightness(brightnessMax); err != nil {
			return false, err
		}
		return false, c.show("DONE")
	}

	if pressed {
		c.setState(stateHalted)
		return false, c.show("STOP")
	}

	c.remaining--
	c.setState(stateCounting)
	c.logger.Debugf("tick: %d left", c.remaining)
	return true, c.render(c.display, c.remaining)
}

func (c *countdown) snapshot() countdownStatus {
	minutes, seconds := minutesSeconds(c.remaining)
	return countdownStatus{
		Remaining:  c.remaining,
		Minutes:    minutes,
		Seconds:    seconds,
		State:      stateNames[c.state],
		Display:    c.display.Text(),
		Brightness: c.display.Brightness(),
	}
}

func startCountdown(rt runtimeConfig) error {
	rt.logger = threadLogger("Countdown")
	return runCountdown(rt)
}

// runCountdown loops until quit closes (never, outside tests) or a
// peripheral fails. Every failure is returned as is, the caller halts.
func runCountdown(rt runtimeConfig) error {
	defer func() {
		rt.logger.Println("exiting runCountdown")
	}()

	settings := rt.settings
	render, ok := renderPolicies[settings.GetString(sRender)]
	if !ok {
		return initFailure(errors.New("unknown policy"), "render %q", settings.GetString(sRender))
	}
	tickTime := settings.GetDuration(sTickTime)
	pollTime := settings.GetDuration(sPollTime)

	cd := newCountdown(settings.GetInt(sStart), render, rt.display, rt.logger)
	btn := newButton(settings.GetButtonMap(), rt.clock.Now())
	var stopAlert chan bool

	rt.logger.Infof("counting down from %d (%s), button pullup %t", cd.start, settings.GetString(sRender), btn.button.pullup)

	for {
		if quitting(rt.comms) {
			rt.logger.Println("quit from runCountdown")
			if stopAlert != nil {
				stopAlert <- true
			}
			return nil
		}

		level, err := rt.buttons.readLevel()
		if err != nil {
			return transportFailure(err, "read button")
		}
		btn = checkButton(btn, level, rt.clock.Now(), rt.logger)

		prev := cd.state
		pace, err := cd.tick(btn.state.pressed)
		if err != nil {
			return transportFailure(err, "update display")
		}
		if err := rt.display.Commit(); err != nil {
			return transportFailure(err, "commit display")
		}

		switch {
		case prev == stateCounting && cd.state == stateDoneIdle:
			stopAlert = startDoneAlert(rt)
		case cd.state == stateDoneResetReady && stopAlert != nil:
			stopAlert <- true
			stopAlert = nil
		}

		rt.status.publish(cd.snapshot())

		if pace {
			rt.clock.Sleep(tickTime)
		} else if pollTime > 0 {
			rt.clock.Sleep(pollTime)
		}
	}
}

// startDoneAlert plays the done sound, if any; send on the returned
// channel to stop it
func startDoneAlert(rt runtimeConfig) chan bool {
	settings := rt.settings
	if !settings.GetBool(sSound) {
		return nil
	}
	stop := make(chan bool, 1)
	if f := settings.GetString(sDoneSound); f != "" {
		rt.logger.Printf("Playing %s", f)
		rt.sounds.playMP3(rt, f, stop)
	} else {
		rt.logger.Printf("Playing tones")
		rt.sounds.playIt(rt, []string{"880", "660"}, []string{"200ms", "100ms", "200ms", "1500ms"}, stop)
	}
	return stop
}
