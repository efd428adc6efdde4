package main

import (
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/nsf/termbox-go"
	"github.com/pkg/errors"
	"github.com/stianeikeland/go-rpio"
)

// keyButtons simulates the button with a key that toggles it
type keyButtons struct {
	btn     buttonMap
	pressed bool
	clock   clockwork.Clock
}

func (kb *keyButtons) initButtons(settings configSettings) error {
	err := termbox.Init()
	if err != nil {
		return err
	}

	termbox.SetInputMode(termbox.InputEsc)
	termbox.Flush()

	// close it later
	return nil
}

func (kb *keyButtons) setupButton(btn buttonMap, rt runtimeConfig) error {
	kb.btn = btn
	kb.clock = rt.clock
	rt.logger.Infof("button on key %q", btn.key)
	return nil
}

func (kb *keyButtons) closeButtons() {
	termbox.Close()
}

func (kb *keyButtons) matches(ev termbox.Event) bool {
	if kb.btn.key == " " {
		return ev.Key == termbox.KeySpace || ev.Ch == ' '
	}
	return len(kb.btn.key) == 1 && ev.Ch == rune(kb.btn.key[0])
}

// readLevel polls the keyboard with a quick timeout, no key means "no
// change"
func (kb *keyButtons) readLevel() (rpio.State, error) {
	go func() {
		kb.clock.Sleep(10 * time.Millisecond)
		termbox.Interrupt()
	}()

	waitForInterrupt := true
	for waitForInterrupt {
		ev := termbox.PollEvent()
		switch ev.Type {
		case termbox.EventKey:
			// add an exit key
			if ev.Key == termbox.KeyCtrlC {
				return kb.btn.releasedLevel(), errors.New("exit termbox loop")
			}
			if kb.matches(ev) {
				kb.pressed = !kb.pressed
			}
		case termbox.EventError:
			return kb.btn.releasedLevel(), ev.Err
		default:
			// interrupted, no more keys
			waitForInterrupt = false
		}
	}

	if kb.pressed {
		return kb.btn.pressedLevel(), nil
	}
	return kb.btn.releasedLevel(), nil
}
