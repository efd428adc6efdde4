package main

import (
	"fmt"

	"dscheirer.com/countdown/alphanum4"
	log "github.com/sirupsen/logrus"
)

// nullBus swallows everything the backpack would have been sent
type nullBus struct{}

func (nullBus) WriteCommand(single byte) error  { return nil }
func (nullBus) Write(buf []uint8) (int, error) { return len(buf), nil }

// logDisplay keeps the backpack's buffer rules but only logs what it
// would show. audit records every committed change.
type logDisplay struct {
	an4        *alphanum4.Alphanum4
	debugDump  bool
	displayOn  bool
	curDisplay string
	brightness uint8
	commits    int
	audit      []string
	logger     log.FieldLogger
}

func (ld *logDisplay) OpenDisplay(settings configSettings) error {
	var err error
	ld.an4, err = alphanum4.New(nullBus{}, &alphanum4.Opts{Brightness: brightnessMin})
	if err != nil {
		return err
	}
	ld.DebugDump(settings.GetBool(sDebug))
	ld.curDisplay = ld.an4.Text()
	ld.brightness = brightnessMin
	ld.audit = []string{}
	ld.logger = log.WithField("thread", "Display")
	return nil
}

func (ld *logDisplay) DebugDump(on bool) {
	ld.debugDump = on
	ld.an4.DebugDump(on)
}

func (ld *logDisplay) Clear() {
	ld.an4.ClearBuffer()
}

func (ld *logDisplay) SetChar(pos int, c byte) error {
	idx, err := index(pos)
	if err != nil {
		return err
	}
	return ld.an4.SetChar(idx, c)
}

func (ld *logDisplay) SetDigit(pos int, d byte) error {
	idx, err := index(pos)
	if err != nil {
		return err
	}
	return ld.an4.SetDigit(idx, d)
}

func (ld *logDisplay) SetNumber(pos int, val float64, width int, base int) error {
	idx, err := index(pos)
	if err != nil {
		return err
	}
	return ld.an4.SetNumber(idx, val, width, base)
}

func (ld *logDisplay) SetBrightness(b uint8) error {
	return ld.an4.SetBrightness(b)
}

func (ld *logDisplay) Brightness() uint8 {
	return ld.an4.Brightness()
}

func (ld *logDisplay) Text() string {
	return ld.an4.Text()
}

func (ld *logDisplay) DisplayOn(on bool) error {
	ld.displayOn = on
	return nil
}

func (ld *logDisplay) Commit() error {
	ld.commits++
	text, brightness := ld.an4.Text(), ld.an4.Brightness()
	if text == ld.curDisplay && brightness == ld.brightness {
		return nil
	}
	entry := fmt.Sprintf("[%s] %d", text, brightness)
	ld.logger.Info(entry)
	ld.audit = append(ld.audit, entry)
	ld.curDisplay = text
	ld.brightness = brightness
	return ld.an4.Commit()
}
