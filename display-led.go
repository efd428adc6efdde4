package main

import (
	"fmt"

	"dscheirer.com/countdown/alphanum4"
	"dscheirer.com/countdown/i2c"
	log "github.com/sirupsen/logrus"
)

// ledDisplay is the HT16K33 alphanumeric backpack
type ledDisplay struct {
	dev *i2c.I2C
	an4 *alphanum4.Alphanum4
}

func (ld *ledDisplay) OpenDisplay(settings configSettings) error {
	opts := alphanum4.Opts{I2CAddr: settings.GetByte(sI2CDev), Brightness: brightnessMin}
	addr, err := opts.Addr()
	if err != nil {
		return err
	}

	ld.dev, err = i2c.Open(
		addr,
		settings.GetString(sI2CBus),
		settings.GetInt(sI2CKHz),
		settings.GetBool(sI2CSim),
		log.WithField("thread", "I2C"))
	if err != nil {
		return err
	}

	ld.an4, err = alphanum4.New(ld.dev, &opts)
	if err != nil {
		ld.dev.Close()
		return err
	}
	ld.an4.DebugDump(settings.GetBool(sDebug))
	if err := ld.an4.Init(); err != nil {
		ld.dev.Close()
		return err
	}
	return nil
}

// index maps positions 1-4 onto the backpack
func index(pos int) (alphanum4.Index, error) {
	if pos < 1 || pos > alphanum4.NumChars {
		return 0, fmt.Errorf("bad display position: %d", pos)
	}
	return alphanum4.Index(pos - 1), nil
}

func (ld *ledDisplay) DebugDump(on bool) {
	ld.an4.DebugDump(on)
}

func (ld *ledDisplay) Clear() {
	ld.an4.ClearBuffer()
}

func (ld *ledDisplay) SetChar(pos int, c byte) error {
	idx, err := index(pos)
	if err != nil {
		return err
	}
	return ld.an4.SetChar(idx, c)
}

func (ld *ledDisplay) SetDigit(pos int, d byte) error {
	idx, err := index(pos)
	if err != nil {
		return err
	}
	return ld.an4.SetDigit(idx, d)
}

func (ld *ledDisplay) SetNumber(pos int, val float64, width int, base int) error {
	idx, err := index(pos)
	if err != nil {
		return err
	}
	return ld.an4.SetNumber(idx, val, width, base)
}

func (ld *ledDisplay) SetBrightness(b uint8) error {
	return ld.an4.SetBrightness(b)
}

func (ld *ledDisplay) Brightness() uint8 {
	return ld.an4.Brightness()
}

func (ld *ledDisplay) Commit() error {
	return ld.an4.Commit()
}

func (ld *ledDisplay) Text() string {
	return ld.an4.Text()
}

func (ld *ledDisplay) DisplayOn(on bool) error {
	return ld.an4.DisplayOn(on)
}
