// Package alphanum4 drives a 4 character, 14 segment alphanumeric display
// behind an HT16K33 backpack.
//
// Characters, digits and brightness are queued in a local buffer; nothing
// reaches the chip until Commit.
package alphanum4

import (
	"fmt"
	"math"
	"strings"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
)

// HT16K33 commands
const (
	cmdOscOn      = 0x21
	cmdDisplayOn  = 0x81
	cmdDisplayOff = 0x80
	cmdBrightness = 0xE0
	// display RAM starts at address 0
	ramAddress = 0x00
)

// Brightness bounds, the HT16K33 has 16 dimming steps.
const (
	BrightnessMin = 0
	BrightnessMax = 15
)

// NumChars is the number of character positions on the display.
const NumChars = 4

// decimal point segment
const dotMask = 0x4000

// Index is a character position, left to right.
type Index byte

const (
	One Index = iota
	Two
	Three
	Four
)

// 14 segment patterns, bit 0 is segment A, bit 14 the decimal point
var charValues = map[byte]uint16{
	' ':  0x0000,
	'!':  0x0006,
	'"':  0x0220,
	'\'': 0x0400,
	'*':  0x3FC0,
	'+':  0x12C0,
	',':  0x0800,
	'-':  0x00C0,
	'.':  0x4000,
	'/':  0x0C00,
	'0':  0x0C3F,
	'1':  0x0006,
	'2':  0x00DB,
	'3':  0x008F,
	'4':  0x00E6,
	'5':  0x2069,
	'6':  0x00FD,
	'7':  0x0007,
	'8':  0x00FF,
	'9':  0x00EF,
	':':  0x1200,
	'=':  0x00C8,
	'?':  0x1083,
	'A':  0x00F7,
	'B':  0x128F,
	'C':  0x0039,
	'D':  0x120F,
	'E':  0x00F9,
	'F':  0x0071,
	'G':  0x00BD,
	'H':  0x00F6,
	'I':  0x1209,
	'J':  0x001E,
	'K':  0x2470,
	'L':  0x0038,
	'M':  0x0536,
	'N':  0x2136,
	'O':  0x003F,
	'P':  0x00F3,
	'Q':  0x203F,
	'R':  0x20F3,
	'S':  0x00ED,
	'T':  0x1201,
	'U':  0x003E,
	'V':  0x0C30,
	'W':  0x2836,
	'X':  0x2D00,
	'Y':  0x1500,
	'Z':  0x0C09,
	'_':  0x0008,
}

const digitChars = "0123456789ABCDEF"

// Bus is the write side of an I2C device.
type Bus interface {
	WriteCommand(single byte) error
	Write(buf []uint8) (int, error)
}

// Opts configures a display.
type Opts struct {
	// The I2C address, 0x70 unless the backpack's address pads are bridged
	I2CAddr uint8
	// Brightness applied on Init
	Brightness uint8
}

var DefaultOpts = Opts{
	I2CAddr:    0x70,
	Brightness: BrightnessMin,
}

// Addr validates the configured address, 0 picks the default.
func (o *Opts) Addr() (uint8, error) {
	switch {
	case o.I2CAddr == 0:
		return DefaultOpts.I2CAddr, nil
	case o.I2CAddr >= 0x70 && o.I2CAddr <= 0x77:
		return o.I2CAddr, nil
	default:
		return 0, fmt.Errorf("alphanum4: address 0x%02x not supported by the HT16K33", o.I2CAddr)
	}
}

type Alphanum4 struct {
	bus    Bus
	buffer [NumChars]uint16
	text   [NumChars]byte
	dump   bool

	brightness uint8

	// what the chip currently shows
	current        [NumChars]uint16
	currentValid   bool
	sentBrightness uint8
	brightnessSent bool
}

// New wraps bus. Use default options if nil is used.
func New(bus Bus, opts *Opts) (*Alphanum4, error) {
	if opts == nil {
		opts = &DefaultOpts
	}
	if opts.Brightness > BrightnessMax {
		return nil, fmt.Errorf("alphanum4: bad brightness level: %d", opts.Brightness)
	}
	a := &Alphanum4{bus: bus, brightness: opts.Brightness}
	a.ClearBuffer()
	return a, nil
}

// Init turns on the oscillator and the display, then blanks it at the
// configured brightness.
func (a *Alphanum4) Init() error {
	if err := a.bus.WriteCommand(cmdOscOn); err != nil {
		return errors.Wrap(err, "oscillator on")
	}
	if err := a.DisplayOn(true); err != nil {
		return err
	}
	a.ClearBuffer()
	return a.Commit()
}

func (a *Alphanum4) DebugDump(on bool) {
	a.dump = on
}

func (a *Alphanum4) DisplayOn(on bool) error {
	log.Debugf("alphanum4: display on: %t", on)
	var val byte = cmdDisplayOn
	if !on {
		val = cmdDisplayOff
	}
	return errors.Wrap(a.bus.WriteCommand(val), "display on/off")
}

// ClearBuffer blanks the pending buffer.
func (a *Alphanum4) ClearBuffer() {
	for i := range a.buffer {
		a.buffer[i] = 0
		a.text[i] = ' '
	}
}

func altCase(char uint8) uint8 {
	if char >= 'A' && char <= 'Z' {
		return char + 'a' - 'A'
	} else if char >= 'a' && char <= 'z' {
		return char + 'A' - 'a'
	}
	return char
}

func getMask(char uint8) (uint16, error) {
	val, ok := charValues[char]
	if !ok {
		val, ok = charValues[altCase(char)]
		if !ok {
			return 0, fmt.Errorf("alphanum4: bad value: %q", char)
		}
	}
	return val, nil
}

func checkIndex(idx Index) error {
	if idx >= NumChars {
		return fmt.Errorf("alphanum4: bad position: %d", idx)
	}
	return nil
}

// SetChar queues char at idx, keeping that position's decimal point.
func (a *Alphanum4) SetChar(idx Index, char byte) error {
	if err := checkIndex(idx); err != nil {
		return err
	}
	mask, err := getMask(char)
	if err != nil {
		return err
	}
	a.buffer[idx] = mask | (a.buffer[idx] & dotMask)
	a.text[idx] = char
	return nil
}

// SetDigit queues a single decimal digit.
func (a *Alphanum4) SetDigit(idx Index, digit byte) error {
	if digit > 9 {
		return fmt.Errorf("alphanum4: bad digit: %d", digit)
	}
	return a.SetChar(idx, '0'+digit)
}

// SetDecimal turns the decimal point at idx on or off.
func (a *Alphanum4) SetDecimal(idx Index, on bool) error {
	if err := checkIndex(idx); err != nil {
		return err
	}
	if on {
		a.buffer[idx] |= dotMask
	} else {
		a.buffer[idx] &^= dotMask
	}
	return nil
}

// SetNumber queues value as width zero-padded digits in base, starting
// at idx. The fractional part is dropped. Nothing is queued on error.
func (a *Alphanum4) SetNumber(idx Index, value float64, width int, base int) error {
	if base < 2 || base > len(digitChars) {
		return fmt.Errorf("alphanum4: bad base: %d", base)
	}
	if width < 1 || int(idx)+width > NumChars {
		return fmt.Errorf("alphanum4: %d digits do not fit at position %d", width, idx)
	}
	if math.IsNaN(value) || math.IsInf(value, 0) || value < 0 {
		return fmt.Errorf("alphanum4: cannot display %v", value)
	}
	if value >= math.Pow(float64(base), float64(width)) {
		return fmt.Errorf("alphanum4: %v does not fit in %d base %d digits", value, width, base)
	}

	n := uint64(value)
	digits := make([]byte, width)
	for i := width - 1; i >= 0; i-- {
		digits[i] = digitChars[n%uint64(base)]
		n /= uint64(base)
	}
	for i, d := range digits {
		if err := a.SetChar(idx+Index(i), d); err != nil {
			return err
		}
	}
	return nil
}

// SetBrightness queues a brightness level between BrightnessMin and
// BrightnessMax.
func (a *Alphanum4) SetBrightness(level uint8) error {
	if level > BrightnessMax {
		return fmt.Errorf("alphanum4: bad brightness level: %d", level)
	}
	a.brightness = level
	return nil
}

func (a *Alphanum4) Brightness() uint8 {
	return a.brightness
}

// Text returns the queued characters.
func (a *Alphanum4) Text() string {
	return string(a.text[:])
}

func (a *Alphanum4) dumpDisplay() {
	var sb strings.Builder
	fmt.Fprintf(&sb, "[%s]", a.Text())
	for _, v := range a.buffer {
		fmt.Fprintf(&sb, " %04x", v)
	}
	fmt.Fprintf(&sb, " brightness %d", a.brightness)
	log.Info(sb.String())
}

// Commit writes the pending brightness and buffer to the chip, skipping
// whatever it already shows.
func (a *Alphanum4) Commit() error {
	if !a.brightnessSent || a.sentBrightness != a.brightness {
		if err := a.bus.WriteCommand(cmdBrightness | a.brightness); err != nil {
			return errors.Wrap(err, "brightness")
		}
		a.sentBrightness = a.brightness
		a.brightnessSent = true
	}

	if a.currentValid && a.current == a.buffer {
		return nil
	}

	if a.dump {
		a.dumpDisplay()
	}

	// each character is two bytes of display RAM, low byte first
	buf := make([]uint8, 1+2*NumChars)
	buf[0] = ramAddress
	for i, v := range a.buffer {
		buf[1+2*i] = uint8(v & 0xff)
		buf[2+2*i] = uint8(v >> 8)
	}
	if _, err := a.bus.Write(buf); err != nil {
		return errors.Wrap(err, "display buffer")
	}
	a.current = a.buffer
	a.currentValid = true
	return nil
}
