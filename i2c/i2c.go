package i2c

import (
	"fmt"
	"strings"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"periph.io/x/conn/v3/i2c"
	"periph.io/x/conn/v3/i2c/i2creg"
	"periph.io/x/conn/v3/physic"
	"periph.io/x/host/v3"
)

// I2C is a single device on an I2C bus, or a stand-in that only logs
// what it would have written.
type I2C struct {
	bus     i2c.BusCloser
	dev     *i2c.Dev
	address uint8
	sim     bool
	logger  log.FieldLogger
}

func logWrite(logger log.FieldLogger, address uint8, buf []uint8) {
	var sb strings.Builder
	for i := 0; i < len(buf); i++ {
		fmt.Fprintf(&sb, "%02x ", buf[i])
	}
	logger.Debugf("write @ 0x%02x: %s", address, strings.TrimSpace(sb.String()))
}

// Open a connection to the device at address on the named bus ("" picks
// the first bus periph finds). khz <= 0 leaves the bus speed alone.
func Open(address uint8, bus string, khz int, simulated bool, logger log.FieldLogger) (*I2C, error) {
	if logger == nil {
		logger = log.StandardLogger()
	}
	if simulated {
		logger.Infof("simulated i2c device @ 0x%02x", address)
		return &I2C{address: address, sim: true, logger: logger}, nil
	}

	if _, err := host.Init(); err != nil {
		return nil, errors.Wrap(err, "periph host init")
	}
	b, err := i2creg.Open(bus)
	if err != nil {
		return nil, errors.Wrapf(err, "open i2c bus %q", bus)
	}
	if khz > 0 {
		if err := b.SetSpeed(physic.Frequency(khz) * physic.KiloHertz); err != nil {
			b.Close()
			return nil, errors.Wrapf(err, "set i2c speed %dkHz", khz)
		}
	}
	return &I2C{
		bus:     b,
		dev:     &i2c.Dev{Bus: b, Addr: uint16(address)},
		address: address,
		logger:  logger,
	}, nil
}

// Address returns the 7-bit device address.
func (d *I2C) Address() uint8 {
	return d.address
}

// Simulated reports whether writes only go to the log.
func (d *I2C) Simulated() bool {
	return d.sim
}

func (d *I2C) Close() error {
	if d.sim {
		d.logger.Infof("close simulated i2c device @ 0x%02x", d.address)
		return nil
	}
	return d.bus.Close()
}

// WriteCommand sends a single command-style byte.
func (d *I2C) WriteCommand(single byte) error {
	_, err := d.Write([]byte{single})
	return err
}

func (d *I2C) Write(buf []uint8) (int, error) {
	if d.sim {
		logWrite(d.logger, d.address, buf)
		return len(buf), nil
	}
	n, err := d.dev.Write(buf)
	if err != nil {
		return n, errors.Wrapf(err, "i2c write @ 0x%02x", d.address)
	}
	return n, nil
}
