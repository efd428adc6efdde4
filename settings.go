package main

import (
	"fmt"
	"io/ioutil"
	"runtime"
	"sort"
	"strconv"
	"strings"
	"time"

	"dscheirer.com/countdown/alphanum4"
	"github.com/buger/jsonparser"
	log "github.com/sirupsen/logrus"
)

// setting keys
const (
	sStart        = "start"
	sRender       = "render"
	sTickTime     = "tickTime"
	sPollTime     = "pollTime"
	sI2CBus       = "i2c_bus"
	sI2CDev       = "i2c_device"
	sI2CKHz       = "i2c_khz"
	sI2CSim       = "i2c_simulated"
	sDebug        = "debug_dump"
	sDisplayMode  = "display_mode"
	sButtonMode   = "button_mode"
	sButtonPin    = "button_pin"
	sButtonPullup = "button_pullup"
	sButtonKey    = "button_key"
	sLEDPin       = "led_pin"
	sLogFile      = "logFile"
	sLogLevel     = "logLevel"
	sLogConsole   = "logConsole"
	sLogMaxSize   = "logMaxSizeMB"
	sLogBackups   = "logMaxBackups"
	sStatusAddr   = "status_addr"
	sStatusUser   = "status_user"
	sStatusSecret = "status_secret"
	sSound        = "sound"
	sDoneSound    = "done_sound"
)

// render policies
const (
	renderMinutesSeconds = "minutes-seconds"
	renderRoundedMinutes = "rounded-minutes"
)

// display and button modes
const (
	displayHT16K33 = "ht16k33"
	displayLog     = "log"
	buttonGPIO     = "gpio"
	buttonKeyboard = "keyboard"
	buttonNone     = "none"
)

// largest start values each policy can show in two digit minutes
const (
	maxStartMinutesSeconds = 99*60 + 59
	maxStartRoundedMinutes = 99*60 + 29
)

// keep settings generic, type-convert on the fly
type configSettings struct {
	settings map[string]interface{}
}

func defaultSettings() configSettings {
	s := make(map[string]interface{})

	// setting the type here makes the conversion "automatic" later
	s[sStart] = 900
	s[sRender] = renderMinutesSeconds
	s[sTickTime], _ = time.ParseDuration("1s")
	s[sPollTime], _ = time.ParseDuration("10ms")
	s[sI2CBus] = ""
	s[sI2CDev] = byte(0x70)
	s[sI2CKHz] = 20
	s[sDebug] = false
	s[sDisplayMode] = displayHT16K33
	s[sButtonMode] = buttonGPIO
	s[sButtonPin] = 25
	s[sButtonPullup] = true
	s[sButtonKey] = " "
	s[sLEDPin] = -1
	s[sLogFile] = "/var/log/countdown.log"
	s[sLogLevel] = "info"
	s[sLogConsole] = true
	s[sLogMaxSize] = 10
	s[sLogBackups] = 3
	s[sStatusAddr] = ""
	s[sStatusUser] = "countdown"
	s[sStatusSecret] = ""
	s[sSound] = false
	s[sDoneSound] = ""

	on := true
	if runtime.GOARCH == "arm" || runtime.GOARCH == "arm64" {
		on = false
	}
	s[sI2CSim] = on

	return configSettings{settings: s}
}

func (s *configSettings) settingsFromJSON(data []byte) error {
	tmp := defaultSettings()
	for k, initVal := range tmp.settings {
		// ignore missing fields
		if _, _, _, err := jsonparser.Get(data, k); err != nil {
			continue
		}

		var err error
		switch initVal.(type) {
		case uint8:
			var val int64
			val, err = jsonparser.GetInt(data, k)
			if err != nil {
				// "0x70" style strings
				var valString string
				valString, err = jsonparser.GetString(data, k)
				if err == nil {
					val, err = strconv.ParseInt(valString, 0, 64)
				}
			}
			if err == nil && (val < 0 || val > 0xff) {
				err = fmt.Errorf("%s: %d is out of range for a byte", k, val)
			}
			if err == nil {
				s.settings[k] = byte(val)
			}
		case int:
			var val int64
			val, err = jsonparser.GetInt(data, k)
			if err == nil {
				s.settings[k] = int(val)
			}
		case bool:
			var bVal bool
			bVal, err = jsonparser.GetBoolean(data, k)
			if err != nil {
				// try "true" and "false"
				str, _ := jsonparser.GetString(data, k)
				switch strings.ToLower(str) {
				case "true":
					bVal, err = true, nil
				case "false":
					bVal, err = false, nil
				}
			}
			if err == nil {
				s.settings[k] = bVal
			}
		case time.Duration:
			var dur string
			dur, err = jsonparser.GetString(data, k)
			if err == nil {
				var dur2 time.Duration
				dur2, err = time.ParseDuration(dur)
				if err == nil {
					s.settings[k] = dur2
				}
			}
		case string:
			s.settings[k], err = jsonparser.GetString(data, k)
		default:
			err = fmt.Errorf("Bad type: %T", initVal)
		}
		if err != nil {
			return fmt.Errorf("%s: %v", k, err)
		}
	}
	return nil
}

// validate rejects settings the countdown cannot run with
func (s *configSettings) validate() error {
	start := s.GetInt(sStart)
	switch s.GetString(sRender) {
	case renderMinutesSeconds:
		if start < 1 || start > maxStartMinutesSeconds {
			return fmt.Errorf("%s: %d is outside 1..%d for %s", sStart, start, maxStartMinutesSeconds, renderMinutesSeconds)
		}
	case renderRoundedMinutes:
		if start < 1 || start > maxStartRoundedMinutes {
			return fmt.Errorf("%s: %d is outside 1..%d for %s", sStart, start, maxStartRoundedMinutes, renderRoundedMinutes)
		}
	default:
		return fmt.Errorf("%s: unknown policy %q", sRender, s.GetString(sRender))
	}

	if s.GetDuration(sTickTime) <= 0 {
		return fmt.Errorf("%s must be positive", sTickTime)
	}
	if s.GetDuration(sPollTime) < 0 {
		return fmt.Errorf("%s must not be negative", sPollTime)
	}

	switch s.GetString(sDisplayMode) {
	case displayHT16K33:
		opts := alphanum4.Opts{I2CAddr: s.GetByte(sI2CDev)}
		if _, err := opts.Addr(); err != nil {
			return err
		}
	case displayLog:
	default:
		return fmt.Errorf("%s: unknown mode %q", sDisplayMode, s.GetString(sDisplayMode))
	}

	switch s.GetString(sButtonMode) {
	case buttonGPIO, buttonNone:
	case buttonKeyboard:
		if len(s.GetString(sButtonKey)) != 1 {
			return fmt.Errorf("%s must be a single character", sButtonKey)
		}
	default:
		return fmt.Errorf("%s: unknown mode %q", sButtonMode, s.GetString(sButtonMode))
	}

	if _, err := log.ParseLevel(s.GetString(sLogLevel)); err != nil {
		return err
	}
	return nil
}

func loadSettings(configFile string) (configSettings, error) {
	s := defaultSettings()

	if configFile != "" {
		data, err := ioutil.ReadFile(configFile)
		if err != nil {
			return s, initFailure(err, "could not load conf file '%s'", configFile)
		}
		// json parse it
		if err := s.settingsFromJSON(data); err != nil {
			return s, initFailure(err, "bad settings in '%s'", configFile)
		}
	}

	if err := s.validate(); err != nil {
		return s, initFailure(err, "invalid settings")
	}
	return s, nil
}

func (s *configSettings) GetString(key string) string {
	switch v := s.settings[key].(type) {
	case string:
		return v
	default:
		return ""
	}
}

func (s *configSettings) GetBool(key string) bool {
	switch v := s.settings[key].(type) {
	case bool:
		return v
	default:
		return false
	}
}

func (s *configSettings) GetDuration(key string) time.Duration {
	switch v := s.settings[key].(type) {
	case time.Duration:
		return v
	default:
		return -1
	}
}

func (s *configSettings) GetByte(key string) byte {
	switch v := s.settings[key].(type) {
	case byte:
		return v
	case int: // cast to byte
		return byte(v)
	default:
		return 0
	}
}

func (s *configSettings) GetInt(key string) int {
	switch v := s.settings[key].(type) {
	case int:
		return v
	case byte:
		return int(v)
	default:
		return 0
	}
}

func (s *configSettings) Dump(logger log.FieldLogger) {
	keys := make([]string, 0, len(s.settings))
	for k := range s.settings {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		v := s.settings[k]
		if k == sStatusSecret && v != "" {
			v = "********"
		}
		logger.Infof("%s : %T: %v", k, v, v)
	}
}
