package main

import (
	"flag"
	"strings"

	"github.com/jonboulle/clockwork"
	log "github.com/sirupsen/logrus"
)

// countdown -config={config file}

// bringUp opens every peripheral once and hands them to the runtime.
func bringUp(rt runtimeConfig) (runtimeConfig, error) {
	settings := rt.settings

	switch settings.GetString(sDisplayMode) {
	case displayLog:
		rt.display = &logDisplay{}
	default:
		rt.display = &ledDisplay{}
	}
	if err := rt.display.OpenDisplay(settings); err != nil {
		return rt, initFailure(err, "display")
	}

	switch settings.GetString(sButtonMode) {
	case buttonKeyboard:
		rt.buttons = &keyButtons{}
	case buttonNone:
		rt.buttons = &noButtons{}
	default:
		rt.buttons = &rpioButtons{}
	}
	if err := rt.buttons.initButtons(settings); err != nil {
		return rt, initFailure(err, "buttons")
	}
	// halting on a fatal error still has to hand the terminal or GPIO back
	log.RegisterExitHandler(rt.buttons.closeButtons)
	if err := rt.buttons.setupButton(settings.GetButtonMap(), rt); err != nil {
		rt.buttons.closeButtons()
		return rt, initFailure(err, "button setup")
	}

	if settings.GetBool(sSound) {
		rt.sounds = newSounds()
	} else {
		rt.sounds = &noSounds{}
	}

	// light the ready LED once everything is up
	rt.led = &logLed{}
	if settings.GetInt(sLEDPin) >= 0 {
		rt.led = &rpioLed{}
	}
	if err := rt.led.init(); err != nil {
		rt.buttons.closeButtons()
		return rt, initFailure(err, "led")
	}
	if pin := settings.GetInt(sLEDPin); pin >= 0 {
		rt.led.on(pin)
	}

	rt.statusService = &httpStatusService{}
	return rt, nil
}

func main() {
	configFile := flag.String("config", "/etc/default/countdown/countdown.conf", "config file path")
	flag.Parse()

	// read config information
	settings, err := loadSettings(*configFile)
	if err != nil {
		log.Fatal(err)
	}

	logFile, err := setupLogging(settings)
	if err != nil {
		log.Fatal(err)
	}
	defer logFile.Close()

	rt := initRuntime(settings, clockwork.NewRealClock())
	rt.logger.Infof("features: %s", strings.Join(features, ", "))
	settings.Dump(rt.logger)

	rt, err = bringUp(rt)
	if err != nil {
		rt.logger.Fatal(err)
	}
	rt.logger.Info("Setup everything")

	if settings.GetString(sStatusAddr) != "" {
		startStatusService(rt)
	}

	// runs forever, or until a peripheral fails
	if err := startCountdown(rt); err != nil {
		rt.logger.Fatal(err)
	}

	wg.Wait()
}
