// buttoncheck watches the countdown button's pin and reports what the
// countdown would make of each level, to settle the wiring polarity
// before setting button_pullup.
package main

import (
	"os"
	"strconv"
	"time"

	log "github.com/sirupsen/logrus"
	"github.com/stianeikeland/go-rpio"
)

func meaning(s rpio.State, pullup bool) string {
	pressed := s == rpio.High
	if pullup {
		pressed = s == rpio.Low
	}
	if pressed {
		return "pressed (STOP / reset)"
	}
	return "released (run)"
}

func main() {
	// BUTTON is the pin number, PULLUP (any value) selects the pull-up
	pinS, pinSE := os.LookupEnv("BUTTON")
	_, pullup := os.LookupEnv("PULLUP")

	if !pinSE {
		log.Fatalf("Must provide a BUTTON in the environment")
	}
	pin, pinE := strconv.ParseInt(pinS, 0, 64)
	if pinE != nil {
		log.Fatalf("%s is not a number", pinS)
	}
	// open the button for read
	err := rpio.Open()
	if err != nil {
		log.Fatal(err.Error())
	}

	rpioPin := rpio.Pin(pin)
	rpioPin.Input() // Input mode
	if pullup {
		rpioPin.PullUp() // GND => button press
	} else {
		rpioPin.PullDown() // +V -> button press
	}

	log.Printf("Watching GPIO %v, pullup %v", pin, pullup)
	last := rpioPin.Read()
	log.Printf("level %v: %s", last, meaning(last, pullup))
	for {
		s := rpioPin.Read()
		if s != last {
			log.Printf("level %v: %s", s, meaning(s, pullup))
			last = s
		}
		time.Sleep(30 * time.Millisecond)
	}
}
