package main

import "math"

// renderFunc queues remaining onto the display
type renderFunc func(d display, remaining int) error

var renderPolicies = map[string]renderFunc{
	renderMinutesSeconds: renderMinSec,
	renderRoundedMinutes: renderRoundedMin,
}

func minutesSeconds(remaining int) (int, int) {
	minutes := int(math.Floor(float64(remaining) / 60))
	return minutes, remaining - minutes*60
}

// MM S or MMSS: floored minutes in positions 1-2; seconds under ten
// leave position 3 blank
func renderMinSec(d display, remaining int) error {
	minutes, seconds := minutesSeconds(remaining)
	if err := d.SetNumber(1, float64(minutes), 2, 10); err != nil {
		return err
	}
	if seconds < 10 {
		if err := d.SetChar(3, ' '); err != nil {
			return err
		}
		return d.SetDigit(4, byte(seconds))
	}
	return d.SetNumber(3, float64(seconds), 2, 10)
}

// MM: rounded minutes only
func renderRoundedMin(d display, remaining int) error {
	d.Clear()
	return d.SetNumber(1, math.Round(float64(remaining)/60), 2, 10)
}
