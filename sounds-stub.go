//go:build noaudio
// +build noaudio

package main

func init() {
	features = append(features, "noaudio")
}

func newSounds() sounds {
	return &noSounds{}
}
