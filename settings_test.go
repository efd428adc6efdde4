package main

import (
	"strings"
	"testing"
	"time"

	log "github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"gotest.tools/v3/assert"
	is "gotest.tools/v3/assert/cmp"
	"gotest.tools/v3/fs"
)

func TestLoadTestConfig(t *testing.T) {
	assert.Equal(t, testSettings.GetInt(sStart), 10)
	assert.Equal(t, testSettings.GetString(sRender), renderMinutesSeconds)
	assert.Equal(t, testSettings.GetDuration(sTickTime), time.Second)
	assert.Equal(t, testSettings.GetDuration(sPollTime), 10*time.Millisecond)
	assert.Equal(t, testSettings.GetByte(sI2CDev), byte(0x70))
	assert.Equal(t, testSettings.GetInt(sI2CDev), 0x70)
	assert.Equal(t, testSettings.GetInt(sLEDPin), -1)
	// "true" as a string
	assert.Assert(t, testSettings.GetBool(sSound))
	// defaults fill in the rest
	assert.Equal(t, testSettings.GetInt(sI2CKHz), 20)
	assert.Equal(t, testSettings.GetInt(sButtonPin), 25)
	assert.Equal(t, testSettings.GetString(sStatusUser), "countdown")
}

func TestSettingsFromJSON(t *testing.T) {
	s := defaultSettings()
	err := s.settingsFromJSON([]byte(`{
		"start": 1200,
		"render": "rounded-minutes",
		"tickTime": "995ms",
		"i2c_device": 113,
		"button_pullup": "false",
		"status_addr": ":8080",
		"unknown": "ignored"
	}`))
	assert.NilError(t, err)
	assert.NilError(t, s.validate())
	assert.Equal(t, s.GetInt(sStart), 1200)
	assert.Equal(t, s.GetString(sRender), renderRoundedMinutes)
	assert.Equal(t, s.GetDuration(sTickTime), 995*time.Millisecond)
	assert.Equal(t, s.GetByte(sI2CDev), byte(0x71))
	assert.Assert(t, !s.GetBool(sButtonPullup))
	assert.Equal(t, s.GetString(sStatusAddr), ":8080")
	_, found := s.settings["unknown"]
	assert.Assert(t, !found)
}

func TestSettingsBadJSON(t *testing.T) {
	cases := []struct {
		json string
		err  string
	}{
		{`{"tickTime": "soon"}`, "tickTime"},
		{`{"i2c_device": "0x1ff"}`, "out of range"},
		{`{"start": "ten"}`, "start"},
		{`{"button_pullup": "maybe"}`, "button_pullup"},
	}
	for _, c := range cases {
		t.Run(c.json, func(t *testing.T) {
			s := defaultSettings()
			assert.ErrorContains(t, s.settingsFromJSON([]byte(c.json)), c.err)
		})
	}
}

func TestSettingsValidate(t *testing.T) {
	cases := []struct {
		name      string
		overrides map[string]interface{}
		err       string
	}{
		{"zero start", map[string]interface{}{sStart: 0}, "start: 0"},
		{"start too big", map[string]interface{}{sStart: 6000}, "outside 1..5999"},
		{"rounded too big", map[string]interface{}{sStart: 5970, sRender: renderRoundedMinutes}, "outside 1..5969"},
		{"policy", map[string]interface{}{sRender: "hours"}, "unknown policy"},
		{"tick", map[string]interface{}{sTickTime: time.Duration(0)}, "tickTime must be positive"},
		{"poll", map[string]interface{}{sPollTime: -time.Second}, "pollTime"},
		{"address", map[string]interface{}{sDisplayMode: displayHT16K33, sI2CDev: byte(0x20)}, "not supported"},
		{"display", map[string]interface{}{sDisplayMode: "lcd"}, "display_mode"},
		{"button", map[string]interface{}{sButtonMode: "touch"}, "button_mode"},
		{"key", map[string]interface{}{sButtonMode: buttonKeyboard, sButtonKey: "ab"}, "single character"},
		{"level", map[string]interface{}{sLogLevel: "loud"}, "loud"},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			s := testSettingsWith(c.overrides)
			assert.ErrorContains(t, s.validate(), c.err)
		})
	}

	// the edges are fine
	for _, s := range []configSettings{
		testSettingsWith(map[string]interface{}{sStart: 1}),
		testSettingsWith(map[string]interface{}{sStart: maxStartMinutesSeconds}),
		testSettingsWith(map[string]interface{}{sStart: maxStartRoundedMinutes, sRender: renderRoundedMinutes}),
		testSettingsWith(map[string]interface{}{sDisplayMode: displayHT16K33, sI2CDev: byte(0x77)}),
	} {
		assert.NilError(t, s.validate())
	}
}

func TestLoadSettingsFailures(t *testing.T) {
	_, err := loadSettings("./test/missing.conf")
	assert.Assert(t, isInitFailure(err))
	assert.Assert(t, is.ErrorContains(err, "missing.conf"))

	bad := fs.NewFile(t, "countdown", fs.WithContent(`{"start": 9000}`))
	defer bad.Remove()
	_, err = loadSettings(bad.Path())
	assert.Assert(t, isInitFailure(err))
	assert.Assert(t, is.ErrorContains(err, "invalid settings"))

	ok := fs.NewFile(t, "countdown", fs.WithContent(`{"start": 60, "display_mode": "log"}`))
	defer ok.Remove()
	s, err := loadSettings(ok.Path())
	assert.NilError(t, err)
	assert.Equal(t, s.GetInt(sStart), 60)
}

func TestSettingsDumpMasksSecret(t *testing.T) {
	logger, hook := test.NewNullLogger()
	s := testSettingsWith(map[string]interface{}{sStatusSecret: "hunter2"})
	s.Dump(logger)

	assert.Equal(t, len(hook.AllEntries()), len(s.settings))
	for _, e := range hook.AllEntries() {
		assert.Equal(t, e.Level, log.InfoLevel)
		assert.Assert(t, !strings.Contains(e.Message, "hunter2"), e.Message)
	}
}
