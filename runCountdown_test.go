package main

import (
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/pkg/errors"
	"gotest.tools/v3/assert"
	is "gotest.tools/v3/assert/cmp"
)

const pollStep = 10 * time.Millisecond

func launchCountdown(rt runtimeConfig) chan error {
	done := make(chan error, 1)
	go func() {
		done <- runCountdown(rt)
	}()
	return done
}

func stopCountdown(t *testing.T, rt runtimeConfig, clock clockwork.FakeClock, done chan error) {
	testQuit(rt)
	clock.Advance(time.Second)
	assert.NilError(t, <-done)
}

func TestRunCountdownToDone(t *testing.T) {
	rt, clock, _ := testRuntime(nil)
	ld := rt.display.(*logDisplay)
	ns := rt.sounds.(*noSounds)

	done := launchCountdown(rt)
	// 10 paced ticks, then DONE
	for i := 0; i < 10; i++ {
		testStep(clock, time.Second)
	}

	assert.DeepEqual(t, ld.audit, []string{
		"[00 9] 0", "[00 8] 0", "[00 7] 0", "[00 6] 0", "[00 5] 0",
		"[00 4] 0", "[00 3] 0", "[00 2] 0", "[00 1] 0", "[00 0] 0",
		"[DONE] 15",
	})
	assert.Equal(t, ld.commits, 11)
	assert.Equal(t, ns.playItCnt, 1)
	assert.DeepEqual(t, ns.playFreqs, []string{"880", "660"})

	// idle at DONE, nothing new to show
	testStep(clock, pollStep)
	testStep(clock, pollStep)
	assert.Equal(t, len(ld.audit), 11)
	assert.Equal(t, ld.commits, 13)
	assert.Equal(t, ns.playItCnt, 1)

	status, ticks := rt.status.read()
	assert.Equal(t, ticks, 13)
	assert.Equal(t, status.State, "DONE_IDLE")
	assert.Equal(t, status.Display, "DONE")
	assert.Equal(t, status.Remaining, 0)

	stopCountdown(t, rt, clock, done)
}

func TestRunCountdownReset(t *testing.T) {
	rt, clock, _ := testRuntime(nil)
	ld := rt.display.(*logDisplay)
	ns := rt.sounds.(*noSounds)
	nb := rt.buttons.(*noButtons)

	done := launchCountdown(rt)
	for i := 0; i < 10; i++ {
		testStep(clock, time.Second)
	}
	assert.Equal(t, ld.Text(), "DONE")
	assert.Assert(t, !ns.stopped())

	nb.press()
	testStep(clock, pollStep)
	assert.Equal(t, ld.audit[len(ld.audit)-1], "[DONE] 0")
	assert.Assert(t, ns.stopped(), "reset stops the alert")

	testStep(clock, pollStep)
	assert.Equal(t, ld.audit[len(ld.audit)-1], "[STOP] 0")
	status, _ := rt.status.read()
	assert.Equal(t, status.State, "HALTED")
	assert.Equal(t, status.Remaining, 10)

	nb.release()
	testStep(clock, pollStep)
	assert.Equal(t, ld.audit[len(ld.audit)-1], "[00 9] 0")

	stopCountdown(t, rt, clock, done)
}

func TestRunCountdownHold(t *testing.T) {
	rt, clock, _ := testRuntime(map[string]interface{}{sStart: 130})
	ld := rt.display.(*logDisplay)
	nb := rt.buttons.(*noButtons)

	done := launchCountdown(rt)
	testStep(clock, time.Second)
	assert.Equal(t, ld.Text(), "0208")

	nb.press()
	for i := 0; i < 5; i++ {
		testStep(clock, time.Second)
	}
	assert.Equal(t, ld.Text(), "STOP")
	status, _ := rt.status.read()
	assert.Equal(t, status.Remaining, 128)

	nb.release()
	testStep(clock, pollStep)
	assert.Equal(t, ld.Text(), "0207")

	stopCountdown(t, rt, clock, done)
}

func TestRunCountdownPullDown(t *testing.T) {
	rt, clock, _ := testRuntime(map[string]interface{}{sButtonPullup: false})
	ld := rt.display.(*logDisplay)
	nb := rt.buttons.(*noButtons)

	done := launchCountdown(rt)
	assert.Equal(t, nb.btn.releasedLevel(), nb.state)

	nb.press()
	testStep(clock, time.Second)
	assert.Equal(t, ld.Text(), "STOP")

	stopCountdown(t, rt, clock, done)
}

func TestRunCountdownRounded(t *testing.T) {
	rt, clock, _ := testRuntime(map[string]interface{}{sStart: 130, sRender: renderRoundedMinutes})
	ld := rt.display.(*logDisplay)

	done := launchCountdown(rt)
	clock.BlockUntil(1)
	assert.Equal(t, ld.Text(), "02  ")
	for i := 0; i < 60; i++ {
		testStep(clock, time.Second)
	}
	// 69 seconds left
	assert.Equal(t, ld.Text(), "01  ")

	stopCountdown(t, rt, clock, done)
}

func TestRunCountdownDoneSound(t *testing.T) {
	rt, clock, _ := testRuntime(map[string]interface{}{sStart: 1, sDoneSound: "/usr/share/countdown/done.mp3"})
	ns := rt.sounds.(*noSounds)

	done := launchCountdown(rt)
	testStep(clock, time.Second)
	assert.Equal(t, ns.playMP3Cnt, 1)
	assert.Equal(t, ns.playItCnt, 0)
	assert.Equal(t, ns.mp3, "/usr/share/countdown/done.mp3")

	stopCountdown(t, rt, clock, done)
	assert.Assert(t, ns.stopped(), "quit stops the alert")
}

func TestRunCountdownSilent(t *testing.T) {
	rt, clock, _ := testRuntime(map[string]interface{}{sStart: 1, sSound: false})
	ns := rt.sounds.(*noSounds)

	done := launchCountdown(rt)
	testStep(clock, time.Second)
	assert.Equal(t, rt.display.Text(), "DONE")
	assert.Equal(t, ns.playItCnt+ns.playMP3Cnt, 0)

	stopCountdown(t, rt, clock, done)
}

func TestRunCountdownButtonFailure(t *testing.T) {
	rt, _, _ := testRuntime(nil)
	rt.buttons.(*noButtons).err = errors.New("gpio gone")

	err := runCountdown(rt)
	assert.Assert(t, isTransportFailure(err))
	assert.Assert(t, is.ErrorContains(err, "gpio gone"))
	assert.Equal(t, rt.display.(*logDisplay).commits, 0)
}

// failingDisplay commits fine a few times, then loses the bus
type failingDisplay struct {
	*logDisplay
	okCommits int
}

func (fd *failingDisplay) Commit() error {
	if fd.commits >= fd.okCommits {
		return errors.New("i2c write: remote I/O error")
	}
	return fd.logDisplay.Commit()
}

func TestRunCountdownDisplayFailure(t *testing.T) {
	rt, clock, _ := testRuntime(nil)
	fd := &failingDisplay{logDisplay: rt.display.(*logDisplay), okCommits: 3}
	rt.display = fd

	done := launchCountdown(rt)
	testStep(clock, time.Second)
	testStep(clock, time.Second)
	clock.BlockUntil(1)
	clock.Advance(time.Second)

	err := <-done
	assert.Assert(t, isTransportFailure(err))
	assert.Assert(t, is.ErrorContains(err, "commit display"))
	assert.DeepEqual(t, fd.audit, []string{"[00 9] 0", "[00 8] 0", "[00 7] 0"})
}

func TestRunCountdownUnknownPolicy(t *testing.T) {
	rt, _, _ := testRuntime(map[string]interface{}{sRender: "hours"})
	err := runCountdown(rt)
	assert.Assert(t, isInitFailure(err))
	assert.Assert(t, is.ErrorContains(err, "hours"))
}

func TestRunCountdownQuit(t *testing.T) {
	rt, _, _ := testRuntime(nil)
	testQuit(rt)
	assert.NilError(t, runCountdown(rt))
	assert.Equal(t, rt.buttons.(*noButtons).reads, 0)
}
