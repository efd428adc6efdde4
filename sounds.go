//go:build !noaudio
// +build !noaudio

package main

import (
	"bytes"
	"encoding/binary"
	"math"
	"strconv"
	"time"

	"github.com/bobertlo/go-mpg123/mpg123"
	"github.com/gordonklaus/portaudio"
	log "github.com/sirupsen/logrus"
)

func init() {
	features = append(features, "audio")
}

const sampleRate = 44100

// two ways to make noise:
//   playIt: a series of frequencies/durations in a repeating pattern
//   playMP3: an MP3 file on repeat
// both run until something is sent on stop

type soundSegment struct {
	frequencies []float64
	duration    time.Duration
	level       float64
	rampDown    time.Duration
}

// this is runtime info for generating the waves
type wave struct {
	step, phase float64
}

// a single segment of sounds, volume, and step information
type playSegment struct {
	steps    int64   // total steps
	level    float64 // volume multiplier
	waves    []wave  // runtime info on the sound
	rampDown int64   // # of steps below which we fade the level
}

type playbackPattern struct {
	*portaudio.Stream
	segments         []playSegment
	curSegment       int
	segmentRemaining int64
}

type realSounds struct {
}

func newSounds() sounds {
	return &realSounds{}
}

// call this as 'go playPattern()'
func playPattern(pattern []soundSegment, stop chan bool) {
	if err := portaudio.Initialize(); err != nil {
		log.Println(err.Error())
		return
	}
	defer portaudio.Terminate()

	s, err := newPlaySegments(pattern)
	if err != nil {
		log.Println(err.Error())
		return
	}
	defer s.Close()
	if err := s.Start(); err != nil {
		log.Println(err.Error())
		return
	}

	// block on the stop
	<-stop
	s.Stop()
}

func newPlaySegments(pattern []soundSegment) (*playbackPattern, error) {
	// turn pattern into an array of playSegment, stored in a playbackPattern
	var pb playbackPattern
	pb.curSegment = -1

	pb.segments = make([]playSegment, len(pattern))
	for i := range pattern {
		pb.segments[i].waves = make([]wave, len(pattern[i].frequencies))
		pb.segments[i].level = pattern[i].level
		pb.segments[i].steps = int64(pattern[i].duration * time.Duration(sampleRate) / time.Second)
		pb.segments[i].rampDown = int64(pattern[i].rampDown * time.Duration(sampleRate) / time.Second)
		for w := range pattern[i].frequencies {
			pb.segments[i].waves[w].step = pattern[i].frequencies[w] / sampleRate
		}
	}

	var err error
	pb.Stream, err = portaudio.OpenDefaultStream(0, 2, sampleRate, 0, pb.processAudio)
	if err != nil {
		return nil, err
	}
	return &pb, nil
}

func (g *playbackPattern) segmentInit(seg *playSegment) {
	g.segmentRemaining = seg.steps
	for i := range seg.waves {
		seg.waves[i].phase = 0
	}
}

func (g *playbackPattern) processAudio(out [][]float32) {
	for i := range out[0] {
		// start the next segment?
		if g.segmentRemaining <= 0 {
			g.curSegment = (g.curSegment + 1) % len(g.segments)
			g.segmentInit(&g.segments[g.curSegment])
		}
		curSeg := &g.segments[g.curSegment]
		g.segmentRemaining--

		// ramp down from normal level to 0 near the end of the segment
		level := curSeg.level
		if curSeg.rampDown > 0 && g.segmentRemaining < curSeg.rampDown {
			level = level * float64(g.segmentRemaining) / float64(curSeg.rampDown)
		}
		var val float32
		for w := range curSeg.waves {
			val += float32(math.Sin(2*math.Pi*curSeg.waves[w].phase) * level)
			_, curSeg.waves[w].phase = math.Modf(curSeg.waves[w].phase + curSeg.waves[w].step)
		}

		// average out the signal (if any)
		if len(curSeg.waves) > 0 {
			val = val / float32(len(curSeg.waves))
		}

		out[0][i] = val // L
		out[1][i] = val // R
	}
}

// toneSegments alternates sound and silence over timing, every segment
// plays all of sfreqs
func toneSegments(sfreqs []string, timing []string) []soundSegment {
	freqs := make([]float64, 0, len(sfreqs))
	for i := range sfreqs {
		f, e := strconv.ParseFloat(sfreqs[i], 64)
		if e != nil {
			continue
		}
		freqs = append(freqs, f)
	}

	timings := make([]time.Duration, 0, len(timing))
	for i := range timing {
		d, e := time.ParseDuration(timing[i])
		if e != nil {
			continue
		}
		timings = append(timings, d)
	}

	segs := make([]soundSegment, len(timings))
	for i := 0; i < len(segs); i++ {
		segs[i].level = float64((i + 1) % 2)
		segs[i].duration = timings[i]
		segs[i].frequencies = freqs
		segs[i].rampDown = 20 * time.Millisecond
	}
	return segs
}

func (rs *realSounds) playIt(rt runtimeConfig, sfreqs []string, timing []string, stop chan bool) {
	segs := toneSegments(sfreqs, timing)
	if len(segs) == 0 {
		rt.logger.Println("no tones to play")
		return
	}
	go playPattern(segs, stop)
}

func getDecoder(fname string) (*mpg123.Decoder, error) {
	decoder, err := mpg123.NewDecoder("")
	if err != nil {
		return nil, err
	}

	if err = decoder.Open(fname); err != nil {
		decoder.Delete()
		return nil, err
	}

	// get audio format information
	rate, channels, _ := decoder.GetFormat()

	// make sure output format does not change
	decoder.FormatNone()
	decoder.Format(rate, channels, mpg123.ENC_SIGNED_16)

	return decoder, nil
}

// playMP3Once streams fName until it ends or stop fires, it reports
// whether it was stopped
func playMP3Once(fName string, stop chan bool) (bool, error) {
	decoder, err := getDecoder(fName)
	if err != nil {
		return false, err
	}
	defer decoder.Delete()
	defer decoder.Close()

	rate, channels, _ := decoder.GetFormat()
	out := make([]int16, 8192)
	stream, err := portaudio.OpenDefaultStream(0, channels, float64(rate), len(out), &out)
	if err != nil {
		return false, err
	}
	defer stream.Close()

	if err := stream.Start(); err != nil {
		return false, err
	}
	defer stream.Stop()

	audio := make([]byte, 2*len(out))
	for {
		select {
		case <-stop:
			return true, nil
		default:
		}
		n, err := decoder.Read(audio)
		if err == mpg123.EOF {
			return false, nil
		}
		if err != nil {
			return false, err
		}
		// zero the tail of a short read
		for i := n; i < len(audio); i++ {
			audio[i] = 0
		}
		if err := binary.Read(bytes.NewBuffer(audio), binary.LittleEndian, out); err != nil {
			return false, err
		}
		if err := stream.Write(); err != nil {
			return false, err
		}
	}
}

func (rs *realSounds) playMP3(rt runtimeConfig, fName string, stop chan bool) {
	go func() {
		if err := portaudio.Initialize(); err != nil {
			rt.logger.Println(err.Error())
			return
		}
		defer portaudio.Terminate()

		// replay until stopped, within reason
		replayMax := 5
		for ; replayMax >= 0; replayMax-- {
			stopped, err := playMP3Once(fName, stop)
			if err != nil {
				rt.logger.Printf("playing %s: %v", fName, err)
				return
			}
			if stopped {
				rt.logger.Println("Stopping playback")
				return
			}
			rt.logger.Println("Replay")
		}
	}()
}
