package main

// noSounds only logs; builds without audio use it, and so do the tests
type noSounds struct {
	playFreqs  []string
	playTiming []string
	mp3        string
	playItCnt  int
	playMP3Cnt int
	stop       chan bool
}

func (ns *noSounds) playIt(rt runtimeConfig, sfreqs []string, timing []string, stop chan bool) {
	rt.logger.Println("STUB: playIt")
	ns.playFreqs = sfreqs
	ns.playTiming = timing
	ns.stop = stop
	// pretend we did this
	ns.playItCnt++
}

func (ns *noSounds) playMP3(rt runtimeConfig, fName string, stop chan bool) {
	rt.logger.Println("STUB: playMP3 " + fName)
	ns.mp3 = fName
	ns.stop = stop
	// pretend we did this
	ns.playMP3Cnt++
}

// stopped reports whether the last sound was told to stop
func (ns *noSounds) stopped() bool {
	select {
	case <-ns.stop:
		return true
	default:
		return false
	}
}
