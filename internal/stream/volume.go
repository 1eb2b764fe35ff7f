package stream

import "math"

// silentVolume is the effects.Volume value used for a zero level; with
// base 2 it is 1/1024 of full scale.
const silentVolume = -10

// levelToVolume maps a linear 0.0-1.0 level onto beep's base-2 Volume:
// each halving of the level is one step down from 0.
func levelToVolume(level float64) float64 {
	switch {
	case level <= 0:
		return silentVolume
	case level >= 1:
		return 0
	}
	return max(math.Log2(level), silentVolume)
}
