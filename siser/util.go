package siser

import (
	"time"
)

func panicIf(cond bool, msg string) {
	if cond {
		panic(msg)
	}
}

// TimeToUnixMillisecond converts t into Unix epoch time in milliseconds.
// That's because seconds is not enough precision and nanoseconds is too much.
func TimeToUnixMillisecond(t time.Time) int64 {
	return t.UnixMilli()
}

// TimeFromUnixMillisecond returns time from Unix epoch time in milliseconds.
func TimeFromUnixMillisecond(unixMs int64) time.Time {
	return time.UnixMilli(unixMs)
}
