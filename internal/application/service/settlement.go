package service

import "time"

// NearSettlement reports whether now falls inside the pre-settlement
// window: funding is paid to whoever holds a position at the settlement
// instant, so the hedge is opened only in the last bufferSec seconds of
// the funding interval. The window has to be wide enough for one full
// hedge-construction round trip and no wider.
func NearSettlement(now time.Time, intervalSec, bufferSec int64) bool {
	if intervalSec <= 0 {
		return false
	}
	elapsed := now.Unix() % intervalSec
	remaining := intervalSec - elapsed
	return remaining <= bufferSec
}
