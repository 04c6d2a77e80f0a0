package notify

import "time"

var testTime = time.Date(2025, 1, 10, 9, 0, 0, 0, time.UTC)

const (
	timeout = 2 * time.Second
	tick    = 5 * time.Millisecond
)
