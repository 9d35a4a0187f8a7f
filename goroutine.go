package digo

import (
	"runtime"
	"strconv"
	"strings"
)

// goid returns the current goroutine ID.
// Resolution chains are tracked per goroutine to detect re-entrant resolution of a type.
func goid() int64 {
	var buf [64]byte
	n := runtime.Stack(buf[:], false)
	fields := strings.Fields(strings.TrimPrefix(string(buf[:n]), "goroutine "))
	if len(fields) == 0 {
		return -1
	}
	id, err := strconv.ParseInt(fields[0], 10, 64)
	if err != nil {
		return -1
	}
	return id
}
