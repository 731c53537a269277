package dblock

import (
	"net"
	"time"
)

const lockAddr = "127.0.0.1:45891"

// Acquire serializes test packages that share the same database by holding a
// local TCP port as a cross-process lock.
func Acquire() func() {
	for {
		ln, err := net.Listen("tcp", lockAddr)
		if err == nil {
			return func() { ln.Close() }
		}
		time.Sleep(50 * time.Millisecond)
	}
}
