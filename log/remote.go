package log

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/carlmjohnson/requests"
)

type op struct {
	uri  string
	mime string
	d    []byte
}

const (
	// how long to wait before we resume sending logs to the server
	// after a failure. doesn't affect logging to files
	throttleTimeout = time.Second * 15
	sendTimeout     = time.Second * 10
	stopTimeout     = time.Second * 5

	mimePlainText = "text/plain"
)

var (
	remoteServer  string
	throttleUntil time.Time
	ch            chan op
	workerDone    chan struct{}
)

// errorf reports problems with sending logs
// it can't use Logf as that would try to send them again
func errorf(s string, args ...any) {
	if Console == nil {
		return
	}
	fmt.Fprintf(Console, s, args...)
}

func remoteWorker(ch chan op, done chan struct{}, apiKey string) {
	defer close(done)
	for op := range ch {
		if op.uri == "" {
			// please stop
			return
		}
		if time.Now().Before(throttleUntil) {
			continue
		}
		r := requests.
			URL(op.uri).
			BodyBytes(op.d).
			ContentType(op.mime)
		if apiKey != "" {
			r = r.Header("X-Api-Key", apiKey)
		}
		ctx, cancel := context.WithTimeout(context.Background(), sendTimeout)
		err := r.Fetch(ctx)
		cancel()
		if err != nil {
			errorf("log: POST %s failed: %v, will throttle for %s\n", op.uri, err, throttleTimeout)
			throttleUntil = time.Now().Add(throttleTimeout)
		}
	}
}

func startRemote(server string, apiKey string) {
	if server == "" {
		return
	}
	remoteServer = server
	throttleUntil = time.Time{}
	ch = make(chan op, 1000)
	workerDone = make(chan struct{})
	go remoteWorker(ch, workerDone, apiKey)
}

// stopRemote waits until queued logs are sent
func stopRemote() {
	if ch == nil {
		return
	}
	select {
	case ch <- op{}:
		select {
		case <-workerDone:
		case <-time.After(stopTimeout):
			fmt.Fprintf(os.Stderr, "log: timed out sending logs to %s\n", remoteServer)
		}
	default:
		// queue is full, drop pending logs
	}
	remoteServer = ""
	ch = nil
	workerDone = nil
}

func postToServer(uriPath string, d []byte, mime string) {
	if ch == nil {
		return
	}
	uri := "http://" + remoteServer + uriPath
	select {
	case ch <- op{uri: uri, mime: mime, d: d}:
	default:
		errorf("log: POST %s dropped: queue full\n", uri)
	}
}
