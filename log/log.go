// Package log is a leveled logger for command-line programs.
//
// Messages go to the console (stderr, so that they don't mix with program
// output) and, after Init with Config.Dir, to daily rotated files:
//
//	${Dir}/log-YYYY-MM-DD.txt    all messages, plain text
//	${Dir}/errors-YYYY-MM-DD.txt errors with callstacks, siser records
//	${Dir}/events-YYYY-MM-DD.txt events, toon-encoded siser records
//
// With Config.Server, messages are also sent to a log server.
package log

import (
	"fmt"
	"io"
	"os"
	"runtime"
	"strconv"
	"strings"
	"time"

	"github.com/kjk/booklib/filerotate"
	"github.com/kjk/booklib/siserlogger"
	"github.com/kjk/booklib/u"
	"github.com/toon-format/toon-go"
)

var (
	logFile   *filerotate.File
	errorsLog *siserlogger.File
	eventsLog *siserlogger.File
	logDir    string
	onLog     func(s string)

	// if true, Verbosef() will log messages
	Verbose bool

	// Console is where messages are printed, nil to disable
	Console io.Writer = os.Stderr
)

type Config struct {
	// directory where log files are stored, empty means no log files
	Dir string
	// host[:port] of a log server. empty means don't send logs
	Server string
	// sent as X-Api-Key header to Server
	ApiKey string
	// called for every message, after formatting
	OnLog func(s string)
}

// Init initializes logging to files and to a log server
func Init(config *Config) error {
	Close()
	onLog = config.OnLog
	if config.Dir != "" {
		var err error
		logFile, err = filerotate.NewDaily(config.Dir, "log", nil)
		if err != nil {
			return err
		}
		errorsLog, err = siserlogger.NewDaily(config.Dir, "errors", nil)
		if err != nil {
			return err
		}
		eventsLog, err = siserlogger.NewDaily(config.Dir, "events", nil)
		if err != nil {
			return err
		}
		logDir = config.Dir
	}
	startRemote(config.Server, config.ApiKey)
	return nil
}

// Close flushes and closes log files and stops sending to log server
func Close() {
	stopRemote()
	if logFile != nil {
		_ = logFile.Flush()
		_ = logFile.Close()
		logFile = nil
	}
	_ = errorsLog.Close()
	errorsLog = nil
	_ = eventsLog.Close()
	eventsLog = nil
	logDir = ""
	onLog = nil
}

// Dir returns the log directory set with Init
func Dir() string {
	return logDir
}

func fmtMsg(s string, args []any) string {
	if len(args) > 0 {
		s = fmt.Sprintf(s, args...)
	}
	if !strings.HasSuffix(s, "\n") {
		s += "\n"
	}
	return s
}

func writeMsg(console string, full string) {
	if Console != nil {
		fmt.Fprint(Console, console)
	}
	if logFile != nil {
		_, _ = logFile.Write([]byte(full))
	}
	if onLog != nil {
		onLog(full)
	}
	postToServer("/api/v1/log", []byte(full), mimePlainText)
}

// Logf logs an informational message
func Logf(s string, args ...any) {
	s = fmtMsg(s, args)
	writeMsg(s, s)
}

// Verbosef logs a debug message if Verbose is true
func Verbosef(s string, args ...any) {
	if !Verbose {
		return
	}
	s = "debug: " + fmtMsg(s, args)
	writeMsg(s, s)
}

// Warnf logs a warning
func Warnf(s string, args ...any) {
	s = "warning: " + fmtMsg(s, args)
	writeMsg(s, s)
}

// Errorf logs an error. Log files and log server also get the callstack.
func Errorf(s string, args ...any) {
	logError(1, s, args)
}

// logError logs an error with a callstack starting skip frames
// above the caller of logError
func logError(skip int, s string, args []any) {
	s = "error: " + fmtMsg(s, args)
	full := s + GetCallstack(skip+2) + "\n"
	writeMsg(s, full)
	_ = errorsLog.Write([]byte(full))
	postToServer("/api/v1/error", []byte(full), mimePlainText)
}

// if err != nil, log and return true
// IfErrf(err) => logs err.Error()
// IfErrf(err, "error is: %v", err) => logs message formatted
func IfErrf(err error, a ...any) bool {
	if err == nil {
		return false
	}
	if len(a) == 0 {
		Errorf("%s", err.Error())
		return true
	}
	s, ok := a[0].(string)
	if !ok {
		// shouldn't happen but just in case
		s = fmt.Sprintf("%s", a[0])
	}
	Errorf(s, a[1:]...)
	return true
}

func GetCallstackFrames(skip int) []string {
	var callers [32]uintptr
	n := runtime.Callers(skip+1, callers[:])
	frames := runtime.CallersFrames(callers[:n])
	var cs []string
	for {
		frame, more := frames.Next()
		s := frame.File + ":" + strconv.Itoa(frame.Line)
		cs = append(cs, s)
		if !more {
			break
		}
	}
	return cs
}

func GetCallstack(skip int) string {
	frames := GetCallstackFrames(skip + 1)
	return strings.Join(frames, "\n")
}

func keyToStr(v any) string {
	switch s := v.(type) {
	case string:
		return s
	case fmt.Stringer:
		return s.String()
	}
	return fmt.Sprintf("%v", v)
}

// Event logs event with key / value pairs, toon-encoded
func Event(name string, vals ...any) {
	n := len(vals)
	u.PanicIf(n%2 != 0, "log.Event('%s'): odd number of vals: %d", name, n)
	var d []byte
	if n > 0 {
		m := map[string]any{}
		for i := 0; i < n; i += 2 {
			k := keyToStr(vals[i])
			m[k] = vals[i+1]
		}
		var err error
		d, err = toon.Marshal(m)
		if err != nil {
			Warnf("log.Event('%s'): toon.Marshal() failed with '%s'", name, err)
			return
		}
	}
	Verbosef("event %s %s", name, oneLine(d))
	_ = eventsLog.WriteNamed(name, d)
	postToServer("/api/v1/event", append([]byte(name+"\n"), d...), mimePlainText)
}

// oneLine joins lines of toon-encoded data with ", "
func oneLine(d []byte) string {
	s := strings.TrimSpace(string(d))
	return strings.ReplaceAll(s, "\n", ", ")
}

// EventRecord is an event read back by ReadEvents
type EventRecord struct {
	Name string
	Time time.Time
	// toon-encoded key / value pairs
	Data []byte
}

// Summary returns key / value pairs of the event on one line
func (e *EventRecord) Summary() string {
	return oneLine(e.Data)
}
