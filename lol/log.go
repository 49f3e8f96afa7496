// Package lol (log of location) is a leveled logger that stamps each line with
// the time, a colored level tag and the source location of the call, so a
// failure can be traced back to the line that reported it.
package lol

import (
	"fmt"
	"io"
	"os"
	"runtime"
	"sync"
	"time"

	"github.com/davecgh/go-spew/spew"
	"github.com/fatih/color"
	"go.uber.org/atomic"
)

const (
	Off = iota
	Fatal
	Error
	Warn
	Info
	Debug
	Trace
)

var LevelNames = []string{
	"off",
	"fatal",
	"error",
	"warn",
	"info",
	"debug",
	"trace",
}

type (
	// Ln prints its arguments separated by spaces.
	Ln func(a ...any)
	// F prints like fmt.Printf.
	F func(format string, a ...any)
	// S prints a spew dump of its arguments.
	S func(a ...any)
	// C runs the closure only if the level is enabled, so expensive log text
	// is not built when nobody reads it.
	C func(closure func() string)
	// Chk logs e if it is not nil and reports whether it was.
	Chk func(e error) bool
	// Err builds an error with fmt.Errorf and logs it at the printer's level.
	Err func(format string, a ...any) error

	// LevelPrinter is the set of printers for one level.
	LevelPrinter struct {
		Ln
		F
		S
		C
		Chk
		Err
	}

	// LevelSpec is the number, tag and colorizer of a level.
	LevelSpec struct {
		ID        int
		Name      string
		Colorizer func(a ...any) string
	}
)

// Log is the set of level printers.
type Log struct {
	F, E, W, I, D, T LevelPrinter
}

// Check is the set of error checkers, one per level.
type Check struct {
	F, E, W, I, D, T Chk
}

// Errorf is the set of log-and-return error constructors, one per level.
type Errorf struct {
	F, E, W, I, D, T Err
}

// Logger bundles the three views of one output.
type Logger struct {
	*Log
	*Check
	*Errorf
}

var (
	LevelSpecs = []LevelSpec{
		{Off, "", NoSprint},
		{Fatal, "FTL", color.New(color.BgRed, color.FgHiWhite).Sprint},
		{Error, "ERR", color.New(color.FgHiRed).Sprint},
		{Warn, "WRN", color.New(color.FgHiYellow).Sprint},
		{Info, "INF", color.New(color.FgHiGreen).Sprint},
		{Debug, "DBG", color.New(color.FgHiBlue).Sprint},
		{Trace, "TRC", color.New(color.FgHiMagenta).Sprint},
	}

	// Level is the most verbose level that is printed.
	Level = atomic.NewInt32(Info)

	// NoTimeStamp drops the timestamp prefix, which keeps test output stable.
	NoTimeStamp = atomic.NewBool(false)

	// Main is the process wide logger.
	Main = &Logger{}

	msgCol = color.New(color.FgBlue).Sprint
	out    = &sink{w: os.Stderr}
)

type sink struct {
	sync.Mutex
	w io.Writer
}

func init() {
	Main.Log, Main.Check, Main.Errorf = New()
}

// NoSprint returns an empty string whatever it is given.
func NoSprint(a ...any) string { return "" }

// SetWriter redirects all log output and returns the previous writer.
func SetWriter(w io.Writer) (prev io.Writer) {
	out.Lock()
	defer out.Unlock()
	prev, out.w = out.w, w
	return
}

// SetLoggers sets the level by number.
func SetLoggers(level int) {
	if level < Off || level > Trace {
		level = Info
	}
	Level.Store(int32(level))
	Main.Log.T.F("log level %s", LevelSpecs[level].Colorizer(LevelNames[level]))
}

// GetLogLevel returns the level number of a level name, or Info if the name is
// not known.
func GetLogLevel(level string) (i int) {
	for i = range LevelNames {
		if level == LevelNames[i] {
			return
		}
	}
	return Info
}

// SetLogLevel sets the level by name. Unknown names are ignored.
func SetLogLevel(level string) {
	for i := range LevelNames {
		if level == LevelNames[i] {
			SetLoggers(i)
			return
		}
	}
}

// Enabled reports whether lines at level l are currently printed.
func Enabled(l int) bool { return Level.Load() >= int32(l) }

// JoinStrings formats each item with fmt.Sprint and joins them with spaces.
func JoinStrings(a ...any) (s string) {
	for i := range a {
		s += fmt.Sprint(a[i])
		if i < len(a)-1 {
			s += " "
		}
	}
	return
}

// emit writes one line. Callers pass their own depth so the location points at
// the code that called the printer rather than at this package.
func emit(l int32, text string) {
	out.Lock()
	defer out.Unlock()
	_, _ = fmt.Fprintf(out.w, "%s%s %s %s\n",
		msgCol(TimeStamper()),
		LevelSpecs[l].Colorizer(LevelSpecs[l].Name),
		text,
		msgCol(GetLoc(3)),
	)
}

// GetPrinter returns the printers for level l.
func GetPrinter(l int32) LevelPrinter {
	return LevelPrinter{
		Ln: func(a ...any) {
			if Level.Load() < l {
				return
			}
			emit(l, JoinStrings(a...))
		},
		F: func(format string, a ...any) {
			if Level.Load() < l {
				return
			}
			emit(l, fmt.Sprintf(format, a...))
		},
		S: func(a ...any) {
			if Level.Load() < l {
				return
			}
			emit(l, spew.Sdump(a...))
		},
		C: func(closure func() string) {
			if Level.Load() < l {
				return
			}
			emit(l, closure())
		},
		Chk: func(e error) bool {
			if e == nil {
				return false
			}
			if Level.Load() >= l {
				emit(l, e.Error())
			}
			return true
		},
		Err: func(format string, a ...any) error {
			err := fmt.Errorf(format, a...)
			if Level.Load() >= l {
				emit(l, err.Error())
			}
			return err
		},
	}
}

// GetNullPrinter returns printers that never print. Chk and Err still behave
// as checks and constructors.
func GetNullPrinter() LevelPrinter {
	return LevelPrinter{
		Ln:  func(a ...any) {},
		F:   func(format string, a ...any) {},
		S:   func(a ...any) {},
		C:   func(closure func() string) {},
		Chk: func(e error) bool { return e != nil },
		Err: func(format string, a ...any) error { return fmt.Errorf(format, a...) },
	}
}

// New creates the three views of a logger over the shared output.
func New() (l *Log, c *Check, errorf *Errorf) {
	l = &Log{
		T: GetPrinter(Trace),
		D: GetPrinter(Debug),
		I: GetPrinter(Info),
		W: GetPrinter(Warn),
		E: GetPrinter(Error),
		F: GetPrinter(Fatal),
	}
	c = &Check{F: l.F.Chk, E: l.E.Chk, W: l.W.Chk, I: l.I.Chk, D: l.D.Chk, T: l.T.Chk}
	errorf = &Errorf{F: l.F.Err, E: l.E.Err, W: l.W.Err, I: l.I.Err, D: l.D.Err, T: l.T.Err}
	return
}

// TimeStamper returns the line prefix timestamp, or nothing if NoTimeStamp is
// set.
func TimeStamper() (s string) {
	if NoTimeStamp.Load() {
		return
	}
	return time.Now().Format("2006-01-02T15:04:05Z07:00.000 ")
}

// GetLoc returns file:line of the caller skip frames up.
func GetLoc(skip int) (output string) {
	_, file, line, _ := runtime.Caller(skip)
	return fmt.Sprintf("%s:%d", file, line)
}
