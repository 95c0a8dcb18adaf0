package testutil

import (
	"fmt"
	"sync"
)

// Recorder is a metrics.Recorder counting events by name.
type Recorder struct {
	mu     sync.Mutex
	counts map[string]int
}

// NewRecorder returns an empty Recorder.
func NewRecorder() *Recorder {
	return &Recorder{counts: map[string]int{}}
}

func (r *Recorder) inc(name string) { r.add(name, 1) }

func (r *Recorder) add(name string, n int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.counts[name] += n
}

// Count returns how often the named event was recorded.
func (r *Recorder) Count(name string) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.counts[name]
}

func (r *Recorder) ConversationCreated()        { r.inc("created") }
func (r *Recorder) ConversationEvicted()        { r.inc("evicted") }
func (r *Recorder) ConversationRemoved()        { r.inc("removed") }
func (r *Recorder) ConversationsReleased(n int) { r.add("released", n) }
func (r *Recorder) AttributeStored()            { r.inc("stored") }
func (r *Recorder) AttributeCleaned()           { r.inc("cleaned") }
func (r *Recorder) SessionOpened()              { r.inc("session_opened") }
func (r *Recorder) SessionClosed()              { r.inc("session_closed") }

// Entry is one captured log call.
type Entry struct {
	Level string
	Msg   string
	Args  []any
}

// Arg returns the value following key in the entry's key/value pairs.
func (e Entry) Arg(key string) (any, bool) {
	for i := 0; i+1 < len(e.Args); i += 2 {
		if fmt.Sprint(e.Args[i]) == key {
			return e.Args[i+1], true
		}
	}
	return nil, false
}

// Logger is a logging.Logger capturing every call.
type Logger struct {
	mu      sync.Mutex
	entries []Entry
}

func (l *Logger) add(level, msg string, args []any) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.entries = append(l.entries, Entry{Level: level, Msg: msg, Args: args})
}

func (l *Logger) Debug(msg string, args ...any) { l.add("debug", msg, args) }
func (l *Logger) Info(msg string, args ...any)  { l.add("info", msg, args) }
func (l *Logger) Warn(msg string, args ...any)  { l.add("warn", msg, args) }
func (l *Logger) Error(msg string, args ...any) { l.add("error", msg, args) }

// Messages returns the captured entries with the given message.
func (l *Logger) Messages(msg string) []Entry {
	l.mu.Lock()
	defer l.mu.Unlock()
	var out []Entry
	for _, e := range l.entries {
		if e.Msg == msg {
			out = append(out, e)
		}
	}
	return out
}
