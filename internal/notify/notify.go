// Package notify carries user-facing notices from the pipeline to whatever
// front end presents them.
package notify

import (
	"sync"

	"go.uber.org/zap"
)

// Level is the severity of a notice
type Level string

const (
	LevelInfo    Level = "info"
	LevelWarning Level = "warning"
	LevelError   Level = "error"
)

// Notice is a human-readable message for the user
type Notice struct {
	Level   Level  `json:"level"`
	Title   string `json:"title"`
	Message string `json:"message"`
}

// Notifier receives notices
type Notifier interface {
	Notify(n Notice)
}

// Error builds an error notice
func Error(message string) Notice {
	return Notice{Level: LevelError, Title: "Error", Message: message}
}

// Warning builds a warning notice
func Warning(message string) Notice {
	return Notice{Level: LevelWarning, Title: "Warning", Message: message}
}

// Info builds an informational notice
func Info(message string) Notice {
	return Notice{Level: LevelInfo, Title: "Info", Message: message}
}

// Nop discards every notice
type Nop struct{}

// Notify implements Notifier
func (Nop) Notify(Notice) {}

// LogNotifier writes notices to a zap logger
type LogNotifier struct {
	logger *zap.Logger
}

// NewLogNotifier creates a notifier backed by logger
func NewLogNotifier(logger *zap.Logger) *LogNotifier {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &LogNotifier{logger: logger}
}

// Notify implements Notifier
func (l *LogNotifier) Notify(n Notice) {
	fields := []zap.Field{zap.String("title", n.Title)}
	switch n.Level {
	case LevelError:
		l.logger.Error(n.Message, fields...)
	case LevelWarning:
		l.logger.Warn(n.Message, fields...)
	default:
		l.logger.Info(n.Message, fields...)
	}
}

// Collector keeps every notice it receives (thread-safe)
type Collector struct {
	mu      sync.Mutex
	notices []Notice
}

// NewCollector creates an empty collector
func NewCollector() *Collector {
	return &Collector{notices: make([]Notice, 0)}
}

// Notify implements Notifier
func (c *Collector) Notify(n Notice) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.notices = append(c.notices, n)
}

// Notices returns a copy of the collected notices
func (c *Collector) Notices() []Notice {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]Notice, len(c.notices))
	copy(out, c.notices)
	return out
}

// Drain returns the collected notices and empties the collector
func (c *Collector) Drain() []Notice {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := c.notices
	c.notices = make([]Notice, 0)
	return out
}

// Count returns how many notices of the given level were collected
func (c *Collector) Count(level Level) int {
	c.mu.Lock()
	defer c.mu.Unlock()
	n := 0
	for _, notice := range c.notices {
		if notice.Level == level {
			n++
		}
	}
	return n
}

// Multi fans a notice out to several notifiers
type Multi []Notifier

// Notify implements Notifier
func (m Multi) Notify(n Notice) {
	for _, notifier := range m {
		if notifier != nil {
			notifier.Notify(n)
		}
	}
}
