package listsync

// Level is the severity of a user-visible notification.
type Level int

const (
	LevelSuccess Level = iota
	LevelError
)

func (l Level) String() string {
	if l == LevelError {
		return "error"
	}
	return "success"
}

// Notification is a transient message for the user (a toast).
type Notification struct {
	Level   Level
	Message string
}

// Notifier receives notifications. Implementations must be safe for
// concurrent use; operations may finish on different goroutines.
type Notifier interface {
	Notify(Notification)
}

// NotifierFunc adapts a function to Notifier.
type NotifierFunc func(Notification)

func (f NotifierFunc) Notify(n Notification) { f(n) }

// ChanNotifier delivers notifications on a buffered channel and drops them
// when the buffer is full, so a slow reader never blocks an operation.
type ChanNotifier chan Notification

func NewChanNotifier(size int) ChanNotifier { return make(ChanNotifier, size) }

func (c ChanNotifier) Notify(n Notification) {
	select {
	case c <- n:
	default:
	}
}

type discard struct{}

func (discard) Notify(Notification) {}
