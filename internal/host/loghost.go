package host

import (
	"github.com/rs/zerolog"

	"eventbridge/internal/domain"
)

// LogHost writes every notification to a logger and optionally hands it on
// to a recorder.
type LogHost struct {
	Globals

	log  zerolog.Logger
	next *Recorder
}

// NewLogHost creates a log host. next may be nil.
func NewLogHost(logger zerolog.Logger, next *Recorder) *LogHost {
	g := NewGlobals()
	if next != nil {
		// share identities so sources resolved against either one match
		g = next.Globals
	}
	return &LogHost{
		Globals: g,
		log:     logger.With().Str("component", "loghost").Logger(),
		next:    next,
	}
}

func (h *LogHost) EmitHostNotification(n domain.Notification) {
	h.log.Info().
		Str("notification", n.Name).
		Str("id", n.ID.String()).
		Interface("detail", n.Detail).
		Bool("bubbles", n.Bubbles).
		Bool("cancelable", n.Cancelable).
		Msg("host notification")
	if h.next != nil {
		h.next.EmitHostNotification(n)
	}
}
