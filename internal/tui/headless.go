package tui

import (
	"github.com/llehouerou/notifyd/internal/engine"
	"github.com/llehouerou/notifyd/internal/logging"
	"github.com/llehouerou/notifyd/internal/note"
)

// Headless returns callbacks that log notes instead of drawing them, for
// running the daemon without a terminal.
func Headless(log *logging.Logger) engine.Callbacks {
	log = logging.Component(log, "presenter")
	return engine.CallbackFuncs{
		OnNotify: func(n *note.Note) {
			log.Info().
				Uint64("id", uint64(n.ID)).
				Str("app", n.AppName).
				Str("summary", n.Summary).
				Str("urgency", n.Urgency.String()).
				Log("notification shown")
		},
		OnReplace: func(n *note.Note) {
			log.Info().
				Uint64("id", uint64(n.ID)).
				Str("summary", n.Summary).
				Log("notification replaced")
		},
		OnClose: func(n *note.Note) {
			log.Debug().Uint64("id", uint64(n.ID)).Log("notification hidden")
		},
	}
}
