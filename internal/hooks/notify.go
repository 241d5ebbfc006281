package hooks

import (
	"context"
	"time"

	"github.com/chmouel/hookgate/internal/run"
)

const notifyTimeout = 5 * time.Second

// notificationTitles maps host event types to notification titles.
var notificationTitles = map[string]string{
	"permission_prompt": "Permission required",
	"idle_prompt":       "Waiting for input",
	"stop_response":     "Task complete",
}

// notify sends a desktop notification for a host event. It is a silent
// no-op when the notification binary is missing.
func notify(ctx context.Context, env *Env) Decision {
	binary := env.Cfg.Hooks.NotifyCommand
	if binary == "" {
		return Allow
	}
	if _, err := run.LookupPath(binary); err != nil {
		return Allow
	}

	p := env.Payload
	title, ok := notificationTitles[p.Type]
	if !ok {
		title = "Event: " + p.Type
	}
	message := p.Message
	if message == "" {
		message = "The session needs your attention."
	}

	env.Exec.Run(ctx, run.Spec{
		Argv:    []string{binary, "--app-name=hookgate", title, message},
		Timeout: notifyTimeout,
	})
	return Allow
}
