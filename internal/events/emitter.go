package events

import "context"

var Emit = func(ctx context.Context, name string, evt BuildEvent) {}

func SetCustomEmitter(f func(ctx context.Context, name string, evt BuildEvent)) {
	if f == nil {
		Emit = func(context.Context, string, BuildEvent) {}
		return
	}
	Emit = func(ctx context.Context, name string, evt BuildEvent) {
		if evt.ConversationID == "" {
			if id := ConversationFromContext(ctx); id != "" {
				evt.ConversationID = id
			}
		}
		f(ctx, name, evt)
	}
}
