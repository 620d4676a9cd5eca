package events

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestBroadcasterDeliversToSubscribers(t *testing.T) {
	b := NewBroadcaster()
	ch, unsubscribe := b.Subscribe()
	defer unsubscribe()

	b.Publish(BuildChunk, NewChunk("<h1>"))

	select {
	case env := <-ch:
		assert.Equal(t, BuildChunk, env.Name)
		assert.Equal(t, EventChunk, env.Event.Type)
		assert.Equal(t, "<h1>", env.Event.Message)
	case <-time.After(time.Second):
		t.Fatal("no event delivered")
	}
}

func TestBroadcasterDropsWhenSubscriberFull(t *testing.T) {
	b := NewBroadcaster()
	ch, unsubscribe := b.Subscribe()
	defer unsubscribe()

	for i := 0; i < 200; i++ {
		b.Publish(BuildChunk, NewChunk("x"))
	}

	assert.Equal(t, 64, len(ch))
}

func TestUnsubscribeIsIdempotent(t *testing.T) {
	b := NewBroadcaster()
	_, unsubscribe := b.Subscribe()

	unsubscribe()
	unsubscribe()

	b.Publish(BuildDone, NewSuccess("done"))
}

func TestInstallScopesConversationFromContext(t *testing.T) {
	b := NewBroadcaster()
	b.Install()
	defer SetCustomEmitter(nil)
	ch, unsubscribe := b.Subscribe()
	defer unsubscribe()

	ctx := WithConversation(context.Background(), "conv-1")
	Emit(ctx, BuildStatus, NewInfo("generating"))

	env := <-ch
	assert.Equal(t, "conv-1", env.Event.ConversationID)
}
