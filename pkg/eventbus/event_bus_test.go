package eventbus_test

import (
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/brandassets/dam/pkg/eventbus"
)

type tenantCreated struct {
	Slug string
}

func TestEventPublisher_PublishMatchesSignature(t *testing.T) {
	t.Parallel()
	bus := eventbus.NewEventPublisher(logrus.New())

	var got []tenantCreated
	bus.Subscribe(func(e tenantCreated) {
		got = append(got, e)
	})
	bus.Subscribe(func(s string) {
		t.Error("string handler must not fire for struct event")
	})

	bus.Publish(tenantCreated{Slug: "acme"})

	require.Len(t, got, 1)
	assert.Equal(t, "acme", got[0].Slug)
}

func TestEventPublisher_UnsubscribeAndClear(t *testing.T) {
	t.Parallel()
	bus := eventbus.NewEventPublisher(logrus.New())

	calls := 0
	handler := func(e tenantCreated) { calls++ }
	bus.Subscribe(handler)
	require.Equal(t, 1, bus.SubscribersCount())

	bus.Unsubscribe(handler)
	bus.Publish(tenantCreated{Slug: "acme"})
	assert.Zero(t, calls)

	bus.Subscribe(handler)
	bus.Clear()
	assert.Zero(t, bus.SubscribersCount())
}

func TestMatchSignature(t *testing.T) {
	t.Parallel()
	assert.True(t, eventbus.MatchSignature(func(tenantCreated) {}, []interface{}{tenantCreated{}}))
	assert.False(t, eventbus.MatchSignature(func(tenantCreated) {}, []interface{}{"not a struct"}))
	assert.False(t, eventbus.MatchSignature("not a func", []interface{}{tenantCreated{}}))
	assert.False(t, eventbus.MatchSignature(func(tenantCreated, string) {}, []interface{}{tenantCreated{}}))
}
