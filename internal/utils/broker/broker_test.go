package broker

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPublishDeliversToAllSubscribers(t *testing.T) {
	b := NewBroker()
	first := b.Subscribe("alerts")
	second := b.Subscribe("alerts")
	other := b.Subscribe("other")

	assert.Equal(t, 2, b.PublishCount("alerts", "hello"))

	assert.Equal(t, "hello", <-first)
	assert.Equal(t, "hello", <-second)
	assert.Len(t, other, 0)
}

func TestPublishDoesNotBlockOnFullSubscriber(t *testing.T) {
	b := NewBroker()
	ch := b.Subscribe("alerts")

	for i := 0; i < subscriberBuffer+5; i++ {
		b.Publish("alerts", i)
	}

	assert.Len(t, ch, subscriberBuffer)
	assert.Equal(t, 0, <-ch)
}

func TestUnsubscribeClosesChannel(t *testing.T) {
	b := NewBroker()
	ch := b.Subscribe("alerts")
	require.Equal(t, 1, b.Subscribers("alerts"))

	b.Unsubscribe("alerts", ch)

	_, open := <-ch
	assert.False(t, open)
	assert.Equal(t, 0, b.Subscribers("alerts"))
	assert.Equal(t, 0, b.PublishCount("alerts", "ignored"))
}
