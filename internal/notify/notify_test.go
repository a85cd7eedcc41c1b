package notify

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPublishDeliversInSubscriptionOrder(t *testing.T) {
	var topic Topic[int]
	var got []string

	topic.Subscribe(func(v int) { got = append(got, "a") })
	topic.Subscribe(func(v int) { got = append(got, "b") })
	topic.Subscribe(func(v int) { got = append(got, "c") })

	topic.Publish(1)
	assert.Equal(t, []string{"a", "b", "c"}, got)
}

func TestUnsubscribeStopsDelivery(t *testing.T) {
	var topic Topic[string]
	var got []string

	h := topic.Subscribe(func(v string) { got = append(got, "first:"+v) })
	topic.Subscribe(func(v string) { got = append(got, "second:"+v) })

	require.True(t, topic.Unsubscribe(h))
	assert.False(t, topic.Unsubscribe(h), "second unsubscribe should report missing handle")
	assert.Equal(t, 1, topic.Len())

	topic.Publish("x")
	assert.Equal(t, []string{"second:x"}, got)
}

func TestUnsubscribeDuringPublish(t *testing.T) {
	var topic Topic[int]
	calls := 0
	var self Handle
	self = topic.Subscribe(func(int) {
		calls++
		topic.Unsubscribe(self)
	})
	later := 0
	topic.Subscribe(func(int) { later++ })

	topic.Publish(1)
	topic.Publish(2)

	assert.Equal(t, 1, calls)
	assert.Equal(t, 2, later)
}

func TestSubscribeNilIsIgnored(t *testing.T) {
	var topic Topic[struct{}]
	assert.Equal(t, Handle(0), topic.Subscribe(nil))
	assert.Equal(t, 0, topic.Len())
	topic.Publish(struct{}{})
}

func TestTopicsAreIndependent(t *testing.T) {
	var a, b Topic[int]
	var gotA, gotB []int
	a.Subscribe(func(v int) { gotA = append(gotA, v) })
	b.Subscribe(func(v int) { gotB = append(gotB, v) })

	a.Publish(7)

	assert.Equal(t, []int{7}, gotA)
	assert.Empty(t, gotB)
}
