// Package notify provides typed, per-instance subscription lists.
package notify

// Handle identifies a subscription on a Topic.
type Handle uint64

// Subscriber is the read-only view of a Topic handed to collaborators.
type Subscriber[T any] interface {
	Subscribe(fn func(T)) Handle
	Unsubscribe(h Handle) bool
}

type entry[T any] struct {
	handle Handle
	fn     func(T)
}

// Topic delivers values synchronously to its subscribers in subscription
// order. The zero value is ready to use. A Topic is not safe for
// concurrent use.
//
// Handlers may unsubscribe (themselves or others) while a value is being
// delivered; the change takes effect on the next Publish. Handlers must
// not call back into the publisher's mutating operations.
type Topic[T any] struct {
	last Handle
	subs []entry[T]
}

// Subscribe registers fn and returns a handle for Unsubscribe.
// A nil fn is ignored and yields the zero Handle.
func (t *Topic[T]) Subscribe(fn func(T)) Handle {
	if fn == nil {
		return 0
	}
	t.last++
	t.subs = append(t.subs, entry[T]{handle: t.last, fn: fn})
	return t.last
}

// Unsubscribe removes the subscription. It reports whether h was found.
func (t *Topic[T]) Unsubscribe(h Handle) bool {
	for i, e := range t.subs {
		if e.handle != h {
			continue
		}
		next := make([]entry[T], 0, len(t.subs)-1)
		next = append(next, t.subs[:i]...)
		next = append(next, t.subs[i+1:]...)
		t.subs = next
		return true
	}
	return false
}

// Publish delivers v to every current subscriber.
func (t *Topic[T]) Publish(v T) {
	subs := t.subs
	for _, e := range subs {
		e.fn(v)
	}
}

// Len returns the number of active subscriptions.
func (t *Topic[T]) Len() int {
	return len(t.subs)
}
