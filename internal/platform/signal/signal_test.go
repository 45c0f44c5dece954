package signal

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSignalLookupIsMemoized(t *testing.T) {
	ns := NewNamespace("event")

	first := ns.Signal("ticket-checked-in")
	second := ns.Signal("ticket-checked-in")

	assert.Same(t, first, second)
	assert.NotSame(t, first, ns.Signal("user-logged-in"))
	assert.Equal(t, []string{"ticket-checked-in", "user-logged-in"}, ns.Names())
}

func TestNamespacesDoNotShareSignals(t *testing.T) {
	a := NewNamespace("event")
	b := NewNamespace("event")

	assert.NotSame(t, a.Signal("avatar-updated"), b.Signal("avatar-updated"))
}

func TestPublishWithoutListenersIsNoop(t *testing.T) {
	ns := NewNamespace("event")

	err := ns.Signal("password-updated").Publish(context.Background(), nil, nil)

	require.NoError(t, err)
}

func TestPublishCallsListenersInSubscriptionOrder(t *testing.T) {
	sig := NewNamespace("event").Signal("user-badge-awarded")

	var calls []int
	for i := range 5 {
		sig.Subscribe(func(context.Context, any, any) error {
			calls = append(calls, i)
			return nil
		})
	}

	require.NoError(t, sig.Publish(context.Background(), "sender", "payload"))
	assert.Equal(t, []int{0, 1, 2, 3, 4}, calls)
}

func TestPublishPassesSenderAndPayload(t *testing.T) {
	sig := NewNamespace("event").Signal("match-comment-created")

	var gotSender, gotPayload any
	sig.Subscribe(func(_ context.Context, sender any, payload any) error {
		gotSender, gotPayload = sender, payload
		return nil
	})

	require.NoError(t, sig.Publish(context.Background(), "tourney", 42))
	assert.Equal(t, "tourney", gotSender)
	assert.Equal(t, 42, gotPayload)
}

func TestPublishContinuesAfterListenerFailure(t *testing.T) {
	sig := NewNamespace("event").Signal("ticket-checked-in")
	boom := errors.New("boom")

	var ran []string
	sig.Subscribe(func(context.Context, any, any) error {
		ran = append(ran, "first")
		return boom
	})
	sig.Subscribe(func(context.Context, any, any) error {
		ran = append(ran, "second")
		panic("kaput")
	})
	sig.Subscribe(func(context.Context, any, any) error {
		ran = append(ran, "third")
		return nil
	})

	err := sig.Publish(context.Background(), nil, nil)

	require.Error(t, err)
	assert.ErrorIs(t, err, boom)
	assert.ErrorIs(t, err, ErrListenerPanic)
	assert.Equal(t, []string{"first", "second", "third"}, ran)
}

func TestSubscribeTwiceInvokesTwice(t *testing.T) {
	sig := NewNamespace("event").Signal("user-logged-in")

	count := 0
	listener := func(context.Context, any, any) error {
		count++
		return nil
	}
	sig.Subscribe(listener)
	unsubscribe := sig.Subscribe(listener)

	require.NoError(t, sig.Publish(context.Background(), nil, nil))
	assert.Equal(t, 2, count)

	unsubscribe()
	unsubscribe()
	assert.Equal(t, 1, sig.Len())

	require.NoError(t, sig.Publish(context.Background(), nil, nil))
	assert.Equal(t, 3, count)
}

func TestListenerSubscribedDuringPublishWaitsForNextPublish(t *testing.T) {
	sig := NewNamespace("event").Signal("avatar-updated")

	late := 0
	sig.Subscribe(func(context.Context, any, any) error {
		sig.Subscribe(func(context.Context, any, any) error {
			late++
			return nil
		})
		return nil
	})

	require.NoError(t, sig.Publish(context.Background(), nil, nil))
	assert.Equal(t, 0, late)
}

func TestConnectChecksPayloadType(t *testing.T) {
	sig := NewNamespace("event").Signal("user-badge-awarded")

	var got string
	Connect(sig, func(_ context.Context, _ any, payload string) error {
		got = payload
		return nil
	})

	require.NoError(t, sig.Publish(context.Background(), nil, "badge"))
	assert.Equal(t, "badge", got)

	err := sig.Publish(context.Background(), nil, 7)
	assert.ErrorIs(t, err, ErrPayloadType)
}

func TestEmitSwallowsListenerErrors(t *testing.T) {
	sig := NewNamespace("event").Signal("avatar-updated")

	calls := 0
	sig.Subscribe(func(context.Context, any, any) error {
		calls++
		return errors.New("webhook down")
	})
	sig.Subscribe(func(context.Context, any, any) error {
		calls++
		return nil
	})

	sig.Emit(context.Background(), nil, nil)

	assert.Equal(t, 2, calls)
}
