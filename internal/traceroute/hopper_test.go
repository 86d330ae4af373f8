// SPDX-FileCopyrightText: 2025 Deutsche Telekom IT GmbH
//
// SPDX-License-Identifier: Apache-2.0

package traceroute

import (
	"context"
	"errors"
	"net/netip"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/trace/noop"
	"golang.org/x/sys/unix"
)

// datagram is what a simulated transport hands out on RecvFrom.
type datagram struct {
	raw  []byte
	from SockAddr
	err  error
}

// network simulates the path towards a target.
// routers[i] answers probes with TTL i+1; a zero address stays silent.
// Probes with a TTL beyond the routers reach the target.
type network struct {
	l       layout
	routers []netip.Addr
	target  netip.Addr
	// inject is queued in front of every reply.
	inject []datagram

	ttl   int
	queue []datagram
}

func newNetwork(target string, routers ...string) *network {
	n := &network{target: netip.MustParseAddr(target)}
	n.l = layoutFor(n.target)
	for _, r := range routers {
		if r == "" {
			n.routers = append(n.routers, netip.Addr{})
			continue
		}
		n.routers = append(n.routers, netip.MustParseAddr(r))
	}
	return n
}

func (n *network) transport() *TransportMock {
	return &TransportMock{
		SetTTLFunc: func(ttl int) error {
			n.ttl = ttl
			return nil
		},
		SetTOSFunc:         func(int) error { return nil },
		SetReadTimeoutFunc: func(time.Duration) error { return nil },
		SendToFunc: func(b []byte, _ SockAddr) error {
			n.queue = append(n.queue, n.inject...)
			n.queue = append(n.queue, n.reply(b)...)
			return nil
		},
		RecvFromFunc: func(b []byte) (int, SockAddr, error) {
			if len(n.queue) == 0 {
				return 0, nil, errReadTimeout
			}
			d := n.queue[0]
			n.queue = n.queue[1:]
			if d.err != nil {
				return 0, nil, d.err
			}
			return copy(b, d.raw), d.from, nil
		},
		CloseFunc: func() error { return nil },
	}
}

func (n *network) reply(probe []byte) []datagram {
	if n.ttl <= len(n.routers) {
		router := n.routers[n.ttl-1]
		if !router.IsValid() {
			return nil
		}
		return []datagram{{raw: errorMessage(n.l, n.l.timeExceeded, 0, probe), from: NewSockAddr(router)}}
	}
	return []datagram{{raw: echoReply(n.l, probe), from: NewSockAddr(n.target)}}
}

// errorMessage builds an ICMP error quoting the probe as it is read from a raw socket.
func errorMessage(l layout, typ, code uint8, probe []byte) []byte {
	b := make([]byte, l.minLen())
	if l.ipHeaderLen > 0 {
		b[0] = 0x45
	}
	b[l.ipHeaderLen] = typ
	b[l.ipHeaderLen+1] = code
	copy(b[l.quotedOffset():], probe[:icmpHeaderLen])
	return b
}

// echoReply builds the echo reply to probe as it is read from a raw socket.
func echoReply(l layout, probe []byte) []byte {
	b := make([]byte, l.ipHeaderLen, l.ipHeaderLen+len(probe))
	if l.ipHeaderLen > 0 {
		b[0] = 0x45
	}
	b = append(b, probe...)
	b[l.ipHeaderLen] = l.echoReply
	return b
}

// fakeClock advances by step on every reading.
func fakeClock(step time.Duration) func() time.Time {
	now := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	return func() time.Time {
		now = now.Add(step)
		return now
	}
}

func testHopper(t *testing.T, tr Transport, target string, opts Options) *hopper {
	t.Helper()
	addr := netip.MustParseAddr(target)
	h := newHopper(tr, noop.NewTracerProvider().Tracer("test"), Target{Address: target}, NewSockAddr(addr), 0x1234, opts)
	h.now = fakeClock(time.Millisecond)
	return h
}

func defaultOpts() Options {
	return Options{FirstTTL: 1, MaxTTL: 30, Queries: 3, Wait: 5 * time.Second}
}

func addrs(hops []Hop) []string {
	var s []string
	for _, h := range hops {
		s = append(s, h.String())
	}
	return s
}

func ttlCalls(m *TransportMock) []int {
	var ttls []int
	for _, c := range m.SetTTLCalls() {
		ttls = append(ttls, c.TTL)
	}
	return ttls
}

func TestHopper_run_reachesTarget(t *testing.T) {
	tests := []struct {
		name    string
		target  string
		routers []string
	}{
		{"ipv4", "10.0.0.4", []string{"10.0.0.1", "10.0.0.2", "10.0.0.3"}},
		{"ipv6", "2001:db8::4", []string{"2001:db8::1", "2001:db8::2", "2001:db8::3"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			n := newNetwork(tt.target, tt.routers...)
			tr := n.transport()
			h := testHopper(t, tr, tt.target, defaultOpts())

			hops, err := h.run(t.Context())
			require.NoError(t, err)

			want := []string{
				"1 " + tt.routers[0],
				"2 " + tt.routers[1],
				"3 " + tt.routers[2],
				"4 " + tt.target,
			}
			if diff := cmp.Diff(want, addrs(hops)); diff != "" {
				t.Errorf("hops mismatch (-want +got):\n%s", diff)
			}
			assert.False(t, hops[2].Reached)
			assert.True(t, hops[3].Reached)

			// Three queries per transit hop, then a single one at TTL 4. TTL 5 is never probed.
			assert.Equal(t, []int{1, 1, 1, 2, 2, 2, 3, 3, 3, 4}, ttlCalls(tr))
			assert.Len(t, tr.SendToCalls(), 10)
			for _, c := range tr.SendToCalls() {
				assert.Equal(t, tt.target, c.Dst.Addr().String())
				assert.True(t, validChecksum(c.B))
			}
		})
	}
}

func TestHopper_run_silentHop(t *testing.T) {
	n := newNetwork("10.0.0.4", "10.0.0.1", "", "10.0.0.3")
	tr := n.transport()
	h := testHopper(t, tr, "10.0.0.4", defaultOpts())

	hops, err := h.run(t.Context())
	require.NoError(t, err)

	assert.Equal(t, []string{"1 10.0.0.1", "2 ***", "3 10.0.0.3", "4 10.0.0.4"}, addrs(hops))
	assert.False(t, hops[1].Answered())

	var atTTL2 int
	for _, ttl := range ttlCalls(tr) {
		if ttl == 2 {
			atTTL2++
		}
	}
	assert.Equal(t, 3, atTTL2, "all queries must be spent on the silent hop")
}

func TestHopper_run_maxTTL(t *testing.T) {
	n := newNetwork("10.0.0.9", "10.0.0.1", "10.0.0.2", "10.0.0.3", "10.0.0.4")
	tr := n.transport()
	opts := defaultOpts()
	opts.FirstTTL, opts.MaxTTL, opts.Queries = 2, 3, 1
	h := testHopper(t, tr, "10.0.0.9", opts)

	hops, err := h.run(t.Context())
	require.NoError(t, err)

	assert.Equal(t, []string{"2 10.0.0.2", "3 10.0.0.3"}, addrs(hops))
	assert.Equal(t, []int{2, 3}, ttlCalls(tr))
}

func TestHopper_run_sequenceIsQueryIndex(t *testing.T) {
	n := newNetwork("10.0.0.4", "")
	tr := n.transport()
	opts := defaultOpts()
	opts.MaxTTL, opts.Queries = 1, 4
	h := testHopper(t, tr, "10.0.0.4", opts)

	_, err := h.run(t.Context())
	require.NoError(t, err)

	require.Len(t, tr.SendToCalls(), 4)
	for i, c := range tr.SendToCalls() {
		assert.Equal(t, newRequest(layout4, 0x1234, uint16(i)).Marshal(), c.B) // #nosec G115
	}
}

func TestHopper_run_keepsFirstResponder(t *testing.T) {
	n := newNetwork("10.0.0.4")
	responders := []string{"10.0.0.1", "10.0.0.7", "10.0.0.1"}
	calls := 0

	tr := n.transport()
	tr.SendToFunc = func(b []byte, _ SockAddr) error {
		from := NewSockAddr(netip.MustParseAddr(responders[calls%len(responders)]))
		calls++
		n.queue = append(n.queue, datagram{raw: errorMessage(layout4, 11, 0, b), from: from})
		return nil
	}
	opts := defaultOpts()
	opts.MaxTTL = 1
	h := testHopper(t, tr, "10.0.0.4", opts)

	hops, err := h.run(t.Context())
	require.NoError(t, err)
	assert.Equal(t, []string{"1 10.0.0.1"}, addrs(hops))
	assert.Equal(t, 3, calls, "remaining queries are still sent after a match")
}

func TestHopper_run_skipsUnrelatedDatagrams(t *testing.T) {
	foreign := Request{Type: 8, ID: 0x9999, Seq: 0, Payload: make([]byte, 28)}.Marshal()
	router := NewSockAddr(netip.MustParseAddr("10.0.0.1"))

	tests := []struct {
		name   string
		inject []datagram
	}{
		{"short datagram", []datagram{{raw: make([]byte, 55), from: router}}},
		{"foreign identifier", []datagram{{raw: errorMessage(layout4, 11, 0, foreign), from: router}}},
		{"unknown sender family", []datagram{{raw: make([]byte, 56), from: nil}}},
		{"interrupted read", []datagram{{err: unix.EINTR}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			n := newNetwork("10.0.0.4", "10.0.0.1")
			n.inject = tt.inject
			tr := n.transport()
			opts := defaultOpts()
			opts.Queries = 1
			h := testHopper(t, tr, "10.0.0.4", opts)

			hops, err := h.run(t.Context())
			require.NoError(t, err)
			assert.Equal(t, []string{"1 10.0.0.1", "2 10.0.0.4"}, addrs(hops))
		})
	}
}

func TestHopper_run_skipsOwnEchoRequest(t *testing.T) {
	n := newNetwork("127.0.0.1")
	tr := n.transport()
	tr.SendToFunc = func(b []byte, _ SockAddr) error {
		loopback := NewSockAddr(netip.MustParseAddr("127.0.0.1"))
		own := append(make([]byte, layout4.ipHeaderLen), b...)
		n.queue = append(n.queue,
			datagram{raw: own, from: loopback},
			datagram{raw: echoReply(layout4, b), from: loopback},
		)
		return nil
	}
	h := testHopper(t, tr, "127.0.0.1", defaultOpts())

	hops, err := h.run(t.Context())
	require.NoError(t, err)
	assert.Equal(t, []string{"1 127.0.0.1"}, addrs(hops))
	assert.True(t, hops[0].Reached)
}

func TestHopper_run_otherReplyIsUnanswered(t *testing.T) {
	n := newNetwork("10.0.0.4")
	tr := n.transport()
	tr.SendToFunc = func(b []byte, _ SockAddr) error {
		n.queue = append(n.queue, datagram{
			raw:  errorMessage(layout4, 3, 3, b),
			from: NewSockAddr(netip.MustParseAddr("10.0.0.4")),
		})
		return nil
	}
	opts := defaultOpts()
	opts.MaxTTL = 2
	h := testHopper(t, tr, "10.0.0.4", opts)

	hops, err := h.run(t.Context())
	require.NoError(t, err)
	assert.Equal(t, []string{"1 ***", "2 ***"}, addrs(hops))
	assert.Len(t, tr.SendToCalls(), 6)
}

func TestHopper_await_deadline(t *testing.T) {
	router := NewSockAddr(netip.MustParseAddr("10.0.0.1"))
	foreign := errorMessage(layout4, 11, 0, Request{Type: 8, ID: 1, Seq: 1}.Marshal())

	tr := &TransportMock{
		SetReadTimeoutFunc: func(time.Duration) error { return nil },
		RecvFromFunc: func(b []byte) (int, SockAddr, error) {
			return copy(b, foreign), router, nil
		},
	}
	h := testHopper(t, tr, "10.0.0.4", defaultOpts())
	h.now = fakeClock(time.Second)

	_, ok, err := h.await(newRequest(layout4, 0x1234, 0), h.now().Add(5*time.Second))
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Len(t, tr.RecvFromCalls(), 4)

	var timeouts []time.Duration
	for _, c := range tr.SetReadTimeoutCalls() {
		timeouts = append(timeouts, c.D)
	}
	assert.Equal(t, []time.Duration{4 * time.Second, 3 * time.Second, 2 * time.Second, time.Second}, timeouts)
}

// TestHopper_run_waitBoundsProbe uses a transport that blocks for its read
// timeout. A foreign datagram shortly before the end of the wait window must
// not extend the window by another full wait.
func TestHopper_run_waitBoundsProbe(t *testing.T) {
	router := NewSockAddr(netip.MustParseAddr("10.0.0.1"))
	foreign := errorMessage(layout4, 11, 0, Request{Type: 8, ID: 0x9999, Seq: 0, Payload: make([]byte, 28)}.Marshal())

	now := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	var timeout time.Duration
	var sent time.Time
	reads := 0

	tr := &TransportMock{
		SetTTLFunc: func(int) error { return nil },
		SetTOSFunc: func(int) error { return nil },
		SetReadTimeoutFunc: func(d time.Duration) error {
			timeout = d
			return nil
		},
		SendToFunc: func([]byte, SockAddr) error {
			sent = now
			reads = 0
			return nil
		},
		RecvFromFunc: func(b []byte) (int, SockAddr, error) {
			reads++
			if reads == 1 {
				now = now.Add(900 * time.Millisecond)
				return copy(b, foreign), router, nil
			}
			now = now.Add(timeout)
			return 0, nil, errReadTimeout
		},
		CloseFunc: func() error { return nil },
	}

	opts := defaultOpts()
	opts.FirstTTL, opts.MaxTTL, opts.Queries, opts.Wait = 2, 2, 1, time.Second
	h := testHopper(t, tr, "10.0.0.4", opts)
	h.now = func() time.Time { return now }

	hops, err := h.run(t.Context())
	require.NoError(t, err)
	assert.Equal(t, []string{"2 ***"}, addrs(hops))

	assert.LessOrEqual(t, now.Sub(sent), opts.Wait, "probe blocked beyond its wait window")
	require.Len(t, tr.SetReadTimeoutCalls(), 2)
	assert.Equal(t, time.Second, tr.SetReadTimeoutCalls()[0].D)
	assert.Equal(t, 100*time.Millisecond, tr.SetReadTimeoutCalls()[1].D)
}

// A transit router answering the first query keeps its address on the hop,
// even when a later query at the same TTL is answered by the target.
func TestHopper_run_reachedKeepsFirstResponder(t *testing.T) {
	n := newNetwork("10.0.0.4")
	calls := 0

	tr := n.transport()
	tr.SendToFunc = func(b []byte, _ SockAddr) error {
		calls++
		if calls == 1 {
			n.queue = append(n.queue, datagram{
				raw:  errorMessage(layout4, 11, 0, b),
				from: NewSockAddr(netip.MustParseAddr("10.0.0.1")),
			})
			return nil
		}
		n.queue = append(n.queue, datagram{raw: echoReply(layout4, b), from: NewSockAddr(netip.MustParseAddr("10.0.0.4"))})
		return nil
	}
	h := testHopper(t, tr, "10.0.0.4", defaultOpts())

	hops, err := h.run(t.Context())
	require.NoError(t, err)
	require.Len(t, hops, 1)
	assert.Equal(t, "1 10.0.0.1", hops[0].String())
	assert.True(t, hops[0].Reached)
	assert.Equal(t, 2, calls, "the echo reply ends the hop")
}

func TestHopper_await_zeroLengthIsTimeout(t *testing.T) {
	tr := &TransportMock{
		SetReadTimeoutFunc: func(time.Duration) error { return nil },
		RecvFromFunc:       func([]byte) (int, SockAddr, error) { return 0, nil, nil },
	}
	h := testHopper(t, tr, "10.0.0.4", defaultOpts())

	_, ok, err := h.await(newRequest(layout4, 0x1234, 0), h.now().Add(time.Hour))
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Len(t, tr.RecvFromCalls(), 1)
}

func TestHopper_run_fatalErrors(t *testing.T) {
	boom := errors.New("boom")

	tests := []struct {
		name  string
		patch func(tr *TransportMock)
		want  error
	}{
		{"set ttl", func(tr *TransportMock) { tr.SetTTLFunc = func(int) error { return boom } }, boom},
		{"set tos", func(tr *TransportMock) { tr.SetTOSFunc = func(int) error { return boom } }, boom},
		{"send", func(tr *TransportMock) { tr.SendToFunc = func([]byte, SockAddr) error { return boom } }, boom},
		{"set read timeout", func(tr *TransportMock) { tr.SetReadTimeoutFunc = func(time.Duration) error { return boom } }, boom},
		{"receive", func(tr *TransportMock) {
			tr.RecvFromFunc = func([]byte) (int, SockAddr, error) { return 0, nil, unix.EBADF }
		}, unix.EBADF},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tr := newNetwork("10.0.0.4", "10.0.0.1").transport()
			tt.patch(tr)
			h := testHopper(t, tr, "10.0.0.4", defaultOpts())

			hops, err := h.run(t.Context())
			require.ErrorIs(t, err, tt.want)
			assert.Empty(t, hops)
		})
	}
}

func TestHopper_run_canceled(t *testing.T) {
	tr := newNetwork("10.0.0.4", "10.0.0.1").transport()
	h := testHopper(t, tr, "10.0.0.4", defaultOpts())

	ctx, cancel := context.WithCancel(t.Context())
	cancel()

	hops, err := h.run(ctx)
	require.ErrorIs(t, err, context.Canceled)
	assert.Empty(t, hops)
	assert.Empty(t, tr.SendToCalls())
}
