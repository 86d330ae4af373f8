// SPDX-FileCopyrightText: 2025 Deutsche Telekom IT GmbH
//
// SPDX-License-Identifier: Apache-2.0

package traceroute

import (
	"encoding/binary"
	"net/netip"

	"golang.org/x/net/ipv4"
	"golang.org/x/net/ipv6"
)

// icmpHeaderLen is the length of an ICMP header:
// type, code, checksum and 4 bytes of type specific data.
const icmpHeaderLen = 8

// layout describes where the fields of interest sit in a datagram
// read from a raw ICMP socket of one address family.
type layout struct {
	// ipHeaderLen is the length of the IP header that precedes the
	// ICMP message in datagrams returned by the raw socket.
	// Linux strips the IPv6 header, but not the IPv4 header.
	ipHeaderLen int
	// quotedHeaderLen is the length of the original IP header quoted
	// by an ICMP error message.
	quotedHeaderLen int

	echoRequest  uint8
	echoReply    uint8
	timeExceeded uint8
}

var (
	layout4 = layout{
		ipHeaderLen:     ipv4.HeaderLen,
		quotedHeaderLen: ipv4.HeaderLen,
		echoRequest:     uint8(ipv4.ICMPTypeEcho),
		echoReply:       uint8(ipv4.ICMPTypeEchoReply),
		timeExceeded:    uint8(ipv4.ICMPTypeTimeExceeded),
	}
	layout6 = layout{
		ipHeaderLen:     0,
		quotedHeaderLen: ipv6.HeaderLen,
		echoRequest:     uint8(ipv6.ICMPTypeEchoRequest),
		echoReply:       uint8(ipv6.ICMPTypeEchoReply),
		timeExceeded:    uint8(ipv6.ICMPTypeTimeExceeded),
	}
)

// layoutFor returns the datagram layout for the family of addr.
func layoutFor(addr netip.Addr) layout {
	if addr.Is4() {
		return layout4
	}
	return layout6
}

// quotedOffset is the offset of the quoted ICMP header of the probe.
func (l layout) quotedOffset() int {
	return l.ipHeaderLen + icmpHeaderLen + l.quotedHeaderLen
}

// minLen is the shortest datagram that still contains the quoted ICMP header.
func (l layout) minLen() int {
	return l.quotedOffset() + icmpHeaderLen
}

// Request is a single ICMP Echo Request probe.
type Request struct {
	Type    uint8
	ID      uint16
	Seq     uint16
	Payload []byte
}

// newRequest creates the probe for the given identifier and sequence.
//
// The payload mirrors the region an ICMP error message quotes: an empty IP
// header followed by a copy of the echo header. An Echo Reply returns the
// payload verbatim, so the identifier and sequence show up at the same
// offsets as in a quoted Time Exceeded message.
func newRequest(l layout, id, seq uint16) Request {
	payload := make([]byte, l.quotedHeaderLen+icmpHeaderLen)
	echo := payload[l.quotedHeaderLen:]
	echo[0] = l.echoRequest
	binary.BigEndian.PutUint16(echo[4:6], id)
	binary.BigEndian.PutUint16(echo[6:8], seq)

	return Request{
		Type:    l.echoRequest,
		ID:      id,
		Seq:     seq,
		Payload: payload,
	}
}

// Marshal encodes the request as an ICMP message with a valid checksum.
func (r Request) Marshal() []byte {
	b := make([]byte, icmpHeaderLen+len(r.Payload))
	b[0] = r.Type
	b[1] = 0
	binary.BigEndian.PutUint16(b[4:6], r.ID)
	binary.BigEndian.PutUint16(b[6:8], r.Seq)
	copy(b[icmpHeaderLen:], r.Payload)

	binary.BigEndian.PutUint16(b[2:4], Checksum(b))
	return b
}

// Response is a parsed ICMP reply to one of our probes.
type Response struct {
	// Source is the address of the host that sent the reply.
	Source netip.Addr
	Type   uint8
	Code   uint8
	// ID and Seq are taken from the quoted probe.
	ID  uint16
	Seq uint16
}

// parseResponse parses a datagram received from src.
// It returns false if src is unknown or raw is too short to contain the
// quoted probe. That is not an error; the datagram carries no information
// for us.
func parseResponse(src SockAddr, raw []byte, l layout) (Response, bool) {
	if src == nil || len(raw) < l.minLen() {
		return Response{}, false
	}

	quoted := raw[l.quotedOffset():]
	return Response{
		Source: src.Addr(),
		Type:   raw[l.ipHeaderLen],
		Code:   raw[l.ipHeaderLen+1],
		ID:     binary.BigEndian.Uint16(quoted[4:6]),
		Seq:    binary.BigEndian.Uint16(quoted[6:8]),
	}, true
}

// matches reports whether the response belongs to req.
func (r Response) matches(req Request) bool {
	return r.ID == req.ID && r.Seq == req.Seq
}

// reply classifies a response.
type reply int

const (
	// replyOther is any message that neither names a hop nor the destination.
	replyOther reply = iota
	// replyTimeExceeded is sent by a router when the probe's TTL ran out.
	replyTimeExceeded
	// replyEcho is sent by the destination itself.
	replyEcho
)

// classify maps the type and code of r onto a reply kind.
func (l layout) classify(r Response) reply {
	switch {
	case r.Type == l.timeExceeded && r.Code == 0:
		return replyTimeExceeded
	case r.Type == l.echoReply && r.Code == 0:
		return replyEcho
	default:
		return replyOther
	}
}
