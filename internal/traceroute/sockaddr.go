// SPDX-FileCopyrightText: 2025 Deutsche Telekom IT GmbH
//
// SPDX-License-Identifier: Apache-2.0

package traceroute

import (
	"encoding/binary"
	"net/netip"
	"unsafe"

	"golang.org/x/sys/unix"
)

var (
	_ SockAddr = (*SockAddrInet4)(nil)
	_ SockAddr = (*SockAddrInet6)(nil)
)

// SockAddr is the OS-native socket address of an IPv4 or IPv6 endpoint.
// It is implemented by [SockAddrInet4] and [SockAddrInet6] only.
type SockAddr interface {
	// Family returns the address family, [unix.AF_INET] or [unix.AF_INET6].
	Family() int
	// Addr returns the IP address carried by the socket address.
	Addr() netip.Addr
	// Bytes returns the native fixed-size layout of the socket address.
	Bytes() []byte
	String() string

	// pointer and socklen expose the raw struct to the socket syscalls.
	pointer() unsafe.Pointer
	socklen() uint32
}

// SockAddrInet4 is a sockaddr_in.
type SockAddrInet4 struct {
	raw unix.RawSockaddrInet4
}

// SockAddrInet6 is a sockaddr_in6.
type SockAddrInet6 struct {
	raw unix.RawSockaddrInet6
}

// NewSockAddr converts addr into its native socket address. The port is
// always zero since ICMP has no ports. IPv6 zones are not carried.
// It returns nil if addr is not valid.
func NewSockAddr(addr netip.Addr) SockAddr {
	switch {
	case addr.Is4():
		sa := &SockAddrInet4{}
		sa.raw.Family = unix.AF_INET
		sa.raw.Addr = addr.As4()
		return sa
	case addr.Is6():
		sa := &SockAddrInet6{}
		sa.raw.Family = unix.AF_INET6
		sa.raw.Addr = addr.As16()
		return sa
	default:
		return nil
	}
}

// ParseSockAddr reads a native socket address from b, as filled in by
// recvfrom. The family is read first and decides the layout. It returns
// false if the family is neither AF_INET nor AF_INET6 or b is too short.
func ParseSockAddr(b []byte) (SockAddr, bool) {
	const familyLen = 2
	if len(b) < familyLen {
		return nil, false
	}

	switch binary.NativeEndian.Uint16(b[0:2]) {
	case unix.AF_INET:
		if len(b) < unix.SizeofSockaddrInet4 {
			return nil, false
		}
		sa := &SockAddrInet4{}
		sa.raw.Family = unix.AF_INET
		sa.raw.Port = binary.NativeEndian.Uint16(b[2:4])
		copy(sa.raw.Addr[:], b[4:8])
		copy(sa.raw.Zero[:], b[8:16])
		return sa, true
	case unix.AF_INET6:
		if len(b) < unix.SizeofSockaddrInet6 {
			return nil, false
		}
		sa := &SockAddrInet6{}
		sa.raw.Family = unix.AF_INET6
		sa.raw.Port = binary.NativeEndian.Uint16(b[2:4])
		sa.raw.Flowinfo = binary.NativeEndian.Uint32(b[4:8])
		copy(sa.raw.Addr[:], b[8:24])
		sa.raw.Scope_id = binary.NativeEndian.Uint32(b[24:28])
		return sa, true
	default:
		return nil, false
	}
}

func (a *SockAddrInet4) Family() int { return unix.AF_INET }

func (a *SockAddrInet4) Addr() netip.Addr {
	return netip.AddrFrom4(a.raw.Addr)
}

func (a *SockAddrInet4) Bytes() []byte {
	b := make([]byte, unix.SizeofSockaddrInet4)
	binary.NativeEndian.PutUint16(b[0:2], a.raw.Family)
	binary.NativeEndian.PutUint16(b[2:4], a.raw.Port)
	copy(b[4:8], a.raw.Addr[:])
	copy(b[8:16], a.raw.Zero[:])
	return b
}

func (a *SockAddrInet4) String() string {
	return a.Addr().String()
}

func (a *SockAddrInet4) pointer() unsafe.Pointer { return unsafe.Pointer(&a.raw) }

func (a *SockAddrInet4) socklen() uint32 { return unix.SizeofSockaddrInet4 }

func (a *SockAddrInet6) Family() int { return unix.AF_INET6 }

func (a *SockAddrInet6) Addr() netip.Addr {
	return netip.AddrFrom16(a.raw.Addr)
}

func (a *SockAddrInet6) Bytes() []byte {
	b := make([]byte, unix.SizeofSockaddrInet6)
	binary.NativeEndian.PutUint16(b[0:2], a.raw.Family)
	binary.NativeEndian.PutUint16(b[2:4], a.raw.Port)
	binary.NativeEndian.PutUint32(b[4:8], a.raw.Flowinfo)
	copy(b[8:24], a.raw.Addr[:])
	binary.NativeEndian.PutUint32(b[24:28], a.raw.Scope_id)
	return b
}

func (a *SockAddrInet6) String() string {
	return a.Addr().String()
}

func (a *SockAddrInet6) pointer() unsafe.Pointer { return unsafe.Pointer(&a.raw) }

func (a *SockAddrInet6) socklen() uint32 { return unix.SizeofSockaddrInet6 }
