// SPDX-FileCopyrightText: 2025 Deutsche Telekom IT GmbH
//
// SPDX-License-Identifier: Apache-2.0

package traceroute

import (
	"errors"
	"fmt"
	"net/netip"
	"runtime"
	"time"
	"unsafe"

	"golang.org/x/sys/unix"
)

var _ Transport = (*rawSocket)(nil)

// rawSocket is a [Transport] over a raw ICMP or ICMPv6 socket.
// It requires NET_RAW capabilities.
type rawSocket struct {
	fd     int
	family int
}

// newRawSocket opens a raw ICMP socket for the family of dst and binds it
// to the unspecified address.
//
// Returns [errICMPNotAvailable] if the process lacks the privileges to open
// raw sockets.
func newRawSocket(dst netip.Addr) (Transport, error) {
	family, proto, local := unix.AF_INET, unix.IPPROTO_ICMP, netip.IPv4Unspecified()
	if !dst.Is4() {
		family, proto, local = unix.AF_INET6, unix.IPPROTO_ICMPV6, netip.IPv6Unspecified()
	}

	fd, err := unixSocket(family, unix.SOCK_RAW|unix.SOCK_CLOEXEC, proto)
	if err != nil {
		if errors.Is(err, unix.EPERM) || errors.Is(err, unix.EACCES) {
			return nil, fmt.Errorf("%w: %w", errICMPNotAvailable, err)
		}
		return nil, fmt.Errorf("failed to create raw socket: %w", err)
	}

	if err := sysBind(fd, NewSockAddr(local)); err != nil {
		_ = unix.Close(fd)
		return nil, fmt.Errorf("failed to bind raw socket: %w", err)
	}

	return &rawSocket{fd: fd, family: family}, nil
}

// unixSocket is a wrapper around the [unix.Socket] function.
// It allows us to mock the function in tests.
var unixSocket = unix.Socket

// sysBind binds fd to addr.
var sysBind = func(fd int, addr SockAddr) error {
	_, _, errno := unix.Syscall(unix.SYS_BIND, uintptr(fd), uintptr(addr.pointer()), uintptr(addr.socklen()))
	runtime.KeepAlive(addr)
	if errno != 0 {
		return errno
	}
	return nil
}

// sysSendto sends b to addr.
var sysSendto = func(fd int, b []byte, addr SockAddr) error {
	_, _, errno := unix.Syscall6(unix.SYS_SENDTO, uintptr(fd),
		uintptr(unsafe.Pointer(unsafe.SliceData(b))), uintptr(len(b)), 0,
		uintptr(addr.pointer()), uintptr(addr.socklen()))
	runtime.KeepAlive(b)
	runtime.KeepAlive(addr)
	if errno != 0 {
		return errno
	}
	return nil
}

// sysRecvfrom receives one datagram into b.
// It returns the datagram length and the native sender address.
var sysRecvfrom = func(fd int, b []byte) (int, []byte, error) {
	var from unix.RawSockaddrAny
	fromLen := uint32(unix.SizeofSockaddrAny)

	n, _, errno := unix.Syscall6(unix.SYS_RECVFROM, uintptr(fd),
		uintptr(unsafe.Pointer(unsafe.SliceData(b))), uintptr(len(b)), 0,
		uintptr(unsafe.Pointer(&from)), uintptr(unsafe.Pointer(&fromLen)))
	runtime.KeepAlive(b)
	if errno != 0 {
		return 0, nil, errno
	}

	native := unsafe.Slice((*byte)(unsafe.Pointer(&from)), unix.SizeofSockaddrAny)
	return int(n), append([]byte(nil), native[:min(int(fromLen), len(native))]...), nil
}

func (s *rawSocket) SetTTL(ttl int) error {
	var err error
	if s.family == unix.AF_INET {
		err = unix.SetsockoptInt(s.fd, unix.IPPROTO_IP, unix.IP_TTL, ttl)
	} else {
		err = unix.SetsockoptInt(s.fd, unix.IPPROTO_IPV6, unix.IPV6_UNICAST_HOPS, ttl)
	}
	if err != nil {
		return fmt.Errorf("failed to set ttl %d: %w", ttl, err)
	}
	return nil
}

func (s *rawSocket) SetTOS(tos int) error {
	var err error
	if s.family == unix.AF_INET {
		err = unix.SetsockoptInt(s.fd, unix.IPPROTO_IP, unix.IP_TOS, tos)
	} else {
		err = unix.SetsockoptInt(s.fd, unix.IPPROTO_IPV6, unix.IPV6_TCLASS, tos)
	}
	if err != nil {
		return fmt.Errorf("failed to set tos %d: %w", tos, err)
	}
	return nil
}

func (s *rawSocket) SetReadTimeout(d time.Duration) error {
	// A zero SO_RCVTIMEO blocks forever.
	if d <= 0 {
		return fmt.Errorf("invalid read timeout %s", d)
	}
	// Below a microsecond the timeval would be zero.
	d = max(d, time.Microsecond)
	tv := unix.NsecToTimeval(d.Nanoseconds())
	if err := unix.SetsockoptTimeval(s.fd, unix.SOL_SOCKET, unix.SO_RCVTIMEO, &tv); err != nil {
		return fmt.Errorf("failed to set read timeout: %w", err)
	}
	return nil
}

func (s *rawSocket) SendTo(b []byte, dst SockAddr) error {
	if dst == nil || dst.Family() != s.family {
		return fmt.Errorf("cannot send to %v over a socket of family %d", dst, s.family)
	}
	if err := sysSendto(s.fd, b, dst); err != nil {
		return fmt.Errorf("failed to send probe to %s: %w", dst, err)
	}
	return nil
}

func (s *rawSocket) RecvFrom(b []byte) (int, SockAddr, error) {
	n, native, err := sysRecvfrom(s.fd, b)
	if err != nil {
		if errors.Is(err, unix.EAGAIN) || errors.Is(err, unix.EWOULDBLOCK) {
			return 0, nil, errReadTimeout
		}
		return 0, nil, fmt.Errorf("failed to receive from raw socket: %w", err)
	}

	from, ok := ParseSockAddr(native)
	if !ok {
		return n, nil, nil
	}
	return n, from, nil
}

func (s *rawSocket) Close() error {
	return unix.Close(s.fd)
}
