// Package udp implements component K of SPEC_FULL.md: a minimal UDP
// transport — a mutex-serialized sender and a background-goroutine
// receiver — used by the cluon-LCMtoJSON and cluon-UDPReceiver commands.
package udp

import (
	"fmt"
	"net"
	"sync"
	"time"

	"golang.org/x/net/ipv4"
)

// Sender wraps a connected UDP socket. Send is safe for concurrent use.
type Sender struct {
	mu   sync.Mutex
	conn *net.UDPConn
}

// NewSender resolves address once and connects a UDP socket to it.
func NewSender(address string) (*Sender, error) {
	addr, err := net.ResolveUDPAddr("udp", address)
	if err != nil {
		return nil, fmt.Errorf("udp: resolving sender address %q: %w", address, err)
	}
	conn, err := net.DialUDP("udp", nil, addr)
	if err != nil {
		return nil, fmt.Errorf("udp: dialing %q: %w", address, err)
	}
	return &Sender{conn: conn}, nil
}

// Send writes one datagram. Concurrent calls are serialized; no
// fragmentation handling is done beyond what the OS provides.
func (s *Sender) Send(data []byte) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.conn.Write(data)
}

// Close closes the underlying socket.
func (s *Sender) Close() error {
	return s.conn.Close()
}

// Callback is invoked synchronously, in receive order, on the Receiver's
// background goroutine for every datagram.
type Callback func(data []byte, from string, ts time.Time)

// Receiver binds a UDP socket and delivers every datagram to callback on
// one background goroutine.
type Receiver struct {
	conn     *net.UDPConn
	callback Callback
	wg       sync.WaitGroup
}

// NewReceiver binds address and starts the receive loop.
func NewReceiver(address string, callback Callback) (*Receiver, error) {
	addr, err := net.ResolveUDPAddr("udp", address)
	if err != nil {
		return nil, fmt.Errorf("udp: resolving receiver address %q: %w", address, err)
	}
	conn, err := net.ListenUDP("udp", addr)
	if err != nil {
		return nil, fmt.Errorf("udp: listening on %q: %w", address, err)
	}
	r := &Receiver{conn: conn, callback: callback}
	r.wg.Add(1)
	go r.loop()
	return r, nil
}

func (r *Receiver) loop() {
	defer r.wg.Done()
	buf := make([]byte, 64*1024)
	for {
		n, from, err := r.conn.ReadFromUDP(buf)
		if err != nil {
			return
		}
		ts := time.Now()
		data := make([]byte, n)
		copy(data, buf[:n])
		r.callback(data, from.String(), ts)
	}
}

// Close closes the socket, unblocking the pending read, and joins the
// receive goroutine.
func (r *Receiver) Close() error {
	err := r.conn.Close()
	r.wg.Wait()
	return err
}

// JoinMulticast joins the socket's group on every available IPv4
// interface, using golang.org/x/net/ipv4 for the socket options
// SPEC_FULL.md §4.K calls for. The multicast TTL is set on the sending
// side, by Sender.SetMulticastTTL.
func (r *Receiver) JoinMulticast(group net.IP) error {
	pc := ipv4.NewPacketConn(r.conn)
	ifaces, err := net.Interfaces()
	if err != nil {
		return fmt.Errorf("udp: listing interfaces: %w", err)
	}
	joined := false
	for i := range ifaces {
		if err := pc.JoinGroup(&ifaces[i], &net.UDPAddr{IP: group}); err == nil {
			joined = true
		}
	}
	if !joined {
		return fmt.Errorf("udp: failed to join multicast group %s on any interface", group)
	}
	return nil
}

// SetMulticastTTL sets the outgoing multicast TTL on a sender's socket.
func (s *Sender) SetMulticastTTL(ttl int) error {
	pc := ipv4.NewPacketConn(s.conn)
	return pc.SetMulticastTTL(ttl)
}
