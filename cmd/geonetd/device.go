package main

import (
	"net"
	"time"

	"github.com/kurkpitaine/veloce-sub004/geonet"
	"github.com/kurkpitaine/veloce-sub004/iface"
)

// udpDevice is the demo daemon's stand-in for a real 802.11p radio: it
// carries GeoNetworking payloads over UDP broadcast on the local
// network, prefixing each datagram with the sender and intended
// link-layer destination so multiple geonetd processes on one LAN can
// exercise the forwarder without any special hardware.
type udpDevice struct {
	conn *net.UDPConn
	bcast *net.UDPAddr
	self  geonet.HardwareAddr

	rx []iface.RawFrame
}

const addrPrefixLen = 12 // 6 bytes destination MAC + 6 bytes sender MAC

func newUDPDevice(bindAddr, broadcastAddr string, self geonet.HardwareAddr) (*udpDevice, error) {
	laddr, err := net.ResolveUDPAddr("udp4", bindAddr)
	if err != nil {
		return nil, err
	}
	conn, err := net.ListenUDP("udp4", laddr)
	if err != nil {
		return nil, err
	}
	if err := conn.SetReadBuffer(1 << 20); err != nil {
		return nil, err
	}

	baddr, err := net.ResolveUDPAddr("udp4", broadcastAddr)
	if err != nil {
		conn.Close()
		return nil, err
	}
	return &udpDevice{conn: conn, bcast: baddr, self: self}, nil
}

// drain performs one non-blocking read pass, buffering anything the
// socket already has queued. Called once at the top of each poll.
func (d *udpDevice) drain() {
	buf := make([]byte, 2048)
	_ = d.conn.SetReadDeadline(time.Now())
	for {
		n, _, err := d.conn.ReadFromUDP(buf)
		if err != nil {
			return
		}
		if n < addrPrefixLen {
			continue
		}
		var dst, src geonet.HardwareAddr
		copy(dst[:], buf[0:6])
		copy(src[:], buf[6:12])
		if src == d.self {
			continue // our own broadcast looped back
		}
		payload := make([]byte, n-addrPrefixLen)
		copy(payload, buf[addrPrefixLen:n])
		d.rx = append(d.rx, iface.RawFrame{Payload: payload, Sender: src, Destination: dst})
	}
}

func (d *udpDevice) Recv(now time.Time) (iface.RawFrame, bool) {
	d.drain()
	if len(d.rx) == 0 {
		return iface.RawFrame{}, false
	}
	f := d.rx[0]
	d.rx = d.rx[1:]
	return f, true
}

func (d *udpDevice) Send(now time.Time, dst geonet.HardwareAddr, payload []byte, ac geonet.AccessCategory) bool {
	out := make([]byte, 0, addrPrefixLen+len(payload))
	out = append(out, dst[:]...)
	out = append(out, d.self[:]...)
	out = append(out, payload...)
	_, err := d.conn.WriteToUDP(out, d.bcast)
	return err == nil
}
