package probe

import (
	"context"
	"fmt"
	"net"
	"os"
	"sync/atomic"
	"time"

	"golang.org/x/net/icmp"
	"golang.org/x/net/ipv4"
	"golang.org/x/net/ipv6"
)

const echoData = "netwatch"

// ICMPProber sends ICMP echo requests using raw sockets.
type ICMPProber struct {
	id  int
	seq uint32
}

// NewICMPProber initializes a prober with a process-scoped identifier.
func NewICMPProber() *ICMPProber {
	return &ICMPProber{id: os.Getpid() & 0xffff}
}

// Probe sends one echo request and waits for the matching reply.
func (p *ICMPProber) Probe(ctx context.Context, host string, timeout time.Duration) Sample {
	if err := ctx.Err(); err != nil {
		return Sample{Err: err}
	}

	dst, ip, err := resolveIP(host)
	if err != nil {
		return Sample{Err: err}
	}

	network, protocol, requestType, replyType := icmpSettings(ip)
	conn, err := icmp.ListenPacket(network, "")
	if err != nil {
		return Sample{Err: err}
	}
	defer conn.Close()

	seq := int(atomic.AddUint32(&p.seq, 1))
	msg := icmp.Message{
		Type: requestType,
		Code: 0,
		Body: &icmp.Echo{
			ID:   p.id,
			Seq:  seq,
			Data: []byte(echoData),
		},
	}

	payload, err := msg.Marshal(nil)
	if err != nil {
		return Sample{Err: err}
	}

	if err := conn.SetDeadline(effectiveDeadline(ctx, timeout)); err != nil {
		return Sample{Err: err}
	}

	start := time.Now()
	if _, err := conn.WriteTo(payload, dst); err != nil {
		return Sample{Err: err}
	}

	buf := make([]byte, 1500)
	for {
		if err := ctx.Err(); err != nil {
			return Sample{Err: err}
		}

		n, peer, err := conn.ReadFrom(buf)
		if err != nil {
			if netErr, ok := err.(net.Error); ok && netErr.Timeout() {
				return Sample{Err: fmt.Errorf("probe timeout: %w", err)}
			}
			return Sample{Err: err}
		}
		if peer == nil {
			continue
		}

		reply, err := icmp.ParseMessage(protocol, buf[:n])
		if err != nil {
			continue
		}
		if reply.Type != replyType {
			continue
		}
		body, ok := reply.Body.(*icmp.Echo)
		if !ok {
			continue
		}
		if body.ID != p.id || body.Seq != seq {
			continue
		}

		return Sample{Reachable: true, Latency: time.Since(start), LatencyKnown: true}
	}
}

func resolveIP(host string) (*net.IPAddr, net.IP, error) {
	addr, err := net.ResolveIPAddr("ip", host)
	if err != nil {
		return nil, nil, err
	}
	if addr.IP == nil {
		return nil, nil, fmt.Errorf("invalid IP address: %s", host)
	}
	return addr, addr.IP, nil
}

func icmpSettings(ip net.IP) (network string, protocol int, requestType icmp.Type, replyType icmp.Type) {
	if ip.To4() != nil {
		return "ip4:icmp", ipv4.ICMPTypeEcho.Protocol(), ipv4.ICMPTypeEcho, ipv4.ICMPTypeEchoReply
	}
	return "ip6:ipv6-icmp", ipv6.ICMPTypeEchoRequest.Protocol(), ipv6.ICMPTypeEchoRequest, ipv6.ICMPTypeEchoReply
}

func effectiveDeadline(ctx context.Context, timeout time.Duration) time.Time {
	deadline := time.Now().Add(timeout)
	if ctxDeadline, ok := ctx.Deadline(); ok && ctxDeadline.Before(deadline) {
		return ctxDeadline
	}
	return deadline
}
