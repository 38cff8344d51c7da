package srb2query

import (
	"context"
	"fmt"
	"net"
	"strings"
	"time"
)

// DefaultPort is the standard SRB2 server port.
const DefaultPort = 5029

// maxPacketSize is larger than any packet the server sends in response to
// an askinfo query.
const maxPacketSize = 1450

const defaultQueryTimeout = 3 * time.Second

// Client queries SRB2 game servers over UDP.
//
// A Client is stateless and safe for concurrent use; each query opens its
// own socket.
type Client struct {
	timeout time.Duration
}

// NewClient creates a query [Client]. A non-positive timeout selects the
// default of three seconds per query.
func NewClient(timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = defaultQueryTimeout
	}
	return &Client{timeout: timeout}
}

// AskInfo queries the game server at address and returns the decoded
// server-info and player-info replies.
//
// The address may omit the port, in which case [DefaultPort] is used. The
// two reply packets can arrive in either order; AskInfo reads until it has
// both or the deadline expires. Unknown packet types are ignored.
func (c *Client) AskInfo(ctx context.Context, address string) (ServerPacket, PlayerPacket, error) {
	if address == "" {
		return ServerPacket{}, PlayerPacket{}, fmt.Errorf("game server address is empty")
	}
	if !strings.Contains(address, ":") {
		address = fmt.Sprintf("%s:%d", address, DefaultPort)
	}

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	var dialer net.Dialer
	conn, err := dialer.DialContext(ctx, "udp", address)
	if err != nil {
		return ServerPacket{}, PlayerPacket{}, fmt.Errorf("failed to reach game server: %w", err)
	}
	defer func() { _ = conn.Close() }()

	if deadline, ok := ctx.Deadline(); ok {
		_ = conn.SetDeadline(deadline)
	}

	ask := buildAskInfo(uint32(time.Now().Unix()))
	if _, err := conn.Write(ask); err != nil {
		return ServerPacket{}, PlayerPacket{}, fmt.Errorf("failed to send askinfo: %w", err)
	}

	var (
		sp        ServerPacket
		pp        PlayerPacket
		gotServer bool
		gotPlayer bool
	)

	buf := make([]byte, maxPacketSize)
	for !gotServer || !gotPlayer {
		n, err := conn.Read(buf)
		if err != nil {
			// a server with zero players may legitimately skip the player
			// packet on old versions; surface what we have if the server
			// packet arrived
			if gotServer {
				break
			}
			return ServerPacket{}, PlayerPacket{}, fmt.Errorf("no reply from game server: %w", err)
		}

		pkt := buf[:n]
		typ, err := packetType(pkt)
		if err != nil {
			continue
		}

		switch typ {
		case ptServerInfo:
			sp, err = parseServerInfo(pkt)
			if err != nil {
				return ServerPacket{}, PlayerPacket{}, err
			}
			gotServer = true
		case ptPlayerInfo:
			pp, err = parsePlayerInfo(pkt)
			if err != nil {
				return ServerPacket{}, PlayerPacket{}, err
			}
			gotPlayer = true
		}
	}

	return sp, pp, nil
}
