package srb2query

import (
	"bytes"
	"encoding/binary"
	"fmt"
)

// packet types from the SRB2 net code
const (
	ptAskInfo    = 12
	ptServerInfo = 13
	ptPlayerInfo = 14
)

// header layout: checksum u32, ack u8, ackreturn u8, packettype u8, reserved u8
const headerSize = 8

// maxPlayerEntries is the fixed size of the player table in a PT_PLAYERINFO
// packet; unused slots carry node 255.
const maxPlayerEntries = 32

// playerEntrySize is the wire size of one player table slot: node u8,
// name [22]byte, address [4]byte, skin u8, data u8, score u32, time u16.
const playerEntrySize = 1 + 22 + 4 + 1 + 1 + 4 + 2

// baseSkinNames maps the vanilla skin indexes to their names. Servers with
// modded skins report indexes beyond this table.
var baseSkinNames = []string{"sonic", "tails", "knuckles", "amy", "fang", "metalsonic"}

// ServerPacket is the decoded PT_SERVERINFO reply.
type ServerPacket struct {
	Version         string
	NumberOfPlayers int
	MaxPlayers      int
	Time            int
	LevelTime       int
	ServerName      string
	MapName         string
	MapTitle        string
	MapNumber       int
}

// PlayerEntry is one occupied slot of the player table. The peer address is
// decoded but never exposed upstream; the info feed drops it.
type PlayerEntry struct {
	Node  int
	Name  string
	Skin  string
	Score int
	Time  int
}

// PlayerPacket is the decoded PT_PLAYERINFO reply.
type PlayerPacket struct {
	Players []PlayerEntry
}

// checksum computes the SRB2 packet checksum over everything after the
// checksum field itself.
func checksum(payload []byte) uint32 {
	c := uint32(0x1234567)
	for i, b := range payload {
		c += uint32(b) * uint32(i+1)
	}
	return c
}

// buildAskInfo assembles a PT_ASKINFO packet. The payload carries the query
// protocol version and the sender's current time, echoed back by the server.
func buildAskInfo(now uint32) []byte {
	pkt := make([]byte, headerSize+5)
	pkt[6] = ptAskInfo
	pkt[8] = 0 // query protocol version
	binary.LittleEndian.PutUint32(pkt[9:], now)
	binary.LittleEndian.PutUint32(pkt[0:], checksum(pkt[4:]))
	return pkt
}

// packetType validates the framing of a received packet and returns its type
// byte.
func packetType(pkt []byte) (byte, error) {
	if len(pkt) < headerSize {
		return 0, fmt.Errorf("packet too short: %d bytes", len(pkt))
	}
	want := binary.LittleEndian.Uint32(pkt[0:4])
	if got := checksum(pkt[4:]); got != want {
		return 0, fmt.Errorf("checksum mismatch: got %#x, want %#x", got, want)
	}
	return pkt[6], nil
}

// cstring trims a fixed-size byte field at its first NUL.
func cstring(b []byte) string {
	if i := bytes.IndexByte(b, 0); i >= 0 {
		b = b[:i]
	}
	return string(b)
}

// parseServerInfo decodes the payload of a PT_SERVERINFO packet.
//
// Payload layout (after the 8-byte header): version u8, subversion u8,
// numberofplayer u8, maxplayer u8, gametype u8, modifiedgame u8,
// cheatsenabled u8, isdedicated u8, fileneedednum u8, time u32, leveltime
// u32, servername [32]byte, mapname [8]byte, maptitle [33]byte,
// mapmd5 [16]byte, actnum u8, iszone u8.
func parseServerInfo(pkt []byte) (ServerPacket, error) {
	const payloadSize = 9 + 4 + 4 + 32 + 8 + 33 + 16 + 2
	if len(pkt) < headerSize+payloadSize {
		return ServerPacket{}, fmt.Errorf("serverinfo packet too short: %d bytes", len(pkt))
	}
	p := pkt[headerSize:]

	version := int(p[0])
	subversion := int(p[1])

	sp := ServerPacket{
		Version:         fmt.Sprintf("%d.%d.%d", version/100, version%100, subversion),
		NumberOfPlayers: int(p[2]),
		MaxPlayers:      int(p[3]),
		Time:            int(binary.LittleEndian.Uint32(p[9:13])),
		LevelTime:       int(binary.LittleEndian.Uint32(p[13:17])),
		ServerName:      cstring(p[17:49]),
		MapName:         cstring(p[49:57]),
		MapTitle:        cstring(p[57:90]),
	}
	sp.MapNumber = mapNumber(sp.MapName)
	return sp, nil
}

// mapNumber extracts the numeric part of an extended map name like "MAP01".
func mapNumber(mapName string) int {
	if len(mapName) <= 3 {
		return 0
	}
	n := 0
	for _, r := range mapName[3:] {
		if r < '0' || r > '9' {
			return 0
		}
		n = n*10 + int(r-'0')
	}
	return n
}

// parsePlayerInfo decodes the payload of a PT_PLAYERINFO packet, skipping
// the empty slots (node 255).
func parsePlayerInfo(pkt []byte) (PlayerPacket, error) {
	if len(pkt) < headerSize+maxPlayerEntries*playerEntrySize {
		return PlayerPacket{}, fmt.Errorf("playerinfo packet too short: %d bytes", len(pkt))
	}
	p := pkt[headerSize:]

	var pp PlayerPacket
	for i := 0; i < maxPlayerEntries; i++ {
		entry := p[i*playerEntrySize : (i+1)*playerEntrySize]
		node := entry[0]
		if node == 255 {
			continue
		}
		pp.Players = append(pp.Players, PlayerEntry{
			Node:  int(node),
			Name:  cstring(entry[1:23]),
			Skin:  skinName(entry[27]),
			Score: int(binary.LittleEndian.Uint32(entry[29:33])),
			Time:  int(binary.LittleEndian.Uint16(entry[33:35])),
		})
	}
	return pp, nil
}

// skinName resolves a skin index to its vanilla name, falling back to a
// numbered label for modded skins.
func skinName(idx byte) string {
	if int(idx) < len(baseSkinNames) {
		return baseSkinNames[idx]
	}
	return fmt.Sprintf("skin%d", idx)
}
