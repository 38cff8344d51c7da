// Package srb2query implements the SRB2 askinfo query over UDP.
//
// A single PT_ASKINFO packet is sent to the game server, which answers with
// a PT_SERVERINFO packet (server name, version, player counts, level time,
// current map) and a PT_TELLEVERYONE-style PT_PLAYERINFO packet carrying the
// player table. Packets use the SRB2 net framing: a 4-byte little-endian
// checksum followed by ack bytes and the packet type.
package srb2query
