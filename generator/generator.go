package generator

import (
	"bytes"
	"encoding/binary"
	"net"

	"github.com/bwmarrin/snowflake"
)

// maxNode is the largest node number with snowflake's default 10 node bits.
const maxNode = 1<<10 - 1

func IDbyIP(ip string) uint32 {
	var id uint32

	v4 := net.ParseIP(ip).To4()
	if v4 == nil {
		return 0
	}

	_ = binary.Read(bytes.NewBuffer(v4), binary.BigEndian, &id)

	return id
}

// NodeID folds an IPv4 address into a snowflake node number.
func NodeID(ip string) int64 {
	return int64(IDbyIP(ip) & maxNode)
}

// LocalIP returns the first non-loopback IPv4 address of the host, or "".
func LocalIP() string {
	addrs, err := net.InterfaceAddrs()
	if err != nil {
		return ""
	}

	for _, addr := range addrs {
		if n, ok := addr.(*net.IPNet); ok && !n.IP.IsLoopback() && n.IP.To4() != nil {
			return n.IP.String()
		}
	}

	return ""
}

// NewNode returns the snowflake node that stamps run ids on this host.
func NewNode(ip string) (*snowflake.Node, error) {
	return snowflake.NewNode(NodeID(ip))
}
