package quic

import (
	"fmt"
	"net"
	"strconv"

	ma "github.com/multiformats/go-multiaddr"
)

// IsQUICAddr 判断地址是否含 quic 或 quic-v1 组件
//
// 纯函数，不访问网络或密钥状态。
func IsQUICAddr(addr ma.Multiaddr) bool {
	return quicComponent(addr) != ""
}

// quicComponent 返回地址中的 QUIC 组件名，没有则返回空串
func quicComponent(addr ma.Multiaddr) string {
	if addr == nil {
		return ""
	}
	for _, p := range addr.Protocols() {
		switch p.Code {
		case ma.P_QUIC:
			return "quic"
		case ma.P_QUIC_V1:
			return "quic-v1"
		}
	}
	return ""
}

// udpEndpoint 提取 ip4/ip6 + udp 端点及对应的 socket 网络类型
func udpEndpoint(addr ma.Multiaddr) (string, *net.UDPAddr, error) {
	network := "udp4"
	host, err := addr.ValueForProtocol(ma.P_IP4)
	if err != nil {
		network = "udp6"
		host, err = addr.ValueForProtocol(ma.P_IP6)
		if err != nil {
			return "", nil, fmt.Errorf("%w: %s: no ip4/ip6 component", ErrNotDialable, addr)
		}
	}

	portStr, err := addr.ValueForProtocol(ma.P_UDP)
	if err != nil {
		return "", nil, fmt.Errorf("%w: %s: no udp component", ErrNotDialable, addr)
	}
	port, err := strconv.Atoi(portStr)
	if err != nil {
		return "", nil, fmt.Errorf("%w: %s: bad udp port", ErrMalformedAddress, addr)
	}

	ip := net.ParseIP(host)
	if ip == nil {
		return "", nil, fmt.Errorf("%w: %s: bad ip", ErrMalformedAddress, addr)
	}
	return network, &net.UDPAddr{IP: ip, Port: port}, nil
}

// toMultiaddr 把 UDP socket 地址格式化为 /ip{4|6}/<addr>/udp/<port>/<component>
func toMultiaddr(addr net.Addr, component string) (ma.Multiaddr, error) {
	udpAddr, ok := addr.(*net.UDPAddr)
	if !ok {
		return nil, fmt.Errorf("not a udp address: %v", addr)
	}

	family, ip := "ip6", udpAddr.IP
	if ip4 := ip.To4(); ip4 != nil {
		family, ip = "ip4", ip4
	}
	return ma.NewMultiaddr(fmt.Sprintf("/%s/%s/udp/%d/%s", family, ip, udpAddr.Port, component))
}
