package netsim

import (
	"errors"
	"fmt"
	"net/netip"

	errx "github.com/netops-assistant/server/internal/core/error"
)

// ErrInvalidIPv4 is returned when an address is not a dotted-quad IPv4 literal.
var ErrInvalidIPv4 = errors.New("invalid IPv4 address")

// ValidateIPv4 rejects anything that is not a plain IPv4 literal: hostnames,
// IPv6, IPv4-mapped IPv6, zones and octets with leading zeros all fail.
func ValidateIPv4(ip string) error {
	addr, err := netip.ParseAddr(ip)
	if err != nil || !addr.Is4() || addr.Zone() != "" {
		return errx.InvalidArgument(fmt.Errorf("%w: %q", ErrInvalidIPv4, ip))
	}
	return nil
}
