// Package discovery registers the webthing server for mDNS/DNS-SD discovery.
package discovery

import (
	"fmt"

	"github.com/grandcat/zeroconf"
	"github.com/sirupsen/logrus"
)

// ServiceType is the DNS-SD service type WoT servers advertise under,
// matching section 6's "mDNS" subsection.
const ServiceType = "_webthing._tcp"

// Advertise registers deviceName for discovery on port, with a "path=/"
// (and, when tls is true, "tls=1") TXT record. Call Shutdown on the
// returned server when the embedding Server stops.
//
// Adapted from the sibling WoST project's DiscoServe: that function resolves
// an explicit bind address via an internal hubnet helper and registers with
// zeroconf.RegisterProxy; this server has no such helper available, so it
// uses zeroconf.Register instead, which auto-detects the host's interfaces
// and addresses.
func Advertise(deviceName string, port int, tls bool) (*zeroconf.Server, error) {
	if deviceName == "" {
		return nil, fmt.Errorf("discovery: empty device name")
	}

	text := []string{"path=/"}
	if tls {
		text = append(text, "tls=1")
	}

	logrus.Infof("discovery: advertising %q as %s on port %d (tls=%v)", deviceName, ServiceType, port, tls)

	server, err := zeroconf.Register(deviceName, ServiceType, "local.", port, text, nil)
	if err != nil {
		logrus.Errorf("discovery: failed to register mDNS service: %s", err)
		return nil, err
	}
	return server, nil
}
