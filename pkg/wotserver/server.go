// Package wotserver exposes a thing.ThingsType over HTTP and WebSocket,
// implementing the router, WS session and server lifecycle described in
// SPEC_FULL.md sections 4.6-4.8.
package wotserver

import (
	"context"
	"crypto/tls"
	"fmt"
	"net"
	"net/http"
	"os"
	"strconv"
	"strings"

	"github.com/fsnotify/fsnotify"
	"github.com/sirupsen/logrus"

	"github.com/wostzone/webthing-go/pkg/config"
	"github.com/wostzone/webthing-go/pkg/discovery"
	"github.com/wostzone/webthing-go/pkg/thing"
)

// Server binds a thing.ThingsType to an HTTP(S)+WS listener, with
// host-validation, CORS and mDNS advertisement.
//
// Adapted from the original WebThingServer::new/start/stop lifecycle; host
// and IP enumeration follows the sibling WoST project's discovery idiom
// (net.InterfaceAddrs in place of its unavailable internal hubnet helper).
type Server struct {
	things    thing.ThingsType
	cfg       *config.Config
	generator thing.ActionGenerator
	basePath  string
	hostAllow *hostAllowList

	httpServer    *http.Server
	mdnsServer    discoveryServer
	configWatcher *fsnotify.Watcher
}

// discoveryServer is the subset of *zeroconf.Server used here, so tests can
// substitute a fake.
type discoveryServer interface {
	Shutdown()
}

// NewServer constructs a Server for things, configured by cfg, dispatching
// action requests to generator. Does not bind a listener; call Start.
func NewServer(things thing.ThingsType, cfg *config.Config, generator thing.ActionGenerator) *Server {
	return &Server{
		things:    things,
		cfg:       cfg,
		generator: generator,
		basePath:  strings.TrimSuffix(cfg.BasePath, "/"),
	}
}

// enumerateHosts builds the Host-header allow-list per section 4.8 step 2:
// localhost (± port), system hostname + ".local" (± port), every bound
// interface address (± port), and the optional configured hostname.
func enumerateHosts(port int, configuredHostname string) []string {
	portSuffix := ":" + strconv.Itoa(port)

	hosts := []string{"localhost", "localhost" + portSuffix}

	if name, err := os.Hostname(); err == nil && name != "" {
		local := name + ".local"
		hosts = append(hosts, local, local+portSuffix)
	}

	if addrs, err := net.InterfaceAddrs(); err == nil {
		for _, addr := range addrs {
			var ip net.IP
			switch v := addr.(type) {
			case *net.IPNet:
				ip = v.IP
			case *net.IPAddr:
				ip = v.IP
			}
			if ip == nil {
				continue
			}
			host := ip.String()
			hosts = append(hosts, host, host+portSuffix)
		}
	}

	if configuredHostname != "" {
		hosts = append(hosts, configuredHostname, configuredHostname+portSuffix)
	}

	return hosts
}

// Start runs the full lifecycle of section 4.8: resolves the port, builds
// the host allow-list, cascades href prefixes, builds the router, registers
// mDNS, and binds. It blocks serving requests until ctx is cancelled or the
// listener fails, at which point it shuts down and returns.
func (s *Server) Start(ctx context.Context) error {
	port := s.cfg.EffectivePort()
	s.hostAllow = newHostAllowList(enumerateHosts(port, s.cfg.Hostname), s.cfg.DisableHostValidation)

	s.things.ApplyHrefPrefixes(s.basePath)

	router := buildRouter(s)
	handler := hostValidation(s.hostAllow, corsMiddleware(router))

	s.httpServer = &http.Server{
		Addr:    fmt.Sprintf("0.0.0.0:%d", port),
		Handler: handler,
	}

	mdnsServer, err := discovery.Advertise(s.things.DeviceName(), port, s.cfg.TLSCertFile != "")
	if err != nil {
		logrus.Warnf("wotserver: mDNS advertisement failed, continuing without discovery: %s", err)
	} else {
		s.mdnsServer = mdnsServer
	}

	if path := s.cfg.SourcePath(); path != "" {
		watcher, err := config.WatchFile(path, s.reloadConfig(path, port))
		if err != nil {
			logrus.Warnf("wotserver: config hot-reload disabled: %s", err)
		} else {
			s.configWatcher = watcher
		}
	}

	serveErr := make(chan error, 1)
	go func() {
		logrus.Infof("wotserver: listening on %s (tls=%v)", s.httpServer.Addr, s.cfg.TLSCertFile != "")
		var err error
		if s.cfg.TLSCertFile != "" {
			cert, kerr := tls.LoadX509KeyPair(s.cfg.TLSCertFile, s.cfg.TLSKeyFile)
			if kerr != nil {
				serveErr <- fmt.Errorf("wotserver: loading TLS key pair: %w", kerr)
				return
			}
			s.httpServer.TLSConfig = &tls.Config{Certificates: []tls.Certificate{cert}}
			err = s.httpServer.ListenAndServeTLS("", "")
		} else {
			err = s.httpServer.ListenAndServe()
		}
		if err != nil && err != http.ErrServerClosed {
			serveErr <- err
			return
		}
		serveErr <- nil
	}()

	select {
	case <-ctx.Done():
		return s.Stop(context.Background())
	case err := <-serveErr:
		s.Stop(context.Background())
		return err
	}
}

// reloadConfig returns the callback config.WatchFile invokes after path
// changes: it re-reads path into a fresh Config, then swaps the running
// host-validation allow-list and log level without touching the listener,
// the port, or any already-applied href prefix, per section 4.8's hot-reload
// contract.
func (s *Server) reloadConfig(path string, port int) func() error {
	return func() error {
		next := config.NewDefaultConfig()
		if err := next.Load(path); err != nil {
			return err
		}

		s.hostAllow.update(enumerateHosts(port, next.Hostname), next.DisableHostValidation)

		if level, err := logrus.ParseLevel(next.LogLevel); err == nil {
			logrus.SetLevel(level)
		} else {
			logrus.Warnf("wotserver: ignoring unknown logLevel %q on reload", next.LogLevel)
		}

		logrus.Infof("wotserver: reloaded configuration from %s", path)
		return nil
	}
}

// Stop shuts down the config watcher, the mDNS advertisement and the
// HTTP(S) listener, waiting for in-flight requests to finish or ctx to
// expire.
func (s *Server) Stop(ctx context.Context) error {
	if s.configWatcher != nil {
		s.configWatcher.Close()
	}
	if s.mdnsServer != nil {
		s.mdnsServer.Shutdown()
	}
	if s.httpServer == nil {
		return nil
	}
	return s.httpServer.Shutdown(ctx)
}
