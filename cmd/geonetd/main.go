// Command geonetd runs a single GeoNetworking interface over a UDP
// broadcast stand-in link layer: a minimal demonstration of the engine
// wired end to end, the way the teacher's cmd/main.go stood up one
// speaker against a TCP listener.
package main

import (
	"context"
	"crypto/rand"
	"flag"
	"log"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/kurkpitaine/veloce-sub004/btp"
	"github.com/kurkpitaine/veloce-sub004/forwarder"
	"github.com/kurkpitaine/veloce-sub004/geonet"
	"github.com/kurkpitaine/veloce-sub004/iface"
	"github.com/kurkpitaine/veloce-sub004/internal/config"
	ilog "github.com/kurkpitaine/veloce-sub004/internal/log"
	"github.com/kurkpitaine/veloce-sub004/internal/telemetry"
	"github.com/kurkpitaine/veloce-sub004/internal/telemetry/store"
	"github.com/kurkpitaine/veloce-sub004/socket"
	"github.com/kurkpitaine/veloce-sub004/wire"
)

func main() {
	configPath := flag.String("config", "", "path to a YAML configuration file (defaults are used if omitted)")
	flag.Parse()

	cfg := config.Default()
	if *configPath != "" {
		loaded, err := config.Load(*configPath)
		if err != nil {
			log.Fatalf("geonetd: %v", err)
		}
		cfg = loaded
	}

	root, err := ilog.New(ilog.Config{
		Path:       cfg.Logging.Path,
		Level:      cfg.Logging.Level,
		Console:    cfg.Logging.Console,
		MaxSizeMB:  cfg.Logging.MaxSizeMB,
		MaxBackups: cfg.Logging.MaxBackups,
		MaxAgeDays: cfg.Logging.MaxAgeDays,
		Compress:   cfg.Logging.Compress,
	})
	if err != nil {
		log.Fatalf("geonetd: building logger: %v", err)
	}
	ifaceLog := root.For("iface")

	ego := resolveMAC(cfg.Device.MAC)
	egoAddr := geonet.Address{StationType: geonet.StationType(cfg.StationType), Mac: ego}

	dev, err := newUDPDevice(cfg.Device.BindAddr, cfg.Device.BroadcastAddr, ego)
	if err != nil {
		log.Fatalf("geonetd: opening device: %v", err)
	}

	posSrc := newStationaryPosition(egoAddr, cfg.Position.LatitudeDeg, cfg.Position.LongitudeDeg)
	rnd := newMathRandJitter(time.Now().UnixNano())

	ifc, err := iface.New(cfg, egoAddr, dev, iface.RealClock{}, rnd, posSrc, nil, ifaceLog)
	if err != nil {
		log.Fatalf("geonetd: building interface: %v", err)
	}

	camSocket := ifc.Sockets.Bind(wire.CommonNextHeaderBtpA, cfg.GNMaxSDUSize, cfg.GNMaxPacketLifetime, cfg.GNMaxGeoAreaSizeKm2, 32)
	ifc.BTP.Bind(btp.VariantA, btp.PortCAM)

	var publisher *telemetry.Publisher
	if cfg.Admin.Enabled {
		publisher = &telemetry.Publisher{}
		srv := telemetry.NewServer(publisher, cfg.Admin.JWTSecret, cfg.Admin.SnapshotEvery, root.For("telemetry"))
		go func() {
			if err := srv.ListenAndServe(cfg.Admin.ListenAddr); err != nil && err != http.ErrServerClosed {
				root.For("telemetry").Error().Err(err).Msg("telemetry server stopped")
			}
		}()
	}

	var recorder store.Recorder
	if cfg.Database.Enabled {
		s, err := store.Open(cfg.Database.DSN)
		if err != nil {
			root.For("store").Error().Err(err).Msg("telemetry persistence disabled: failed to open database")
		} else {
			recorder = s
			defer recorder.Close()
		}
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	ticker := time.NewTicker(20 * time.Millisecond)
	defer ticker.Stop()

	ifaceLog.Info().Str("mac", ego.String()).Msg("geonetd started")

	camPayload := []byte("geonetd-cam-beacon")
	lastCAM := time.Now()
	camMeta := socket.Meta{Kind: forwarder.TransportSingleHopBroadcast, TrafficClass: geonet.TrafficClass{ID: cfg.DefaultTrafficClass}}

	for {
		select {
		case <-ctx.Done():
			ifaceLog.Info().Msg("geonetd stopping")
			return
		case now := <-ticker.C:
			if now.Sub(lastCAM) >= cfg.BeaconInterval {
				_ = camSocket.SendSlice(btp.EncodeA(btp.PortCAM, btp.PortCAM, camPayload), camMeta)
				lastCAM = now
			}

			ifc.Poll(now)

			if publisher != nil || recorder != nil {
				snap := ifc.Snapshot(now)
				if publisher != nil {
					publisher.Publish(snap)
				}
				if recorder != nil {
					if err := recorder.Record(ctx, snap); err != nil {
						root.For("store").Warn().Err(err).Msg("failed to persist snapshot")
					}
				}
			}
		}
	}
}

// resolveMAC parses the configured MAC address, or generates a random
// locally-administered one if none was given.
func resolveMAC(configured string) geonet.HardwareAddr {
	var ego geonet.HardwareAddr
	if configured != "" {
		if mac, err := net.ParseMAC(configured); err == nil && len(mac) == 6 {
			copy(ego[:], mac)
			return ego
		}
	}
	_, _ = rand.Read(ego[:])
	ego[0] = ego[0]&^0x01 | 0x02
	return ego
}
