// Package config loads the interface's YAML configuration file (spec
// clause 6's enumerated Configuration struct) and fills in defaults
// for anything the file omits, the way the pack's config.Load reads a
// file into a typed struct once at startup.
package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/kurkpitaine/veloce-sub004/dcc"
	"github.com/kurkpitaine/veloce-sub004/forwarder"
	"github.com/kurkpitaine/veloce-sub004/geonet"
)

// DCCMode selects which congestion controller the interface runs.
type DCCMode string

const (
	DCCNone            DCCMode = "none"
	DCCLimeric         DCCMode = "limeric"
	DCCLimericDualAlpha DCCMode = "limeric_dual_alpha"
)

// Configuration is the interface's full enumerated configuration
// (spec clause 6), plus the ambient sections (logging, admin
// telemetry, persistence) this deployment adds on top.
type Configuration struct {
	Version             uint8         `yaml:"version"`
	StationType         uint8         `yaml:"station_type"`
	IsMobile            bool          `yaml:"is_mobile"`
	DefaultHopLimit     uint8         `yaml:"default_hop_limit"`
	DefaultPacketLifetime time.Duration `yaml:"default_packet_lifetime"`
	DefaultTrafficClass uint8         `yaml:"default_traffic_class"`

	BeaconInterval  time.Duration `yaml:"beacon_interval"`
	BeaconMaxJitter time.Duration `yaml:"beacon_max_jitter"`

	LocTableEntryCount    int           `yaml:"loc_table_entry_count"`
	LocTableEntryLifetime time.Duration `yaml:"loc_table_entry_lifetime"`
	DPLRingLength         int           `yaml:"dpl_ring_length"`

	LSMaxRetrans      int           `yaml:"ls_max_retrans"`
	LSRetransmitTimer time.Duration `yaml:"ls_retransmit_timer"`

	LSBufEntryCount int `yaml:"ls_buf_entry_count"`
	LSBufBytes      int `yaml:"ls_buf_bytes"`
	UCBufEntryCount int `yaml:"uc_buf_entry_count"`
	UCBufBytes      int `yaml:"uc_buf_bytes"`
	BCBufEntryCount int `yaml:"bc_buf_entry_count"`
	BCBufBytes      int `yaml:"bc_buf_bytes"`

	GNMaxSDUSize          int     `yaml:"gn_max_sdu_size"`
	GNMaxPacketLifetime   time.Duration `yaml:"gn_max_packet_lifetime"`
	GNMaxGeoAreaSizeKm2   float64 `yaml:"gn_max_geo_area_size_km2"`

	AreaForwardingAlgorithm    string `yaml:"area_forwarding_algorithm"`    // simple|cbf|advanced
	NonAreaForwardingAlgorithm string `yaml:"non_area_forwarding_algorithm"` // greedy|cbf
	AddrConfMethod             string `yaml:"addr_conf_method"`             // auto|managed

	CBRTriggerInterval time.Duration `yaml:"cbr_trigger_interval"`

	DCC struct {
		Mode               DCCMode `yaml:"mode"`
		QueueCapacity      int     `yaml:"queue_capacity"`
		DualAlphaThreshold float64 `yaml:"dual_alpha_threshold"`
	} `yaml:"dcc"`

	Logging  LoggingConfig  `yaml:"logging"`
	Admin    AdminConfig    `yaml:"admin"`
	Database DatabaseConfig `yaml:"database"`
	Device   DeviceConfig   `yaml:"device"`
	Position PositionConfig `yaml:"position"`
}

// DeviceConfig configures the demo daemon's UDP stand-in device.
type DeviceConfig struct {
	BindAddr      string `yaml:"bind_addr"`
	BroadcastAddr string `yaml:"broadcast_addr"`
	MAC           string `yaml:"mac"`
}

// PositionConfig seeds the demo daemon's stationary position source.
type PositionConfig struct {
	LatitudeDeg  float64 `yaml:"latitude_deg"`
	LongitudeDeg float64 `yaml:"longitude_deg"`
}

// LoggingConfig configures internal/log's rotating sink.
type LoggingConfig struct {
	Path       string `yaml:"path"`
	Level      string `yaml:"level"`
	Console    bool   `yaml:"console"`
	MaxSizeMB  int    `yaml:"max_size_mb"`
	MaxBackups int    `yaml:"max_backups"`
	MaxAgeDays int    `yaml:"max_age_days"`
	Compress   bool   `yaml:"compress"`
}

// AdminConfig configures internal/telemetry's websocket surface.
type AdminConfig struct {
	Enabled       bool          `yaml:"enabled"`
	ListenAddr    string        `yaml:"listen_addr"`
	JWTSecret     string        `yaml:"jwt_secret"`
	SnapshotEvery time.Duration `yaml:"snapshot_every"`
}

// DatabaseConfig configures the optional telemetry persistence sink.
type DatabaseConfig struct {
	Enabled bool   `yaml:"enabled"`
	DSN     string `yaml:"dsn"`
}

// Load reads and parses a YAML configuration file, applying defaults
// for every field the file omits.
func Load(path string) (*Configuration, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config: reading %s: %w", path, err)
	}
	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("config: parsing %s: %w", path, err)
	}
	return cfg, nil
}

// Default returns the Configuration every omitted YAML field falls
// back to: ETSI TS 102 636-4-1 / TS 102 687 defaults sized for a
// single road vehicle OBU.
func Default() *Configuration {
	c := &Configuration{
		Version:               1,
		StationType:           uint8(geonet.StationPassengerCar),
		IsMobile:              true,
		DefaultHopLimit:       10,
		DefaultPacketLifetime: 1 * time.Second,
		DefaultTrafficClass:   2,

		BeaconInterval:  3 * time.Second,
		BeaconMaxJitter: 50 * time.Millisecond,

		LocTableEntryCount:    64,
		LocTableEntryLifetime: 20 * time.Second,
		DPLRingLength:         8,

		LSMaxRetrans:      10,
		LSRetransmitTimer: 1 * time.Second,

		LSBufEntryCount: 32,
		LSBufBytes:      16384,
		UCBufEntryCount: 32,
		UCBufBytes:      16384,
		BCBufEntryCount: 32,
		BCBufBytes:      16384,

		GNMaxSDUSize:        1400,
		GNMaxPacketLifetime: 600 * time.Second,
		GNMaxGeoAreaSizeKm2: 100,

		AreaForwardingAlgorithm:    "simple",
		NonAreaForwardingAlgorithm: "greedy",
		AddrConfMethod:             "auto",

		CBRTriggerInterval: 1 * time.Second,
	}
	c.DCC.Mode = DCCLimeric
	c.DCC.QueueCapacity = 64
	c.DCC.DualAlphaThreshold = 0.1

	c.Logging = LoggingConfig{Level: "info", Console: true, MaxSizeMB: 50, MaxBackups: 5, MaxAgeDays: 14}
	c.Admin = AdminConfig{Enabled: false, ListenAddr: "127.0.0.1:8787", SnapshotEvery: 1 * time.Second}
	c.Database = DatabaseConfig{Enabled: false}
	c.Device = DeviceConfig{BindAddr: "0.0.0.0:24680", BroadcastAddr: "255.255.255.255:24680"}
	c.Position = PositionConfig{LatitudeDeg: 48.271947, LongitudeDeg: -3.614961}
	return c
}

// ForwarderConfig translates the YAML-facing Configuration into the
// forwarder package's Config, resolving the string enums to their
// typed constants.
func (c *Configuration) ForwarderConfig() (forwarder.Config, error) {
	areaAlgo, err := parseAreaAlgorithm(c.AreaForwardingAlgorithm)
	if err != nil {
		return forwarder.Config{}, err
	}
	nonAreaAlgo, err := parseNonAreaAlgorithm(c.NonAreaForwardingAlgorithm)
	if err != nil {
		return forwarder.Config{}, err
	}
	addrConf, err := parseAddrConfMethod(c.AddrConfMethod)
	if err != nil {
		return forwarder.Config{}, err
	}

	fc := forwarder.Config{
		Version:                    c.Version,
		StationType:                geonet.StationType(c.StationType),
		IsMobile:                   c.IsMobile,
		DefaultHopLimit:            c.DefaultHopLimit,
		DefaultLifetime:            geonet.LifetimeFromDuration(c.DefaultPacketLifetime),
		DefaultTrafficClass:        geonet.TrafficClass{StoreCarryForward: true, ID: c.DefaultTrafficClass},
		BeaconInterval:             c.BeaconInterval,
		BeaconMaxJitter:            c.BeaconMaxJitter,
		LocTableEntryCount:         c.LocTableEntryCount,
		LocTableEntryLifetime:      c.LocTableEntryLifetime,
		DupRingLength:              c.DPLRingLength,
		LSMaxRetrans:               c.LSMaxRetrans,
		LSRetransmitTimer:          c.LSRetransmitTimer,
		LSBufEntryCount:            c.LSBufEntryCount,
		LSBufBytes:                 c.LSBufBytes,
		UCBufEntryCount:            c.UCBufEntryCount,
		UCBufBytes:                 c.UCBufBytes,
		BCBufEntryCount:            c.BCBufEntryCount,
		BCBufBytes:                 c.BCBufBytes,
		MaxSDUSize:                 c.GNMaxSDUSize,
		MaxPacketLifetime:          c.GNMaxPacketLifetime,
		MaxGeoAreaSizeKm2:          c.GNMaxGeoAreaSizeKm2,
		AreaForwardingAlgorithm:    areaAlgo,
		NonAreaForwardingAlgorithm: nonAreaAlgo,
		AddrConfMethod:             addrConf,
		CBRTriggerInterval:         c.CBRTriggerInterval,
	}
	if err := fc.Validate(); err != nil {
		return forwarder.Config{}, err
	}
	return fc, nil
}

func parseAreaAlgorithm(s string) (forwarder.AreaAlgorithm, error) {
	switch s {
	case "", "simple":
		return forwarder.AreaSimple, nil
	case "cbf":
		return forwarder.AreaCBF, nil
	case "advanced":
		return forwarder.AreaAdvanced, nil
	default:
		return 0, fmt.Errorf("config: unknown area_forwarding_algorithm %q", s)
	}
}

func parseNonAreaAlgorithm(s string) (forwarder.NonAreaAlgorithm, error) {
	switch s {
	case "", "greedy":
		return forwarder.NonAreaGreedyAlgorithm, nil
	case "cbf":
		return forwarder.NonAreaCBF, nil
	default:
		return 0, fmt.Errorf("config: unknown non_area_forwarding_algorithm %q", s)
	}
}

func parseAddrConfMethod(s string) (forwarder.AddrConfMethod, error) {
	switch s {
	case "", "auto":
		return forwarder.AddrConfAuto, nil
	case "managed":
		return forwarder.AddrConfManaged, nil
	default:
		return 0, fmt.Errorf("config: unknown addr_conf_method %q", s)
	}
}

// NewController builds the DCC rate controller this configuration
// selects. DCCNone still returns a Controller (the scheduler gates on
// it unconditionally); a "none" mode simply never tightens its delta
// because the interface skips CBR sampling in that mode.
func (c *Configuration) NewController() *dcc.Controller {
	ctrl := dcc.NewController(c.DCC.Mode == DCCLimericDualAlpha)
	return ctrl
}
