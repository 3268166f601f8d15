package probes

import (
	"errors"
	"fmt"
	"time"

	"github.com/jsamuelsen11/vehicle-selfcheck/internal/app/selfcheck"
	"github.com/jsamuelsen11/vehicle-selfcheck/internal/platform/config"
	"github.com/jsamuelsen11/vehicle-selfcheck/internal/ports"
)

// Check names as shown to operators.
const (
	NameBridge         = "Telemetry bridge"
	NameFCU            = "FCU"
	NameIMU            = "IMU"
	NameLocalPosition  = "Local position"
	NameVelocity       = "Velocity estimation"
	NameGlobalPosition = "Global position (GPS)"
	NameCamera         = "Camera"
	NameAruco          = "Aruco detector"
	NameSimpleOffboard = "Simple offboard node"
)

// Options are the parameters compiled into the vehicle check registrations.
type Options struct {
	// ShortTimeout bounds queries on high-rate streams.
	ShortTimeout time.Duration
	// LongTimeout bounds queries on slow streams and service lookups.
	LongTimeout time.Duration
	// Camera is the camera whose streams are checked.
	Camera string
	// VelocityTolerance is the largest speed in m/s, per axis group, that
	// still reads as stationary.
	VelocityTolerance float64
	// BridgeCheck registers the transport reachability check first when the
	// source can be pinged.
	BridgeCheck bool
}

// DefaultOptions returns the stock registration parameters.
func DefaultOptions() Options {
	return Options{
		ShortTimeout:      time.Second,
		LongTimeout:       3 * time.Second,
		Camera:            "main_camera",
		VelocityTolerance: 0.1,
		BridgeCheck:       true,
	}
}

// OptionsFromConfig maps the selfcheck configuration section to Options.
func OptionsFromConfig(cfg config.SelfCheckConfig) Options {
	return Options{
		ShortTimeout:      cfg.ShortTimeout,
		LongTimeout:       cfg.LongTimeout,
		Camera:            cfg.Camera,
		VelocityTolerance: cfg.VelocityTolerance,
		BridgeCheck:       cfg.BridgeCheck,
	}
}

// Register installs the vehicle checks into reg, querying src.
func Register(reg *selfcheck.Registry, src ports.SignalSource, opts Options) error {
	var defs []selfcheck.Definition

	if p, ok := src.(ports.Pinger); ok && opts.BridgeCheck {
		defs = append(defs, selfcheck.Definition{Name: NameBridge, Probe: Bridge(p, opts.ShortTimeout)})
	}

	defs = append(defs,
		selfcheck.Definition{Name: NameFCU, Probe: FCU(src, opts.LongTimeout)},
		selfcheck.Definition{Name: NameIMU, Probe: Topic(src, TopicImu, opts.ShortTimeout, "No IMU data")},
		selfcheck.Definition{
			Name:  NameLocalPosition,
			Probe: Topic(src, TopicLocalPose, opts.ShortTimeout, "No local position"),
		},
		selfcheck.Definition{
			Name:   NameVelocity,
			Probe:  Velocity(src, opts.ShortTimeout, opts.VelocityTolerance),
			Labels: map[string]string{"tolerance": fmt.Sprint(opts.VelocityTolerance)},
		},
		selfcheck.Definition{
			Name:  NameGlobalPosition,
			Probe: Topic(src, TopicGlobalPosition, opts.LongTimeout, "No global position"),
		},
		selfcheck.Definition{
			Name:   NameCamera,
			Probe:  Camera(src, opts.Camera, opts.ShortTimeout, opts.LongTimeout),
			Labels: map[string]string{"camera": opts.Camera},
		},
		selfcheck.Definition{
			Name:  NameAruco,
			Probe: Topic(src, TopicArucoDebug, opts.ShortTimeout, "No aruco_pose/debug messages"),
		},
		selfcheck.Definition{Name: NameSimpleOffboard, Probe: SimpleOffboard(src, opts.LongTimeout)},
	)

	var errs []error
	for _, d := range defs {
		if err := reg.Register(d); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
