// Package probes implements the vehicle checks: flight controller link,
// inertial and position estimates, camera streams, the marker detector and
// the offboard control services. Register installs them into a registry in
// the order an operator reads them.
package probes

import (
	"context"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/jsamuelsen11/vehicle-selfcheck/internal/app/selfcheck"
	"github.com/jsamuelsen11/vehicle-selfcheck/internal/domain/check"
	"github.com/jsamuelsen11/vehicle-selfcheck/internal/domain/signal"
	"github.com/jsamuelsen11/vehicle-selfcheck/internal/ports"
)

// Signal identifiers queried by the probes.
const (
	TopicState          = "mavros/state"
	TopicImu            = "mavros/imu/data"
	TopicLocalPose      = "mavros/local_position/pose"
	TopicLocalVelocity  = "mavros/local_position/velocity"
	TopicGlobalPosition = "mavros/global_position/global"
	TopicArucoDebug     = "aruco_pose/debug"

	ServiceNavigate     = "navigate"
	ServiceGetTelemetry = "get_telemetry"
	ServiceLand         = "land"
)

// OffboardServices are the services the offboard control node offers, in
// the order they are awaited.
var OffboardServices = []string{ServiceNavigate, ServiceGetTelemetry, ServiceLand}

// CameraImageTopic returns the image stream topic of camera name.
func CameraImageTopic(name string) string { return name + "/image_raw" }

// CameraInfoTopic returns the calibration topic of camera name.
func CameraInfoTopic(name string) string { return name + "/camera_info" }

// FCU checks that the flight controller state is published and reports a
// live connection.
func FCU(src ports.SignalSource, timeout time.Duration) selfcheck.Probe {
	return selfcheck.ProbeFunc(func(ctx context.Context, buf *selfcheck.Buffer) error {
		s, ok := selfcheck.ExpectValue(ctx, buf, src, TopicState, timeout, "No MAVROS state")
		if !ok {
			return nil
		}

		var st signal.State
		if !selfcheck.DecodeSample(buf, s, &st) {
			return nil
		}
		if !st.Connected {
			buf.Fail(check.CauseAbsent, "No connection to the FCU")
		}
		return nil
	})
}

// Topic checks that at least one sample arrives on id within timeout and
// records message otherwise.
func Topic(src ports.SignalSource, id string, timeout time.Duration, message string) selfcheck.Probe {
	return selfcheck.ProbeFunc(func(ctx context.Context, buf *selfcheck.Buffer) error {
		selfcheck.ExpectValue(ctx, buf, src, id, timeout, message)
		return nil
	})
}

// Velocity checks that the velocity estimate is published and that the
// vehicle reads as stationary: the horizontal and vertical components must
// each stay within tolerance m/s.
func Velocity(src ports.SignalSource, timeout time.Duration, tolerance float64) selfcheck.Probe {
	return selfcheck.ProbeFunc(func(ctx context.Context, buf *selfcheck.Buffer) error {
		s, ok := selfcheck.ExpectValue(ctx, buf, src, TopicLocalVelocity, timeout, "No velocity estimation")
		if !ok {
			return nil
		}

		var tw signal.Twist
		if !selfcheck.DecodeSample(buf, s, &tw) {
			return nil
		}

		if h := tw.Horizontal(); math.Abs(h) > tolerance {
			buf.Failf(check.CauseOutOfTolerance,
				"Horizontal velocity estimation is %s m/s; is the copter staying still?", formatSpeed(h))
		}
		if v := tw.Vertical(); math.Abs(v) > tolerance {
			buf.Failf(check.CauseOutOfTolerance,
				"Vertical velocity estimation is %s m/s; is the copter staying still?", formatSpeed(v))
		}
		return nil
	})
}

// Camera checks the image stream and the calibration stream of camera name
// independently. Each missing stream records its own failure.
func Camera(src ports.SignalSource, name string, imageTimeout, infoTimeout time.Duration) selfcheck.Probe {
	return selfcheck.ProbeFunc(func(ctx context.Context, buf *selfcheck.Buffer) error {
		selfcheck.ExpectValuef(ctx, buf, src, CameraImageTopic(name), imageTimeout, "No %s camera images", name)
		selfcheck.ExpectValuef(ctx, buf, src, CameraInfoTopic(name), infoTimeout, "No %s camera info", name)
		return nil
	})
}

// SimpleOffboard checks that every offboard control service is offered. The
// services are awaited in order, each with its own timeout, and the first
// missing one ends the probe with a single failure.
func SimpleOffboard(src ports.SignalSource, timeout time.Duration) selfcheck.Probe {
	return selfcheck.ProbeFunc(func(ctx context.Context, buf *selfcheck.Buffer) error {
		for _, id := range OffboardServices {
			if !selfcheck.ExpectService(ctx, buf, src, id, timeout, "No simple_offboard services") {
				return nil
			}
		}
		return nil
	})
}

// Bridge checks that the telemetry transport endpoint is reachable.
func Bridge(p ports.Pinger, timeout time.Duration) selfcheck.Probe {
	return selfcheck.ProbeFunc(func(ctx context.Context, buf *selfcheck.Buffer) error {
		pctx, cancel := context.WithTimeout(ctx, timeout)
		defer cancel()

		if err := p.Ping(pctx); err != nil {
			if ctx.Err() != nil {
				buf.Add(check.Failure{Message: "Check canceled", Cause: check.CauseCanceled, Err: err})
				return nil
			}
			buf.Add(check.Failure{Message: "Telemetry bridge is unreachable", Cause: check.CauseAbsent, Err: err})
		}
		return nil
	})
}

// formatSpeed renders v the way operators read it in the check output: the
// shortest exact decimal, with a trailing ".0" on whole numbers.
func formatSpeed(v float64) string {
	s := strconv.FormatFloat(v, 'f', -1, 64)
	if !strings.Contains(s, ".") {
		s += ".0"
	}
	return s
}
