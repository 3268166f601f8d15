package signal

import "math"

// State is the flight controller link state.
type State struct {
	Connected bool   `json:"connected"`
	Armed     bool   `json:"armed"`
	Mode      string `json:"mode"`
}

// Vector3 is a three-axis value in the local ENU frame.
type Vector3 struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	Z float64 `json:"z"`
}

// Twist is a velocity estimate in m/s and rad/s.
type Twist struct {
	Linear  Vector3 `json:"linear"`
	Angular Vector3 `json:"angular"`
}

// Horizontal returns the magnitude of the horizontal linear velocity.
func (t Twist) Horizontal() float64 {
	return math.Hypot(t.Linear.X, t.Linear.Y)
}

// Vertical returns the vertical linear velocity.
func (t Twist) Vertical() float64 {
	return t.Linear.Z
}

// Quaternion is an orientation.
type Quaternion struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	Z float64 `json:"z"`
	W float64 `json:"w"`
}

// Pose is a local position estimate.
type Pose struct {
	Position    Vector3    `json:"position"`
	Orientation Quaternion `json:"orientation"`
}

// Imu is an inertial measurement.
type Imu struct {
	Orientation        Quaternion `json:"orientation"`
	AngularVelocity    Vector3    `json:"angular_velocity"`
	LinearAcceleration Vector3    `json:"linear_acceleration"`
}

// NavSatFix is a global position fix.
type NavSatFix struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
	Altitude  float64 `json:"altitude"`
	Status    int     `json:"status"`
}

// Image describes a camera frame. Pixel data is not carried through signal
// sources; probes only need to know a frame arrived.
type Image struct {
	Width    int    `json:"width"`
	Height   int    `json:"height"`
	Encoding string `json:"encoding"`
}

// CameraInfo is camera calibration metadata.
type CameraInfo struct {
	Width  int       `json:"width"`
	Height int       `json:"height"`
	Model  string    `json:"distortion_model"`
	K      []float64 `json:"k"`
	D      []float64 `json:"d"`
}
