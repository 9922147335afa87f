package model

import "encoding/json"

// Point is one face-mesh landmark in the detector's normalized
// coordinate space. It serializes as a bare [x,y,z] triple so stored
// references stay interchangeable with other consumers of the detector.
type Point struct {
	X, Y, Z float64
}

// MarshalJSON encodes the point as [x,y,z].
func (p Point) MarshalJSON() ([]byte, error) {
	return json.Marshal([3]float64{p.X, p.Y, p.Z})
}

// UnmarshalJSON decodes a [x,y,z] triple.
func (p *Point) UnmarshalJSON(b []byte) error {
	var a [3]float64
	if err := json.Unmarshal(b, &a); err != nil {
		return err
	}
	p.X, p.Y, p.Z = a[0], a[1], a[2]
	return nil
}

// LandmarkVector is the ordered landmark set of one detected face.
// The point count is fixed by the detector (468 for a full face mesh);
// vectors from different detector configurations must not be compared.
type LandmarkVector []Point

// ParseLandmarks decodes a stored JSON reference back into a vector.
func ParseLandmarks(data []byte) (LandmarkVector, error) {
	var v LandmarkVector
	if err := json.Unmarshal(data, &v); err != nil {
		return nil, err
	}
	return v, nil
}
