package catalog

import (
	"fmt"
	"math"
)

// Dimension names in the fixed order the engine scans them.
const (
	DimPrice       = "price"
	DimDelivery    = "delivery"
	DimReliability = "reliability"
	DimWarranty    = "warranty"
	DimSpecMatch   = "spec_match"
)

// Dimensions lists the five scoring dimensions in scan order.
var Dimensions = []string{DimPrice, DimDelivery, DimReliability, DimWarranty, DimSpecMatch}

// WeightVector defines the relative importance of each scoring dimension.
// Weights are non-negative; ranking always goes through Normalized first.
type WeightVector struct {
	Price       float64 `json:"price" yaml:"price"`
	Delivery    float64 `json:"delivery" yaml:"delivery"`
	Reliability float64 `json:"reliability" yaml:"reliability"`
	Warranty    float64 `json:"warranty" yaml:"warranty"`
	SpecMatch   float64 `json:"spec_match" yaml:"spec_match"`
}

// DefaultWeights returns the default dimension weight distribution.
func DefaultWeights() WeightVector {
	return WeightVector{
		Price:       0.25,
		Delivery:    0.20,
		Reliability: 0.25,
		Warranty:    0.15,
		SpecMatch:   0.15,
	}
}

// Sum returns the total of all weights.
func (w WeightVector) Sum() float64 {
	return w.Price + w.Delivery + w.Reliability + w.Warranty + w.SpecMatch
}

// Normalized returns a copy scaled to sum to 1.0. An all-zero vector
// normalizes to equal weights (0.2 each). The receiver is never mutated.
func (w WeightVector) Normalized() WeightVector {
	total := w.Sum()
	if total == 0 {
		return WeightVector{Price: 0.2, Delivery: 0.2, Reliability: 0.2, Warranty: 0.2, SpecMatch: 0.2}
	}
	return WeightVector{
		Price:       w.Price / total,
		Delivery:    w.Delivery / total,
		Reliability: w.Reliability / total,
		Warranty:    w.Warranty / total,
		SpecMatch:   w.SpecMatch / total,
	}
}

// Get returns the weight for a named dimension.
func (w WeightVector) Get(dimension string) float64 {
	switch dimension {
	case DimPrice:
		return w.Price
	case DimDelivery:
		return w.Delivery
	case DimReliability:
		return w.Reliability
	case DimWarranty:
		return w.Warranty
	case DimSpecMatch:
		return w.SpecMatch
	}
	return 0
}

// WithDimension returns a copy with one named dimension replaced.
func (w WeightVector) WithDimension(dimension string, value float64) WeightVector {
	out := w
	switch dimension {
	case DimPrice:
		out.Price = value
	case DimDelivery:
		out.Delivery = value
	case DimReliability:
		out.Reliability = value
	case DimWarranty:
		out.Warranty = value
	case DimSpecMatch:
		out.SpecMatch = value
	}
	return out
}

// Validate checks that no weight is negative and that a normalized vector
// sums to 1.0 within tolerance.
func (w WeightVector) Validate() error {
	for _, d := range Dimensions {
		if w.Get(d) < 0 {
			return fmt.Errorf("negative weight for %s: %f", d, w.Get(d))
		}
	}
	if math.Abs(w.Normalized().Sum()-1.0) > 0.001 {
		return fmt.Errorf("normalized weights sum to %.4f, must sum to 1.0", w.Normalized().Sum())
	}
	return nil
}
