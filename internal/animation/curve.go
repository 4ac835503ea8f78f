package animation

import (
	"image"
	"math"
)

// Curve maps linear progress in [0,1] to eased progress.
type Curve func(float64) float64

// clamp01 clamps x in [0,1].
func clamp01(x float64) float64 {
	if x < 0 {
		return 0
	}
	if x > 1 {
		return 1
	}
	return x
}

// Linear is the identity curve.
func Linear(x float64) float64 { return x }

// EaseInOut is the classic smoothstep 3x^2 - 2x^3, the host's default curve.
func EaseInOut(x float64) float64 {
	return x * x * (3 - 2*x)
}

func lerpInt(a, b int, t float64) int {
	return a + int(math.Round(float64(b-a)*t))
}

// LerpRect interpolates each corner of a rectangle.
func LerpRect(a, b image.Rectangle, t float64) image.Rectangle {
	return image.Rectangle{
		Min: image.Pt(lerpInt(a.Min.X, b.Min.X, t), lerpInt(a.Min.Y, b.Min.Y, t)),
		Max: image.Pt(lerpInt(a.Max.X, b.Max.X, t), lerpInt(a.Max.Y, b.Max.Y, t)),
	}
}
