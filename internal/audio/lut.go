package audio

// panCosLUT holds cos(i*pi/32) for i=0..16, scaled to 0..255, giving a
// 17-point quarter-sine table shared by both pan gain channels (the sin
// value for index i is the cos value for index 16-i).
var panCosLUT = [17]float32{
	255, 254, 251, 245, 237, 226, 213, 198, 181,
	162, 142, 121, 98, 75, 51, 26, 0,
}

// PanGains computes the equal-power (left, right) gain pair for pan in
// [-1, +1] via linear interpolation over the quarter-sine LUT. Center pan
// (0) yields approximately (0.707, 0.707): -3dB in each channel, preserving
// perceived loudness across the stereo field.
func PanGains(pan float32) (left, right float32) {
	pos := (pan + 1.0) * 8.0
	idx := int(pos)
	if idx > 15 {
		idx = 15
	}
	if idx < 0 {
		idx = 0
	}
	frac := pos - float32(idx)

	cosVal := panCosLUT[idx]*(1-frac) + panCosLUT[idx+1]*frac
	sinVal := panCosLUT[16-idx]*(1-frac) + panCosLUT[15-idx]*frac

	return cosVal / 255.0, sinVal / 255.0
}

// ApplyPan scales sample by volume and distributes it across (left, right)
// per the equal-power pan law.
func ApplyPan(sample, pan, volume float32) (left, right float32) {
	lg, rg := PanGains(pan)
	scaled := sample * volume
	return scaled * lg, scaled * rg
}

// tanhLUT holds tanh(t) for t = 0.00 .. 7.00 in steps of 0.25 (29 points),
// used by SoftClip to approximate tanh without a transcendental call in the
// simulation path.
var tanhLUT = [29]float32{
	0.0, 0.244919, 0.462117, 0.635149, 0.761594, 0.848284, 0.905148,
	0.941389, 0.964028, 0.978034, 0.986614, 0.991815, 0.995055, 0.997109,
	0.998396, 0.999198, 0.999665, 0.999892, 0.999988, 0.999998, 1.0,
	1.0, 1.0, 1.0, 1.0, 1.0, 1.0, 1.0, 1.0,
}

// SoftClip is the identity on |x| <= 1, and otherwise
// sign(x) * (1 + tanh(|x| - 1)), asymptotically bounded by +/-2.0.
// Monotone non-decreasing over its whole domain.
func SoftClip(x float32) float32 {
	abs := x
	if abs < 0 {
		abs = -abs
	}
	if abs <= 1.0 {
		return x
	}

	t := abs - 1.0
	if t > 7.0 {
		t = 7.0
	}
	pos := t * 4.0
	idx := int(pos)
	if idx > 27 {
		idx = 27
	}
	frac := pos - float32(idx)

	tanhVal := tanhLUT[idx]*(1-frac) + tanhLUT[idx+1]*frac

	sign := float32(1.0)
	if x < 0 {
		sign = -1.0
	}
	return sign * (1.0 + tanhVal)
}
