package simulation

// resample maps a source array sampled at srcResolutionSeconds onto a
// destination of dstSlotCount slots at dstResolutionSeconds, by
// length-weighted averaging across slot boundaries. The source is tiled
// (wrapped) to cover the destination horizon, so a profile shorter than the
// horizon repeats.
func resample(src []float64, srcResolutionSeconds, dstResolutionSeconds, dstSlotCount int) []float64 {
	if len(src) == 0 {
		return make([]float64, dstSlotCount)
	}
	dst := make([]float64, dstSlotCount)
	for i := 0; i < dstSlotCount; i++ {
		start := i * dstResolutionSeconds
		end := start + dstResolutionSeconds

		var sum float64
		covered := 0
		t := start
		for t < end {
			srcIdx := (t / srcResolutionSeconds) % len(src)
			srcSlotStart := (t / srcResolutionSeconds) * srcResolutionSeconds
			srcSlotEnd := srcSlotStart + srcResolutionSeconds
			segEnd := end
			if srcSlotEnd < segEnd {
				segEnd = srcSlotEnd
			}
			weight := segEnd - t
			sum += src[srcIdx] * float64(weight)
			covered += weight
			t = segEnd
		}
		if covered > 0 {
			dst[i] = sum / float64(covered)
		}
	}
	return dst
}

// rotate returns a copy of values rotated left by offset slots (wrapping),
// i.e. rotate(values, o)[i] == values[(i+o) % len(values)].
func rotate(values []float64, offset int) []float64 {
	n := len(values)
	if n == 0 {
		return nil
	}
	offset = ((offset % n) + n) % n
	out := make([]float64, n)
	for i := range out {
		out[i] = values[(i+offset)%n]
	}
	return out
}

// unrotate is rotate's inverse: unrotate(rotate(v, o), o) == v.
func unrotate(values []float64, offset int) []float64 {
	n := len(values)
	if n == 0 {
		return nil
	}
	return rotate(values, n-((offset%n)+n)%n)
}
