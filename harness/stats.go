package harness

// Average returns the arithmetic mean of values, or 0 when values is empty.
func Average(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}

	var sum float64
	for _, v := range values {
		sum += v
	}

	return sum / float64(len(values))
}

// Min returns the smallest value, or 0 when values is empty.
func Min(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}

	found := values[0]
	for _, v := range values[1:] {
		if v < found {
			found = v
		}
	}

	return found
}

// Max returns the largest value, or 0 when values is empty.
func Max(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}

	found := values[0]
	for _, v := range values[1:] {
		if v > found {
			found = v
		}
	}

	return found
}

// Rate returns events per second for the given mean run time. A
// non-positive mean yields 0.
func Rate(events int64, meanSeconds float64) float64 {
	if meanSeconds <= 0 {
		return 0
	}

	return float64(events) / meanSeconds
}
