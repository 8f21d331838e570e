package mathx

// MapU16 maps x in [inMin,inMax] to [outMin,outMax] with 32-bit intermediates.
// Clamps to out range if input is outside.
func MapU16(x, inMin, inMax, outMin, outMax uint16) uint16 {
	if inMax == inMin {
		return outMin
	}
	if x < inMin {
		return outMin
	}
	if x > inMax {
		return outMax
	}
	num := uint32(x-inMin) * uint32(outMax-outMin)
	den := uint32(inMax - inMin)
	return uint16(uint32(outMin) + num/den)
}

// MapSym maps raw in [0,fullScale] onto [+bound,-bound]: 0 gives +bound and
// fullScale gives -bound. The division truncates toward zero.
// raw above fullScale is treated as fullScale; bound==0 or fullScale==0 gives 0.
func MapSym(raw, fullScale uint16, bound int) int {
	if bound == 0 || fullScale == 0 {
		return 0
	}
	r := int64(Min(raw, fullScale))
	l := int64(bound)
	return int(l - r*2*l/int64(fullScale))
}
