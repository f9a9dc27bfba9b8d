package windowing

import "fmt"

// Sample is the set of element types CopyCentered can move between.
type Sample interface {
	~float32 | ~float64
}

// CopyCentered fills out with data[center-len(out)/2 : center+len(out)/2],
// zero-padding whatever part of that range lies outside data.
// It panics if center is not a valid index into data.
func CopyCentered[S, D Sample](center int, data []S, out []D) {
	size := len(out)
	dataLen := len(data)
	if center < 0 || center >= dataLen {
		panic(fmt.Sprintf("windowing: center %d out of range [0, %d)", center, dataLen))
	}

	start := center - size/2
	end := start + size

	switch {
	case start >= 0 && end <= dataLen:
		// fully inside
		convert(out, data[start:end])
	case start >= 0:
		// tail past the end of data
		n := dataLen - start
		convert(out[:n], data[start:])
		clear(out[n:])
	case end <= dataLen:
		// head before the start of data
		n := -start
		clear(out[:n])
		convert(out[n:], data[:size-n])
	default:
		// window wider than data on both sides
		n := -start
		clear(out[:n])
		convert(out[n:n+dataLen], data)
		clear(out[n+dataLen:])
	}
}

func convert[S, D Sample](dst []D, src []S) {
	for i, v := range src {
		dst[i] = D(v)
	}
}
