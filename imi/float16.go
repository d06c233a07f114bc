package imi

import (
	"math"

	"imivdb/basic"
)

// float16Round narrows a float32 to IEEE-754 binary16 precision and widens
// it back, the same "cast to half, score in half" step the source
// performs with np.float16. No half-precision type appears anywhere in
// the retrieval pack, so this is a deliberately small (≈30 line) standard
// library implementation rather than an imported dependency — see
// DESIGN.md.
func float16Round(f float32) float32 {
	return halfToFloat32(float32ToHalf(f))
}

func float32ToHalf(f float32) uint16 {
	bits := math.Float32bits(f)
	sign := uint16((bits >> 16) & 0x8000)
	exp := int32((bits>>23)&0xff) - 127 + 15
	mant := bits & 0x7fffff

	switch {
	case exp <= 0:
		// Too small to represent as a normal half; flush to signed zero.
		return sign
	case exp >= 0x1f:
		// Overflow: saturate to signed infinity.
		return sign | 0x7c00
	default:
		return sign | uint16(exp<<10) | uint16(mant>>13)
	}
}

func halfToFloat32(h uint16) float32 {
	sign := uint32(h&0x8000) << 16
	exp := (h >> 10) & 0x1f
	mant := uint32(h & 0x3ff)

	switch exp {
	case 0:
		if mant == 0 {
			return math.Float32frombits(sign)
		}
		// Subnormal half: normalize.
		e := int32(-1)
		for mant&0x400 == 0 {
			mant <<= 1
			e--
		}
		mant &= 0x3ff
		bits := sign | uint32((127+e-15+1))<<23 | (mant << 13)
		return math.Float32frombits(bits)
	case 0x1f:
		bits := sign | 0x7f800000 | (mant << 13)
		return math.Float32frombits(bits)
	default:
		bits := sign | uint32(int32(exp)-15+127)<<23 | (mant << 13)
		return math.Float32frombits(bits)
	}
}

// ScoreKernel is a build-time choice of scoring precision, replacing the
// source's ad hoc half-precision narrowing inline in the hot loop: the
// cast is now an explicit, documented part of the engine's numeric
// contract instead of a hidden `.astype(np.float16)`.
type ScoreKernel interface {
	Distance(query, row []float32) float32
}

// Float32Kernel scores at full single precision, no narrowing.
type Float32Kernel struct{}

func (Float32Kernel) Distance(query, row []float32) float32 {
	return basic.CosineDistance(query, row)
}

// Float16Kernel narrows both the query and the candidate row to
// half-precision before computing cosine distance, matching the source's
// default numeric contract.
type Float16Kernel struct{}

func (Float16Kernel) Distance(query, row []float32) float32 {
	nq := narrow(query)
	nr := narrow(row)
	return basic.CosineDistance(nq, nr)
}

func narrow(v []float32) []float32 {
	out := make([]float32, len(v))
	for i, x := range v {
		out[i] = float16Round(x)
	}
	return out
}
