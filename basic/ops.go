package basic

import (
	"math"
	"math/rand"

	"gonum.org/v1/gonum/floats"
)

// EuclidDistance
//
//	@Description: 计算两个向量之间的欧几里得距离
//	@param a 数组a
//	@param b 数组b
//	@return float32 欧几里得距离
//
// Used only by the centroid trainer: the source trains k-means under
// Euclidean distance even though assignment and query run under cosine
// distance (see centroid.TrainTwoSubspace).
func EuclidDistance(a, b []float32) float32 {
	sum := 0.0
	for i := 0; i < len(a); i++ {
		d := float64(a[i]) - float64(b[i])
		sum += d * d
	}
	return float32(math.Sqrt(sum))
}

// EuclidDistanceVec
//
//	@Description: 计算两个向量之间的欧几里得距离
//	@param a 向量 a
//	@param b 向量 b
//	@return float32 欧几里得距离
func EuclidDistanceVec(a, b Vector) float32 {
	return EuclidDistance(a.Values, b.Values)
}

// CosineDistance returns 1 - cosine similarity between a and b: 0 for
// identical direction, up to 2 for opposite direction. Dot product and
// norms run in float64 via gonum/floats for numerical stability, then
// narrow back to float32 to match the engine's on-disk precision.
func CosineDistance(a, b []float32) float32 {
	af := widen(a)
	bf := widen(b)
	dot := floats.Dot(af, bf)
	na := floats.Norm(af, 2)
	nb := floats.Norm(bf, 2)
	if na == 0 || nb == 0 {
		return 1
	}
	cos := dot / (na * nb)
	if cos > 1 {
		cos = 1
	} else if cos < -1 {
		cos = -1
	}
	return float32(1 - cos)
}

func CosineDistanceVec(a, b Vector) float32 {
	return CosineDistance(a.Values, b.Values)
}

func widen(v []float32) []float64 {
	out := make([]float64, len(v))
	for i, x := range v {
		out[i] = float64(x)
	}
	return out
}

// GenerateRandomVector
//
//	@Description: 生成随机 Vector
//	@param id 向量 ID
//	@param dim 向量维度
//	@param minValue 向量最小值
//	@param maxValue 向量最大值
//	@return Vector
func GenerateRandomVector(id int64, dim int, minValue float32, maxValue float32) Vector {
	values := make([]float32, dim)
	for i := 0; i < dim; i++ {
		values[i] = rand.Float32()*(maxValue-minValue) + minValue
	}
	return Vector{ID: id, Values: values}
}
