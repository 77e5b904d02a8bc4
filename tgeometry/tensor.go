package tgeometry

import (
	"fmt"

	"gonum.org/v1/gonum/mat"
)

// Tensor is a row-major 2D float64 array, one row per mesh element. Integer
// data such as triangle indices is stored as exact float64 values.
// A Tensor with zero rows is valid; gonum does not allow zero sized Dense
// matrices, so M is nil in that case and cols keeps the row width. When M is
// set its dimensions are authoritative, M may be a view into a larger matrix.
type Tensor struct {
	M    *mat.Dense
	cols int
}

// NewTensor allocates a rows x cols tensor. When data is non-nil it is used as
// backing storage and must have length rows*cols.
func NewTensor(rows, cols int, data []float64) Tensor {
	if rows < 0 || cols <= 0 {
		panic(fmt.Errorf("invalid tensor shape [%d,%d]", rows, cols))
	}
	if rows == 0 {
		return Tensor{cols: cols}
	}
	return Tensor{M: mat.NewDense(rows, cols, data), cols: cols}
}

// Dims, At and T minimally satisfy the mat.Matrix interface.
func (t Tensor) Dims() (r, c int) { return t.GetLength(), t.Cols() }
func (t Tensor) At(i, j int) float64 {
	if t.M == nil {
		panic(mat.ErrIndexOutOfRange)
	}
	return t.M.At(i, j)
}
func (t Tensor) T() mat.Matrix { return mat.Transpose{Matrix: t} }

// GetLength returns the number of rows, zero for an unset tensor
func (t Tensor) GetLength() int {
	if t.M == nil {
		return 0
	}
	r, _ := t.M.Dims()
	return r
}

func (t Tensor) Cols() int {
	if t.M == nil {
		return t.cols
	}
	_, c := t.M.Dims()
	return c
}

func (t Tensor) Set(i, j int, val float64) {
	if t.M == nil {
		panic(mat.ErrIndexOutOfRange)
	}
	t.M.Set(i, j, val)
}

// Row returns a copy of row i
func (t Tensor) Row(i int) []float64 {
	return mat.Row(nil, i, t.M)
}

// Data returns the row-major values, nil for a zero length tensor. The
// backing storage is shared unless M is a strided view, then it is a copy.
func (t Tensor) Data() []float64 {
	if t.M == nil {
		return nil
	}
	r, c := t.M.Dims()
	raw := t.M.RawMatrix()
	if raw.Stride == c {
		return raw.Data[:r*c]
	}
	data := make([]float64, 0, r*c)
	for i := 0; i < r; i++ {
		data = append(data, raw.Data[i*raw.Stride:i*raw.Stride+c]...)
	}
	return data
}

func (t Tensor) Clone() Tensor {
	c := t.Cols()
	if t.M == nil {
		return Tensor{cols: c}
	}
	R := Tensor{M: mat.NewDense(t.GetLength(), c, nil), cols: c}
	R.M.Copy(t.M)
	return R
}

func (t Tensor) String() string {
	return fmt.Sprintf("Tensor[%d,%d]", t.GetLength(), t.Cols())
}

// TensorFromVec3 packs [n][3] float data into an n x 3 tensor
func TensorFromVec3(v [][3]float64) Tensor {
	data := make([]float64, 3*len(v))
	for i, p := range v {
		copy(data[3*i:], p[:])
	}
	return NewTensor(len(v), 3, data)
}

// TensorFromIndex3 packs triangle connectivity into an n x 3 tensor
func TensorFromIndex3(v [][3]int) Tensor {
	data := make([]float64, 3*len(v))
	for i, tri := range v {
		for j := 0; j < 3; j++ {
			data[3*i+j] = float64(tri[j])
		}
	}
	return NewTensor(len(v), 3, data)
}

// TensorFromUVs packs three UV pairs per triangle into an n x 6 tensor
func TensorFromUVs(uv [][2]float64) Tensor {
	if len(uv)%3 != 0 {
		panic(fmt.Errorf("triangle uv count %d is not a multiple of 3", len(uv)))
	}
	data := make([]float64, 2*len(uv))
	for i, p := range uv {
		copy(data[2*i:], p[:])
	}
	return NewTensor(len(uv)/3, 6, data)
}

// ToVec3 unpacks an n x 3 tensor
func (t Tensor) ToVec3() [][3]float64 {
	t.checkCols(3)
	R := make([][3]float64, t.GetLength())
	data := t.Data()
	for i := range R {
		copy(R[i][:], data[3*i:3*i+3])
	}
	return R
}

// ToIndex3 unpacks an n x 3 index tensor
func (t Tensor) ToIndex3() [][3]int {
	t.checkCols(3)
	R := make([][3]int, t.GetLength())
	data := t.Data()
	for i := range R {
		for j := 0; j < 3; j++ {
			R[i][j] = int(data[3*i+j])
		}
	}
	return R
}

// ToUVs unpacks an n x 6 tensor into 3n UV pairs
func (t Tensor) ToUVs() [][2]float64 {
	t.checkCols(6)
	data := t.Data()
	R := make([][2]float64, 3*t.GetLength())
	for i := range R {
		copy(R[i][:], data[2*i:2*i+2])
	}
	return R
}

func (t Tensor) checkCols(nc int) {
	if c := t.Cols(); c != nc {
		panic(fmt.Errorf("tensor has %d columns, expected %d", c, nc))
	}
}
