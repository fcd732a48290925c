package price

import (
	"encoding/json"
	"fmt"

	"gonum.org/v1/gonum/mat"

	"github.com/rushteam/commercekit/core"
)

// ridgeLambda 是岭回归的正则化系数。样本规模小（最低 10 条），
// 不加正则时法方程容易病态。
const ridgeLambda = 1e-3

// ridgeModel 是训练产物：带偏置项的线性模型。
type ridgeModel struct {
	Version string    `json:"version"`
	Bias    float64   `json:"bias"`
	Weights []float64 `json:"weights"`
}

// fitRidge 用法方程 (XᵀX + λI)w = Xᵀy 求解岭回归。
// X 的每行是一个样本向量，末尾自动追加常数 1 作为偏置列。
func fitRidge(samples [][]float64, targets []float64) (*ridgeModel, error) {
	n := len(samples)
	if n == 0 || n != len(targets) {
		return nil, fmt.Errorf("price: fit requires equal non-empty samples and targets, got %d/%d", n, len(targets))
	}
	dim := len(samples[0])

	// 增广矩阵：dim 个特征 + 1 个偏置列
	cols := dim + 1
	data := make([]float64, 0, n*cols)
	for i, row := range samples {
		if len(row) != dim {
			return nil, fmt.Errorf("price: sample %d has %d features, want %d", i, len(row), dim)
		}
		data = append(data, row...)
		data = append(data, 1)
	}
	x := mat.NewDense(n, cols, data)
	y := mat.NewVecDense(n, targets)

	var ata mat.Dense
	ata.Mul(x.T(), x)
	for i := 0; i < cols; i++ {
		ata.Set(i, i, ata.At(i, i)+ridgeLambda)
	}
	var aty mat.VecDense
	aty.MulVec(x.T(), y)

	var w mat.VecDense
	if err := w.SolveVec(&ata, &aty); err != nil {
		return nil, fmt.Errorf("price: solving normal equations: %w", err)
	}

	m := &ridgeModel{
		Version: core.SchemaVersion,
		Bias:    w.AtVec(dim),
		Weights: make([]float64, dim),
	}
	for i := 0; i < dim; i++ {
		m.Weights[i] = w.AtVec(i)
	}
	return m, nil
}

// predict 计算单条样本的预测值。
func (m *ridgeModel) predict(features []float64) (float64, error) {
	if len(features) != len(m.Weights) {
		return 0, fmt.Errorf("price: predict got %d features, model has %d weights", len(features), len(m.Weights))
	}
	out := m.Bias
	for i, f := range features {
		out += m.Weights[i] * f
	}
	return out, nil
}

// rsquared 计算训练集上的决定系数 R²。目标方差为 0 时返回 0。
func (m *ridgeModel) rsquared(samples [][]float64, targets []float64) float64 {
	n := len(targets)
	if n == 0 {
		return 0
	}
	var mean float64
	for _, t := range targets {
		mean += t
	}
	mean /= float64(n)

	var ssRes, ssTot float64
	for i, row := range samples {
		pred, err := m.predict(row)
		if err != nil {
			return 0
		}
		ssRes += (targets[i] - pred) * (targets[i] - pred)
		ssTot += (targets[i] - mean) * (targets[i] - mean)
	}
	if ssTot == 0 {
		return 0
	}
	return 1 - ssRes/ssTot
}

func (m *ridgeModel) marshal() ([]byte, error) {
	return json.Marshal(m)
}

func unmarshalModel(blob []byte) (*ridgeModel, error) {
	var m ridgeModel
	if err := json.Unmarshal(blob, &m); err != nil {
		return nil, fmt.Errorf("price: decoding model artifact: %w", err)
	}
	if m.Version != core.SchemaVersion {
		return nil, fmt.Errorf("price: model artifact version %q unsupported", m.Version)
	}
	return &m, nil
}
