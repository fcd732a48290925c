package feature

import (
	"encoding/json"
	"fmt"
	"math"

	"github.com/rushteam/commercekit/core"
)

// StandardScaler 是特征标准化器（Z-score Standardization）。
// 公式: z = (x - μ) / σ，按列计算；σ 为 0 的列不缩放（只平移）。
//
// 训练时 Fit，推理时 Transform；Mean/Std 随模型一起持久化，
// 两者必须来自同一次训练，否则打分无意义。
type StandardScaler struct {
	Version string    `json:"schema_version"`
	Mean    []float64 `json:"mean"`
	Std     []float64 `json:"std"`
}

// Fit 在样本矩阵上拟合均值和标准差。所有样本行维度必须一致。
func (s *StandardScaler) Fit(samples [][]float64) error {
	if len(samples) == 0 {
		return core.NewDomainError(core.ModuleFeature, core.ErrorCodeInsufficientData, "feature: no samples to fit scaler")
	}
	dim := len(samples[0])
	mean := make([]float64, dim)
	for _, row := range samples {
		if len(row) != dim {
			return fmt.Errorf("feature: inconsistent sample dimension %d, want %d", len(row), dim)
		}
		for j, v := range row {
			mean[j] += v
		}
	}
	n := float64(len(samples))
	for j := range mean {
		mean[j] /= n
	}

	std := make([]float64, dim)
	for _, row := range samples {
		for j, v := range row {
			d := v - mean[j]
			std[j] += d * d
		}
	}
	for j := range std {
		std[j] = math.Sqrt(std[j] / n)
	}

	s.Version = core.SchemaVersion
	s.Mean = mean
	s.Std = std
	return nil
}

// Transform 标准化一个特征向量。维度不匹配时报错，由调用方决定 fallback。
func (s *StandardScaler) Transform(vec []float64) ([]float64, error) {
	if len(vec) != len(s.Mean) {
		return nil, fmt.Errorf("feature: vector dimension %d does not match scaler dimension %d", len(vec), len(s.Mean))
	}
	out := make([]float64, len(vec))
	for j, v := range vec {
		d := s.Std[j]
		if d == 0 {
			d = 1 // 零方差列只平移
		}
		out[j] = (v - s.Mean[j]) / d
	}
	return out, nil
}

// TransformAll 标准化一批向量。
func (s *StandardScaler) TransformAll(samples [][]float64) ([][]float64, error) {
	out := make([][]float64, len(samples))
	for i, row := range samples {
		scaled, err := s.Transform(row)
		if err != nil {
			return nil, err
		}
		out[i] = scaled
	}
	return out, nil
}

// Marshal 编码为持久化 blob。
func (s *StandardScaler) Marshal() ([]byte, error) {
	return json.Marshal(s)
}

// UnmarshalScaler 从持久化 blob 解码；schema 版本不一致时报错，
// 调用方按"未训练"处理。
func UnmarshalScaler(blob []byte) (*StandardScaler, error) {
	var s StandardScaler
	if err := json.Unmarshal(blob, &s); err != nil {
		return nil, err
	}
	if s.Version != core.SchemaVersion {
		return nil, fmt.Errorf("feature: scaler schema version %q does not match %q", s.Version, core.SchemaVersion)
	}
	return &s, nil
}
