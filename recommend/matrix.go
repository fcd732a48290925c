package recommend

import (
	"encoding/json"
	"fmt"
	"sort"

	"github.com/rushteam/commercekit/core"
)

// InteractionMatrix 是协同过滤的训练产物：用户 × 商品评分矩阵。
// 缺失的 (用户, 商品) 对零填充；用户与商品按字典序排列，保证同一批
// 交互构建出的矩阵字节级一致。
type InteractionMatrix struct {
	Version  string      `json:"schema_version"`
	Users    []string    `json:"users"`
	Products []string    `json:"products"`
	Ratings  [][]float64 `json:"ratings"` // len(Users) 行 × len(Products) 列

	userIndex    map[string]int
	productIndex map[string]int
}

// BuildMatrix 从交互记录构建矩阵。
// 同一 (用户, 商品) 的多条记录按"保留最后一条"去重。
func BuildMatrix(interactions []core.Interaction) *InteractionMatrix {
	type pair struct{ user, product string }
	latest := make(map[pair]float64, len(interactions))
	userSet := make(map[string]struct{})
	productSet := make(map[string]struct{})

	for _, it := range interactions {
		latest[pair{it.UserID, it.ProductID}] = it.Rating
		userSet[it.UserID] = struct{}{}
		productSet[it.ProductID] = struct{}{}
	}

	users := sortedKeys(userSet)
	products := sortedKeys(productSet)

	m := &InteractionMatrix{
		Version:  core.SchemaVersion,
		Users:    users,
		Products: products,
		Ratings:  make([][]float64, len(users)),
	}
	m.buildIndex()
	for i := range m.Ratings {
		m.Ratings[i] = make([]float64, len(products))
	}
	for p, rating := range latest {
		m.Ratings[m.userIndex[p.user]][m.productIndex[p.product]] = rating
	}
	return m
}

func (m *InteractionMatrix) NumUsers() int    { return len(m.Users) }
func (m *InteractionMatrix) NumProducts() int { return len(m.Products) }

// Rating 返回用户对商品的评分；任一维不存在时返回 (0, false)。
func (m *InteractionMatrix) Rating(userID, productID string) (float64, bool) {
	i, ok := m.userIndex[userID]
	if !ok {
		return 0, false
	}
	j, ok := m.productIndex[productID]
	if !ok {
		return 0, false
	}
	return m.Ratings[i][j], true
}

// Marshal 编码为持久化 blob。
func (m *InteractionMatrix) Marshal() ([]byte, error) {
	return json.Marshal(m)
}

// UnmarshalMatrix 从持久化 blob 解码并重建索引；
// schema 版本不一致时报错，调用方按"未训练"处理。
func UnmarshalMatrix(blob []byte) (*InteractionMatrix, error) {
	var m InteractionMatrix
	if err := json.Unmarshal(blob, &m); err != nil {
		return nil, err
	}
	if m.Version != core.SchemaVersion {
		return nil, fmt.Errorf("recommend: matrix schema version %q does not match %q", m.Version, core.SchemaVersion)
	}
	m.buildIndex()
	return &m, nil
}

func (m *InteractionMatrix) buildIndex() {
	m.userIndex = make(map[string]int, len(m.Users))
	for i, u := range m.Users {
		m.userIndex[u] = i
	}
	m.productIndex = make(map[string]int, len(m.Products))
	for j, p := range m.Products {
		m.productIndex[p] = j
	}
}

func sortedKeys(set map[string]struct{}) []string {
	keys := make([]string, 0, len(set))
	for k := range set {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
