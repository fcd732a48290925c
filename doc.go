// Package commercekit 是电商场景的智能打分工具包（Commerce Kit）。
//
// 设计要点：
// - 四个独立引擎：recommend（协同过滤推荐）、similarity（内容相似度）、
//   price（混合动态定价）、sentiment（词表情感分析），可单独使用
// - Artifact-first: 训练产物（矩阵/模型/scaler）通过 core.ArtifactStore
//   持久化，进程重启后直接加载，训练与推理解耦
// - Fallback-first: 定价在模型不可用时回退规则，推荐在冷启动时回退抽样，
//   打分接口永远有结果
package commercekit

import (
	"github.com/rushteam/commercekit/core"
	"github.com/rushteam/commercekit/pipeline"
)

// 轻量 facade：便于用户直接 import "commercekit" 使用核心抽象。
type Product = core.Product
type Interaction = core.Interaction
type Review = core.Review
type ArtifactStore = core.ArtifactStore

type Pipeline = pipeline.Pipeline
type Node = pipeline.Node
type Kind = pipeline.Kind

const (
	KindFilter   = pipeline.KindFilter
	KindScore    = pipeline.KindScore
	KindTruncate = pipeline.KindTruncate
)
