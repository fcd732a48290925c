package core

import "context"

// ArtifactStore 是训练产物持久化的领域接口。
//
// 设计原则：
//   - 定义在领域层（core），由基础设施层（store）实现
//   - 产物是按名称寻址的不透明 blob（JSON 编码由各 Engine 自己负责）
//   - 产物不存在不是异常状态：Load 返回 ErrArtifactNotFound，
//     Engine 据此走"未训练"的 fallback 路径
//
// 实现：
//   - store.FileStore 本地目录（生产默认，进程重启后可恢复）
//   - store.MemoryStore 内存（测试/原型）
//   - store.RedisStore Redis（多实例共享）
type ArtifactStore interface {
	// Name 返回存储后端名称（用于日志/监控）
	Name() string

	// Save 写入一个训练产物，覆盖同名的旧产物
	Save(ctx context.Context, name string, blob []byte) error

	// Load 读取训练产物；不存在时返回 ErrArtifactNotFound
	Load(ctx context.Context, name string) ([]byte, error)

	// Delete 删除训练产物；不存在时不报错
	Delete(ctx context.Context, name string) error

	// Close 关闭连接/释放资源
	Close() error
}

// 产物名称常量。名称是存储 key 的一部分，改名等同于丢弃旧产物。
const (
	ArtifactUserItemMatrix = "user_item_matrix" // 推荐：用户-商品评分矩阵
	ArtifactPriceModel     = "price_model"      // 定价：回归模型
	ArtifactPriceScaler    = "price_scaler"     // 定价：特征标准化器
)

// SchemaVersion 是特征 schema 的版本号，随每个产物一起持久化。
// 特征维度或字段顺序变更时必须递增，加载方校验不一致时按未训练处理，
// 避免旧模型对上新特征向量。
const SchemaVersion = "1"

// ErrArtifactNotFound 表示产物不存在（即"未训练"状态，不是错误）。
var ErrArtifactNotFound = NewDomainError(ModuleStore, ErrorCodeNotFound, "store: artifact not found")

// IsArtifactNotFound 检查错误是否为产物不存在。
func IsArtifactNotFound(err error) bool {
	domainErr := GetDomainError(err)
	if domainErr != nil && domainErr.Module == ModuleStore {
		return domainErr.Code == ErrorCodeNotFound
	}
	return false
}
