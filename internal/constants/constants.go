package constants

// 会话状态存储键
const (
	StateKeyCart        = "cart"
	StateKeyActivePromo = "activePromo"
)

// 存储驱动
const (
	StorageDriverMemory   = "memory"
	StorageDriverSQLite   = "sqlite"
	StorageDriverPostgres = "postgres"
	StorageDriverRedis    = "redis"
)

// 优惠码类型
const (
	PromoKindPercentage = "percentage"
	PromoKindFixed      = "fixed"
)

// 配送费用策略
const (
	ShippingPolicyFlatRate = "flat_rate"
	ShippingPolicyTiered   = "tiered"
)

// 商品分类筛选
const (
	CategoryAll = "all"
)

// 异步任务
const (
	QueueDefault             = "default"
	TaskCheckoutConfirmation = "checkout:confirmation"
	TaskCatalogRefresh       = "catalog:refresh"
)

// 缓存键
const (
	CatalogCacheKey = "catalog:products"
)

// 会话
const (
	SessionHeader     = "X-Session-ID"
	SessionContextKey = "session_id"
)

// 提示类型
const (
	NoticeSuccess = "success"
	NoticeError   = "error"
)
