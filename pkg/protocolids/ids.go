package protocolids

// ============================================================================
//                              组播发现
// ============================================================================

// ServiceType DNS-SD 服务类型
const ServiceType = "_pclink._tcp"

// ServiceDomain DNS-SD 域
const ServiceDomain = "local."

// ============================================================================
//                              HTTP 路径
// ============================================================================

const (
	// PathHealth 存活探测
	PathHealth = "/health"

	// PathServerInfo 服务端信息（配对码菜单使用）
	PathServerInfo = "/server-info"

	// PathItems 记录集合
	PathItems = "/items"

	// PathMetrics Prometheus 指标
	PathMetrics = "/metrics"
)

// DefaultPort 服务端默认监听端口
const DefaultPort = 4310
