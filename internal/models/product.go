package models

// Product 目录商品（由目录加载器提供，核心逻辑只读）
type Product struct {
	ID          uint   `json:"id"`          // 商品ID
	Name        string `json:"name"`        // 名称
	Price       Money  `json:"price"`       // 单价
	Image       string `json:"image"`       // 图片地址
	Category    string `json:"category"`    // 分类标签
	Description string `json:"description"` // 描述
	Specs       JSON   `json:"specs"`       // 规格参数（dpi/weight/battery/switches/connectivity/features）
}

// CatalogPayload 目录数据源的响应结构
type CatalogPayload struct {
	Products []Product `json:"products"`
}
