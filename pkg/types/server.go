package types

import "time"

// HealthResponse GET /health 响应
type HealthResponse struct {
	OK   bool      `json:"ok"`
	Time time.Time `json:"time"`
}

// ServerInfo GET /server-info 响应
type ServerInfo struct {
	OK   bool      `json:"ok"`
	Name string    `json:"name"`
	Type string    `json:"type"`
	Port int       `json:"port"`
	URLs []string  `json:"urls"`
	Time time.Time `json:"time"`
}

// Item 服务端保存的一条记录
type Item struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// ItemInput POST /items 与 PUT /items/{id} 请求体
type ItemInput struct {
	Title string `json:"title"`
}

// ItemResponse 单条记录响应
type ItemResponse struct {
	OK   bool `json:"ok"`
	Item Item `json:"item"`
}

// ItemListResponse GET /items 响应
type ItemListResponse struct {
	OK    bool   `json:"ok"`
	Items []Item `json:"items"`
}

// ErrorResponse 错误响应
type ErrorResponse struct {
	OK    bool   `json:"ok"`
	Error string `json:"error"`
}
