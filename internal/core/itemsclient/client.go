// Package itemsclient 客户端的记录 CRUD
//
// 每次调用先向连接状态机查询当前地址，未连接时返回 types.ErrNotConnected，
// 不会向任何未经验证的地址发请求。
package itemsclient

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/IFIR649/react-pc-mobile/internal/util/logger"
	"github.com/IFIR649/react-pc-mobile/pkg/protocolids"
	"github.com/IFIR649/react-pc-mobile/pkg/types"
)

var log = logger.Logger("itemsclient")

// DefaultTimeout 默认请求超时
const DefaultTimeout = 5 * time.Second

// maxResponseBytes 响应体上限
const maxResponseBytes = 1 << 20

// 预定义错误
var (
	// ErrNotFound 记录不存在
	ErrNotFound = errors.New("itemsclient: not found")

	// ErrBadRequest 服务端拒绝了请求参数
	ErrBadRequest = errors.New("itemsclient: bad request")
)

// EndpointSource 当前已验证的服务端地址
type EndpointSource interface {
	Current() (types.Endpoint, bool)
}

// APIError 服务端返回的非 2xx 响应
type APIError struct {
	Op         string
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("itemsclient: %s: %d %s", e.Op, e.StatusCode, e.Message)
}

// Is 按状态码映射到 ErrNotFound / ErrBadRequest
func (e *APIError) Is(target error) bool {
	switch target {
	case ErrNotFound:
		return e.StatusCode == http.StatusNotFound
	case ErrBadRequest:
		return e.StatusCode == http.StatusBadRequest
	}
	return false
}

// Client 记录客户端
type Client struct {
	source  EndpointSource
	http    *http.Client
	timeout time.Duration
}

// New 创建客户端，hc 为空时使用默认 HTTP 客户端
func New(source EndpointSource, hc *http.Client, timeout time.Duration) *Client {
	if hc == nil {
		hc = &http.Client{}
	}
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Client{source: source, http: hc, timeout: timeout}
}

// List 返回全部记录
func (c *Client) List(ctx context.Context) ([]types.Item, error) {
	var resp types.ItemListResponse
	if err := c.do(ctx, "list", http.MethodGet, protocolids.PathItems, nil, &resp); err != nil {
		return nil, err
	}
	return resp.Items, nil
}

// Create 新建记录
func (c *Client) Create(ctx context.Context, title string) (types.Item, error) {
	var resp types.ItemResponse
	err := c.do(ctx, "create", http.MethodPost, protocolids.PathItems, types.ItemInput{Title: title}, &resp)
	return resp.Item, err
}

// Update 修改记录
func (c *Client) Update(ctx context.Context, id, title string) (types.Item, error) {
	var resp types.ItemResponse
	err := c.do(ctx, "update", http.MethodPut, itemPath(id), types.ItemInput{Title: title}, &resp)
	return resp.Item, err
}

// Delete 删除记录
func (c *Client) Delete(ctx context.Context, id string) error {
	return c.do(ctx, "delete", http.MethodDelete, itemPath(id), nil, nil)
}

func itemPath(id string) string {
	return protocolids.PathItems + "/" + url.PathEscape(id)
}

func (c *Client) do(ctx context.Context, op, method, path string, in, out any) error {
	ep, ok := c.source.Current()
	if !ok {
		return fmt.Errorf("itemsclient: %s: %w", op, types.ErrNotConnected)
	}

	var body io.Reader
	if in != nil {
		data, err := json.Marshal(in)
		if err != nil {
			return err
		}
		body = bytes.NewReader(data)
	}

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, method, ep.URL(path), body)
	if err != nil {
		return fmt.Errorf("itemsclient: %s: %w", op, err)
	}
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		log.Debug("请求失败", "op", op, "endpoint", ep.String(), "err", err)
		return fmt.Errorf("itemsclient: %s: %w", op, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return fmt.Errorf("itemsclient: %s: read body: %w", op, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		var e types.ErrorResponse
		_ = json.Unmarshal(data, &e)
		if e.Error == "" {
			e.Error = http.StatusText(resp.StatusCode)
		}
		return &APIError{Op: op, StatusCode: resp.StatusCode, Message: e.Error}
	}

	if out == nil {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("itemsclient: %s: decode: %w", op, err)
	}
	return nil
}
