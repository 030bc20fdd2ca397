package mdns

import (
	"errors"
	"fmt"
)

// 预定义错误
var (
	// ErrAlreadyStarted 广播已启动
	ErrAlreadyStarted = errors.New("mdns: already started")

	// ErrInvalidConfig 无效配置
	ErrInvalidConfig = errors.New("mdns: invalid config")

	// ErrNoValidAddresses 没有可广播的地址
	ErrNoValidAddresses = errors.New("mdns: no valid addresses for advertisement")
)

// MDNSError 带操作名的错误
type MDNSError struct {
	Op  string
	Err error
}

func (e *MDNSError) Error() string {
	return fmt.Sprintf("mdns: %s: %v", e.Op, e.Err)
}

func (e *MDNSError) Unwrap() error {
	return e.Err
}
