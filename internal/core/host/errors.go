package host

import (
	"fmt"

	"github.com/weisyn/seints-row/pkg/types"
)

// 宿主错误都带有 types.ErrorKind 分类，调用方用 types.KindOf 判断
var (
	// ErrCallDepthExceeded 子消息递归过深
	ErrCallDepthExceeded = fmt.Errorf("%w: max call depth exceeded", types.ErrHost)

	// ErrUnsupportedMessage 宿主不支持的子消息
	ErrUnsupportedMessage = fmt.Errorf("%w: unsupported message", types.ErrHost)

	// ErrContractPanic 合约入口发生 panic
	ErrContractPanic = fmt.Errorf("%w: contract panicked", types.ErrHost)

	// ErrCodeNotLoaded 代码记录存在，但当前进程没有注册对应实现
	ErrCodeNotLoaded = fmt.Errorf("%w: code not loaded", types.ErrHost)
)

func codeNotFound(id uint64) error {
	return types.NotFoundf("code %d", id)
}

func contractNotFound(addr types.Addr) error {
	return types.NotFoundf("contract %s", addr)
}

func invalidAddress(addr string, err error) error {
	return types.InvalidInputf("invalid address %q: %v", addr, err)
}
