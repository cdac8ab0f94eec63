package job

import (
	"errors"
	"fmt"
	"syscall"
)

// Kind 错误类别，每个失败路径对应一种
type Kind int

const (
	// KindHandleCreation 创建/打开job object失败
	KindHandleCreation Kind = iota + 1
	// KindProcessOpen 按pid打开进程失败
	KindProcessOpen
	// KindAlreadyAssigned 进程已经属于某个job，不能再分配
	KindAlreadyAssigned
	// KindAssignment 把进程关联到job失败
	KindAssignment
	// KindListCapacity 登记的进程数已经到上限
	KindListCapacity
	// KindConfiguration 限制配置本地校验失败，不会发起内核调用
	KindConfiguration
	// KindLimitSet 向内核提交限制记录失败
	KindLimitSet
	// KindQuery 查询job信息失败
	KindQuery
	// KindTermination 终止job内进程失败
	KindTermination
	// KindWait 等待job结束失败
	KindWait
)

func (k Kind) String() string {
	switch k {
	case KindHandleCreation:
		return "handle creation failure"
	case KindProcessOpen:
		return "process open failure"
	case KindAlreadyAssigned:
		return "process already assigned"
	case KindAssignment:
		return "assignment failure"
	case KindListCapacity:
		return "process list capacity exceeded"
	case KindConfiguration:
		return "configuration error"
	case KindLimitSet:
		return "limit set failure"
	case KindQuery:
		return "query failure"
	case KindTermination:
		return "termination failure"
	case KindWait:
		return "wait failure"
	default:
		return "unknown failure"
	}
}

// Error 带类别的错误。源自内核调用的错误带上调用名和原始错误码，
// 本地校验错误只有Reason，Errno是0
type Error struct {
	Kind   Kind
	Call   string
	Errno  syscall.Errno
	Reason string
}

func (e *Error) Error() string {
	switch {
	case e.Call != "" && e.Errno != 0:
		return fmt.Sprintf("win32-job: %s: %s failed with errno %d: %v", e.Kind, e.Call, uintptr(e.Errno), e.Errno)
	case e.Call != "":
		return fmt.Sprintf("win32-job: %s: %s failed: %s", e.Kind, e.Call, e.Reason)
	default:
		return fmt.Sprintf("win32-job: %s: %s", e.Kind, e.Reason)
	}
}

// Unwrap 暴露底层的OS错误码，支持errors.Is/As链
func (e *Error) Unwrap() error {
	if e.Errno != 0 {
		return e.Errno
	}
	return nil
}

// IsKind 判断err是否属于指定类别
func IsKind(err error, kind Kind) bool {
	var e *Error
	return errors.As(err, &e) && e.Kind == kind
}

// sysErr 把内核调用返回的错误包成带类别的Error，错误码原样保留
func sysErr(kind Kind, call string, err error) *Error {
	e := &Error{Kind: kind, Call: call}
	var errno syscall.Errno
	if errors.As(err, &errno) {
		e.Errno = errno
	} else if err != nil {
		e.Reason = err.Error()
	}
	return e
}

func confErr(format string, args ...interface{}) *Error {
	return &Error{Kind: KindConfiguration, Reason: fmt.Sprintf(format, args...)}
}
