package store

import (
	"errors"
	"fmt"

	"gorm.io/gorm"
)

var (
	ErrNotLoaded         = errors.New("缓存尚未加载")
	ErrNotFound          = errors.New("记录不存在")
	ErrInvalidInput      = errors.New("参数无效")
	ErrForbidden         = errors.New("无权执行该操作")
	ErrInvalidTransition = errors.New("当前状态不允许该操作")
	ErrBackend           = errors.New("后端写入失败")
	ErrDuplicate         = errors.New("记录已存在")
)

// WriteError 后端写入失败；缓存保持写入前的状态
type WriteError struct {
	Op     string
	Entity Entity
	Err    error
}

func (e *WriteError) Error() string {
	return fmt.Sprintf("%s %s 失败: %v", e.Op, e.Entity, e.Err)
}

func (e *WriteError) Unwrap() error { return e.Err }

// Is 使 errors.Is(err, ErrBackend) 恒成立，唯一约束冲突同时匹配 ErrDuplicate
func (e *WriteError) Is(target error) bool {
	switch target {
	case ErrBackend:
		return true
	case ErrDuplicate:
		return errors.Is(e.Err, gorm.ErrDuplicatedKey)
	}
	return false
}

// invalid 包装 ErrInvalidInput 并附带原因
func invalid(format string, args ...interface{}) error {
	return fmt.Errorf("%w: %s", ErrInvalidInput, fmt.Sprintf(format, args...))
}
