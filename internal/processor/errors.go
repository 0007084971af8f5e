package processor

import (
	"errors"
	"fmt"
)

// 处理服务的哨兵错误，API 层据此映射 HTTP 状态码
var (
	ErrJobNotFound         = errors.New("岗位不存在")
	ErrApplicationNotFound = errors.New("投递记录不存在")
	ErrDuplicateResume     = errors.New("该岗位已收到相同的简历文件")
	ErrUnsupportedFile     = errors.New("不支持的文件类型")
	ErrFileTooLarge        = errors.New("文件超过大小限制")
	ErrEmptyFile           = errors.New("文件内容为空")
	ErrInvalidJob          = errors.New("岗位描述不完整")
	ErrRankingInProgress   = errors.New("该岗位正在排序中")
	ErrStorageNotInit      = errors.New("存储组件未初始化")
)

// ProcessError 处理过程中的错误，携带操作名和对象ID
type ProcessError struct {
	Op     string // 操作，如 "SubmitApplication"
	ID     string // 岗位或投递ID
	Err    error
	Detail string
}

func (e *ProcessError) Error() string {
	msg := e.Op
	if e.ID != "" {
		msg += fmt.Sprintf("[%s]", e.ID)
	}
	if e.Detail != "" {
		msg += ": " + e.Detail
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *ProcessError) Unwrap() error {
	return e.Err
}

// Is 两个 ProcessError 的操作相同即视为同类
func (e *ProcessError) Is(target error) bool {
	t, ok := target.(*ProcessError)
	if !ok {
		return false
	}
	return t.Op == e.Op
}

func newProcessError(op, id string, err error, detail string) error {
	return &ProcessError{Op: op, ID: id, Err: err, Detail: detail}
}
