package util

import (
	"errors"
	"fmt"

	"gorm.io/gorm"
)

// ErrorKind 业务错误分类，由控制器映射为 HTTP 状态码
type ErrorKind int

const (
	KindInternal ErrorKind = iota
	KindNotFound
	KindBadRequest
	KindDuplicate
	KindForbidden
	KindUnauthorized
)

func (k ErrorKind) String() string {
	switch k {
	case KindNotFound:
		return "not_found"
	case KindBadRequest:
		return "bad_request"
	case KindDuplicate:
		return "duplicate"
	case KindForbidden:
		return "forbidden"
	case KindUnauthorized:
		return "unauthorized"
	default:
		return "internal"
	}
}

type AppError struct {
	Kind    ErrorKind
	Message string
}

func (e *AppError) Error() string {
	return e.Message
}

// Is 只比较 Kind，方便 errors.Is(err, ErrUnauthorized) 之类的判断
func (e *AppError) Is(target error) bool {
	t, ok := target.(*AppError)
	if !ok {
		return false
	}
	return t.Message == "" && t.Kind == e.Kind
}

var (
	ErrUnauthorized = &AppError{Kind: KindUnauthorized}

	ErrInvalidCredentials = &AppError{Kind: KindUnauthorized, Message: "Invalid username or password"}
	ErrAccountInactive    = &AppError{Kind: KindUnauthorized, Message: "Account is deactivated"}
)

func ErrResourceNotFound(resource, field string, value interface{}) *AppError {
	return &AppError{
		Kind:    KindNotFound,
		Message: fmt.Sprintf("%s not found with %s : '%v'", resource, field, value),
	}
}

func ErrDuplicateResource(resource, field string, value interface{}) *AppError {
	return &AppError{
		Kind:    KindDuplicate,
		Message: fmt.Sprintf("%s already exists with %s : '%v'", resource, field, value),
	}
}

func BadRequestf(format string, args ...interface{}) *AppError {
	return &AppError{Kind: KindBadRequest, Message: fmt.Sprintf(format, args...)}
}

func Forbiddenf(format string, args ...interface{}) *AppError {
	return &AppError{Kind: KindForbidden, Message: fmt.Sprintf(format, args...)}
}

// KindOf 非 AppError 一律视为内部错误
func KindOf(err error) ErrorKind {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Kind
	}
	return KindInternal
}

// NotFoundOr 把 gorm 的 ErrRecordNotFound 转为带资源名的 NotFound，其余错误原样返回
func NotFoundOr(err error, resource, field string, value interface{}) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrResourceNotFound(resource, field, value)
	}
	return err
}
