package liberr

import (
	"errors"
	"fmt"
)

// ===== Error model =====
// 各ドメインのサービスはこのコードでエラーを返し、ハンドラがHTTPへ変換する。

type Code string

const (
	CodeInvalidArgument Code = "INVALID_ARGUMENT"
	CodeNotFound        Code = "NOT_FOUND"
	CodeConflict        Code = "CONFLICT"
	CodeInternal        Code = "INTERNAL"

	CodeDuplicateID         Code = "DUPLICATE_ID"
	CodeDuplicateNameAuthor Code = "DUPLICATE_NAME_AUTHOR"
	CodeAlreadyIssued       Code = "ALREADY_ISSUED"

	// 情報通知。致命的ではない（既存リクエストは残る）。
	CodeAlreadyRequestedByYou   Code = "ALREADY_REQUESTED_BY_YOU"
	CodeAlreadyRequestedByOther Code = "ALREADY_REQUESTED_BY_OTHER"
)

type APIError struct {
	Code    Code
	Message string
}

func (e *APIError) Error() string { return fmt.Sprintf("%s: %s", e.Code, e.Message) }

func New(code Code, msg string) *APIError { return &APIError{Code: code, Message: msg} }
func ErrInvalid(msg string) *APIError     { return &APIError{Code: CodeInvalidArgument, Message: msg} }
func ErrNotFound(msg string) *APIError    { return &APIError{Code: CodeNotFound, Message: msg} }
func ErrConflict(msg string) *APIError    { return &APIError{Code: CodeConflict, Message: msg} }
func ErrInternal(msg string) *APIError    { return &APIError{Code: CodeInternal, Message: msg} }

// CodeOf errorからコードを取り出す。APIError以外は INTERNAL 扱い。
func CodeOf(err error) Code {
	var api *APIError
	if errors.As(err, &api) {
		return api.Code
	}
	return CodeInternal
}

func ToHTTPStatus(err error) int {
	switch CodeOf(err) {
	case CodeInvalidArgument:
		return 400
	case CodeNotFound:
		return 404
	case CodeConflict, CodeDuplicateID, CodeDuplicateNameAuthor, CodeAlreadyIssued,
		CodeAlreadyRequestedByYou, CodeAlreadyRequestedByOther:
		return 409
	default:
		return 500
	}
}

// ===== HTTP error body =====

type ErrorBody struct {
	Error struct {
		Code    Code   `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

func Body(code Code, msg string) ErrorBody {
	var e ErrorBody
	e.Error.Code = code
	e.Error.Message = msg
	return e
}

func BodyFrom(err error) ErrorBody {
	var api *APIError
	if errors.As(err, &api) {
		return Body(api.Code, api.Message)
	}
	return Body(CodeInternal, err.Error())
}
