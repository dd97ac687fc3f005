package errors

import perrors "github.com/pingcap/errors"

const (
	ErrCodeBrickConfig  = 1000
	ErrCodeSpecParse    = 2000
	ErrCodeSpecBuild    = 2100
	ErrCodeRecordSource = 3000
	ErrCodeRecordField  = 3100
	ErrCodeSink         = 4000
)

// CutError 带错误码的错误
type CutError struct {
	Code uint16
	error
}

func NewCutError(code uint16, err error) error {
	return &CutError{
		Code:  code,
		error: err,
	}
}

func NewCutErrorMessage(code uint16, message string) error {
	return &CutError{
		Code:  code,
		error: perrors.New(message),
	}
}

func NewCutErrorf(code uint16, format string, args ...any) error {
	return &CutError{
		Code:  code,
		error: perrors.Errorf(format, args...),
	}
}

func (e *CutError) Unwrap() error {
	return e.error
}

// CodeOf 返回错误链上第一个 CutError 的错误码，没有则返回 0
func CodeOf(err error) uint16 {
	for err != nil {
		if ce, ok := err.(*CutError); ok {
			return ce.Code
		}
		switch x := err.(type) {
		case interface{ Unwrap() error }:
			err = x.Unwrap()
		case interface{ Cause() error }:
			err = x.Cause()
		default:
			return 0
		}
	}
	return 0
}

// pingcap/errors 的常用入口，Is 按 Cause 比较
var (
	New        = perrors.New
	Errorf     = perrors.Errorf
	Trace      = perrors.Trace
	Cause      = perrors.Cause
	Annotate   = perrors.Annotate
	Annotatef  = perrors.Annotatef
	WithStack  = perrors.WithStack
	ErrorStack = perrors.ErrorStack
	Is         = perrors.ErrorEqual
)

var (
	ErrRecordSourceClosed = NewCutErrorMessage(ErrCodeRecordSource, "record source closed")
	ErrEmptyCutName       = NewCutErrorMessage(ErrCodeSpecBuild, "cut name is empty")
)
