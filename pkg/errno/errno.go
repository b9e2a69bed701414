package errno

import (
	"errors"
	"fmt"
)

// ErrCode doubles as the HTTP status of the error class.
const (
	SuccessCode         = 200
	InvalidArgumentCode = 400
	UnauthorizedCode    = 401
	ForbiddenCode       = 403
	NotFoundCode        = 404
	ConflictCode        = 409
	TooManyRequestsCode = 429
	ServiceErrCode      = 500
)

type ErrNo struct {
	ErrCode int64
	ErrMsg  string
}

func (e ErrNo) Error() string {
	return fmt.Sprintf("err_code=%d, err_msg=%s", e.ErrCode, e.ErrMsg)
}

// Is matches on the error class so that specialised messages still compare
// equal to the predefined values.
func (e ErrNo) Is(target error) bool {
	t, ok := target.(ErrNo)
	if !ok {
		return false
	}
	return t.ErrCode == e.ErrCode
}

func NewErrNo(code int64, msg string) ErrNo {
	return ErrNo{code, msg}
}

func (e ErrNo) WithMessage(msg string) ErrNo {
	e.ErrMsg = msg
	return e
}

func (e ErrNo) StatusCode() int {
	return int(e.ErrCode)
}

var (
	Success            = NewErrNo(SuccessCode, "Success")
	InvalidArgumentErr = NewErrNo(InvalidArgumentCode, "Invalid argument")
	UnauthorizedErr    = NewErrNo(UnauthorizedCode, "Unauthorized request")
	ForbiddenErr       = NewErrNo(ForbiddenCode, "Only the owner can perform this action")
	NotFoundErr        = NewErrNo(NotFoundCode, "Resource not found")
	ConflictErr        = NewErrNo(ConflictCode, "Resource already exists")
	TooManyRequestsErr = NewErrNo(TooManyRequestsCode, "Too many requests")
	ServiceErr         = NewErrNo(ServiceErrCode, "Service is unable to start successfully")
)

// ConvertErr convert error to ErrNo
func ConvertErr(err error) ErrNo {
	if err == nil {
		return Success
	}
	Err := ErrNo{}
	if errors.As(err, &Err) {
		return Err
	}
	s := ServiceErr
	s.ErrMsg = err.Error()
	return s
}

func InvalidID(entity string) ErrNo {
	return InvalidArgumentErr.WithMessage("Invalid " + entity + " id")
}

func EntityNotFound(entity string) ErrNo {
	return NotFoundErr.WithMessage(capitalize(entity) + " not found")
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	if s[0] >= 'a' && s[0] <= 'z' {
		return string(s[0]-'a'+'A') + s[1:]
	}
	return s
}
