// Package apperror, servis katmanının döndürdüğü hata türlerini tanımlar.
// Her hata makine tarafından kontrol edilebilir bir Kind ve kullanıcıya
// gösterilecek bir mesaj taşır; HTTP karşılıkları main'deki ErrorHandler'da
// tek yerden çözülür.
package apperror

import "fmt"

type Kind string

const (
	KindValidation    Kind = "validation"    // 400
	KindAuthorization Kind = "authorization" // 403
	KindNotFound      Kind = "not_found"     // 404
	KindConflict      Kind = "conflict"      // 409
	KindInternal      Kind = "internal"      // 500
)

type Error struct {
	Kind    Kind
	Message string
	Err     error // opsiyonel, loglama için alttaki hata
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *Error) Unwrap() error { return e.Err }

func Validation(msg string) *Error {
	return &Error{Kind: KindValidation, Message: msg}
}

func Validationf(format string, args ...any) *Error {
	return &Error{Kind: KindValidation, Message: fmt.Sprintf(format, args...)}
}

func Authorization(msg string) *Error {
	return &Error{Kind: KindAuthorization, Message: msg}
}

func NotFound(msg string) *Error {
	return &Error{Kind: KindNotFound, Message: msg}
}

func Conflict(msg string) *Error {
	return &Error{Kind: KindConflict, Message: msg}
}

func Internal(msg string, err error) *Error {
	return &Error{Kind: KindInternal, Message: msg, Err: err}
}
