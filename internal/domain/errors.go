package domain

import "errors"

// ErrorCodeValidation указывает на некорректный входной payload.
// Остальные коды описывают различные доменные ошибки.
const (
	ErrorCodeValidation     = "VALIDATION"
	ErrorCodeNotFound       = "NOT_FOUND"
	ErrorCodeDuplicateEvent = "DUPLICATE_EVENT"
	ErrorCodeStorage        = "STORAGE"
	ErrorCodePublish        = "PUBLISH"
	ErrorCodeInternal       = "INTERNAL"
)

// ErrDuplicateEvent возвращается хранилищем при повторной записи события
// с уже известным source_event_id. Остальные ошибки описывают типовые
// доменные ситуации без привязки к коду.
var (
	ErrDuplicateEvent = errors.New("event already recorded")
	ErrNotFound       = errors.New("not found")
	ErrNoIssues       = errors.New("no issues found")
)

// DomainError оборачивает доменную ошибку с кодом для HTTP-слоя.
//
//revive:disable-next-line:exported
type DomainError struct {
	Code string
	Err  error
}

func (e *DomainError) Error() string {
	if e.Err != nil {
		return e.Err.Error()
	}

	return e.Code
}

func (e *DomainError) Unwrap() error {
	return e.Err
}

// NewDomainError создаёт новую DomainError с указанным кодом и исходной ошибкой.
func NewDomainError(code string, err error) *DomainError {
	return &DomainError{
		Code: code,
		Err:  err,
	}
}
