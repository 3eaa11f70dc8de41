package animals

import "fmt"

// Kind classifies business-rule violations. Handlers map kinds to HTTP status.
type Kind int

const (
	KindAnimalNotFound Kind = iota + 1
	KindInvalidNameFormat
	KindDuplicateName
	KindInvalidSortParameter
	KindSearchNotFound
	KindInvalidDate
	KindInvalidID
)

func (k Kind) String() string {
	switch k {
	case KindAnimalNotFound:
		return "AnimalNotFound"
	case KindInvalidNameFormat:
		return "InvalidNameFormat"
	case KindDuplicateName:
		return "DuplicateName"
	case KindInvalidSortParameter:
		return "InvalidSortParameter"
	case KindSearchNotFound:
		return "SearchNotFound"
	case KindInvalidDate:
		return "InvalidDate"
	case KindInvalidID:
		return "InvalidID"
	default:
		return "Unknown"
	}
}

// Message keys carried in Error.Reason, resolved by the i18n catalog.
const (
	ReasonNotFound      = "animal.not_found"
	ReasonNameTooShort  = "name.too_short"
	ReasonNameTooLong   = "name.too_long"
	ReasonNameTrailing  = "name.trailing_space"
	ReasonNameCharset   = "name.charset"
	ReasonDuplicateName = "name.duplicate"
	ReasonInvalidSort   = "sort.invalid"
	ReasonNoResults     = "search.no_results"
	ReasonInvalidDate   = "date.invalid"
	ReasonInvalidID     = "id.invalid"
)

// Error is a business-rule violation.
// Reason is a message key, Args its format arguments.
type Error struct {
	Kind   Kind
	Reason string
	Args   []any
	Err    error
}

func (e *Error) Error() string {
	msg := e.Kind.String()
	if e.Reason != "" {
		msg += ": " + e.Reason
	}
	if len(e.Args) > 0 {
		msg += fmt.Sprintf(" %v", e.Args)
	}
	if e.Err != nil {
		msg += fmt.Sprintf(" (%v)", e.Err)
	}
	return msg
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Is matches any *Error of the same Kind, so the sentinels below work with errors.Is.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	return ok && t.Kind == e.Kind
}

var (
	ErrAnimalNotFound       = &Error{Kind: KindAnimalNotFound}
	ErrInvalidNameFormat    = &Error{Kind: KindInvalidNameFormat}
	ErrDuplicateName        = &Error{Kind: KindDuplicateName}
	ErrInvalidSortParameter = &Error{Kind: KindInvalidSortParameter}
	ErrSearchNotFound       = &Error{Kind: KindSearchNotFound}
	ErrInvalidDate          = &Error{Kind: KindInvalidDate}
	ErrInvalidID            = &Error{Kind: KindInvalidID}
)

func newError(kind Kind, reason string, args ...any) *Error {
	return &Error{Kind: kind, Reason: reason, Args: args}
}

func notFound(id int64) *Error {
	return newError(KindAnimalNotFound, ReasonNotFound, id)
}
