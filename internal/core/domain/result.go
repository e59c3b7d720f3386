package domain

type ResultStatus string

const (
	StatusIdle            ResultStatus = ""
	StatusSuccess         ResultStatus = "success"
	StatusError           ResultStatus = "error"
	StatusUnauthenticated ResultStatus = "unauthenticated"
)

// Result is the outcome shown by a single view. Only one variant is ever set.
type Result[T any] struct {
	Status  ResultStatus `json:"status,omitempty"`
	Data    T            `json:"data"`
	Message string       `json:"message,omitempty"`
}

// Notice is a result that carries only a message.
type Notice = Result[struct{}]

func Succeeded[T any](data T, message string) Result[T] {
	return Result[T]{Status: StatusSuccess, Data: data, Message: message}
}

func Failed[T any](message string) Result[T] {
	return Result[T]{Status: StatusError, Message: message}
}

func Unauthenticated[T any](message string) Result[T] {
	return Result[T]{Status: StatusUnauthenticated, Message: message}
}

func SuccessNotice(message string) Notice {
	return Succeeded(struct{}{}, message)
}

func (r Result[T]) IsIdle() bool {
	return r.Status == StatusIdle
}

func (r Result[T]) IsSuccess() bool {
	return r.Status == StatusSuccess
}

// IsError is true for both failure kinds.
func (r Result[T]) IsError() bool {
	return r.Status == StatusError || r.Status == StatusUnauthenticated
}

func (r Result[T]) IsUnauthenticated() bool {
	return r.Status == StatusUnauthenticated
}
