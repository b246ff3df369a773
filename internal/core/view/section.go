package view

import "github.com/rashad-agri/marketplace/internal/core/ports"

// Error-state message shown instead of a section body when loading failed.
const LoadFailedMessage = "حدث خطأ في تحميل البيانات"

// Section is a list block of a page. An empty list renders Empty with a
// message, a failed load renders Error; neither is a transport error.
type Section[T any] struct {
	Items   []T    `json:"items"`
	Empty   bool   `json:"empty"`
	Message string `json:"message,omitempty"`
	Error   string `json:"error,omitempty"`
}

// NewSection converts a list result with conv. emptyMsg is shown when the
// result succeeded with no records.
func NewSection[S, T any](res ports.Result[[]S], emptyMsg string, conv func(S) T) Section[T] {
	if !res.Success {
		return Section[T]{Items: []T{}, Message: LoadFailedMessage, Error: res.Error}
	}
	if len(res.Data) == 0 {
		return Section[T]{Items: []T{}, Empty: true, Message: emptyMsg}
	}
	items := make([]T, 0, len(res.Data))
	for _, s := range res.Data {
		items = append(items, conv(s))
	}
	return Section[T]{Items: items}
}
