package models

// NoticeLevel is the severity of an inline notice.
type NoticeLevel string

const (
	NoticeInfo    NoticeLevel = "info"
	NoticeWarning NoticeLevel = "warning"
	NoticeError   NoticeLevel = "danger"
)

// Notice replaces a component that could not be rendered.
type Notice struct {
	ID      string      `json:"id,omitempty"`
	Level   NoticeLevel `json:"level"`
	Title   string      `json:"title,omitempty"`
	Message string      `json:"message"`
}
