package models

// FilterKind is the input control kind of a filter.
type FilterKind string

const (
	FilterDropdown FilterKind = "dropdown"
	FilterButton   FilterKind = "button"
	FilterDate     FilterKind = "date"
	FilterNumber   FilterKind = "number"
	FilterText     FilterKind = "text"
)

// ParseFilterKind maps a filter type instruction to a kind. Empty means
// dropdown; anything unrecognized is a free text input.
func ParseFilterKind(s string) FilterKind {
	switch s {
	case "", "dropdown", "select":
		return FilterDropdown
	case "button", "buttons":
		return FilterButton
	case "date", "calendar":
		return FilterDate
	case "number", "numeric":
		return FilterNumber
	default:
		return FilterText
	}
}

// FilterOption is one selectable value.
type FilterOption struct {
	Value    string `json:"value"`
	Text     string `json:"text"`
	Selected bool   `json:"selected,omitempty"`
}

// FilterSource describes an asynchronously loaded option list.
type FilterSource struct {
	Query      string `json:"query"`
	ValueField string `json:"valueField"`
	TextField  string `json:"textField"`
}

// FilterSpec is a resolved input control bound to one request parameter.
type FilterSpec struct {
	// ID is the input element id.
	ID string `json:"id"`
	// Kind is the control kind.
	Kind FilterKind `json:"kind"`
	// Param is the bound request parameter name.
	Param string `json:"param"`
	// Label is the visible caption.
	Label string `json:"label"`
	// Value is the current value.
	Value string `json:"value"`
	// Options lists static or bound choices (dropdown and button kinds).
	Options []FilterOption `json:"options,omitempty"`
	// Required suppresses the empty dropdown choice.
	Required bool `json:"required,omitempty"`
	// Affects names the components refreshed when the value changes.
	Affects string `json:"affects,omitempty"`
	// Source is set when dropdown options load from the filter data endpoint.
	Source *FilterSource `json:"source,omitempty"`
	// Min, Max and Step constrain number inputs.
	Min  string `json:"min,omitempty"`
	Max  string `json:"max,omitempty"`
	Step string `json:"step,omitempty"`
}
