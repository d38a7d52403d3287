package reportgen

import (
	"errors"
	"fmt"
)

// ErrNoQuery indicates a data component without a query or dataSource.
var ErrNoQuery = errors.New("component has no query")

// ErrTemplateNotFound indicates the named template does not exist.
var ErrTemplateNotFound = errors.New("template not found")

// Stages of token resolution reported by TokenError.
const (
	StageQuery  = "query"
	StageRender = "render"
	StageOutput = "output"
)

// TokenError represents a failure while resolving one template token.
type TokenError struct {
	Token string
	Stage string // "query", "render", "output"
	Err   error
}

func (e *TokenError) Error() string {
	return fmt.Sprintf("token error (%s): %v", e.Stage, e.Err)
}

func (e *TokenError) Unwrap() error {
	return e.Err
}

// NewTokenError creates a new TokenError.
func NewTokenError(token, stage string, err error) *TokenError {
	return &TokenError{
		Token: token,
		Stage: stage,
		Err:   err,
	}
}
