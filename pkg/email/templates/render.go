package templates

//go:generate go run github.com/a-h/templ/cmd/templ@v0.3.924 generate

import (
	"context"
	"errors"
	"strings"

	"github.com/a-h/templ"
)

// ErrFailedToRender wraps component rendering failures.
var ErrFailedToRender = errors.New("failed to render email template")

// Render renders a templ component into a string.
func Render(ctx context.Context, tpl templ.Component) (string, error) {
	var sb strings.Builder
	if err := tpl.Render(ctx, &sb); err != nil {
		return "", errors.Join(ErrFailedToRender, err)
	}
	return sb.String(), nil
}
