package response

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/Additional-Code/playground/pkg/errorbank"
)

// envelope is the wire shape of every response.
type envelope struct {
	Success bool           `json:"success"`
	Data    any            `json:"data,omitempty"`
	Error   *failure       `json:"error,omitempty"`
	Meta    map[string]any `json:"meta,omitempty"`
}

type failure struct {
	Kind    string         `json:"kind"`
	Message string         `json:"message"`
	Details map[string]any `json:"details,omitempty"`
}

// Builder accumulates a response and emits it as the shared envelope.
type Builder struct {
	ctx    echo.Context
	status int
	data   any
	err    error
	meta   map[string]any
}

// New instantiates a Builder for the provided request context.
func New(ctx echo.Context) *Builder {
	return &Builder{ctx: ctx, status: http.StatusOK}
}

// WithStatus overrides the response status code.
func (b *Builder) WithStatus(status int) *Builder {
	if status > 0 {
		b.status = status
	}
	return b
}

// WithData attaches a success payload.
func (b *Builder) WithData(data any) *Builder {
	b.data = data
	return b
}

// WithError records an error to be rendered.
func (b *Builder) WithError(err error) *Builder {
	b.err = err
	return b
}

// WithMeta appends auxiliary metadata to the response.
func (b *Builder) WithMeta(key string, value any) *Builder {
	if key == "" {
		return b
	}
	if b.meta == nil {
		b.meta = make(map[string]any)
	}
	b.meta[key] = value
	return b
}

// Build finalises and emits the HTTP response. An attached error wins over
// any data; its kind decides the status unless one was set explicitly.
func (b *Builder) Build() error {
	if b.err == nil {
		return b.ctx.JSON(b.status, envelope{
			Success: true,
			Data:    b.data,
			Meta:    b.meta,
		})
	}

	appErr := errorbank.From(b.err)
	status := b.status
	if status < http.StatusBadRequest {
		status = appErr.StatusCode()
	}
	return b.ctx.JSON(status, envelope{
		Success: false,
		Error: &failure{
			Kind:    string(appErr.Kind()),
			Message: appErr.Message(),
			Details: appErr.Details(),
		},
		Meta: b.meta,
	})
}
