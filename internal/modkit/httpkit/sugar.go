package httpkit

import (
	"net/http"

	"leadsdash/internal/platform/net/http/bind"
)

// Get mounts a body-less handler under GET
func Get(r Router, path string, h func(*http.Request) (any, error)) {
	r.Get(path, Call(h))
}

// Post mounts a body-less handler under POST
func Post(r Router, path string, h func(*http.Request) (any, error)) {
	r.Post(path, Call(h))
}

// PostJSON mounts a handler that binds T from the body under POST
func PostJSON[T any](r Router, path string, h func(*http.Request, T) (any, error), opts ...JSONOptions) {
	r.Post(path, JSON(h, opts...))
}

// PostQuery mounts a handler whose body may be empty; T is then its zero value
func PostQuery[T any](r Router, path string, h func(*http.Request, T) (any, error)) {
	r.Post(path, JSON(h, queryOptions))
}

var queryOptions = JSONOptions{MaxBytes: 1 << 20, DisallowUnknown: true, AllowEmptyBody: true}

// BindQuery decodes and validates T for return-style handlers; an empty body gives
// the zero T
func BindQuery[T any](r *http.Request) (T, error) {
	return bind.ParseJSON[T](r, queryOptions)
}
