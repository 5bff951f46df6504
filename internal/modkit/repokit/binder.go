package repokit

import perr "chemload/internal/platform/errors"

// Binder binds a domain repo to the Queryer of the current transaction
type Binder[T any] interface {
	Bind(Queryer) T
}

// BindFunc lets you create a Binder from a function
type BindFunc[T any] func(Queryer) T

// Bind calls the underlying function
func (f BindFunc[T]) Bind(q Queryer) T { return f(q) }

// Bind binds b to q, rejecting a nil binder or a nil queryer
func Bind[T any](b Binder[T], q Queryer) (T, error) {
	var zero T
	if b == nil {
		return zero, perr.New(perr.ErrorCodeInvalidArgument, "repokit: nil binder")
	}
	if q == nil {
		return zero, perr.New(perr.ErrorCodeInvalidArgument, "repokit: nil queryer")
	}
	return b.Bind(q), nil
}

// MustBind is Bind for wiring code where a nil is a programming error
func MustBind[T any](b Binder[T], q Queryer) T {
	v, err := Bind(b, q)
	if err != nil {
		panic(err)
	}
	return v
}
