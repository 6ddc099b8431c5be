// Package clone produces deep copies of loosely typed document graphs. Byte
// buffers, including those held in unexported struct fields, are copied into
// independently owned storage so a clone never aliases the payload of its
// source.
package clone

import (
	"errors"
	"fmt"
	"reflect"

	gclone "github.com/huandu/go-clone"

	"github.com/goliatone/go-pagination/pkg/interfaces"
)

var (
	// ErrCycle is returned when the source graph references itself.
	ErrCycle = errors.New("clone: cyclic value")
	// ErrUnsupported is returned for values that cannot be copied (channels, unsafe pointers).
	ErrUnsupported = errors.New("clone: unsupported value")
)

// CustomFunc copies old into new, a settable zero value of the same type.
type CustomFunc = gclone.Func

// Option configures a copy operation.
type Option func(*cloner)

// WithCustomFunc overrides how values of type t are copied. t must be a
// struct or a pointer to a struct.
func WithCustomFunc(t reflect.Type, fn CustomFunc) Option {
	return func(c *cloner) {
		if t != nil && fn != nil {
			c.allocator.SetCustomFunc(t, fn)
		}
	}
}

// Value returns a deep copy of v.
func Value(v any, opts ...Option) (any, error) {
	if v == nil {
		return nil, nil
	}
	c := newCloner(opts)
	out, err := c.copy(reflect.ValueOf(v))
	if err != nil {
		return nil, err
	}
	return out.Interface(), nil
}

// Document deep copies doc, leaving out the attributes named in skip.
func Document(doc interfaces.Document, skip []string, opts ...Option) (interfaces.Document, error) {
	if doc == nil {
		return nil, nil
	}
	skipped := make(map[string]struct{}, len(skip))
	for _, key := range skip {
		skipped[key] = struct{}{}
	}

	c := newCloner(opts)
	src := reflect.ValueOf(doc)
	if err := c.enter(src); err != nil {
		return nil, err
	}
	defer c.leave(src)

	out := make(interfaces.Document, len(doc))
	for key, value := range doc {
		if _, ok := skipped[key]; ok {
			continue
		}
		if value == nil {
			out[key] = nil
			continue
		}
		copied, err := c.copy(reflect.ValueOf(value))
		if err != nil {
			return nil, fmt.Errorf("clone attribute %q: %w", key, err)
		}
		out[key] = copied.Interface()
	}
	return out, nil
}

type visit struct {
	typ reflect.Type
	ptr uintptr
}

type cloner struct {
	allocator *gclone.Allocator
	stack     map[visit]struct{}
}

func newCloner(opts []Option) *cloner {
	c := &cloner{
		allocator: gclone.NewAllocator(nil, nil),
		stack:     map[visit]struct{}{},
	}
	for _, opt := range opts {
		if opt != nil {
			opt(c)
		}
	}
	return c
}

// copy rejects graphs the allocator would silently alias or loop on, then
// hands the value over for the actual copy.
func (c *cloner) copy(v reflect.Value) (reflect.Value, error) {
	if !v.IsValid() {
		return v, nil
	}
	if err := c.check(v); err != nil {
		return reflect.Value{}, err
	}
	return c.allocator.Clone(v), nil
}

func (c *cloner) check(v reflect.Value) error {
	switch v.Kind() {
	case reflect.Interface:
		if v.IsNil() {
			return nil
		}
		return c.check(v.Elem())

	case reflect.Map:
		if v.IsNil() {
			return nil
		}
		if err := c.enter(v); err != nil {
			return err
		}
		defer c.leave(v)

		iter := v.MapRange()
		for iter.Next() {
			if err := c.check(iter.Key()); err != nil {
				return err
			}
			if err := c.check(iter.Value()); err != nil {
				return err
			}
		}
		return nil

	case reflect.Slice:
		if v.IsNil() || v.Len() == 0 || v.Type().Elem().Kind() == reflect.Uint8 {
			return nil
		}
		if err := c.enter(v); err != nil {
			return err
		}
		defer c.leave(v)
		return c.checkElems(v)

	case reflect.Array:
		return c.checkElems(v)

	case reflect.Pointer:
		if v.IsNil() {
			return nil
		}
		if err := c.enter(v); err != nil {
			return err
		}
		defer c.leave(v)
		return c.check(v.Elem())

	case reflect.Struct:
		for i := 0; i < v.NumField(); i++ {
			if err := c.check(v.Field(i)); err != nil {
				return err
			}
		}
		return nil

	case reflect.Chan, reflect.UnsafePointer:
		return fmt.Errorf("%w: %s", ErrUnsupported, v.Type())

	default:
		return nil
	}
}

func (c *cloner) checkElems(v reflect.Value) error {
	for i := 0; i < v.Len(); i++ {
		if err := c.check(v.Index(i)); err != nil {
			return err
		}
	}
	return nil
}

func (c *cloner) enter(v reflect.Value) error {
	key := visit{typ: v.Type(), ptr: v.Pointer()}
	if _, ok := c.stack[key]; ok {
		return fmt.Errorf("%w: %s", ErrCycle, v.Type())
	}
	c.stack[key] = struct{}{}
	return nil
}

func (c *cloner) leave(v reflect.Value) {
	delete(c.stack, visit{typ: v.Type(), ptr: v.Pointer()})
}
