// Package env fills tagged config structs from environment variables.
package env

import (
	"errors"
	"fmt"
	"math"
	"os"
	"reflect"
	"strconv"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
)

// Validator is implemented by config sections that check themselves after loading.
type Validator interface {
	Validate() error
}

// LookupFunc resolves one variable, like os.LookupEnv.
type LookupFunc func(key string) (string, bool)

// ErrInvalidValue reports a variable whose value does not parse into its field.
type ErrInvalidValue struct {
	Field  string
	EnvVar string
	Value  string
	Err    error
}

func (e ErrInvalidValue) Error() string {
	return fmt.Sprintf("invalid value for %s=%q (field: %s): %v", e.EnvVar, e.Value, e.Field, e.Err)
}

func (e ErrInvalidValue) Unwrap() error {
	return e.Err
}

// ErrNotStructPointer is returned when Load is not given a pointer to a struct.
type ErrNotStructPointer struct {
	Type string
}

func (e ErrNotStructPointer) Error() string {
	return fmt.Sprintf("env.Load: argument must be a pointer to struct, got %s", e.Type)
}

// ErrUnsupportedType is returned for field kinds the loader cannot set.
type ErrUnsupportedType struct {
	Kind string
}

func (e ErrUnsupportedType) Error() string {
	return fmt.Sprintf("unsupported type: %s", e.Kind)
}

var (
	durationType = reflect.TypeFor[time.Duration]()
	timeType     = reflect.TypeFor[time.Time]()
)

// Load reads the process environment into v. See LoadFrom.
func Load(v any) error {
	return LoadFrom(v, os.LookupEnv)
}

// LoadFrom fills the struct v points to using lookup.
//
// Tags:
//   - env:"FLYER_X" names the variable
//   - default:"value" applies when the variable is unset; a set but empty value wins
//   - unit:"bytes" parses sizes such as "10MiB" or "512KB" as well as plain byte counts
//
// Fields may be strings, bools, ints, float64, time.Duration or []string
// (comma separated, blanks dropped). Nested structs are loaded recursively.
//
// Every unparseable variable is reported, joined into one error. Validate is
// called on nested sections and then on v itself once parsing succeeded.
func LoadFrom(v any, lookup LookupFunc) error {
	root := reflect.ValueOf(v)
	if root.Kind() != reflect.Pointer || root.Elem().Kind() != reflect.Struct {
		return ErrNotStructPointer{Type: fmt.Sprintf("%T", v)}
	}

	l := loader{lookup: lookup}
	l.loadStruct(root.Elem())
	if len(l.errs) > 0 {
		return errors.Join(l.errs...)
	}

	for _, section := range l.sections {
		if err := section.Validate(); err != nil {
			return err
		}
	}
	if validator, ok := v.(Validator); ok {
		return validator.Validate()
	}
	return nil
}

type loader struct {
	lookup   LookupFunc
	errs     []error
	sections []Validator
}

func (l *loader) loadStruct(val reflect.Value) {
	typ := val.Type()

	for i := range val.NumField() {
		field := val.Field(i)
		meta := typ.Field(i)
		if !field.CanSet() {
			continue
		}

		if field.Kind() == reflect.Struct && field.Type() != timeType {
			l.loadStruct(field)
			if validator, ok := field.Addr().Interface().(Validator); ok {
				l.sections = append(l.sections, validator)
			}
			continue
		}

		key := meta.Tag.Get("env")
		if key == "" {
			continue
		}

		raw, ok := l.lookup(key)
		if !ok {
			if raw, ok = meta.Tag.Lookup("default"); !ok {
				continue
			}
		}

		if err := setField(field, raw, meta.Tag.Get("unit")); err != nil {
			l.errs = append(l.errs, ErrInvalidValue{Field: meta.Name, EnvVar: key, Value: raw, Err: err})
		}
	}
}

func setField(field reflect.Value, raw, unit string) error {
	if unit == "bytes" {
		return setBytes(field, raw)
	}

	switch field.Kind() {
	case reflect.String:
		field.SetString(raw)

	case reflect.Bool:
		b, err := strconv.ParseBool(raw)
		if err != nil {
			return err
		}
		field.SetBool(b)

	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		if field.Type() == durationType {
			d, err := time.ParseDuration(raw)
			if err != nil {
				return err
			}
			field.SetInt(int64(d))
			return nil
		}
		n, err := strconv.ParseInt(raw, 10, field.Type().Bits())
		if err != nil {
			return err
		}
		field.SetInt(n)

	case reflect.Float64:
		f, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return err
		}
		field.SetFloat(f)

	case reflect.Slice:
		if field.Type().Elem().Kind() != reflect.String {
			return ErrUnsupportedType{Kind: "[]" + field.Type().Elem().Kind().String()}
		}
		var items []string
		for item := range strings.SplitSeq(raw, ",") {
			if item = strings.TrimSpace(item); item != "" {
				items = append(items, item)
			}
		}
		field.Set(reflect.ValueOf(items))

	default:
		return ErrUnsupportedType{Kind: field.Kind().String()}
	}
	return nil
}

func setBytes(field reflect.Value, raw string) error {
	switch field.Kind() {
	case reflect.Int, reflect.Int64:
	default:
		return ErrUnsupportedType{Kind: field.Kind().String() + " with unit bytes"}
	}

	n, err := humanize.ParseBytes(raw)
	if err != nil {
		return err
	}
	if n > math.MaxInt64 || field.OverflowInt(int64(n)) {
		return fmt.Errorf("size %s overflows %s", raw, field.Kind())
	}
	field.SetInt(int64(n))
	return nil
}
