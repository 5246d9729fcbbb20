package adapt

import (
	"fmt"
	"reflect"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
	"github.com/go-viper/mapstructure/v2"
	"github.com/goccy/go-json"
	"github.com/spf13/cast"

	"github.com/kbukum/dependkit/errors"
	"github.com/kbukum/dependkit/schema"
)

var (
	validate     *validator.Validate
	validateOnce sync.Once
)

// getValidator returns the singleton validator instance.
func getValidator() *validator.Validate {
	validateOnce.Do(func() {
		validate = validator.New(validator.WithRequiredStructEnabled())

		// Use decode tag names for field names in error messages
		validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
			for _, tag := range []string{"mapstructure", "json"} {
				name := strings.SplitN(fld.Tag.Get(tag), ",", 2)[0]
				if name != "" && name != "-" {
					return name
				}
			}
			return schema.ToSnake(fld.Name)
		})
	})
	return validate
}

// MapAdapter is the default Adapter: go-viper/mapstructure decoding with
// weak typing, `default` tag application, and go-playground/validator
// struct validation. The tag-convention bridge picks the decode tag per
// target type.
type MapAdapter struct {
	conventions []Convention
}

// Option configures a MapAdapter.
type Option func(*MapAdapter)

// WithConventions prepends additional tag conventions to the bridge.
func WithConventions(conventions ...Convention) Option {
	return func(a *MapAdapter) {
		a.conventions = append(conventions, a.conventions...)
	}
}

// New creates a MapAdapter with the default convention bridge.
func New(opts ...Option) *MapAdapter {
	a := &MapAdapter{conventions: defaultConventions()}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Describe returns the structural description of the type.
func (a *MapAdapter) Describe(t reflect.Type) (*schema.Schema, error) {
	return schema.Describe(t)
}

// Supported reports whether the adapter can decode into the type.
func (a *MapAdapter) Supported(t reflect.Type) bool {
	return schema.Supported(t)
}

// Decode validates and coerces raw data into a value of the target type.
// Struct targets get their `default` tags applied first, then the provided
// keys decoded over them, then `validate` tags enforced.
func (a *MapAdapter) Decode(data any, target reflect.Type) (any, error) {
	s, err := schema.Describe(target)
	if err != nil {
		return nil, err
	}
	if s.Kind == schema.KindUnion {
		return a.decodeUnion(data, target, s)
	}
	return a.decode(data, target)
}

// decodeUnion reads the discriminant value first, selects the candidate
// shape, and decodes the remaining data into it.
func (a *MapAdapter) decodeUnion(data any, target reflect.Type, s *schema.Schema) (any, error) {
	m, ok := data.(map[string]any)
	if !ok {
		return nil, errors.Discriminator(fmt.Sprintf("cannot read discriminant %q from %T", s.Discriminant, data))
	}
	tagRaw, ok := m[s.Discriminant]
	if !ok {
		return nil, errors.Discriminator(fmt.Sprintf("discriminant %q missing from data", s.Discriminant)).
			WithDetail("candidates", s.VariantNames())
	}
	tag := cast.ToString(tagRaw)
	variant, ok := s.VariantByTag(tag)
	if !ok {
		return nil, errors.Discriminator(fmt.Sprintf("no candidate matches discriminant value %q", tag)).
			WithDetail("candidates", s.VariantNames())
	}

	decoded, err := a.decode(data, variant.Schema.Type)
	if err != nil {
		return nil, err
	}

	// Hand back whichever of value/pointer satisfies the union interface.
	if reflect.TypeOf(decoded).Implements(target) {
		return decoded, nil
	}
	ptr := reflect.New(variant.Schema.Type)
	ptr.Elem().Set(reflect.ValueOf(decoded))
	if ptr.Type().Implements(target) {
		return ptr.Interface(), nil
	}
	return nil, errors.UnsupportedType(variant.Schema.Type.String()).
		WithDetail("union", target.String())
}

func (a *MapAdapter) decode(data any, target reflect.Type) (any, error) {
	elem := target
	for elem.Kind() == reflect.Ptr {
		elem = elem.Elem()
	}

	out := reflect.New(elem)
	if elem.Kind() == reflect.Struct {
		if err := ApplyDefaults(out.Interface()); err != nil {
			return nil, err
		}
	}

	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           out.Interface(),
		TagName:          a.conventionFor(elem).TagName(),
		WeaklyTypedInput: true,
		MatchName: func(mapKey, fieldName string) bool {
			return strings.EqualFold(mapKey, fieldName) || mapKey == schema.ToSnake(fieldName)
		},
		DecodeHook: mapstructure.ComposeDecodeHookFunc(
			mapstructure.StringToTimeDurationHookFunc(),
			jsonStringHook,
		),
	})
	if err != nil {
		return nil, errors.Validation("failed to build decoder").WithCause(err)
	}
	if err := decoder.Decode(data); err != nil {
		return nil, errors.Validation(fmt.Sprintf("data does not conform to %s", elem)).WithCause(err)
	}

	if elem.Kind() == reflect.Struct {
		if err := a.validateStruct(out.Interface()); err != nil {
			return nil, err
		}
	}

	if target.Kind() == reflect.Ptr {
		return out.Interface(), nil
	}
	return out.Elem().Interface(), nil
}

// conventionFor picks the first convention whose tags appear on the type;
// the fallback decodes by field name.
func (a *MapAdapter) conventionFor(t reflect.Type) Convention {
	for _, c := range a.conventions {
		if c.Matches(t) {
			return c
		}
	}
	return tagConvention{name: "mapstructure"}
}

// validateStruct enforces `validate` tags, reporting per-field messages.
func (a *MapAdapter) validateStruct(s any) error {
	err := getValidator().Struct(s)
	if err == nil {
		return nil
	}

	validationErrors, ok := err.(validator.ValidationErrors)
	if !ok {
		return errors.Validation("validation failed").WithCause(err)
	}

	messages := make([]string, 0, len(validationErrors))
	fields := make([]string, 0, len(validationErrors))
	for _, e := range validationErrors {
		messages = append(messages, e.Field()+": failed on "+e.Tag())
		fields = append(fields, e.Field())
	}
	return errors.Validation(strings.Join(messages, "; ")).
		WithDetail("fields", fields)
}

// jsonStringHook lets a JSON-encoded string populate slice and map targets,
// so list-typed values can be carried in flat key/value sources.
func jsonStringHook(from reflect.Type, to reflect.Type, data any) (any, error) {
	if from.Kind() != reflect.String {
		return data, nil
	}
	if to.Kind() != reflect.Slice && to.Kind() != reflect.Map {
		return data, nil
	}
	raw := strings.TrimSpace(data.(string))
	if raw == "" || (raw[0] != '[' && raw[0] != '{') {
		return data, nil
	}
	var decoded any
	if err := json.Unmarshal([]byte(raw), &decoded); err != nil {
		return nil, fmt.Errorf("invalid JSON value: %w", err)
	}
	return decoded, nil
}

// ApplyDefaults fills zero-valued fields of a struct pointer from their
// `default` tags, recursing into nested structs.
func ApplyDefaults(target any) error {
	v := reflect.ValueOf(target)
	if v.Kind() != reflect.Ptr || v.Elem().Kind() != reflect.Struct {
		return errors.InvalidBinding(fmt.Sprintf("ApplyDefaults needs a struct pointer, got %T", target))
	}
	return applyDefaults(v.Elem())
}

func applyDefaults(v reflect.Value) error {
	t := v.Type()
	for i := 0; i < t.NumField(); i++ {
		sf := t.Field(i)
		fv := v.Field(i)
		if !sf.IsExported() {
			continue
		}

		if fv.Kind() == reflect.Struct {
			if err := applyDefaults(fv); err != nil {
				return err
			}
			continue
		}

		def := sf.Tag.Get("default")
		if def == "" || !fv.IsZero() {
			continue
		}
		if err := setFromString(fv, def); err != nil {
			return errors.Validation(fmt.Sprintf("bad default for field %s", sf.Name)).WithCause(err)
		}
	}
	return nil
}

func setFromString(fv reflect.Value, raw string) error {
	switch fv.Kind() {
	case reflect.String:
		fv.SetString(raw)
	case reflect.Bool:
		b, err := cast.ToBoolE(raw)
		if err != nil {
			return err
		}
		fv.SetBool(b)
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		n, err := cast.ToInt64E(raw)
		if err != nil {
			return err
		}
		fv.SetInt(n)
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		n, err := cast.ToUint64E(raw)
		if err != nil {
			return err
		}
		fv.SetUint(n)
	case reflect.Float32, reflect.Float64:
		f, err := cast.ToFloat64E(raw)
		if err != nil {
			return err
		}
		fv.SetFloat(f)
	default:
		return fmt.Errorf("unsupported default kind %s", fv.Kind())
	}
	return nil
}
