package catalog

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"reflect"
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/erazemk/etiquetas/internal/model"
)

var storeIDPattern = regexp.MustCompile(`^[A-Za-z0-9_-]+$`)

var validate *validator.Validate

func init() {
	validate = validator.New(validator.WithRequiredStructEnabled())

	validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" || name == "" {
			return fld.Name
		}
		return name
	})

	validate.RegisterValidation("storeid", func(fl validator.FieldLevel) bool {
		return storeIDPattern.MatchString(fl.Field().String())
	})
}

// validateProducts runs the record-level rules on a typed catalog.
func validateProducts(products []model.Product) error {
	for i := range products {
		if err := validate.Struct(&products[i]); err != nil {
			return toValidationError(i, err)
		}
	}
	return nil
}

// validateStore checks a store entry before it is added to the config.
func validateStore(s model.Store) error {
	if err := validate.Struct(&s); err != nil {
		var ve validator.ValidationErrors
		if errors.As(err, &ve) && len(ve) > 0 {
			return fmt.Errorf("%w: %s failed %q", ErrInvalidStoreID, ve[0].Field(), ve[0].Tag())
		}
		return fmt.Errorf("%w: %v", ErrInvalidStoreID, err)
	}
	return nil
}

func toValidationError(index int, err error) error {
	var ve validator.ValidationErrors
	if !errors.As(err, &ve) || len(ve) == 0 {
		return &ValidationError{Index: index, Reason: err.Error()}
	}
	fe := ve[0]
	field := fe.Namespace()
	if i := strings.Index(field, "."); i >= 0 {
		field = field[i+1:]
	}
	reason := fmt.Sprintf("failed %q", fe.Tag())
	if fe.Param() != "" {
		reason = fmt.Sprintf("failed %q=%s", fe.Tag(), fe.Param())
	}
	return &ValidationError{Index: index, Field: field, Reason: reason}
}

// ValidateJSON checks a collaborator-supplied catalog document and decodes it.
// Every element must be an object with a string codigo, a string nome and a
// numeric preco.
func ValidateJSON(data []byte) ([]model.Product, error) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 || trimmed[0] != '[' {
		return nil, &ValidationError{Index: -1, Reason: "not a list"}
	}

	var elems []json.RawMessage
	if err := json.Unmarshal(trimmed, &elems); err != nil {
		return nil, &ValidationError{Index: -1, Reason: "not a list"}
	}

	required := []struct {
		name string
		kind byte
	}{
		{"codigo", '"'},
		{"nome", '"'},
		{"preco", '0'},
	}

	for i, e := range elems {
		var fields map[string]json.RawMessage
		if err := json.Unmarshal(e, &fields); err != nil || fields == nil {
			return nil, &ValidationError{Index: i, Reason: "not an object"}
		}
		for _, r := range required {
			raw, ok := fields[r.name]
			if !ok {
				return nil, &ValidationError{Index: i, Field: r.name, Reason: "is missing"}
			}
			if jsonKind(raw) != r.kind {
				want := "a string"
				if r.kind == '0' {
					want = "a number"
				}
				return nil, &ValidationError{Index: i, Field: r.name, Reason: "must be " + want}
			}
		}
	}

	products := make([]model.Product, 0, len(elems))
	if err := json.Unmarshal(trimmed, &products); err != nil {
		return nil, &ValidationError{Index: -1, Reason: err.Error()}
	}
	if err := validateProducts(products); err != nil {
		return nil, err
	}
	return products, nil
}

// jsonKind returns '"' for strings, '0' for numbers, and the leading byte
// for anything else.
func jsonKind(raw json.RawMessage) byte {
	b := bytes.TrimSpace(raw)
	if len(b) == 0 {
		return 0
	}
	switch c := b[0]; {
	case c == '-' || (c >= '0' && c <= '9'):
		return '0'
	default:
		return c
	}
}
