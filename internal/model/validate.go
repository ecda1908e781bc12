package model

import (
	"fmt"
	"strings"
)

func blank(s string) bool {
	return strings.TrimSpace(s) == ""
}

func required(field string) error {
	return fmt.Errorf("%s is required", field)
}

func requiredString(field string, v string) error {
	if blank(v) {
		return required(field)
	}
	return nil
}

// requiredPatch rejects a patch that clears a not-null column.
func requiredPatch[T any](field string, o Optional[T]) error {
	if !o.Set {
		return nil
	}
	if o.Null {
		return required(field)
	}
	if s, ok := any(o.Value).(string); ok && blank(s) {
		return required(field)
	}
	return nil
}

func requiredID(field string, id int64) error {
	if id <= 0 {
		return required(field)
	}
	return nil
}

func requiredIDPatch(field string, o Optional[int64]) error {
	if err := requiredPatch(field, o); err != nil {
		return err
	}
	if o.Set && o.Value <= 0 {
		return required(field)
	}
	return nil
}

func firstError(errs ...error) error {
	for _, err := range errs {
		if err != nil {
			return err
		}
	}
	return nil
}
