package config

import (
	"errors"
	"fmt"
	"os"
	"reflect"
	"strconv"
	"strings"
)

// applyEnvOverrides copies every env-tagged variable present in the environment onto the
// matching field of cfg, descending into nested sections. All invalid values are reported
// together.
func applyEnvOverrides(cfg interface{}) error {
	section := reflect.ValueOf(cfg)
	if section.Kind() == reflect.Ptr {
		section = section.Elem()
	}
	if section.Kind() != reflect.Struct {
		return nil
	}

	var errs []error
	for i := 0; i < section.NumField(); i++ {
		field, meta := section.Field(i), section.Type().Field(i)
		if field.Kind() == reflect.Struct {
			if err := applyEnvOverrides(field.Addr().Interface()); err != nil {
				errs = append(errs, err)
			}
			continue
		}

		name := meta.Tag.Get("env")
		if name == "" {
			continue
		}
		raw, ok := os.LookupEnv(name)
		if !ok {
			continue
		}
		if err := assign(field, strings.TrimSpace(raw)); err != nil {
			errs = append(errs, fmt.Errorf("%s (%s): %w", name, meta.Name, err))
		}
	}
	return errors.Join(errs...)
}

// assign parses raw into field. Durations stay strings and are parsed where they are used.
func assign(field reflect.Value, raw string) error {
	if !field.CanSet() {
		return errors.New("field cannot be set")
	}

	switch field.Kind() {
	case reflect.String:
		field.SetString(raw)
	case reflect.Int, reflect.Int32, reflect.Int64:
		n, err := strconv.ParseInt(raw, 10, field.Type().Bits())
		if err != nil {
			return fmt.Errorf("invalid integer %q", raw)
		}
		field.SetInt(n)
	case reflect.Uint, reflect.Uint32, reflect.Uint64:
		n, err := strconv.ParseUint(raw, 10, field.Type().Bits())
		if err != nil {
			return fmt.Errorf("invalid unsigned integer %q", raw)
		}
		field.SetUint(n)
	case reflect.Bool:
		b, err := strconv.ParseBool(raw)
		if err != nil {
			return fmt.Errorf("invalid boolean %q", raw)
		}
		field.SetBool(b)
	default:
		return fmt.Errorf("unsupported kind %s", field.Kind())
	}
	return nil
}
