package config

import (
	"fmt"
	"os"
	"reflect"
	"strconv"
	"time"
)

// EnvPrefix namespaces variables for this service. CLASSBOOK_DB_HOST wins over DB_HOST.
const EnvPrefix = "CLASSBOOK_"

// lookupEnv checks the prefixed name first, then the bare tag.
func lookupEnv(tag string) (string, string, bool) {
	if v, ok := os.LookupEnv(EnvPrefix + tag); ok {
		return EnvPrefix + tag, v, true
	}
	if v, ok := os.LookupEnv(tag); ok {
		return tag, v, true
	}
	return "", "", false
}

// applyEnv walks the config struct and overrides every field carrying an env tag
// whose variable is set. It returns the names of the variables that were applied.
func applyEnv(target interface{}) ([]string, error) {
	val := reflect.ValueOf(target)
	if val.Kind() == reflect.Ptr {
		val = val.Elem()
	}
	if val.Kind() != reflect.Struct {
		return nil, nil
	}

	var applied []string
	typ := val.Type()
	for i := 0; i < val.NumField(); i++ {
		field := val.Field(i)
		fieldType := typ.Field(i)

		if field.Kind() == reflect.Struct {
			nested, err := applyEnv(field.Addr().Interface())
			if err != nil {
				return nil, err
			}
			applied = append(applied, nested...)
			continue
		}

		tag := fieldType.Tag.Get("env")
		if tag == "" {
			continue
		}
		name, raw, ok := lookupEnv(tag)
		if !ok {
			continue
		}
		if err := setField(field, raw); err != nil {
			return nil, fmt.Errorf("env %s -> %s: %w", name, fieldType.Name, err)
		}
		applied = append(applied, name)
	}
	return applied, nil
}

func setField(field reflect.Value, raw string) error {
	if !field.CanSet() {
		return fmt.Errorf("field cannot be set")
	}

	switch field.Kind() {
	case reflect.String:
		field.SetString(raw)
	case reflect.Int, reflect.Int32, reflect.Int64:
		if field.Type() == reflect.TypeOf(time.Duration(0)) {
			d, err := time.ParseDuration(raw)
			if err != nil {
				return fmt.Errorf("invalid duration format: %w", err)
			}
			field.SetInt(int64(d))
			return nil
		}
		n, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			return fmt.Errorf("invalid integer format: %w", err)
		}
		field.SetInt(n)
	case reflect.Bool:
		b, err := strconv.ParseBool(raw)
		if err != nil {
			return fmt.Errorf("invalid boolean format: %w", err)
		}
		field.SetBool(b)
	default:
		return fmt.Errorf("unsupported field type: %s", field.Kind())
	}
	return nil
}
