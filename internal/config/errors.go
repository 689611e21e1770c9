package config

import "fmt"

func errUnknown(field, value string) error {
	return fmt.Errorf("unknown %s %q", field, value)
}

func errPositive(key string) error {
	return fmt.Errorf("%s must be positive", key)
}
