package model

import (
	"database/sql/driver"
	"fmt"
)

func (f Flag) Value() (driver.Value, error) {
	if f {
		return int64(1), nil
	}
	return int64(0), nil
}

func (f *Flag) Scan(src interface{}) error {
	switch v := src.(type) {
	case nil:
		*f = false
	case bool:
		*f = Flag(v)
	case int64:
		*f = v != 0
	case []byte:
		*f = len(v) > 0 && string(v) != "0" && string(v) != "f" && string(v) != "false"
	default:
		return fmt.Errorf("cannot scan %T into Flag", src)
	}
	return nil
}
