package dto

import (
	"bytes"
	"encoding/json"
	"strconv"
	"strings"
)

var null = []byte("null")

// FlexString принимает строку, число или bool. Present - поле было в ответе и не null,
// Corrupt - значение другого типа (объект, массив), оно отброшено.
type FlexString struct {
	Value   string
	Present bool
	Corrupt bool
}

func (f *FlexString) UnmarshalJSON(data []byte) error {
	*f = FlexString{}
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, null) {
		return nil
	}
	var v any
	if err := json.Unmarshal(data, &v); err != nil {
		f.Corrupt = true
		return nil
	}
	switch x := v.(type) {
	case string:
		f.Value, f.Present = x, true
	case float64:
		f.Value, f.Present = strconv.FormatFloat(x, 'f', -1, 64), true
	case bool:
		f.Value, f.Present = strconv.FormatBool(x), true
	default:
		f.Corrupt = true
	}
	return nil
}

// Or возвращает значение или def, если поле отсутствует
func (f FlexString) Or(def string) string {
	if f.Present {
		return f.Value
	}
	return def
}

// FlexInt принимает число или числовую строку
type FlexInt struct {
	Value   int
	Present bool
	Corrupt bool
}

func (f *FlexInt) UnmarshalJSON(data []byte) error {
	*f = FlexInt{}
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, null) {
		return nil
	}
	var v any
	if err := json.Unmarshal(data, &v); err != nil {
		f.Corrupt = true
		return nil
	}
	switch x := v.(type) {
	case float64:
		f.Value, f.Present = int(x), true
	case string:
		s := strings.TrimSpace(x)
		if s == "" {
			return nil
		}
		n, err := strconv.ParseFloat(s, 64)
		if err != nil {
			f.Corrupt = true
			return nil
		}
		f.Value, f.Present = int(n), true
	default:
		f.Corrupt = true
	}
	return nil
}

func (f FlexInt) Or(def int) int {
	if f.Present {
		return f.Value
	}
	return def
}

// firstString возвращает первое присутствующее значение
func firstString(def string, fields ...FlexString) string {
	for _, f := range fields {
		if f.Present {
			return f.Value
		}
	}
	return def
}

func firstInt(def int, fields ...FlexInt) int {
	for _, f := range fields {
		if f.Present {
			return f.Value
		}
	}
	return def
}
