package domain

import (
	"encoding/json"
	"fmt"
	"strconv"
)

// Payload — содержимое одного сабмита: скалярные значения
// (число, строка, bool) по строковым ключам.
//
// Числа приходят из JSON в разном виде (int при ручном
// конструировании, float64 после Unmarshal, строка из форм),
// поэтому весь доступ к значениям идёт через тотальные
// функции приведения ниже, а не через type assertion на местах.
type Payload map[string]any

// Has проверяет наличие ключа.
func (p Payload) Has(key string) bool {
	_, ok := p[key]
	return ok
}

// NumberValue приводит значение к float64.
// Принимает целые, вещественные, json.Number и числовые строки.
// Всё остальное (включая nil и bool) — не число: ok=false.
func NumberValue(v any) (float64, bool) {
	switch n := v.(type) {
	case int:
		return float64(n), true
	case int32:
		return float64(n), true
	case int64:
		return float64(n), true
	case float32:
		return float64(n), true
	case float64:
		return n, true
	case json.Number:
		f, err := n.Float64()
		return f, err == nil
	case string:
		f, err := strconv.ParseFloat(n, 64)
		return f, err == nil
	default:
		return 0, false
	}
}

// StringValue приводит скалярное значение к строке.
// nil даёт пустую строку и ok=false.
func StringValue(v any) (string, bool) {
	switch s := v.(type) {
	case nil:
		return "", false
	case string:
		return s, true
	case bool:
		return strconv.FormatBool(s), true
	case float64:
		// json.Unmarshal отдаёт все числа как float64;
		// целые печатаем без дробной части
		if s == float64(int64(s)) {
			return strconv.FormatInt(int64(s), 10), true
		}
		return strconv.FormatFloat(s, 'f', -1, 64), true
	default:
		return fmt.Sprint(v), true
	}
}
