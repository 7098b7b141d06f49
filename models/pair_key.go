package models

import "fmt"

// PairKey строит канонический ключ для пары пользователей: порядок
// аргументов не влияет на результат.
func PairKey(a, b int64) string {
	if a > b {
		a, b = b, a
	}
	return fmt.Sprintf("%d:%d", a, b)
}
