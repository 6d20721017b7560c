package model

import "fmt"

// Group учебная группа
type Group struct {
	ID     string
	Code   string
	Number string
}

// Label возвращает подпись вида "КН-21"
func (g Group) Label() string {
	if g.Code == "" {
		return g.Number
	}
	return fmt.Sprintf("%s-%s", g.Code, g.Number)
}
