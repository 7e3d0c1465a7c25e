// Package clock определяет интерфейс часов для бизнес-логики,
// зависящей от текущего времени (например, проверка пробного периода).
// Подмена часов в тестах позволяет проверять граничные моменты без time.Sleep.
package clock

import "time"

// Clock возвращает текущее время.
type Clock interface {
	Now() time.Time
}

// System реализует Clock через time.Now.
type System struct{}

// Now возвращает текущее системное время.
func (System) Now() time.Time {
	return time.Now()
}

// Fixed реализует Clock с фиксированным временем, используется в тестах.
type Fixed struct {
	Time time.Time
}

// Now возвращает заранее заданное время.
func (f Fixed) Now() time.Time {
	return f.Time
}
