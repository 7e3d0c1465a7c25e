// Package trial реализует правило пробного периода.
//
// Правило — чистая функция от (TrialStart, Subscribed, текущее время):
// подписанный пользователь никогда не считается истёкшим, для остальных
// сравнивается непрерывная длительность с момента регистрации с окном
// в семь суток. Календарные дни и часовые пояса не учитываются:
// 6 суток 23:59 — не истёк, ровно 7×24 часа — истёк.
package trial

import (
	"time"

	"github.com/magabrotheeeer/invoicing-saas/internal/lib/clock"
	"github.com/magabrotheeeer/invoicing-saas/internal/models"
)

// Window длительность пробного периода.
const Window = 7 * 24 * time.Hour

// Policy вычисляет, истёк ли пробный период пользователя.
type Policy struct {
	clock clock.Clock
}

// New создает Policy с указанными часами.
func New(clk clock.Clock) *Policy {
	return &Policy{clock: clk}
}

// IsExpired возвращает true, если пробный период пользователя истёк.
//
// Для подписанного пользователя всегда возвращает false, независимо
// от даты начала пробного периода.
func (p *Policy) IsExpired(user *models.User) bool {
	if user == nil || user.Subscribed {
		return false
	}
	return p.clock.Now().Sub(user.TrialStart) >= Window
}
