// Package smtp предоставляет транспорт и интерфейсы для отправки почты по SMTP.
package smtp

import "io"

// Client интерфейс для SMTP клиента.
type Client interface {
	Mail(from string) error
	Rcpt(to string) error
	Data() (io.WriteCloser, error)
	Quit() error
	Close() error
}

// TransportInterface интерфейс для SMTP транспорта.
//
// Configured сообщает, заданы ли учётные данные: ненастроенный транспорт
// не используется для реальной отправки, сервис отправки переходит
// в dev-режим и пишет письмо в лог.
type TransportInterface interface {
	Connect() (Client, error)
	Configured() bool
	From() string
}
