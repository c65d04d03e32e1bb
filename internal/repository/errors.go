package repository

import "errors"

// ErrNotFound возвращается, если записи нет или она принадлежит другому пользователю.
var ErrNotFound = errors.New("запись не найдена")
