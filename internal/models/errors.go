// Package models содержит доменные ошибки-сентинелы, общие для сервисов и хранилища.
//
// Обработчики HTTP сопоставляют виды ошибок со статус-кодами через errors.Is,
// поэтому сервисы всегда оборачивают их с контекстом: fmt.Errorf("%s: %w", op, models.ErrNotFound).
package models

import "errors"

var (
	// ErrNotFound — сущность (пользователь, платеж, федеративный статус) не найдена по ключу.
	ErrNotFound = errors.New("entity not found")
	// ErrInvalidState — операция недопустима в текущем состоянии сущности.
	ErrInvalidState = errors.New("invalid state for operation")
	// ErrValidation — входные данные не прошли доменную валидацию.
	ErrValidation = errors.New("validation failed")
	// ErrAlreadyExists — нарушение уникальности при создании сущности.
	ErrAlreadyExists = errors.New("entity already exists")
	// ErrIO — сбой внешнего хранилища изображений или почтового транспорта.
	ErrIO = errors.New("io failure")
)
