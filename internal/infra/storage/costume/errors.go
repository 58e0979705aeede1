package costume

import "errors"

var (
	// ErrCostumeNotFound возвращается, когда костюма нет в каталоге
	ErrCostumeNotFound = errors.New("costume.repository: costume not found")

	// ErrBuildQuery возвращается при ошибке построения SQL запроса
	ErrBuildQuery = errors.New("costume.repository: failed to build query")

	// ErrExecQuery возвращается при ошибке выполнения SQL запроса
	ErrExecQuery = errors.New("costume.repository: failed to execute query")

	// ErrScanRow возвращается при ошибке сканирования результата запроса
	ErrScanRow = errors.New("costume.repository: failed to scan row")
)
