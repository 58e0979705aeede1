package stock

import "errors"

var (
	// ErrNegativeCount возвращается при попытке записать отрицательный остаток
	ErrNegativeCount = errors.New("stock.repository: negative stock count")

	// ErrBuildQuery возвращается при ошибке построения SQL запроса
	ErrBuildQuery = errors.New("stock.repository: failed to build query")

	// ErrExecQuery возвращается при ошибке выполнения SQL запроса
	ErrExecQuery = errors.New("stock.repository: failed to execute query")

	// ErrScanRow возвращается при ошибке сканирования результата запроса
	ErrScanRow = errors.New("stock.repository: failed to scan row")
)
