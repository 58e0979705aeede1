package adminlog

import "errors"

var (
	// ErrEncodeDetails возвращается, если детали записи не сериализуются в JSON
	ErrEncodeDetails = errors.New("adminlog.repository: failed to encode details")

	// ErrBuildQuery возвращается при ошибке построения SQL запроса
	ErrBuildQuery = errors.New("adminlog.repository: failed to build query")

	// ErrExecQuery возвращается при ошибке выполнения SQL запроса
	ErrExecQuery = errors.New("adminlog.repository: failed to execute query")

	// ErrScanRow возвращается при ошибке сканирования результата запроса
	ErrScanRow = errors.New("adminlog.repository: failed to scan row")
)
