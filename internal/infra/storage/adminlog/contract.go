package adminlog

import (
	"github.com/m04kA/SMC-CostumeRentalService/pkg/dbmetrics"
)

// Переиспользуем интерфейсы из dbmetrics для работы с БД
type DBExecutor = dbmetrics.DBExecutor
