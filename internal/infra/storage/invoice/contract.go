package invoice

import (
	"github.com/m04kA/HomeService-Booking/pkg/dbmetrics"
)

// Переиспользуем интерфейс из dbmetrics для работы с БД
type DBExecutor = dbmetrics.DBExecutor
