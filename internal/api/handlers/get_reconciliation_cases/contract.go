package get_reconciliation_cases

import (
	"context"

	"github.com/m04kA/HomeService-Booking/internal/service/reconciliation/models"
)

type ReconciliationService interface {
	ListOpen(ctx context.Context) (*models.CaseListResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
