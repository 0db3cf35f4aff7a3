package usecases

import "github.com/iwtcode/gapService/internal/interfaces"

// NewUsecases - конструктор для агрегата всех use cases
func NewUsecases(
	controlSvc interfaces.ControlService,
	repos interfaces.Repositories,
) interfaces.Usecases {
	return NewUsecase(controlSvc, repos)
}
