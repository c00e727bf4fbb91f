package services

import (
	"context"

	"github.com/sm2control/backend/internal/gateway"
	"github.com/sm2control/backend/internal/models"
)

// WorkerService manages the field staff roster.
type WorkerService struct {
	gw gateway.Gateway
}

func NewWorkerService(gw gateway.Gateway) *WorkerService {
	return &WorkerService{gw: gw}
}

func (s *WorkerService) List(ctx context.Context) ([]models.Worker, error) {
	var workers []models.Worker
	err := gateway.Call(ctx, s.gw, gateway.OpGetAllWorkers, &workers)
	return workers, err
}

func (s *WorkerService) Save(ctx context.Context, worker models.Worker) (*models.Worker, error) {
	var saved models.Worker
	if err := gateway.Call(ctx, s.gw, gateway.OpSaveWorker, &saved, worker); err != nil {
		return nil, err
	}
	return &saved, nil
}

func (s *WorkerService) Delete(ctx context.Context, id string) error {
	return gateway.Call(ctx, s.gw, gateway.OpDeleteWorker, nil, id)
}
