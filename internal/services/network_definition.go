package services

import (
	"context"

	"github.com/sm2control/backend/internal/gateway"
	"github.com/sm2control/backend/internal/models"
)

// NetworkDefinitionService maintains the catalog of known network codes.
type NetworkDefinitionService struct {
	gw gateway.Gateway
}

func NewNetworkDefinitionService(gw gateway.Gateway) *NetworkDefinitionService {
	return &NetworkDefinitionService{gw: gw}
}

func (s *NetworkDefinitionService) List(ctx context.Context) ([]models.NetworkDefinition, error) {
	var defs []models.NetworkDefinition
	err := gateway.Call(ctx, s.gw, gateway.OpGetNetworkDefs, &defs)
	return defs, err
}

func (s *NetworkDefinitionService) Save(ctx context.Context, def models.NetworkDefinition) (*models.NetworkDefinition, error) {
	var saved models.NetworkDefinition
	if err := gateway.Call(ctx, s.gw, gateway.OpSaveNetworkDef, &saved, def); err != nil {
		return nil, err
	}
	return &saved, nil
}

func (s *NetworkDefinitionService) Delete(ctx context.Context, code string) error {
	return gateway.Call(ctx, s.gw, gateway.OpDeleteNetworkDef, nil, code)
}
