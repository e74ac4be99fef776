package service

import (
	"context"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/brickfolio/Fractional-Property-Manager-Backend/internal/api/request"
	"github.com/brickfolio/Fractional-Property-Manager-Backend/internal/model"
	"github.com/brickfolio/Fractional-Property-Manager-Backend/internal/repository"
)

// PropertyService handles property business logic.
type PropertyService struct {
	propertyRepo *repository.PropertyRepository
}

// NewPropertyService creates a new PropertyService with the provided dependencies.
func NewPropertyService(propertyRepo *repository.PropertyRepository) *PropertyService {
	return &PropertyService{propertyRepo: propertyRepo}
}

// CreateProperty issues a new property. All shares start unsold, so the cached
// available count equals the issued total.
func (s *PropertyService) CreateProperty(ctx context.Context, req request.CreatePropertyRequest) (*model.Property, error) {
	p := &model.Property{
		ID:              uuid.New().String(),
		Name:            req.Name,
		Address:         req.Address,
		TotalShares:     req.TotalShares,
		PricePerShare:   decimal.NewFromFloat(req.PricePerShare),
		AvailableShares: req.TotalShares,
	}
	if err := s.propertyRepo.InsertProperty(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}

// GetProperty retrieves a property by ID.
func (s *PropertyService) GetProperty(ctx context.Context, id string) (model.Property, error) {
	return s.propertyRepo.GetProperty(ctx, id)
}

// GetAllProperties retrieves all properties.
func (s *PropertyService) GetAllProperties(ctx context.Context) ([]model.Property, error) {
	return s.propertyRepo.GetAllProperties(ctx)
}

// RefreshAvailableShares recomputes the cached available-share counts for all
// properties. Called by the scheduler; also exposed for manual admin refresh.
func (s *PropertyService) RefreshAvailableShares(ctx context.Context) (int64, error) {
	return s.propertyRepo.RefreshAvailableShares(ctx)
}
