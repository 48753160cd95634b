package service

import (
	"context"

	"stockbook/internal/model"
	"stockbook/internal/repository"
)

type CreateLocationRequest struct {
	Name      string `json:"name" binding:"required"`
	Address   string `json:"address"`
	Type      string `json:"type" binding:"required,oneof=warehouse store"`
	StateCode string `json:"stateCode" binding:"omitempty,gststate"`
}

type UpdateLocationRequest struct {
	Name      *string `json:"name" binding:"omitempty,min=1"`
	Address   *string `json:"address"`
	Type      *string `json:"type" binding:"omitempty,oneof=warehouse store"`
	StateCode *string `json:"stateCode" binding:"omitempty,gststate"`
}

type LocationService interface {
	ListLocations(ctx context.Context) ([]model.Location, error)
	CreateLocation(ctx context.Context, req CreateLocationRequest) (*model.Location, error)
	UpdateLocation(ctx context.Context, id string, req UpdateLocationRequest) (*model.Location, error)
}

type locationService struct {
	repo repository.LocationRepository
}

func NewLocationService(repo repository.LocationRepository) LocationService {
	return &locationService{repo: repo}
}

func (s *locationService) ListLocations(ctx context.Context) ([]model.Location, error) {
	return s.repo.List(ctx)
}

func (s *locationService) CreateLocation(ctx context.Context, req CreateLocationRequest) (*model.Location, error) {
	location := model.Location{
		Name:      req.Name,
		Address:   req.Address,
		Type:      req.Type,
		StateCode: req.StateCode,
	}
	if err := s.repo.Create(ctx, &location); err != nil {
		return nil, repoErr(err, "location")
	}
	return &location, nil
}

func (s *locationService) UpdateLocation(ctx context.Context, id string, req UpdateLocationRequest) (*model.Location, error) {
	locationID, err := parseID(id, "location")
	if err != nil {
		return nil, err
	}
	location, err := s.repo.FindByID(ctx, locationID)
	if err != nil {
		return nil, repoErr(err, "location")
	}

	if req.Name != nil {
		location.Name = *req.Name
	}
	if req.Address != nil {
		location.Address = *req.Address
	}
	if req.Type != nil {
		location.Type = *req.Type
	}
	if req.StateCode != nil {
		location.StateCode = *req.StateCode
	}

	if err := s.repo.Update(ctx, location); err != nil {
		return nil, repoErr(err, "location")
	}
	return location, nil
}
