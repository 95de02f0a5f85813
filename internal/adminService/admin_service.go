package admin

import (
	"auction-site/internal/auctionerrors"
	model "auction-site/internal/models"
	"auction-site/internal/repository"
	"bytes"
	"context"
	"encoding/json"
	"fmt"
)

// AdminService is a generic record browser and editor keyed by entity name
type AdminService struct {
	store repository.Store
}

// NewAdminService creates a new AdminService instance
func NewAdminService(store repository.Store) *AdminService {
	return &AdminService{
		store: store,
	}
}

// Entities returns the names of every editable entity
func (s *AdminService) Entities() []string {
	return model.EntityNames()
}

// List returns every record of an entity, ordered by id
func (s *AdminService) List(ctx context.Context, entity string) (any, error) {
	e, err := lookup(entity)
	if err != nil {
		return nil, err
	}

	records := e.NewSlice()
	if err := s.store.List(ctx, records); err != nil {
		return nil, fmt.Errorf("service: failed to list %s records: %w", entity, err)
	}
	return records, nil
}

// Get returns a single record
func (s *AdminService) Get(ctx context.Context, entity string, id uint) (model.Record, error) {
	e, err := lookup(entity)
	if err != nil {
		return nil, err
	}

	record := e.New()
	if err := s.store.Get(ctx, record, id); err != nil {
		return nil, fmt.Errorf("service: failed to get %s %d: %w", entity, id, err)
	}
	return record, nil
}

// Create decodes a JSON payload into a new record and stores it
func (s *AdminService) Create(ctx context.Context, entity string, payload []byte) (model.Record, error) {
	e, err := lookup(entity)
	if err != nil {
		return nil, err
	}

	record, err := decode(e, payload)
	if err != nil {
		return nil, err
	}
	record.SetID(0)

	if err := s.store.Create(ctx, record); err != nil {
		return nil, fmt.Errorf("service: failed to create %s: %w", entity, err)
	}
	return record, nil
}

// Update replaces every field of an existing record with the JSON payload
func (s *AdminService) Update(ctx context.Context, entity string, id uint, payload []byte) (model.Record, error) {
	e, err := lookup(entity)
	if err != nil {
		return nil, err
	}

	record, err := decode(e, payload)
	if err != nil {
		return nil, err
	}

	if err := s.store.Update(ctx, record, id); err != nil {
		return nil, fmt.Errorf("service: failed to update %s %d: %w", entity, id, err)
	}
	return record, nil
}

// Delete removes a record and everything that depends on it
func (s *AdminService) Delete(ctx context.Context, entity string, id uint) error {
	e, err := lookup(entity)
	if err != nil {
		return err
	}

	if err := s.store.Delete(ctx, e.New(), id); err != nil {
		return fmt.Errorf("service: failed to delete %s %d: %w", entity, id, err)
	}
	return nil
}

func lookup(entity string) (model.Entity, error) {
	e, ok := model.LookupEntity(entity)
	if !ok {
		return model.Entity{}, fmt.Errorf("service: %w - %q", auctionerrors.ErrUnknownEntity, entity)
	}
	return e, nil
}

func decode(e model.Entity, payload []byte) (model.Record, error) {
	record := e.New()
	dec := json.NewDecoder(bytes.NewReader(payload))
	dec.DisallowUnknownFields()
	if err := dec.Decode(record); err != nil {
		return nil, fmt.Errorf("service: %w - decode %s payload: %v", auctionerrors.ErrInvalidRecord, e.Name, err)
	}
	return record, nil
}
