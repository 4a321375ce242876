package service

import (
	"context"
	"errors"
	"net/mail"
	"strings"
	"time"

	"github.com/alexanderramin/crewplan/internal/db"
	"github.com/alexanderramin/crewplan/internal/domain"
	"github.com/alexanderramin/crewplan/internal/repository"
	"github.com/google/uuid"
)

type resourceService struct {
	resources   repository.ResourceRepo
	assignments repository.AssignmentRepo
	uow         db.UnitOfWork
	observer    UseCaseObserver
}

func NewResourceService(
	resources repository.ResourceRepo,
	assignments repository.AssignmentRepo,
	uow db.UnitOfWork,
	observers ...UseCaseObserver,
) ResourceService {
	return &resourceService{
		resources:   resources,
		assignments: assignments,
		uow:         uow,
		observer:    useCaseObserverOrNoop(observers),
	}
}

func (s *resourceService) Create(ctx context.Context, r *domain.Resource) (err error) {
	defer observe(ctx, s.observer, "create-resource", time.Now(), map[string]any{"name": r.Name}, &err)

	if r.ID == "" {
		r.ID = uuid.New().String()
	}
	if r.Category == "" {
		r.Category = domain.CategoryFieldTechnician
	}
	if err := s.validate(ctx, s.resources, r); err != nil {
		return err
	}
	now := time.Now().UTC()
	r.Active = true
	r.CreatedAt = now
	r.UpdatedAt = now
	return s.resources.Create(ctx, r)
}

func (s *resourceService) GetByID(ctx context.Context, id string) (*domain.Resource, error) {
	r, err := s.resources.GetByID(ctx, id)
	if err != nil {
		return nil, mapNotFound(err, "resource", id)
	}
	return r, nil
}

func (s *resourceService) List(ctx context.Context, activeOnly bool) ([]*domain.Resource, error) {
	return s.resources.List(ctx, activeOnly)
}

func (s *resourceService) Update(ctx context.Context, r *domain.Resource) (err error) {
	defer observe(ctx, s.observer, "update-resource", time.Now(), map[string]any{"resource": r.ID}, &err)

	return s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		txResources := repository.NewSQLiteResourceRepo(tx)
		existing, err := txResources.GetByID(ctx, r.ID)
		if err != nil {
			return mapNotFound(err, "resource", r.ID)
		}
		if err := s.validate(ctx, txResources, r); err != nil {
			return err
		}
		r.CreatedAt = existing.CreatedAt
		r.UpdatedAt = time.Now().UTC()
		return txResources.Update(ctx, r)
	})
}

func (s *resourceService) Deactivate(ctx context.Context, id string) (err error) {
	defer observe(ctx, s.observer, "deactivate-resource", time.Now(), map[string]any{"resource": id}, &err)

	return s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		txResources := repository.NewSQLiteResourceRepo(tx)
		r, err := txResources.GetByID(ctx, id)
		if err != nil {
			return mapNotFound(err, "resource", id)
		}
		if !r.Active {
			return nil
		}
		r.Active = false
		r.UpdatedAt = time.Now().UTC()
		return txResources.Update(ctx, r)
	})
}

func (s *resourceService) Delete(ctx context.Context, id string) (err error) {
	defer observe(ctx, s.observer, "delete-resource", time.Now(), map[string]any{"resource": id}, &err)

	return s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		txResources := repository.NewSQLiteResourceRepo(tx)
		if _, err := txResources.GetByID(ctx, id); err != nil {
			return mapNotFound(err, "resource", id)
		}
		n, err := repository.NewSQLiteAssignmentRepo(tx).CountByResource(ctx, id)
		if err != nil {
			return err
		}
		if n > 0 {
			return constraintErr("resource", id, "%d assignment(s) still reference it (deactivate instead)", n)
		}
		return txResources.Delete(ctx, id)
	})
}

// validate normalises the email to lower case and checks name, category and
// email uniqueness against every other resource.
func (s *resourceService) validate(ctx context.Context, resources repository.ResourceRepo, r *domain.Resource) error {
	r.Name = strings.TrimSpace(r.Name)
	if r.Name == "" {
		return validationErr("resource", r.ID, "name is required")
	}
	if !domain.ValidResourceCategories[r.Category] {
		return validationErr("resource", r.ID, "unknown category %q", r.Category)
	}
	if r.Email == nil {
		return nil
	}
	raw := strings.TrimSpace(*r.Email)
	if raw == "" {
		r.Email = nil
		return nil
	}
	// Only the bare address is kept, so "Bo <bo@x.com>" and "bo@x.com" clash.
	addr, err := mail.ParseAddress(raw)
	if err != nil {
		return validationErr("resource", r.ID, "invalid email %q", raw)
	}
	email := strings.ToLower(addr.Address)
	r.Email = &email

	other, err := resources.GetByEmail(ctx, email)
	switch {
	case err == nil && other.ID != r.ID:
		return duplicateErr("resource", r.ID, "email %s is already used by %s", email, other.Name)
	case err != nil && !errors.Is(err, repository.ErrNotFound):
		return err
	}
	return nil
}
