package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"gorm.io/gorm"

	"github.com/yeremiapane/taplink-saas/apperrors"
	"github.com/yeremiapane/taplink-saas/models"
)

type TenantService struct {
	db *gorm.DB
}

func NewTenantService(db *gorm.DB) *TenantService {
	return &TenantService{db: db}
}

// GetBySlug resolves the tenant behind a public page. A storage failure is
// reported as ErrStorageUnavailable; no placeholder tenant is ever returned.
func (s *TenantService) GetBySlug(ctx context.Context, slug string) (*models.Tenant, error) {
	var tenant models.Tenant
	err := s.db.WithContext(ctx).Where("slug = ?", strings.ToLower(strings.TrimSpace(slug))).First(&tenant).Error
	if err != nil {
		return nil, lookupError("tenant", err)
	}
	return &tenant, nil
}

func (s *TenantService) GetByID(ctx context.Context, id uint) (*models.Tenant, error) {
	var tenant models.Tenant
	if err := s.db.WithContext(ctx).First(&tenant, id).Error; err != nil {
		return nil, lookupError("tenant", err)
	}
	return &tenant, nil
}

// Create provisions a tenant together with its default client page.
func (s *TenantService) Create(ctx context.Context, slug, name, timezone, currency string) (*models.Tenant, error) {
	tenant := models.Tenant{
		Slug:     strings.ToLower(strings.TrimSpace(slug)),
		Name:     strings.TrimSpace(name),
		Timezone: timezone,
		Currency: strings.ToUpper(currency),
	}
	if tenant.Slug == "" || tenant.Name == "" {
		return nil, errors.New("tenant slug and name are required")
	}
	if tenant.Timezone == "" {
		tenant.Timezone = "UTC"
	}
	if tenant.Currency == "" {
		tenant.Currency = "KZT"
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&tenant).Error; err != nil {
			return fmt.Errorf("create tenant: %w", err)
		}
		page := models.DefaultClientPage(tenant.ID, tenant.Name)
		if err := tx.Create(&page).Error; err != nil {
			return fmt.Errorf("create client page: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &tenant, nil
}

// lookupError turns a gorm lookup failure into NotFound or a storage failure.
func lookupError(what string, err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return apperrors.NotFound(what)
	}
	return fmt.Errorf("%w: load %s: %v", apperrors.ErrStorageUnavailable, what, err)
}
