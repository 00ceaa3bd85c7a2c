// internal/domain/user/address_service.go
package user

import (
	"context"
	"fmt"

	"github.com/your-org/grocery-backend/internal/config"
	"gorm.io/gorm"
)

// AddressService handles address book business logic
type AddressService struct {
	db     *gorm.DB
	config *config.Config
}

// NewAddressService creates a new address service
func NewAddressService(db *gorm.DB, cfg *config.Config) *AddressService {
	return &AddressService{
		db:     db,
		config: cfg,
	}
}

// CreateAddressRequest represents address creation data
type CreateAddressRequest struct {
	Label         string `json:"label"`
	RecipientName string `json:"recipient_name" binding:"required"`
	Phone         string `json:"phone" binding:"required"`
	AddressLine   string `json:"address_line" binding:"required"`
	City          string `json:"city" binding:"required"`
	CityCode      string `json:"city_code" binding:"required"`
	Province      string `json:"province"`
	PostalCode    string `json:"postal_code"`
	DeliveryNotes string `json:"delivery_notes,omitempty"`
	IsDefault     bool   `json:"is_default"`
}

// CreateAddress adds an address to the user's address book
func (s *AddressService) CreateAddress(ctx context.Context, userID uint, req *CreateAddressRequest) (*Address, error) {
	// A new default unsets previous defaults
	if req.IsDefault {
		s.db.WithContext(ctx).Model(&Address{}).Where("user_id = ? AND is_default = ?", userID, true).Update("is_default", false)
	}

	address := &Address{
		UserID:        userID,
		Label:         req.Label,
		RecipientName: req.RecipientName,
		Phone:         req.Phone,
		AddressLine:   req.AddressLine,
		City:          req.City,
		CityCode:      req.CityCode,
		Province:      req.Province,
		PostalCode:    req.PostalCode,
		Country:       "ID",
		DeliveryNotes: req.DeliveryNotes,
		IsDefault:     req.IsDefault,
	}

	if err := s.db.WithContext(ctx).Create(address).Error; err != nil {
		return nil, fmt.Errorf("failed to create address: %w", err)
	}

	return address, nil
}

// GetAddress retrieves an address enforcing ownership
func (s *AddressService) GetAddress(ctx context.Context, userID, addressID uint) (*Address, error) {
	var address Address
	if err := s.db.WithContext(ctx).Where("id = ? AND user_id = ?", addressID, userID).First(&address).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, fmt.Errorf("address not found")
		}
		return nil, fmt.Errorf("failed to retrieve address: %w", err)
	}
	return &address, nil
}

// GetAddresses lists the user's addresses, default first
func (s *AddressService) GetAddresses(ctx context.Context, userID uint) ([]Address, error) {
	var addresses []Address
	if err := s.db.WithContext(ctx).Where("user_id = ?", userID).Order("is_default DESC, created_at DESC").Find(&addresses).Error; err != nil {
		return nil, fmt.Errorf("failed to retrieve addresses: %w", err)
	}
	return addresses, nil
}

// GetDefaultAddress returns the user's default address
func (s *AddressService) GetDefaultAddress(ctx context.Context, userID uint) (*Address, error) {
	var address Address
	if err := s.db.WithContext(ctx).Where("user_id = ? AND is_default = ?", userID, true).First(&address).Error; err != nil {
		return nil, fmt.Errorf("no default address found")
	}
	return &address, nil
}

// UpdateAddress updates an address enforcing ownership
func (s *AddressService) UpdateAddress(ctx context.Context, userID, addressID uint, req *CreateAddressRequest) (*Address, error) {
	address, err := s.GetAddress(ctx, userID, addressID)
	if err != nil {
		return nil, err
	}

	if req.IsDefault && !address.IsDefault {
		s.db.WithContext(ctx).Model(&Address{}).Where("user_id = ? AND is_default = ?", userID, true).Update("is_default", false)
	}

	address.Label = req.Label
	address.RecipientName = req.RecipientName
	address.Phone = req.Phone
	address.AddressLine = req.AddressLine
	address.City = req.City
	address.CityCode = req.CityCode
	address.Province = req.Province
	address.PostalCode = req.PostalCode
	address.DeliveryNotes = req.DeliveryNotes
	address.IsDefault = req.IsDefault

	if err := s.db.WithContext(ctx).Save(address).Error; err != nil {
		return nil, fmt.Errorf("failed to update address: %w", err)
	}

	return address, nil
}

// DeleteAddress removes an address enforcing ownership
func (s *AddressService) DeleteAddress(ctx context.Context, userID, addressID uint) error {
	result := s.db.WithContext(ctx).Where("id = ? AND user_id = ?", addressID, userID).Delete(&Address{})
	if result.Error != nil {
		return fmt.Errorf("failed to delete address: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("address not found")
	}
	return nil
}
