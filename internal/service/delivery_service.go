package service

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"github.com/mahalaxmi-auto/storefront/internal/entity"
	"github.com/mahalaxmi-auto/storefront/internal/repository"
)

// DeliveryService answers whether a pincode is serviceable.
type DeliveryService struct {
	areas repository.DeliveryAreaRepository
}

func NewDeliveryService(areas repository.DeliveryAreaRepository) *DeliveryService {
	return &DeliveryService{areas: areas}
}

// CheckPincode performs at most one lookup. Malformed input is unknown
// without a lookup; a failed lookup is reported as unavailable.
func (s *DeliveryService) CheckPincode(ctx context.Context, pincode string) entity.Eligibility {
	pincode = strings.TrimSpace(pincode)
	if !entity.ValidPincode(pincode) {
		return entity.UnknownEligibility()
	}

	area, err := s.areas.FindActiveByPincode(ctx, pincode)
	if err != nil {
		if !errors.Is(err, entity.ErrNotServiceable) {
			slog.Warn("Delivery area lookup failed", "pincode", pincode, "err", err)
		}
		return entity.UnavailableAt(pincode)
	}
	return entity.AvailableIn(*area)
}
