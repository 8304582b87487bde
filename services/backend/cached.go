package backend

import (
	"context"

	listCacheRepo "tablebook/database/repository/listcache"
	"tablebook/models"

	"go.uber.org/zap"
)

// CachedClient serves availability lists from a short-lived cache and passes every
// other call straight through. Cache errors never fail a request.
type CachedClient struct {
	BookingAPI
	cache  listCacheRepo.ListCache
	logger *zap.Logger
}

var _ BookingAPI = (*CachedClient)(nil)

func NewCachedClient(api BookingAPI, cache listCacheRepo.ListCache, logger *zap.Logger) *CachedClient {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CachedClient{BookingAPI: api, cache: cache, logger: logger}
}

func (c *CachedClient) GetAvailableDays(ctx context.Context, token, restaurantID string, leadDays int) ([]string, error) {
	if days, ok, err := c.cache.GetDays(ctx, restaurantID, leadDays); err != nil {
		c.logger.Warn("list cache read failed", zap.String("list", "days"), zap.Error(err))
	} else if ok {
		return days, nil
	}

	days, err := c.BookingAPI.GetAvailableDays(ctx, token, restaurantID, leadDays)
	if err != nil {
		return nil, err
	}
	if err := c.cache.SetDays(ctx, restaurantID, leadDays, days); err != nil {
		c.logger.Warn("list cache write failed", zap.String("list", "days"), zap.Error(err))
	}
	return days, nil
}

func (c *CachedClient) GetAvailableTimeSlots(ctx context.Context, token, restaurantID, date string, guestCount int) ([]models.TimeSlot, error) {
	if slots, ok, err := c.cache.GetSlots(ctx, restaurantID, date, guestCount); err != nil {
		c.logger.Warn("list cache read failed", zap.String("list", "slots"), zap.Error(err))
	} else if ok {
		return slots, nil
	}

	slots, err := c.BookingAPI.GetAvailableTimeSlots(ctx, token, restaurantID, date, guestCount)
	if err != nil {
		return nil, err
	}
	if err := c.cache.SetSlots(ctx, restaurantID, date, guestCount, slots); err != nil {
		c.logger.Warn("list cache write failed", zap.String("list", "slots"), zap.Error(err))
	}
	return slots, nil
}
