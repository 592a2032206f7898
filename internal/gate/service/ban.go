package service

import (
	"context"
	"time"

	"github.com/wherehouse/gate/internal/gate/domain"
	"github.com/wherehouse/gate/internal/gate/store"
	"github.com/wherehouse/gate/pkg/slogx"
)

// DefaultBanDuration is applied when a ban is recorded without an explicit
// end time.
const DefaultBanDuration = 7 * 24 * time.Hour

// BanService answers whether an address is currently barred. Like the rate
// limiter it is defense-in-depth: a store failure lets the request through.
type BanService struct {
	Store store.Store
}

// IsBanned reports whether ip has an active ban. Fail-open on store errors.
func (s *BanService) IsBanned(ctx context.Context, ip string) bool {
	banned, err := s.Store.Bans().IsBanned(ctx, ip)
	if err != nil {
		slogx.FromContext(ctx).Error("ban lookup failed, allowing request", "ip", ip, "error", err)
		return false
	}
	return banned
}

// Ban bars an address until the given time, or for DefaultBanDuration when
// until is the zero time.
func (s *BanService) Ban(ctx context.Context, ip, reason string, until time.Time) error {
	if until.IsZero() {
		until = time.Now().Add(DefaultBanDuration)
	}
	if err := s.Store.Bans().Ban(ctx, domain.BannedIP{IP: ip, Reason: reason, BannedUntil: until}); err != nil {
		return err
	}
	slogx.FromContext(ctx).Warn("ip banned", "ip", ip, "reason", reason, "until", until)
	return nil
}
