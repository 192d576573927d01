package fees

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/chopnowhq/chopnow-backend/pkg/config"
	"github.com/chopnowhq/chopnow-backend/pkg/db/models"
)

// Breakdown itemizes a delivery fee quote. NightSurcharge is informational:
// the night rate already includes it, so TotalFee is base + sunday only.
type Breakdown struct {
	BaseFee         decimal.Decimal `json:"base_fee"`
	NightSurcharge  decimal.Decimal `json:"night_surcharge"`
	SundaySurcharge decimal.Decimal `json:"sunday_surcharge"`
	TotalFee        decimal.Decimal `json:"total_fee"`
}

// Calculator computes delivery fee breakdowns from a zone's day/night rates.
// It is pure: the caller supplies the evaluation instant.
type Calculator struct {
	sundaySurcharge decimal.Decimal
	nightStartHour  int
	nightEndHour    int
}

// NewCalculator parses the configured surcharge and night window once.
func NewCalculator(cfg config.Delivery) (*Calculator, error) {
	surcharge, err := decimal.NewFromString(cfg.SundaySurcharge)
	if err != nil {
		return nil, fmt.Errorf("parsing sunday surcharge %q: %w", cfg.SundaySurcharge, err)
	}
	if surcharge.IsNegative() {
		return nil, fmt.Errorf("sunday surcharge must not be negative")
	}
	if cfg.NightStartHour < 0 || cfg.NightStartHour > 23 {
		return nil, fmt.Errorf("night start hour out of range: %d", cfg.NightStartHour)
	}
	if cfg.NightEndHour < 0 || cfg.NightEndHour > 23 {
		return nil, fmt.Errorf("night end hour out of range: %d", cfg.NightEndHour)
	}
	return &Calculator{
		sundaySurcharge: surcharge,
		nightStartHour:  cfg.NightStartHour,
		nightEndHour:    cfg.NightEndHour,
	}, nil
}

// IsNight reports whether the instant falls inside the night window, which
// wraps midnight (start..23 and 0..end-1).
func (c *Calculator) IsNight(now time.Time) bool {
	hour := now.Hour()
	return hour >= c.nightStartHour || hour < c.nightEndHour
}

// Compute quotes the fee for one zone at the given instant. Sunday stacks on
// top of whichever rate applies.
func (c *Calculator) Compute(zone *models.DeliveryZone, now time.Time) Breakdown {
	base := zone.DaytimeFee
	night := decimal.Zero
	if c.IsNight(now) {
		base = zone.NightFee
		night = zone.NightFee.Sub(zone.DaytimeFee)
	}

	sunday := decimal.Zero
	if now.Weekday() == time.Sunday {
		sunday = c.sundaySurcharge
	}

	return Breakdown{
		BaseFee:         base,
		NightSurcharge:  night,
		SundaySurcharge: sunday,
		TotalFee:        base.Add(sunday),
	}
}
