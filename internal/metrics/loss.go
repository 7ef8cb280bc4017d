package metrics

import (
	"fmt"
	"math"
	"strings"

	"github.com/andresuchdata/stationops/backend-go/internal/domain"
)

// MeterDeltaPolicy decides how a sale whose closing meter is below its
// opening meter (meter reset or rollover) counts towards volume sold.
type MeterDeltaPolicy string

const (
	// MeterDeltaClamp counts a negative delta as zero.
	MeterDeltaClamp MeterDeltaPolicy = "clamp"
	// MeterDeltaSigned keeps the negative delta as recorded.
	MeterDeltaSigned MeterDeltaPolicy = "signed"
)

// ParseMeterDeltaPolicy parses a policy label; an empty label is clamp.
func ParseMeterDeltaPolicy(label string) (MeterDeltaPolicy, error) {
	switch MeterDeltaPolicy(strings.ToLower(strings.TrimSpace(label))) {
	case "", MeterDeltaClamp:
		return MeterDeltaClamp, nil
	case MeterDeltaSigned:
		return MeterDeltaSigned, nil
	default:
		return "", fmt.Errorf("unknown meter delta policy %q", label)
	}
}

// LossCalculator computes stock loss from meter sales and tank dips.
type LossCalculator struct {
	policy MeterDeltaPolicy
}

// NewLossCalculator creates a calculator; an unknown policy falls back to clamp.
func NewLossCalculator(policy MeterDeltaPolicy) *LossCalculator {
	if policy != MeterDeltaSigned {
		policy = MeterDeltaClamp
	}
	return &LossCalculator{policy: policy}
}

func (c *LossCalculator) Policy() MeterDeltaPolicy {
	return c.policy
}

// VolumeSold sums the meter deltas of stationID's sales under the policy.
func (c *LossCalculator) VolumeSold(stationID string, sales []domain.SalesRecord) float64 {
	var total float64
	for _, s := range sales {
		if s.StationID != stationID {
			continue
		}
		delta := num(s.MeterDelta())
		if c.policy == MeterDeltaClamp {
			delta = math.Max(0, delta)
		}
		total += delta
	}
	return total
}

// Compute returns the loss analysis of one station, or nil when the station
// has no tank-stock record to use as a baseline.
//
// The latest dip (by StockDate, later input position on ties) supplies the
// opening stock, deliveries and actual closing stock.
func (c *LossCalculator) Compute(stationID string, sales []domain.SalesRecord, stocks []domain.TankStock) *domain.LossAnalysis {
	latest, ok := latestStock(stationID, stocks)
	if !ok {
		return nil
	}

	sold := c.VolumeSold(stationID, sales)
	stocked := num(latest.OpeningStock) + num(latest.Deliveries)
	expected := stocked - sold
	actual := num(latest.ClosingStock)
	loss := math.Max(0, expected-actual)

	return &domain.LossAnalysis{
		StationID:            stationID,
		TotalVolumeSold:      sold,
		TotalVolumeStocked:   stocked,
		ExpectedClosingStock: expected,
		ActualClosingStock:   actual,
		VolumeLoss:           loss,
		LossPercentage:       percentage(loss, stocked),
		Period:               MonthKey(latest.StockDate),
		ProductType:          latest.ProductID,
	}
}

func latestStock(stationID string, stocks []domain.TankStock) (domain.TankStock, bool) {
	var (
		latest domain.TankStock
		found  bool
	)
	for _, s := range stocks {
		if s.StationID != stationID {
			continue
		}
		if !found || !s.StockDate.Before(latest.StockDate) {
			latest = s
			found = true
		}
	}
	return latest, found
}

// StockLevel sums the closing stock of the latest dip of every product at stationID.
func StockLevel(stationID string, stocks []domain.TankStock) float64 {
	latestByProduct := make(map[string]domain.TankStock)
	for _, s := range stocks {
		if s.StationID != stationID {
			continue
		}
		cur, ok := latestByProduct[s.ProductID]
		if !ok || !s.StockDate.Before(cur.StockDate) {
			latestByProduct[s.ProductID] = s
		}
	}

	var total float64
	for _, s := range latestByProduct {
		total += num(s.ClosingStock)
	}
	return total
}

// SalesAmount sums the recorded sales value of stationID.
func SalesAmount(stationID string, sales []domain.SalesRecord) float64 {
	var total float64
	for _, s := range sales {
		if s.StationID == stationID {
			total += num(s.TotalAmount)
		}
	}
	return total
}

// BuildDealerStation joins station with its figures for the loaded period.
// The returned analysis is nil when the station has no dip records.
func (c *LossCalculator) BuildDealerStation(station domain.Station, sales []domain.SalesRecord, stocks []domain.TankStock, commissionRate float64) (domain.DealerStation, *domain.LossAnalysis) {
	analysis := c.Compute(station.ID, sales, stocks)

	row := domain.DealerStation{
		Station:        station,
		CurrentSales:   SalesAmount(station.ID, sales),
		StockLevel:     StockLevel(station.ID, stocks),
		CommissionRate: num(commissionRate),
	}
	if analysis != nil {
		row.LossPercentage = analysis.LossPercentage
	}
	return row, analysis
}
