package market

// MarketType labels how concentrated a topic's organic traffic is
type MarketType string

const (
	MarketMonopolistic MarketType = "monopolistic"
	MarketConcentrated MarketType = "concentrated"
	MarketFragmented   MarketType = "fragmented"
	MarketNoData       MarketType = "no_data"
)

// Thresholds are the policy cutoffs for market-type classification. There
// is no derived "correct" value; these are configuration, defaulting to
// the shares the original report used.
type Thresholds struct {
	MonopolisticTop3  float64 `json:"monopolistic_top3" mapstructure:"monopolistic_top3"`
	ConcentratedTop3  float64 `json:"concentrated_top3" mapstructure:"concentrated_top3"`
	ConcentratedTop10 float64 `json:"concentrated_top10" mapstructure:"concentrated_top10"`
}

// DefaultThresholds returns the stock classification policy
func DefaultThresholds() Thresholds {
	return Thresholds{
		MonopolisticTop3:  0.75,
		ConcentratedTop3:  0.50,
		ConcentratedTop10: 0.60,
	}
}

// Classify labels the market from its concentration numbers. A table with
// no traffic has undefined concentration and classifies as no_data.
func Classify(stats []DomainStat, t Thresholds) MarketType {
	if len(stats) == 0 || TotalTraffic(stats) <= 0 {
		return MarketNoData
	}

	top3 := Concentration(stats, 3)
	top10 := Concentration(stats, 10)

	switch {
	case top3 > t.MonopolisticTop3:
		return MarketMonopolistic
	case top3 > t.ConcentratedTop3 || top10 > t.ConcentratedTop10:
		return MarketConcentrated
	default:
		return MarketFragmented
	}
}
