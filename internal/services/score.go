package services

import "math"

// RawCheckIn is the transient input of one check-in: six sliders on a
// 0–100 scale plus a free-text reflection. Sliders are expected to arrive
// pre-validated from a bounded UI control; values outside [0,100] (or NaN)
// are not clamped here and flow straight through the blends.
type RawCheckIn struct {
	Clarity      float64 `json:"clarity"`
	Peace        float64 `json:"peace"`
	Energy       float64 `json:"energy"`
	Restlessness float64 `json:"restlessness"`
	Activity     float64 `json:"activity"`
	Inertia      float64 `json:"inertia"`
	Reflection   string  `json:"reflection"`
	DateISO      string  `json:"dateISO,omitempty"`
}

// EmotionalSnapshot is the derived result of scoring one RawCheckIn.
// The three intensities sum to 100.
type EmotionalSnapshot struct {
	Sattva                     float64  `json:"sattva"`
	Rajas                      float64  `json:"rajas"`
	Tamas                      float64  `json:"tamas"`
	BalanceIndex               float64  `json:"balanceIndex"`
	DominantGuna               Guna     `json:"dominantGuna"`
	Confidence                 float64  `json:"confidence"`
	RecommendedInterventionIDs []string `json:"recommendedInterventionIds"`
}

const (
	normalizationFloor = 5.0
	confidenceBase     = 0.5
)

func clamp(v, min, max float64) float64 {
	return math.Min(math.Max(v, min), max)
}

// smoothAverage is a weighted mean; the weight triples used below each sum
// to 1.0 but the division keeps the helper safe for arbitrary weights.
func smoothAverage(values, weights []float64) float64 {
	var totalWeight float64
	for _, w := range weights {
		totalWeight += w
	}
	if totalWeight == 0 {
		return 0
	}
	var weightedSum float64
	for i, v := range values {
		weightedSum += v * weights[i]
	}
	return weightedSum / totalWeight
}

// normalizeTrio floors each raw value at normalizationFloor and rescales the
// triple to sum to exactly 100. The floor guarantees no guna ever reports
// as zero.
func normalizeTrio(sattva, rajas, tamas float64) (float64, float64, float64) {
	s := math.Max(sattva, normalizationFloor)
	r := math.Max(rajas, normalizationFloor)
	t := math.Max(tamas, normalizationFloor)
	total := s + r + t
	return s / total * 100, r / total * 100, t / total * 100
}

// dominantOf resolves the dominant guna with a fixed precedence on ties:
// sattva wins over rajas wins over tamas. Downstream copy assumes this
// resolution is deterministic, so keep the chained comparisons as-is.
func dominantOf(sattva, rajas, tamas float64) Guna {
	if sattva >= rajas && sattva >= tamas {
		return GunaSattva
	}
	if rajas >= sattva && rajas >= tamas {
		return GunaRajas
	}
	return GunaTamas
}

// computeConfidence scores how internally consistent the sliders are. A
// wide spread between the strongest clarity-side signal and the weakest
// inertia-side signal reads as a decisive check-in; any present wearable
// signal adds a flat bonus. Clamped to [40,95].
func computeConfidence(raw RawCheckIn, wearable *WearableSnapshot) float64 {
	spread := math.Max(raw.Clarity, math.Max(raw.Peace, 100-raw.Restlessness)) -
		math.Min(raw.Inertia, 100-raw.Energy)
	normalizedSpread := clamp(spread/100, 0, 1)
	var wearableBonus float64
	if wearable != nil && (wearable.HRV != nil || wearable.SleepQuality != nil || wearable.ReadinessScore != nil) {
		wearableBonus = 0.15
	}
	return clamp((confidenceBase+normalizedSpread*0.4+wearableBonus)*100, 40, 95)
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

// CalculateSnapshot converts the six sliders into the tri-guna model.
//
// Each guna starts from weighted blends of the sliders (and their 100-x
// complements), is floored and rescaled to a proportion of 100, and the
// balance index measures how evenly the triple is distributed with sattva
// as the reference axis.
func CalculateSnapshot(raw RawCheckIn, wearable *WearableSnapshot) EmotionalSnapshot {
	clarityBlend := smoothAverage(
		[]float64{raw.Clarity, 100 - raw.Inertia, 100 - raw.Restlessness},
		[]float64{0.45, 0.3, 0.25})
	peaceBlend := smoothAverage(
		[]float64{raw.Peace, 100 - raw.Restlessness, 100 - raw.Activity},
		[]float64{0.5, 0.3, 0.2})
	sattvaRaw := smoothAverage([]float64{clarityBlend, peaceBlend}, []float64{0.6, 0.4})

	rajasActivation := smoothAverage(
		[]float64{raw.Energy, raw.Activity, raw.Restlessness},
		[]float64{0.45, 0.35, 0.2})
	rajasCounterbalance := smoothAverage(
		[]float64{100 - raw.Peace, 100 - raw.Clarity},
		[]float64{0.6, 0.4})
	rajasRaw := (rajasActivation + rajasCounterbalance) / 2

	tamasRaw := smoothAverage(
		[]float64{raw.Inertia, 100 - raw.Energy, 100 - raw.Clarity},
		[]float64{0.5, 0.3, 0.2})

	sattva, rajas, tamas := normalizeTrio(sattvaRaw, rajasRaw, tamasRaw)
	dominant := dominantOf(sattva, rajas, tamas)

	balanceIndex := clamp(100-math.Abs(sattva-rajas)-math.Abs(sattva-tamas)/2, 0, 100)
	confidence := computeConfidence(raw, wearable)

	return EmotionalSnapshot{
		Sattva:                     round2(sattva),
		Rajas:                      round2(rajas),
		Tamas:                      round2(tamas),
		BalanceIndex:               round2(balanceIndex),
		DominantGuna:               dominant,
		Confidence:                 confidence,
		RecommendedInterventionIDs: RecommendInterventions(dominant, balanceIndex),
	}
}
