package services

// InterventionFocus tags what an intervention is for, independent of its
// guna. The recommender matches on either axis.
type InterventionFocus string

const (
	FocusCalm      InterventionFocus = "calm"
	FocusEnergize  InterventionFocus = "energize"
	FocusUplift    InterventionFocus = "uplift"
	FocusIntegrate InterventionFocus = "integrate"
)

// recommenderCatalog pairs each intervention with its guna and focus. The
// slice order is the recommendation order: candidates keep their position
// here and the first three win, so reordering this list changes results.
var recommenderCatalog = []struct {
	id    string
	guna  Guna
	focus InterventionFocus
}{
	{"gratitude-reflection", GunaSattva, FocusIntegrate},
	{"mindful-awareness", GunaSattva, FocusCalm},
	{"vision-clarity", GunaSattva, FocusIntegrate},
	{"alternate-nostril", GunaRajas, FocusCalm},
	{"calming-breath", GunaRajas, FocusCalm},
	{"focus-mantra", GunaRajas, FocusIntegrate},
	{"energizing-breath", GunaTamas, FocusEnergize},
	{"body-scan-activation", GunaTamas, FocusUplift},
	{"gentle-movement", GunaTamas, FocusEnergize},
}

// desiredFocus picks the focus to steer toward given the dominant guna and
// how balanced the triple is. A dominant sattva in good balance is invited
// to integrate; agitated rajas or depleted tamas get corrective focuses.
func desiredFocus(dominant Guna, balanceIndex float64) InterventionFocus {
	switch dominant {
	case GunaSattva:
		if balanceIndex >= 45 {
			return FocusIntegrate
		}
		return FocusCalm
	case GunaRajas:
		if balanceIndex < 35 {
			return FocusCalm
		}
		return FocusIntegrate
	default: // tamas
		if balanceIndex < 35 {
			return FocusEnergize
		}
		return FocusUplift
	}
}

// RecommendInterventions returns up to three intervention ids whose guna
// matches the dominant guna or whose focus matches the desired focus, in
// catalog order. Deterministic; never errors.
func RecommendInterventions(dominant Guna, balanceIndex float64) []string {
	focus := desiredFocus(dominant, balanceIndex)
	matching := make([]string, 0, 3)
	for _, entry := range recommenderCatalog {
		if entry.guna != dominant && entry.focus != focus {
			continue
		}
		matching = append(matching, entry.id)
		if len(matching) == 3 {
			break
		}
	}
	return matching
}
