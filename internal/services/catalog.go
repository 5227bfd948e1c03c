package services

import "fmt"

type InterventionType string

const (
	TypeBreathing  InterventionType = "breathing"
	TypeMeditation InterventionType = "meditation"
	TypeJournaling InterventionType = "journaling"
	TypeMovement   InterventionType = "movement"
)

type InterventionDifficulty string

const (
	DifficultyBeginner     InterventionDifficulty = "beginner"
	DifficultyIntermediate InterventionDifficulty = "intermediate"
	DifficultyAdvanced     InterventionDifficulty = "advanced"
)

type StepType string

const (
	StepInstruction StepType = "instruction"
	StepPractice    StepType = "practice"
	StepReflection  StepType = "reflection"
)

// InterventionStep is one timed segment of a guided practice.
type InterventionStep struct {
	ID          string   `json:"id"`
	Instruction string   `json:"instruction"`
	Duration    int      `json:"duration"` // seconds
	Type        StepType `json:"type"`
}

// InterventionDefinition is one scripted practice in the static catalog.
// Reference data compiled into the binary; never mutated at runtime.
type InterventionDefinition struct {
	ID            string                 `json:"id"`
	Title         string                 `json:"title"`
	Description   string                 `json:"description"`
	Guna          Guna                   `json:"guna"`
	Type          InterventionType       `json:"type"`
	Difficulty    InterventionDifficulty `json:"difficulty"`
	TotalDuration int                    `json:"totalDuration"` // seconds
	Visual        string                 `json:"visual"`
	Steps         []InterventionStep     `json:"steps"`
}

var interventionRegistry = []InterventionDefinition{
	{
		ID:            "calming-breath",
		Title:         "4-7-8 Calming Breath",
		Description:   "Activate your relaxation response with this powerful breathing pattern",
		Guna:          GunaRajas,
		Type:          TypeBreathing,
		Difficulty:    DifficultyBeginner,
		TotalDuration: 180,
		Visual:        "breath",
		Steps: []InterventionStep{
			{ID: "intro", Instruction: "Find a comfortable seated position. Place one hand on your chest and one on your belly. We'll practice the 4-7-8 breathing technique to calm your nervous system.", Duration: 15, Type: StepInstruction},
			{ID: "demo", Instruction: "Let's start with a demonstration. Breathe in through your nose for 4 counts, hold for 7 counts, then exhale through your mouth for 8 counts.", Duration: 20, Type: StepInstruction},
			{ID: "practice1", Instruction: "Inhale through your nose... 1, 2, 3, 4. Now hold your breath... 1, 2, 3, 4, 5, 6, 7. Exhale slowly through your mouth... 1, 2, 3, 4, 5, 6, 7, 8.", Duration: 25, Type: StepPractice},
			{ID: "practice2", Instruction: "Continue this rhythm. Inhale for 4... Hold for 7... Exhale for 8. Feel your body beginning to relax with each cycle.", Duration: 60, Type: StepPractice},
			{ID: "practice3", Instruction: "Keep going at your own pace. Notice how your heart rate begins to slow and your mind becomes calmer.", Duration: 45, Type: StepPractice},
			{ID: "reflection", Instruction: "Take a moment to notice how you feel now compared to when you started. Return to natural breathing and rest in this calm state.", Duration: 15, Type: StepReflection},
		},
	},
	{
		ID:            "gratitude-reflection",
		Title:         "Gratitude Reflection",
		Description:   "Cultivate appreciation and positive awareness through guided gratitude practice",
		Guna:          GunaSattva,
		Type:          TypeJournaling,
		Difficulty:    DifficultyBeginner,
		TotalDuration: 300,
		Visual:        "gratitude",
		Steps: []InterventionStep{
			{ID: "intro", Instruction: "Settle into a comfortable position and take three deep breaths. We'll explore gratitude as a pathway to inner peace and clarity.", Duration: 20, Type: StepInstruction},
			{ID: "body-gratitude", Instruction: "Begin by appreciating your body. Thank your heart for beating, your lungs for breathing, your eyes for seeing. Feel genuine appreciation for this vessel that carries you through life.", Duration: 60, Type: StepPractice},
			{ID: "relationships", Instruction: "Now bring to mind someone you're grateful for. It could be family, a friend, or even a stranger who showed kindness. Feel the warmth of appreciation in your heart.", Duration: 60, Type: StepPractice},
			{ID: "experiences", Instruction: "Think of three experiences from today or this week that brought you joy, learning, or growth. Even small moments count - a warm cup of tea, a beautiful sunset, a moment of laughter.", Duration: 90, Type: StepPractice},
			{ID: "challenges", Instruction: "Consider a recent challenge. Can you find something to appreciate about it - perhaps the strength it revealed in you, or the lesson it offered?", Duration: 45, Type: StepPractice},
			{ID: "closing", Instruction: "Rest in this feeling of gratitude. Let it fill your entire being. When you're ready, gently open your eyes, carrying this appreciation with you.", Duration: 25, Type: StepReflection},
		},
	},
	{
		ID:            "mindful-awareness",
		Title:         "Mindful Awareness",
		Description:   "Deepen your present moment awareness with gentle mindfulness meditation",
		Guna:          GunaSattva,
		Type:          TypeMeditation,
		Difficulty:    DifficultyBeginner,
		TotalDuration: 420,
		Visual:        "awareness",
		Steps: []InterventionStep{
			{ID: "intro", Instruction: "Sit comfortably with your spine straight but not stiff. Close your eyes gently. We'll practice simple present-moment awareness.", Duration: 20, Type: StepInstruction},
			{ID: "breath-anchor", Instruction: "Bring your attention to your natural breath. Notice where you feel it most - the nose, chest, or belly. No need to change it, just observe.", Duration: 60, Type: StepPractice},
			{ID: "body-awareness", Instruction: "Expand awareness to your whole body. Notice any sensations - warmth, coolness, tingling, tension. Simply observe without judgment.", Duration: 90, Type: StepPractice},
			{ID: "sounds", Instruction: "Now notice sounds around you. Near and far. Let them come and go like waves. You don't need to label them, just hear them.", Duration: 60, Type: StepPractice},
			{ID: "thoughts", Instruction: "Notice thoughts arising in your mind. Like clouds passing through sky. When you notice you've been caught in a thought, gently return to breath.", Duration: 120, Type: StepPractice},
			{ID: "integration", Instruction: "Take three deep breaths. Notice the clarity and spaciousness in your awareness. Slowly open your eyes when ready.", Duration: 70, Type: StepReflection},
		},
	},
	{
		ID:            "vision-clarity",
		Title:         "Vision Clarity",
		Description:   "Connect with your deeper purpose and aspirations through guided visualization",
		Guna:          GunaSattva,
		Type:          TypeMeditation,
		Difficulty:    DifficultyIntermediate,
		TotalDuration: 360,
		Visual:        "vision",
		Steps: []InterventionStep{
			{ID: "intro", Instruction: "Find a quiet, comfortable space. Close your eyes and take five deep, settling breaths. We'll connect with your inner vision and purpose.", Duration: 30, Type: StepInstruction},
			{ID: "present-self", Instruction: "Visualize yourself right now, in this moment. See yourself clearly - your strengths, your challenges, your current path. Accept what you see with compassion.", Duration: 60, Type: StepPractice},
			{ID: "future-vision", Instruction: "Now imagine yourself six months from now, living in alignment with your deepest values. What does that look like? What are you doing? How do you feel?", Duration: 90, Type: StepPractice},
			{ID: "obstacles", Instruction: "Notice any obstacles or fears that arise. Acknowledge them without judgment. What inner resources do you have to work with these challenges?", Duration: 60, Type: StepPractice},
			{ID: "next-step", Instruction: "What is one small, concrete step you can take today toward that vision? See yourself taking that step with confidence.", Duration: 60, Type: StepPractice},
			{ID: "closing", Instruction: "Place your hand on your heart. Feel gratitude for this clarity. Slowly return to the room, bringing this vision with you.", Duration: 60, Type: StepReflection},
		},
	},
	{
		ID:            "alternate-nostril",
		Title:         "Alternate Nostril Breathing",
		Description:   "Balance your nervous system with this traditional pranayama technique",
		Guna:          GunaRajas,
		Type:          TypeBreathing,
		Difficulty:    DifficultyIntermediate,
		TotalDuration: 240,
		Visual:        "alternate-nostril",
		Steps: []InterventionStep{
			{ID: "intro", Instruction: "Sit with a straight spine. We'll practice Nadi Shodhana (alternate nostril breathing) to balance left and right energy channels.", Duration: 20, Type: StepInstruction},
			{ID: "hand-position", Instruction: "Bring your right hand to your face. Use your thumb to close your right nostril and your ring finger to close your left. Your index and middle fingers can rest gently on your forehead.", Duration: 25, Type: StepInstruction},
			{ID: "first-round", Instruction: "Close your right nostril with your thumb. Inhale slowly through your left nostril for 4 counts. Now close both nostrils and hold for 4 counts. Release your thumb and exhale through your right nostril for 4 counts.", Duration: 40, Type: StepPractice},
			{ID: "continue-pattern", Instruction: "Now inhale through the right nostril for 4, hold for 4, close right and exhale through left for 4. This completes one full cycle. Continue this pattern.", Duration: 120, Type: StepPractice},
			{ID: "deepening", Instruction: "If comfortable, extend to 5 counts in, 5 hold, 5 out. Maintain steady, smooth breath.", Duration: 25, Type: StepPractice},
			{ID: "closing", Instruction: "Complete your last exhale through the left nostril. Release your hand and breathe naturally. Notice the balance and calm.", Duration: 10, Type: StepReflection},
		},
	},
	{
		ID:            "focus-mantra",
		Title:         "Focus Mantra Meditation",
		Description:   "Channel restless energy into concentrated awareness with sacred sounds",
		Guna:          GunaRajas,
		Type:          TypeMeditation,
		Difficulty:    DifficultyBeginner,
		TotalDuration: 300,
		Visual:        "mantra",
		Steps: []InterventionStep{
			{ID: "intro", Instruction: "Sit comfortably with your spine tall. We'll use a simple mantra to anchor your scattered energy into focused presence.", Duration: 20, Type: StepInstruction},
			{ID: "choose-mantra", Instruction: "Choose a mantra that resonates: 'Om' for universal connection, 'So Ham' (I am), 'Peace', or any word that feels right. We'll use 'Om' for this practice.", Duration: 30, Type: StepInstruction},
			{ID: "silent-repetition", Instruction: "Close your eyes. Begin repeating 'Om' silently in your mind, matching it with your breath. Inhale 'Om', exhale 'Om'. Let the sound fill your awareness.", Duration: 120, Type: StepPractice},
			{ID: "when-distracted", Instruction: "When your mind wanders (and it will), simply notice and gently return to the mantra. No judgment. This returning IS the practice.", Duration: 80, Type: StepPractice},
			{ID: "deepen", Instruction: "Let the mantra become softer, subtler, almost like a gentle vibration rather than words. Rest in that space.", Duration: 40, Type: StepPractice},
			{ID: "closing", Instruction: "Let the mantra fade. Sit in silence for a few breaths. Notice the focused calm you've created. Slowly open your eyes.", Duration: 10, Type: StepReflection},
		},
	},
	{
		ID:            "energizing-breath",
		Title:         "Energizing Breath Work",
		Description:   "Awaken your vital energy with invigorating breathing techniques",
		Guna:          GunaTamas,
		Type:          TypeBreathing,
		Difficulty:    DifficultyBeginner,
		TotalDuration: 240,
		Visual:        "energize",
		Steps: []InterventionStep{
			{ID: "intro", Instruction: "Sit up tall with your spine straight. We'll use breath to awaken your natural vitality and clear mental fog.", Duration: 15, Type: StepInstruction},
			{ID: "bellows-prep", Instruction: "We'll practice Bellows Breath (Bhastrika). Place your hands on your knees. This involves rapid, forceful breathing to energize your system.", Duration: 20, Type: StepInstruction},
			{ID: "bellows-practice", Instruction: "Take 10 rapid, forceful breaths in and out through your nose. Pump your belly like a bellows. Then take a deep breath in, hold for 5 seconds, and exhale slowly.", Duration: 45, Type: StepPractice},
			{ID: "bellows-repeat", Instruction: "Let's do another round. 10 more rapid breaths, pumping energy through your system. Then hold and release slowly.", Duration: 45, Type: StepPractice},
			{ID: "sun-breath", Instruction: "Now we'll do Sun Breath. Inhale and sweep your arms up overhead, exhale and bring them down. Feel yourself gathering energy from above.", Duration: 60, Type: StepPractice},
			{ID: "integration", Instruction: "Return to normal breathing. Notice the energy flowing through your body. Feel more alert, awake, and ready to engage with your day.", Duration: 55, Type: StepReflection},
		},
	},
	{
		ID:            "body-scan-activation",
		Title:         "Body Scan Activation",
		Description:   "Gently awaken your body's energy centers through mindful scanning",
		Guna:          GunaTamas,
		Type:          TypeMeditation,
		Difficulty:    DifficultyBeginner,
		TotalDuration: 360,
		Visual:        "body-scan",
		Steps: []InterventionStep{
			{ID: "intro", Instruction: "Lie down or sit comfortably. We'll move awareness through your body, awakening each area and releasing stagnant energy.", Duration: 20, Type: StepInstruction},
			{ID: "feet", Instruction: "Bring attention to your feet. Wiggle your toes. Imagine warm, golden light filling your feet, awakening them.", Duration: 40, Type: StepPractice},
			{ID: "legs", Instruction: "Move awareness up through ankles, calves, knees, thighs. Tense and release each area. Feel vitality flowing upward.", Duration: 60, Type: StepPractice},
			{ID: "core", Instruction: "Scan through your pelvis, belly, lower back. Take a deep breath into your abdomen. Feel the solar plexus (your power center) glowing with energy.", Duration: 60, Type: StepPractice},
			{ID: "chest-arms", Instruction: "Move to your chest and heart space. Roll your shoulders. Stretch your arms. Feel energy radiating from your heart center down through your fingers.", Duration: 60, Type: StepPractice},
			{ID: "head", Instruction: "Scan neck, jaw, face, scalp. Relax any tension. Imagine bright light at the crown of your head, connecting you to clarity and purpose.", Duration: 60, Type: StepPractice},
			{ID: "whole-body", Instruction: "Feel your entire body alive and energized. Take three deep breaths. Stretch gently. Notice how much more awake and present you feel.", Duration: 60, Type: StepReflection},
		},
	},
	{
		ID:            "gentle-movement",
		Title:         "Gentle Movement Flow",
		Description:   "Light, mindful movements to shift stagnant energy and increase vitality",
		Guna:          GunaTamas,
		Type:          TypeMovement,
		Difficulty:    DifficultyBeginner,
		TotalDuration: 420,
		Visual:        "movement",
		Steps: []InterventionStep{
			{ID: "intro", Instruction: "Stand with feet hip-width apart. We'll move through gentle stretches and flows to wake up your body and shift heavy energy.", Duration: 20, Type: StepInstruction},
			{ID: "neck-shoulders", Instruction: "Start with neck rolls - slow circles in each direction. Then shoulder rolls backward, opening your chest. Roll forward, releasing tension.", Duration: 60, Type: StepPractice},
			{ID: "side-stretch", Instruction: "Reach your right arm overhead and lean gently to the left. Feel the stretch along your right side. Hold for a few breaths. Repeat on the other side.", Duration: 60, Type: StepPractice},
			{ID: "twists", Instruction: "Place hands on hips. Gently twist your torso to the right, then left. Let your arms swing naturally. Feel your spine releasing.", Duration: 60, Type: StepPractice},
			{ID: "forward-fold", Instruction: "Hinge at your hips and fold forward gently. Let your head and arms hang. Bend your knees if needed. Sway side to side. Feel gravity releasing tension.", Duration: 60, Type: StepPractice},
			{ID: "cat-cow", Instruction: "If comfortable, come to hands and knees. Arch your back (cow pose) on an inhale. Round your spine (cat pose) on an exhale. Flow between these.", Duration: 80, Type: StepPractice},
			{ID: "standing-flow", Instruction: "Return to standing. Reach arms up on inhale, fold down on exhale. Repeat this simple flow 5 times, matching movement with breath.", Duration: 60, Type: StepPractice},
			{ID: "closing", Instruction: "Stand in mountain pose. Feel your feet rooted, your spine tall. Take three deep breaths. Notice the vitality and lightness in your body.", Duration: 20, Type: StepReflection},
		},
	},
}

var interventionIndex = func() map[string]*InterventionDefinition {
	idx := make(map[string]*InterventionDefinition, len(interventionRegistry))
	for i := range interventionRegistry {
		idx[interventionRegistry[i].ID] = &interventionRegistry[i]
	}
	return idx
}()

// Interventions returns the full catalog in registry order.
func Interventions() []InterventionDefinition {
	out := make([]InterventionDefinition, len(interventionRegistry))
	copy(out, interventionRegistry)
	return out
}

// GetInterventionDefinition looks up one catalog entry, nil if unknown.
func GetInterventionDefinition(id string) *InterventionDefinition {
	return interventionIndex[id]
}

// FormatDurationLabel renders a human duration: "45s" below a minute,
// rounded minutes above.
func FormatDurationLabel(totalSeconds int) string {
	if totalSeconds < 60 {
		return fmt.Sprintf("%ds", totalSeconds)
	}
	minutes := (totalSeconds + 30) / 60
	return fmt.Sprintf("%d min", minutes)
}

// InterventionMeta is the compact card view of a catalog entry.
type InterventionMeta struct {
	ID            string                 `json:"id"`
	Title         string                 `json:"title"`
	Guna          Guna                   `json:"guna"`
	Type          InterventionType       `json:"type"`
	Difficulty    InterventionDifficulty `json:"difficulty"`
	TotalDuration int                    `json:"totalDuration"`
	DurationLabel string                 `json:"durationLabel"`
}

// GetInterventionMeta projects a catalog entry for list views, nil if unknown.
func GetInterventionMeta(id string) *InterventionMeta {
	def := GetInterventionDefinition(id)
	if def == nil {
		return nil
	}
	return &InterventionMeta{
		ID:            def.ID,
		Title:         def.Title,
		Guna:          def.Guna,
		Type:          def.Type,
		Difficulty:    def.Difficulty,
		TotalDuration: def.TotalDuration,
		DurationLabel: FormatDurationLabel(def.TotalDuration),
	}
}

// ScriptureReference anchors a practice in its source teaching. Display
// flavor for the intervention detail view.
type ScriptureReference struct {
	Source  string   `json:"source"`
	Verses  []string `json:"verses"`
	Theme   string   `json:"theme"`
	Summary string   `json:"summary"`
}

var scriptureReferences = map[string]ScriptureReference{
	"gratitude-reflection": {
		Source:  "Bhagavad Gita",
		Verses:  []string{"17.15", "10.41"},
		Theme:   "Speech that is truthful, pleasant, and honours the sacred in everyone",
		Summary: "Encourages appreciative journaling so sattvic speech (satya, priya) steadies the heart before action.",
	},
	"mindful-awareness": {
		Source:  "Bhagavad Gita",
		Verses:  []string{"6.10", "6.26"},
		Theme:   "Seated meditation that repeatedly returns the mind to still awareness",
		Summary: "Guides dharana/dhyana by noticing distraction and gently returning to breath anchored presence.",
	},
	"vision-clarity": {
		Source:  "Bhagavad Gita",
		Verses:  []string{"2.41", "18.45"},
		Theme:   "Single-pointed purpose aligned with one's swadharma",
		Summary: "Visualization session reconnects the practitioner with steady intention so sattva can lead decisions.",
	},
	"alternate-nostril": {
		Source:  "Bhagavad Gita",
		Verses:  []string{"4.29", "5.27-28"},
		Theme:   "Pranayama that balances prana and withdraws the senses before contemplation",
		Summary: "Structured nostril alternation channels rajasic spikes into a balanced, inward turning current.",
	},
	"calming-breath": {
		Source:  "Bhagavad Gita",
		Verses:  []string{"4.29"},
		Theme:   "Breath offered as a sacrificial act to quiet the nervous system",
		Summary: "Lengthening the exhale follows the Gita's pranayama guidance to settle the fire of rajas.",
	},
	"focus-mantra": {
		Source:  "Bhagavad Gita",
		Verses:  []string{"8.13", "9.14"},
		Theme:   "Japa of Om with unwavering devotion",
		Summary: "Transforms rajasic drive into mantra repetition so awareness rests on a single vibration.",
	},
	"energizing-breath": {
		Source:  "Bhagavad Gita",
		Verses:  []string{"3.30", "6.16-17"},
		Theme:   "Disciplined action and moderated habits to overcome inertia",
		Summary: "Invigorating breath and movement disperse tamasic heaviness while staying aligned with purposeful effort.",
	},
	"body-scan-activation": {
		Source:  "Bhagavad Gita",
		Verses:  []string{"6.11-13"},
		Theme:   "Awareness traveling the body from root to crown in a steady posture",
		Summary: "Sequential attention awakens each locus of energy so tamas can lift without agitation.",
	},
	"gentle-movement": {
		Source:  "Bhagavad Gita",
		Verses:  []string{"3.7", "6.16"},
		Theme:   "Mindful action offered without attachment",
		Summary: "Light movement practices invite rajasic vitality to break tamasic inertia while honoring moderation.",
	},
}

// GetScriptureReference returns the teaching reference for an intervention,
// or a zero value with ok=false.
func GetScriptureReference(id string) (ScriptureReference, bool) {
	ref, ok := scriptureReferences[id]
	return ref, ok
}
