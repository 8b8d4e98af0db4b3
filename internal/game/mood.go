package game

// MoodProfile collects every numeric effect a mood has. Trade sizing, the
// significant-move gate and drift volatility all read from this one table so
// the call sites cannot drift apart.
type MoodProfile struct {
	SizeMult float64
	ProbMod  float64
	VolMod   float64
}

var moodProfiles = map[Mood]MoodProfile{
	MoodInsider: {SizeMult: 1.0, ProbMod: 1.3, VolMod: 0.9},
	MoodFomo:    {SizeMult: 1.5, ProbMod: 0.7, VolMod: 1.8},
	MoodFader:   {SizeMult: 0.8, ProbMod: 0.8, VolMod: 1.5},
}

// Profile returns the modifiers for a mood. Grass, smart and the unset mood
// are all neutral.
func Profile(m Mood) MoodProfile {
	if p, ok := moodProfiles[m]; ok {
		return p
	}
	return MoodProfile{SizeMult: 1, ProbMod: 1, VolMod: 1}
}
