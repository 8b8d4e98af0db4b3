package game

import (
	"math"
	"math/rand"
	"time"
)

// ReferralTick is the effect of one referral-farming interval.
type ReferralTick struct {
	NewReferrals int
	Earnings     float64
}

// StepReferrals grows the referral base and drips one interval's share of
// the projected daily earnings. The daily projection is recomputed from the
// post-growth follower count every tick, so a growing base pays more as the
// day goes on.
func StepReferrals(rng *rand.Rand, followerCount int, multiplier float64, dayDuration, tickEvery time.Duration) ReferralTick {
	newReferrals := int(math.Floor(rng.Float64() * 2 * multiplier))
	daily := float64(followerCount+newReferrals) * 0.1 * 0.01 * 17.28
	ticksPerDay := float64(dayDuration) / float64(tickEvery)
	if ticksPerDay < 1 {
		ticksPerDay = 1
	}
	return ReferralTick{
		NewReferrals: newReferrals,
		Earnings:     daily / ticksPerDay,
	}
}

// referralLump is one full day of passive earnings, paid on wake-up.
func referralLump(followerCount int) float64 {
	return float64(followerCount) * 0.1 * 0.01 * 17.28
}
