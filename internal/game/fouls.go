package game

// InBonus reports whether a team shoots bonus free throws: at or past
// the threshold but short of double bonus.
func InBonus(teamFouls, foulsForBonus int) bool {
	return teamFouls >= foulsForBonus && teamFouls < foulsForBonus*2
}

// InDoubleBonus reports whether a team is at twice the bonus threshold.
func InDoubleBonus(teamFouls, foulsForBonus int) bool {
	return teamFouls >= foulsForBonus*2
}

// BonusStatus returns the display string for a team's foul situation:
// "Double Bonus", "Bonus", or "".
func BonusStatus(teamFouls, foulsForBonus int) string {
	switch {
	case InDoubleBonus(teamFouls, foulsForBonus):
		return "Double Bonus"
	case InBonus(teamFouls, foulsForBonus):
		return "Bonus"
	}
	return ""
}

// FoulsUntilBonus returns how many fouls remain before the bonus,
// never negative.
func FoulsUntilBonus(teamFouls, foulsForBonus int) int {
	if n := foulsForBonus - teamFouls; n > 0 {
		return n
	}
	return 0
}
