package learning

import (
	"math"
	"time"
)

const (
	// RecentActivityLimit is how many of the latest stories the dashboard shows.
	RecentActivityLimit = 12

	defaultLevelMaxXP = 100
)

// Activity is one tile of the recent-activity strip.
type Activity struct {
	Role      string
	LevelStep int
	XP        int
	// Intensity is XP/100 clamped to [0,1].
	Intensity float64
}

// Dashboard is the derived view of a user's standing in the catalog.
type Dashboard struct {
	Role  *Role
	Level *RoleLevel

	UserXP     int
	LevelMinXP int
	LevelMaxXP int
	// ProgressPct is the position inside the current level, clamped to [0,100].
	ProgressPct int
	XPToNext    int

	PlaysTotal     int
	PlaysCompleted int
	PlaysRemaining int

	Iterations     int
	EarnedXP       int
	AvgXPPerIter   float64
	LastActivity   time.Time
	RecentActivity []Activity
}

// HasLastActivity reports whether any turn has been recorded.
func (d Dashboard) HasLastActivity() bool {
	return !d.LastActivity.IsZero()
}

// BuildDashboard computes the dashboard for user against the role catalog.
// The current role is the one of the latest story (by code or id), else the first role.
func BuildDashboard(user User, roles []Role) Dashboard {
	d := Dashboard{}

	var last *PlayStory
	if n := len(user.PlayStory); n > 0 {
		last = &user.PlayStory[n-1]
	}

	if last != nil {
		d.Role = findRole(roles, last.Role)
	}
	if d.Role == nil && len(roles) > 0 {
		d.Role = &roles[0]
	}

	fallbackStep := 0
	if last != nil {
		fallbackStep = last.LevelStep
	}
	d.Level = currentLevel(d.Role, user.XP, fallbackStep)

	if user.XP != nil {
		d.UserXP = *user.XP
	}
	d.LevelMinXP, d.LevelMaxXP = 0, defaultLevelMaxXP
	if d.Level != nil {
		d.LevelMinXP, d.LevelMaxXP = d.Level.MinXP, d.Level.MaxXP
	}

	span := max(1, d.LevelMaxXP-d.LevelMinXP)
	pct := float64(d.UserXP-d.LevelMinXP) / float64(span) * 100
	d.ProgressPct = int(math.Round(math.Max(0, math.Min(100, pct))))
	d.XPToNext = max(0, d.LevelMaxXP-d.UserXP)

	if d.Level != nil {
		d.PlaysTotal = len(d.Level.Plays)
		for _, p := range d.Level.Plays {
			if p.Completed() {
				d.PlaysCompleted++
			}
		}
	}
	d.PlaysRemaining = max(0, d.PlaysTotal-d.PlaysCompleted)

	for _, story := range user.PlayStory {
		d.Iterations += len(story.Metadata)
		d.EarnedXP += story.EarnedXP()
		for _, turn := range story.Metadata {
			if turn.CreatedAt.After(d.LastActivity) {
				d.LastActivity = turn.CreatedAt
			}
		}
	}
	if d.Iterations > 0 {
		d.AvgXPPerIter = float64(d.EarnedXP) / float64(d.Iterations)
	}

	start := max(0, len(user.PlayStory)-RecentActivityLimit)
	for _, story := range user.PlayStory[start:] {
		d.RecentActivity = append(d.RecentActivity, Activity{
			Role:      story.Role,
			LevelStep: story.LevelStep,
			XP:        story.XP,
			Intensity: math.Min(1, math.Max(0, float64(story.XP)/100)),
		})
	}

	return d
}

// DisplayXP is the user's XP, or the XP summed from stories when the backend omits it.
func (d Dashboard) DisplayXP(user User) int {
	if user.XP != nil {
		return *user.XP
	}
	return d.EarnedXP
}

func findRole(roles []Role, key string) *Role {
	if key == "" {
		return nil
	}
	for i := range roles {
		if roles[i].Code == key || roles[i].ID == key {
			return &roles[i]
		}
	}
	return nil
}

// currentLevel picks the level whose band contains xp, then the fallback step,
// then the first level.
func currentLevel(role *Role, xp *int, fallbackStep int) *RoleLevel {
	if role == nil || len(role.Levels) == 0 {
		return nil
	}

	if xp != nil {
		for i := range role.Levels {
			if *xp >= role.Levels[i].MinXP && *xp <= role.Levels[i].MaxXP {
				return &role.Levels[i]
			}
		}
	}

	if fallbackStep != 0 {
		for i := range role.Levels {
			if role.Levels[i].Step == fallbackStep {
				return &role.Levels[i]
			}
		}
	}

	return &role.Levels[0]
}
