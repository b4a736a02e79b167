/*
Package learning contains the data structures exchanged with the backend and the
read-only progress calculations shown on the dashboard.

All values are backend-owned: this package decodes them for a single request and
never persists or mutates them.
*/
package learning

import (
	"fmt"
	"time"

	"eptweb/internal/pkg/validate"
)

// Profile is the account type chosen at sign-up.
type Profile string

const (
	ProfileAdmin   Profile = "admin"
	ProfileStudent Profile = "student"
)

// DocumentKind maps the profile to the national identifier it registers with.
// Students are individuals (CPF); every other profile is a company (CNPJ).
func (p Profile) DocumentKind() validate.DocumentKind {
	if p == ProfileStudent {
		return validate.KindCPF
	}
	return validate.KindCNPJ
}

// RoleCode identifies a career track.
type RoleCode string

const (
	RoleJunior    RoleCode = "JR"
	RolePleno     RoleCode = "PL"
	RoleSenior    RoleCode = "SR"
	RoleTechLead  RoleCode = "TL"
	RoleArchitect RoleCode = "AT"
)

// RoleCodes lists the tracks in career order.
var RoleCodes = []RoleCode{RoleJunior, RolePleno, RoleSenior, RoleTechLead, RoleArchitect}

// StudentLevel is a "<role>#<step>" label, e.g. "JR#1".
type StudentLevel string

// DefaultStudentLevel is assigned to every new registration.
const DefaultStudentLevel StudentLevel = "JR#1"

// StudentLevels returns every valid level label, JR#1 through AT#3.
func StudentLevels() []StudentLevel {
	levels := make([]StudentLevel, 0, len(RoleCodes)*3)
	for _, code := range RoleCodes {
		for step := '1'; step <= '3'; step++ {
			levels = append(levels, StudentLevel(string(code)+"#"+string(step)))
		}
	}
	return levels
}

// Valid reports whether l is one of StudentLevels.
func (l StudentLevel) Valid() bool {
	for _, known := range StudentLevels() {
		if l == known {
			return true
		}
	}
	return false
}

// RolePlay is a single challenge inside a level.
type RolePlay struct {
	Code        string `json:"code"`
	Challenge   string `json:"challenge"`
	XP          int    `json:"xp"`
	XPDone      int    `json:"xp_done,omitempty"`
	Played      bool   `json:"played,omitempty"`
	Description string `json:"description,omitempty"`
}

// Completed reports whether the user has earned at least the play's XP.
func (p RolePlay) Completed() bool {
	return p.XPDone >= p.XP
}

// RoleLevel groups plays within an XP band of a role.
type RoleLevel struct {
	Step     int        `json:"step"`
	MinXP    int        `json:"min_xp"`
	MaxXP    int        `json:"max_xp"`
	Plays    []RolePlay `json:"plays,omitempty"`
	Disabled bool       `json:"disabled,omitempty"`
}

// Role is a career track in the mission catalog.
type Role struct {
	ID       string      `json:"_id"`
	Code     string      `json:"code"`
	Name     string      `json:"name"`
	MinXP    int         `json:"min_xp"`
	MaxXP    int         `json:"max_xp"`
	Levels   []RoleLevel `json:"level,omitempty"`
	Disabled bool        `json:"disabled,omitempty"`
}

// Level returns the level with the given step.
func (r Role) Level(step int) (RoleLevel, bool) {
	for _, lvl := range r.Levels {
		if lvl.Step == step {
			return lvl, true
		}
	}
	return RoleLevel{}, false
}

// PlayTurn is one question/answer exchange of a play transcript.
type PlayTurn struct {
	Question  string    `json:"question"`
	Answer    string    `json:"answer"`
	Response  string    `json:"response"`
	XP        int       `json:"xp"`
	CreatedAt time.Time `json:"created_at"`
}

// PlayStory is the user's transcript for one play.
type PlayStory struct {
	Role      string     `json:"role"`
	LevelStep int        `json:"level_step"`
	PlayCode  string     `json:"play_code"`
	XP        int        `json:"xp"`
	Metadata  []PlayTurn `json:"metadata,omitempty"`
}

// EarnedXP sums the turns' XP, or falls back to the story total when there are no turns.
func (s PlayStory) EarnedXP() int {
	if len(s.Metadata) == 0 {
		return s.XP
	}
	total := 0
	for _, turn := range s.Metadata {
		total += turn.XP
	}
	return total
}

// User is the authenticated account as returned by the backend.
type User struct {
	Username  string      `json:"username"`
	Email     string      `json:"email"`
	Name      string      `json:"name"`
	XP        *int        `json:"xp,omitempty"`
	Level     string      `json:"level,omitempty"`
	PlayStory []PlayStory `json:"play_story,omitempty"`
}

// Story returns the user's transcript for playCode.
func (u User) Story(playCode string) (PlayStory, bool) {
	for _, story := range u.PlayStory {
		if story.PlayCode == playCode {
			return story, true
		}
	}
	return PlayStory{}, false
}

// Registration is the sign-up payload sent to the backend.
type Registration struct {
	Username string       `json:"username"`
	Email    string       `json:"email"`
	Password string       `json:"password"`
	Name     string       `json:"name"`
	Document string       `json:"document"`
	Level    StudentLevel `json:"level"`
	Profile  Profile      `json:"profile"`
}

// Check rejects a payload the backend would store with an unknown level or profile.
func (r Registration) Check() error {
	if !r.Level.Valid() {
		return fmt.Errorf("unknown student level %q", r.Level)
	}
	if r.Profile != ProfileStudent && r.Profile != ProfileAdmin {
		return fmt.Errorf("unknown profile %q", r.Profile)
	}
	return nil
}

// Answer is the submission for one play turn.
type Answer struct {
	RoleID   string `json:"role_id"`
	LevelNum int    `json:"level_num"`
	PlayCode string `json:"play_code"`
	Answer   string `json:"answer"`
}

// FindPlay resolves a mission by role id, level step and play code.
func FindPlay(roles []Role, roleID string, step int, playCode string) (Role, RoleLevel, RolePlay, bool) {
	for _, role := range roles {
		if role.ID != roleID {
			continue
		}
		lvl, ok := role.Level(step)
		if !ok {
			break
		}
		for _, play := range lvl.Plays {
			if play.Code == playCode {
				return role, lvl, play, true
			}
		}
		break
	}
	return Role{}, RoleLevel{}, RolePlay{}, false
}
