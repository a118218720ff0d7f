package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseRole(t *testing.T) {
	for _, s := range []string{"administrator", " Pastoral-Staff ", "CARE-TEAM", "group-leader", "member"} {
		_, ok := ParseRole(s)
		assert.True(t, ok, s)
	}
	for _, s := range []string{"", "admin", "bishop", "pastoral staff"} {
		_, ok := ParseRole(s)
		assert.False(t, ok, s)
	}
}

func TestRoleStaff(t *testing.T) {
	assert.True(t, RoleAdministrator.Staff())
	assert.True(t, RolePastoralStaff.Staff())
	assert.False(t, RoleCareTeam.Staff())
	assert.False(t, RoleGroupLeader.Staff())
	assert.False(t, RoleMember.Staff())
}

func TestPrayerStatusTransitionsForwardOnly(t *testing.T) {
	assert.True(t, PrayerOpen.CanTransition(PrayerPraying))
	assert.True(t, PrayerOpen.CanTransition(PrayerArchived))
	assert.True(t, PrayerPraying.CanTransition(PrayerAnswered))

	assert.False(t, PrayerPraying.CanTransition(PrayerOpen))
	assert.False(t, PrayerArchived.CanTransition(PrayerAnswered))
	assert.False(t, PrayerOpen.CanTransition(PrayerOpen))
	assert.False(t, PrayerOpen.CanTransition(PrayerStatus("resolved")))
}

func TestParseCareStatusAndAudience(t *testing.T) {
	_, ok := ParseCareStatus("Visited")
	assert.True(t, ok)
	_, ok = ParseCareStatus("done")
	assert.False(t, ok)

	_, ok = ParseAudience("leaders")
	assert.True(t, ok)
	_, ok = ParseAudience("everyone")
	assert.False(t, ok)
}
