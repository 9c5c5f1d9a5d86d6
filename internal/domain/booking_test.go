package domain

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func at(h, m int) time.Time {
	return time.Date(2025, 3, 10, h, m, 0, 0, time.UTC)
}

func TestIntervalOverlaps(t *testing.T) {
	cases := []struct {
		name string
		a, b Interval
		want bool
	}{
		{"back to back", Interval{at(9, 0), at(10, 0)}, Interval{at(10, 0), at(11, 0)}, false},
		{"disjoint", Interval{at(9, 0), at(10, 0)}, Interval{at(11, 0), at(12, 0)}, false},
		{"partial", Interval{at(9, 0), at(10, 0)}, Interval{at(9, 30), at(10, 30)}, true},
		{"contained", Interval{at(9, 0), at(12, 0)}, Interval{at(10, 0), at(11, 0)}, true},
		{"identical", Interval{at(9, 0), at(10, 0)}, Interval{at(9, 0), at(10, 0)}, true},
		{"one minute shared", Interval{at(9, 0), at(10, 1)}, Interval{at(10, 0), at(11, 0)}, true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, tc.a.Overlaps(tc.b))
			assert.Equal(t, tc.want, tc.b.Overlaps(tc.a), "overlap must be symmetric")
		})
	}
}

func TestIntervalOverlapsSweep(t *testing.T) {
	base := Interval{at(9, 0), at(10, 0)}
	for startMin := 0; startMin < 24*60; startMin += 15 {
		for length := 15; length <= 180; length += 15 {
			s := time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC).Add(time.Duration(startMin) * time.Minute)
			other := Interval{s, s.Add(time.Duration(length) * time.Minute)}
			touching := !other.End.After(base.Start) || !other.Start.Before(base.End)
			assert.Equal(t, !touching, base.Overlaps(other), "other=%v-%v", other.Start, other.End)
		}
	}
}

func TestParseInterval(t *testing.T) {
	iv, err := ParseInterval("2025-03-10T09:00:00Z", "2025-03-10T10:00:00+00:00")
	require.NoError(t, err)
	assert.True(t, iv.Start.Equal(at(9, 0)))
	assert.True(t, iv.End.Equal(at(10, 0)))
	assert.Equal(t, int64(60), iv.Minutes())

	iv, err = ParseInterval("2025-03-10T11:00:00+02:00", "2025-03-10T10:00")
	require.NoError(t, err)
	assert.True(t, iv.Start.Equal(at(9, 0)))
	assert.Equal(t, time.UTC, iv.Start.Location())
}

func TestParseIntervalRejects(t *testing.T) {
	cases := map[string][2]string{
		"missing start": {"", "2025-03-10T10:00:00Z"},
		"missing end":   {"2025-03-10T10:00:00Z", "  "},
		"garbage":       {"tomorrow", "2025-03-10T10:00:00Z"},
		"equal":         {"2025-03-10T10:00:00Z", "2025-03-10T10:00:00Z"},
		"reversed":      {"2025-03-10T11:00:00Z", "2025-03-10T10:00:00Z"},
	}
	for name, in := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := ParseInterval(in[0], in[1])
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrInvalidInterval))
		})
	}
}

func TestErrorIsMatchesCode(t *testing.T) {
	err := ErrRoleMismatch.WithMsg("Forbidden. Requires owner role")
	assert.ErrorIs(t, err, ErrRoleMismatch)
	assert.NotErrorIs(t, err, ErrForbidden)
	assert.Equal(t, "Forbidden. Requires owner role", err.Error())
	assert.Equal(t, "Forbidden", ErrRoleMismatch.Msg)
}

func TestRoles(t *testing.T) {
	r, ok := ParseRole("owner")
	assert.True(t, ok)
	assert.Equal(t, RoleOwner, r)

	_, ok = ParseRole("superadmin")
	assert.False(t, ok)
	_, ok = ParseRole("Admin")
	assert.False(t, ok)

	set := RoleSet{RoleOwner}
	assert.True(t, set.Allows(RoleOwner))
	assert.False(t, set.Allows(RoleAdmin), "roles are not hierarchical")
	assert.Equal(t, "admin or owner", RoleSet{RoleAdmin, RoleOwner}.String())
}
