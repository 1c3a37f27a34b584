package model

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestNextAverage(t *testing.T) {
	avg, count := NextAverage(0, 0, 4)
	assert.Equal(t, 4.0, avg)
	assert.Equal(t, 1, count)

	avg, count = NextAverage(avg, count, 5)
	assert.InDelta(t, 4.5, avg, 1e-9)
	assert.Equal(t, 2, count)

	avg, count = NextAverage(avg, count, 3)
	assert.InDelta(t, 4.0, avg, 1e-9)
	assert.Equal(t, 3, count)
}

func TestTeachesSubject(t *testing.T) {
	u := &User{Subjects: []string{"Calculus", "Linear Algebra"}}
	assert.True(t, u.TeachesSubject("calculus"))
	assert.True(t, u.TeachesSubject("  Linear algebra "))
	assert.False(t, u.TeachesSubject("Physics"))
}

func TestDisplayName(t *testing.T) {
	assert.Equal(t, "Ada Lovelace", (&User{FirstName: "Ada", LastName: "Lovelace"}).DisplayName())
	assert.Equal(t, "@ada", (&User{Username: "ada"}).DisplayName())
	assert.Equal(t, "user", (&User{}).DisplayName())
}

func TestLocation(t *testing.T) {
	assert.Equal(t, time.UTC, (&User{}).Location())
	assert.Equal(t, time.UTC, (&User{Timezone: "Mars/Olympus"}).Location())
	assert.Equal(t, "Europe/Berlin", (&User{Timezone: "Europe/Berlin"}).Location().String())
}
