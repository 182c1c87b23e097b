package ratelimit

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestNoneNeverRejects(t *testing.T) {
	l := New(None, Simple(1, time.Hour))
	for i := 0; i < 10; i++ {
		assert.False(t, l.Check("g", "c", "u"))
	}
}

func TestNoBandwidthsNeverRejects(t *testing.T) {
	l := New(Channel)
	for i := 0; i < 10; i++ {
		assert.False(t, l.Check("g", "c", "u"))
	}
}

func TestChannelBucketRejectsFourthBurst(t *testing.T) {
	l := New(Channel, Simple(3, 10*time.Second))
	for i := 0; i < 3; i++ {
		assert.False(t, l.Check("g", "c1", "u"), "request %d should pass", i+1)
	}
	assert.True(t, l.Check("g", "c1", "u"), "fourth request should be rejected")

	// A different channel owns a fresh bucket.
	assert.False(t, l.Check("g", "c2", "u"))
}

func TestChannelBucketIgnoresUser(t *testing.T) {
	l := New(Channel, Simple(1, time.Hour))
	assert.False(t, l.Check("g", "c", "u1"))
	assert.True(t, l.Check("g", "c", "u2"))
}

func TestUserBucketSpansChannels(t *testing.T) {
	l := New(User, Simple(1, time.Hour))
	assert.False(t, l.Check("g", "c1", "u"))
	assert.True(t, l.Check("g", "c2", "u"))
}

func TestMemberFallsBackToUserInDMs(t *testing.T) {
	l := New(Member, Simple(1, time.Hour))
	assert.False(t, l.Check("", "dm", "u"))
	// Same user in a guild is a different bucket.
	assert.False(t, l.Check("g", "c", "u"))
	// But the same DM identity is exhausted.
	assert.True(t, l.Check("", "dm", "u"))
}

func TestGuildFallsBackToUserInDMs(t *testing.T) {
	l := New(Guild, Simple(1, time.Hour))
	assert.False(t, l.Check("", "dm", "u1"))
	assert.False(t, l.Check("", "dm", "u2"))
	assert.True(t, l.Check("", "dm", "u1"))
}

func TestUserChannelBucketsPerPair(t *testing.T) {
	l := New(UserChannel, Simple(1, time.Hour))
	assert.False(t, l.Check("g", "c1", "u1"))
	assert.False(t, l.Check("g", "c1", "u2"))
	assert.False(t, l.Check("g", "c2", "u1"))
	assert.True(t, l.Check("g", "c1", "u1"))
}

func TestContinuousRefill(t *testing.T) {
	l := New(User, Simple(1, 50*time.Millisecond))
	assert.False(t, l.Check("", "", "u"))
	assert.True(t, l.Check("", "", "u"))

	time.Sleep(60 * time.Millisecond)
	assert.False(t, l.Check("", "", "u"), "token should have refilled")
}

func TestMultiBandwidthIsAllOrNothing(t *testing.T) {
	// The second bandwidth is the tight one. A rejection it causes must not
	// consume from the first, or the wide bandwidth would drain on rejected
	// requests.
	l := New(User, Simple(2, time.Hour), Simple(1, 50*time.Millisecond))

	assert.False(t, l.Check("", "", "u"))
	assert.True(t, l.Check("", "", "u"), "tight bandwidth should reject")

	time.Sleep(60 * time.Millisecond)
	assert.False(t, l.Check("", "", "u"), "rejection must not have consumed the wide bandwidth")

	time.Sleep(60 * time.Millisecond)
	assert.True(t, l.Check("", "", "u"), "wide bandwidth should now be exhausted")
}
