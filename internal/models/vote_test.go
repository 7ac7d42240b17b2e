package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func intPtr(v int) *int { return &v }

func TestVoteDeltaFirstVote(t *testing.T) {
	assert.Equal(t, 1, VoteDelta(nil, 1))
	assert.Equal(t, -1, VoteDelta(nil, -1))
}

func TestVoteDeltaRepeatVoteIsZero(t *testing.T) {
	assert.Equal(t, 0, VoteDelta(intPtr(1), 1))
	assert.Equal(t, 0, VoteDelta(intPtr(-1), -1))
}

func TestVoteDeltaSwitchingSides(t *testing.T) {
	// Moving from +1 to -1 swings points by 2, not by the raw new value.
	assert.Equal(t, -2, VoteDelta(intPtr(1), -1))
	assert.Equal(t, 2, VoteDelta(intPtr(-1), 1))
}

func TestSnippetShortTextUnchanged(t *testing.T) {
	p := &Post{Text: "short"}
	assert.Equal(t, "short", p.Snippet())
}

func TestSnippetLongTextTruncated(t *testing.T) {
	long := make([]byte, SnippetLength+50)
	for i := range long {
		long[i] = 'a'
	}
	p := &Post{Text: string(long)}

	got := p.Snippet()
	assert.Len(t, got, SnippetLength+len(" ..."))
	assert.Equal(t, " ...", got[len(got)-4:])
}
