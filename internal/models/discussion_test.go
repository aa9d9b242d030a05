package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDiscussionValidate(t *testing.T) {
	testCases := []struct {
		name       string
		discussion DiscussionRecord
		wantErr    bool
	}{
		{name: "Valid", discussion: DiscussionRecord{Title: "Hello"}},
		{name: "Blank title", discussion: DiscussionRecord{Title: "  "}, wantErr: true},
		{name: "Negative reactions", discussion: DiscussionRecord{Title: "Hello", Reactions: -1}, wantErr: true},
		{name: "Negative comments", discussion: DiscussionRecord{Title: "Hello", Comments: -3}, wantErr: true},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			err := tc.discussion.Validate()
			if tc.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestDiscussionFilterNormalized(t *testing.T) {
	assert.Equal(t, DefaultDiscussionFilter(), DiscussionFilter{}.Normalized())

	custom := DiscussionFilter{Tab: TabTrending, Category: "ideas", Query: "dark", Sort: SortLatest}
	assert.Equal(t, custom, custom.Normalized())
}
