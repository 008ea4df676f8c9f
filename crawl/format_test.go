package crawl_test

import (
	"errors"
	"testing"

	"github.com/fwojciec/casescrape/crawl"
	"github.com/stretchr/testify/assert"
)

func TestTruncateURL(t *testing.T) {
	t.Parallel()

	const caseURL = "https://www.ultrasoundcases.info/cases/abdomen/liver/"
	tests := []struct {
		name   string
		url    string
		maxLen int
		want   string
	}{
		{"fits", caseURL, 80, caseURL},
		{"exact length", caseURL, len(caseURL), caseURL},
		{"keeps the tail", caseURL, 20, "...es/abdomen/liver/"},
		{"zero", caseURL, 0, ""},
		{"negative", caseURL, -5, ""},
		{"too short for an ellipsis", caseURL, 3, "htt"},
		{"short URL under a tiny limit", "ab", 3, "ab"},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got := crawl.TruncateURL(tt.url, tt.maxLen)
			assert.Equal(t, tt.want, got)
			if tt.maxLen > 0 {
				assert.LessOrEqual(t, len(got), tt.maxLen)
			}
		})
	}
}

func TestFormatOutcome(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		outcome crawl.NodeOutcome
		want    string
	}{
		{
			name: "succeeded node with name",
			outcome: crawl.NodeOutcome{
				Level: crawl.LevelGroup,
				URL:   "https://example.com/g/1",
				Name:  "Liver cysts",
				State: crawl.NodeSucceeded,
			},
			want: "group succeeded: Liver cysts (https://example.com/g/1)",
		},
		{
			name: "skipped node without name",
			outcome: crawl.NodeOutcome{
				Level: crawl.LevelAsset,
				URL:   "https://example.com/a.jpg",
				State: crawl.NodeSkipped,
				Err:   errors.New("status 404"),
			},
			want: "asset skipped: https://example.com/a.jpg: status 404",
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, crawl.FormatOutcome(tt.outcome))
		})
	}
}
