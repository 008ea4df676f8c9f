package casescrape_test

import (
	"testing"

	"github.com/fwojciec/casescrape"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCaseRows(t *testing.T) {
	t.Parallel()

	ancestry := casescrape.Ancestry{Category: "Abdomen", Subcategory: "Liver", Group: "Cysts"}

	t.Run("one row per image with shared case fields", func(t *testing.T) {
		t.Parallel()

		c := &casescrape.Case{
			Title:        "Simple cyst",
			Description:  "Anechoic lesion",
			ClinicalInfo: "Incidental finding",
			PatientDetails: map[string]string{
				"Sex":       "F",
				"Age":       "54",
				"Body part": "Liver",
			},
			Images: []casescrape.AssetRef{
				{SourceURL: "https://example.com/a.jpg", LocalPath: "images/a.jpg", Caption: "Axial"},
				{SourceURL: "https://example.com/b.jpg", LocalPath: "images/b.jpg", Caption: "Sagittal"},
				{SourceURL: "https://example.com/c.jpg", LocalPath: "images/c.jpg", Caption: "Doppler"},
			},
			SourceURL: "https://example.com/cases/1",
		}

		rows := casescrape.CaseRows(ancestry, c)

		require.Len(t, rows, 3)
		seen := make(map[string]bool)
		for _, r := range rows {
			assert.Equal(t, "Abdomen", r.Category)
			assert.Equal(t, "Liver", r.Subcategory)
			assert.Equal(t, "Simple cyst", r.CaseTitle)
			assert.Equal(t, "F", r.PatientSex)
			assert.Equal(t, "54", r.PatientAge)
			assert.Equal(t, "Liver", r.BodyPart)
			pair := r.ImagePath + "|" + r.ImageCaption
			assert.False(t, seen[pair], "duplicate image pair %s", pair)
			seen[pair] = true
		}
	})

	t.Run("case without images yields one row with empty image fields", func(t *testing.T) {
		t.Parallel()

		rows := casescrape.CaseRows(ancestry, &casescrape.Case{Title: "No images"})

		require.Len(t, rows, 1)
		assert.Equal(t, "No images", rows[0].CaseTitle)
		assert.Empty(t, rows[0].ImagePath)
		assert.Empty(t, rows[0].ImageCaption)
	})

	t.Run("unresolved image keeps caption and empty path", func(t *testing.T) {
		t.Parallel()

		c := &casescrape.Case{
			Title:  "Broken",
			Images: []casescrape.AssetRef{{SourceURL: "https://example.com/missing.jpg", Caption: "Lost"}},
		}

		rows := casescrape.CaseRows(ancestry, c)

		require.Len(t, rows, 1)
		assert.Empty(t, rows[0].ImagePath)
		assert.Equal(t, "Lost", rows[0].ImageCaption)
	})

	t.Run("options are appended to case info", func(t *testing.T) {
		t.Parallel()

		c := &casescrape.Case{Description: "Which finding?", Options: "A) Cyst\nB) Abscess"}

		rows := casescrape.CaseRows(ancestry, c)

		assert.Equal(t, "Which finding?\n\nA) Cyst\nB) Abscess", rows[0].CaseInfo)
	})
}

func TestOutputRow_Values(t *testing.T) {
	t.Parallel()

	row := &casescrape.OutputRow{
		Category:     "c",
		Subcategory:  "s",
		CaseTitle:    "t",
		ImagePath:    "images/x.jpg",
		ImageCaption: "cap",
	}

	values := row.Values(casescrape.CaseColumns())

	assert.Equal(t, []string{"c", "s", "t", "", "", "", "", "", "images/x.jpg", "cap"}, values)
	assert.Empty(t, row.Value("unknown"))
}

func TestCase_Detail(t *testing.T) {
	t.Parallel()

	c := &casescrape.Case{PatientDetails: map[string]string{"sex": "M"}}

	assert.Equal(t, "M", c.Detail("Sex"))
	assert.Empty(t, c.Detail("Age"))

	mixed := &casescrape.Case{PatientDetails: map[string]string{"SEX": "F", "sex": "M", "Sex ": "x"}}
	for i := 0; i < 20; i++ {
		assert.Equal(t, "F", mixed.Detail("Sex"))
	}
}

func TestCleanLabel(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "Sex", casescrape.CleanLabel(" Sex: "))
	assert.Equal(t, "Body part", casescrape.CleanLabel("Body part:"))
	assert.Equal(t, "Age", casescrape.CleanLabel("Age"))
}
