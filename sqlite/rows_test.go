package sqlite_test

import (
	"context"
	"fmt"
	"testing"

	"github.com/fwojciec/casescrape"
	"github.com/fwojciec/casescrape/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Ensure RowStore implements casescrape.RecordSink.
var _ casescrape.RecordSink = (*sqlite.RowStore)(nil)

func TestRowStore_Write(t *testing.T) {
	t.Parallel()

	t.Run("stores every field", func(t *testing.T) {
		t.Parallel()

		db := setupTestDB(t)
		store := sqlite.NewRowStore(db, "run-1")
		ctx := context.Background()

		row := &casescrape.OutputRow{
			Category:     "Chest",
			Subcategory:  "Lung",
			Group:        "Nodules",
			CaseTitle:    "Case 1",
			CaseInfo:     "Cough.\n\nA) Pneumonia",
			ClinicalInfo: "Smoker.",
			PatientSex:   "F",
			PatientAge:   "45",
			BodyPart:     "Chest",
			ImagePath:    "images/a.jpg",
			ImageCaption: "PA view",
			SourceURL:    "https://example.com/case/1/",
		}
		require.NoError(t, store.Write(ctx, row))

		got, err := sqlite.FindRows(ctx, db, casescrape.RowFilter{RunID: "run-1"})
		require.NoError(t, err)
		assert.Equal(t, []*casescrape.OutputRow{row}, got)
	})

	t.Run("write after close fails", func(t *testing.T) {
		t.Parallel()

		db := setupTestDB(t)
		store := sqlite.NewRowStore(db, "run-1")
		require.NoError(t, store.Close())
		require.NoError(t, store.Close())

		err := store.Write(context.Background(), &casescrape.OutputRow{})

		assert.Equal(t, casescrape.EINVALID, casescrape.ErrorCode(err))
	})
}

func TestFindRows(t *testing.T) {
	t.Parallel()

	db := setupTestDB(t)
	ctx := context.Background()

	first := sqlite.NewRowStore(db, "run-1")
	second := sqlite.NewRowStore(db, "run-2")
	for i := 0; i < 5; i++ {
		require.NoError(t, first.Write(ctx, &casescrape.OutputRow{CaseTitle: fmt.Sprintf("Case %d", i)}))
	}
	require.NoError(t, second.Write(ctx, &casescrape.OutputRow{CaseTitle: "Other"}))

	titles := func(rows []*casescrape.OutputRow) []string {
		out := make([]string, len(rows))
		for i, r := range rows {
			out[i] = r.CaseTitle
		}
		return out
	}

	t.Run("filters by run in write order", func(t *testing.T) {
		t.Parallel()

		got, err := sqlite.FindRows(ctx, db, casescrape.RowFilter{RunID: "run-1"})

		require.NoError(t, err)
		assert.Equal(t, []string{"Case 0", "Case 1", "Case 2", "Case 3", "Case 4"}, titles(got))
	})

	t.Run("all runs", func(t *testing.T) {
		t.Parallel()

		got, err := sqlite.FindRows(ctx, db, casescrape.RowFilter{})

		require.NoError(t, err)
		assert.Len(t, got, 6)
	})

	t.Run("paginates", func(t *testing.T) {
		t.Parallel()

		got, err := sqlite.FindRows(ctx, db, casescrape.RowFilter{RunID: "run-1", Limit: 2, Offset: 1})

		require.NoError(t, err)
		assert.Equal(t, []string{"Case 1", "Case 2"}, titles(got))
	})

	t.Run("offset without limit", func(t *testing.T) {
		t.Parallel()

		got, err := sqlite.FindRows(ctx, db, casescrape.RowFilter{RunID: "run-1", Offset: 3})

		require.NoError(t, err)
		assert.Equal(t, []string{"Case 3", "Case 4"}, titles(got))
	})
}
