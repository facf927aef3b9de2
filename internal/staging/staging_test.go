package staging

import (
	"testing"
	"time"

	"github.com/euromarts-io/euromarts/internal/source"
	"github.com/euromarts-io/euromarts/pkg/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var extractedAt = time.Date(2024, 2, 15, 6, 0, 0, 0, time.UTC)

func rawRecord(geo, timeCode string, value *float64) types.RawRecord {
	return types.RawRecord{
		DatasetCode: "une_rt_m",
		GeoCode:     geo,
		GeoLabel:    geo + " label",
		TimeCode:    timeCode,
		Value:       value,
		UnitCode:    "PC_ACT",
		ExtractedAt: extractedAt,
	}
}

func monthlySpec(t *testing.T) source.DatasetSpec {
	t.Helper()
	spec, err := source.Defaults().Get(source.DatasetUnemployment)
	require.NoError(t, err)
	return spec
}

func annualSpec(t *testing.T) source.DatasetSpec {
	t.Helper()
	spec, err := source.Defaults().Get(source.DatasetGDP)
	require.NoError(t, err)
	return spec
}

func TestStage_Monthly(t *testing.T) {
	rows := New(nil).Stage(monthlySpec(t), []types.RawRecord{
		rawRecord("DE", "2024-01", types.Float(3.1)),
	})
	require.Len(t, rows, 1)

	row := rows[0]
	assert.Equal(t, "DE", row.CountryCode)
	assert.Equal(t, 2024, row.ReferenceYear)
	assert.Equal(t, 1, row.ReferenceMonth)
	assert.Equal(t, time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC), row.ReferenceDate)
	assert.Equal(t, 3.1, row.Value)
	assert.Equal(t, "une_rt_m", row.SourceDataset)
	assert.Len(t, row.SurrogateKey, 32)
}

func TestStage_Annual(t *testing.T) {
	spec := annualSpec(t)
	rec := rawRecord("DE", "2023", types.Float(4000000))
	rec.DatasetCode = spec.SourceCode

	rows := New(nil).Stage(spec, []types.RawRecord{rec})
	require.Len(t, rows, 1)
	assert.Equal(t, 2023, rows[0].ReferenceYear)
	assert.Equal(t, 0, rows[0].ReferenceMonth)
	assert.Equal(t, time.Date(2023, 1, 1, 0, 0, 0, 0, time.UTC), rows[0].ReferenceDate)
}

func TestStage_DropsNullMeasureTimeAndGeo(t *testing.T) {
	rows := New(nil).Stage(monthlySpec(t), []types.RawRecord{
		rawRecord("DE", "2024-01", nil),
		rawRecord("DE", "", types.Float(3.1)),
		rawRecord("", "2024-01", types.Float(3.1)),
		rawRecord("FR", "2024-01", types.Float(7.4)),
	})
	require.Len(t, rows, 1)
	assert.Equal(t, "FR", rows[0].CountryCode)
}

func TestStage_RejectsMalformedMonthlyTimeCodes(t *testing.T) {
	rows := New(nil).Stage(monthlySpec(t), []types.RawRecord{
		rawRecord("DE", "2024", types.Float(3.1)),     // too short for monthly
		rawRecord("DE", "2024-1", types.Float(3.1)),   // month not 2 digits
		rawRecord("DE", "2024-13", types.Float(3.1)),  // month out of range
		rawRecord("DE", "garbage", types.Float(3.1)),  // not a time code
		rawRecord("DE", "2024-02", types.Float(3.15)), // valid
	})
	require.Len(t, rows, 1)
	assert.Equal(t, 2, rows[0].ReferenceMonth)
}

func TestStage_RejectsMalformedAnnualTimeCodes(t *testing.T) {
	rows := New(nil).Stage(annualSpec(t), []types.RawRecord{
		rawRecord("DE", "2023-01", types.Float(1)), // monthly code in annual set
		rawRecord("DE", "23", types.Float(1)),
	})
	assert.Empty(t, rows)
}

func TestStage_Idempotent(t *testing.T) {
	batch := []types.RawRecord{
		rawRecord("DE", "2024-01", types.Float(3.1)),
		rawRecord("FR", "2024-01", types.Float(7.4)),
		rawRecord("XX", "bad", types.Float(1.0)),
	}
	tr := New(nil)
	first := tr.Stage(monthlySpec(t), batch)
	second := tr.Stage(monthlySpec(t), batch)
	assert.Equal(t, first, second)
}

func TestStage_EmptyBatchIsValid(t *testing.T) {
	rows := New(nil).Stage(monthlySpec(t), nil)
	assert.Empty(t, rows)
}

func TestStage_SurrogateKeyStableAcrossRestaging(t *testing.T) {
	rec := rawRecord("DE", "2024-01", types.Float(3.1))
	spec := monthlySpec(t)
	tr := New(nil)

	first := tr.Stage(spec, []types.RawRecord{rec})
	// A later extraction of the same observation keeps the same key even if
	// the measure was revised: identity is the natural key, not the value.
	rec.Value = types.Float(3.2)
	rec.ExtractedAt = extractedAt.AddDate(0, 1, 0)
	second := tr.Stage(spec, []types.RawRecord{rec})

	require.Len(t, first, 1)
	require.Len(t, second, 1)
	assert.Equal(t, first[0].SurrogateKey, second[0].SurrogateKey)
}
