package source

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/euromarts-io/euromarts/pkg/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaults_RegistersFourDatasets(t *testing.T) {
	reg := Defaults()
	specs := reg.List()
	require.Len(t, specs, 4)

	unemployment, err := reg.Get(DatasetUnemployment)
	require.NoError(t, err)
	assert.Equal(t, "une_rt_m", unemployment.SourceCode)
	assert.Equal(t, types.FrequencyMonthly, unemployment.Frequency)
	assert.Equal(t, []string{"geo_code", "time_code"}, unemployment.NaturalKey)

	gdp, err := reg.Get(DatasetGDP)
	require.NoError(t, err)
	assert.Equal(t, types.FrequencyAnnual, gdp.Frequency)
}

func TestRegistry_RejectsDuplicates(t *testing.T) {
	reg := NewRegistry()
	spec := DatasetSpec{Name: "gdp", NaturalKey: []string{"geo_code"}}
	require.NoError(t, reg.Register(spec))
	assert.Error(t, reg.Register(spec))
}

func TestRegistry_UnknownDataset(t *testing.T) {
	_, err := NewRegistry().Get("nope")
	assert.Error(t, err)
}

func TestLoadBatch(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "une_rt_m.jsonl")
	content := `{"dataset_code":"une_rt_m","geo_code":"DE","geo_label":"Germany","time_code":"2024-01","value":3.1,"extracted_at":"2024-02-15T06:00:00Z"}
{"dataset_code":"une_rt_m","geo_code":"FR","geo_label":"France","time_code":"2024-01","value":null,"extracted_at":"2024-02-15T06:00:00Z"}
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	records, err := LoadBatch(path)
	require.NoError(t, err)
	require.Len(t, records, 2)

	assert.Equal(t, "DE", records[0].GeoCode)
	require.NotNil(t, records[0].Value)
	assert.Equal(t, 3.1, *records[0].Value)
	assert.Nil(t, records[1].Value)
}

func TestLoadBatches_MissingFileIsEmptyBatch(t *testing.T) {
	batches, err := LoadBatches(Defaults(), t.TempDir())
	require.NoError(t, err)
	assert.Len(t, batches, 4)
	for _, records := range batches {
		assert.Empty(t, records)
	}
}

func TestLoadCountrySeed(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "country_metadata.csv")
	content := `country_code,country_name,eu_member_since,eurozone_member,region,subregion
DE,Germany,1958-01-01,true,Europe,Western Europe
PL,Poland,2004-05-01,false,Europe,Eastern Europe
EU27_2020,European Union (27),,false,Europe,
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	countries, err := LoadCountrySeed(path)
	require.NoError(t, err)
	require.Len(t, countries, 3)

	de := countries[0]
	assert.Equal(t, "Germany", de.CountryName)
	require.NotNil(t, de.EUMemberSince)
	assert.Equal(t, 1958, de.EUMemberSince.Year())
	assert.True(t, de.EurozoneMember)

	eu := countries[2]
	assert.Nil(t, eu.EUMemberSince)
	assert.False(t, eu.EurozoneMember)
}
