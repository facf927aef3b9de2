package source

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/euromarts-io/euromarts/pkg/types"
)

// LoadCountrySeed reads the static country metadata CSV. Expected header:
// country_code,country_name,eu_member_since,eurozone_member,region,subregion.
// The seed is supplied whole, not incrementally.
func LoadCountrySeed(path string) ([]types.CountryMeta, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening seed %s: %w", path, err)
	}
	defer func() { _ = f.Close() }()

	r := csv.NewReader(f)
	r.TrimLeadingSpace = true

	header, err := r.Read()
	if err != nil {
		return nil, fmt.Errorf("reading seed header: %w", err)
	}
	col := make(map[string]int, len(header))
	for i, name := range header {
		col[strings.TrimSpace(name)] = i
	}
	for _, required := range []string{"country_code", "country_name"} {
		if _, ok := col[required]; !ok {
			return nil, fmt.Errorf("seed %s: missing column %q", path, required)
		}
	}

	var countries []types.CountryMeta
	for {
		record, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("reading seed row: %w", err)
		}

		meta := types.CountryMeta{
			CountryCode: field(record, col, "country_code"),
			CountryName: field(record, col, "country_name"),
			Region:      field(record, col, "region"),
			Subregion:   field(record, col, "subregion"),
		}
		if v := field(record, col, "eu_member_since"); v != "" {
			ts, err := time.Parse("2006-01-02", v)
			if err != nil {
				return nil, fmt.Errorf("seed %s: bad eu_member_since %q for %s: %w",
					path, v, meta.CountryCode, err)
			}
			meta.EUMemberSince = &ts
		}
		if v := field(record, col, "eurozone_member"); v != "" {
			meta.EurozoneMember = strings.EqualFold(v, "true") || v == "1"
		}
		countries = append(countries, meta)
	}
	return countries, nil
}

func field(record []string, col map[string]int, name string) string {
	i, ok := col[name]
	if !ok || i >= len(record) {
		return ""
	}
	return strings.TrimSpace(record[i])
}
