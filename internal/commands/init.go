package commands

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/euromarts-io/euromarts/internal/config"
)

// NewInitCmd creates the init command.
func NewInitCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "init [project-name]",
		Short: "Initialize a new euromarts project",
		Long:  "Creates project scaffolding: config, raw data directory, and the country seed.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runInit(args[0])
		},
	}
}

func runInit(projectName string) error {
	bold := color.New(color.Bold)
	_, _ = bold.Printf("Initializing euromarts project: %s\n", projectName)

	dirs := []string{
		filepath.Join("data", "raw"),
		filepath.Join("data", "seeds"),
	}
	for _, dir := range dirs {
		path := filepath.Join(projectName, dir)
		if err := os.MkdirAll(path, 0o755); err != nil {
			return fmt.Errorf("creating directory %s: %w", path, err)
		}
	}

	configPath := filepath.Join(projectName, config.FileName)
	configContent := `store: duckdb
duckdb:
  path: warehouse.duckdb
dataDir: data/raw
seedPath: data/seeds/countries.csv
aggregateEntity: EU27_2020
snapshot:
  hardDelete: false
quality:
  aggregateTolerancePct: 5.0
  timelinessDays: 90
`
	if err := os.WriteFile(configPath, []byte(configContent), 0o644); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}

	seedPath := filepath.Join(projectName, "data", "seeds", "countries.csv")
	if err := os.WriteFile(seedPath, []byte(starterSeed), 0o644); err != nil {
		return fmt.Errorf("writing country seed: %w", err)
	}

	color.Green("Project created.")
	fmt.Println()
	fmt.Println("Next steps:")
	fmt.Printf("  cd %s\n", projectName)
	fmt.Println("  # drop extracted batches into data/raw/<dataset>.jsonl")
	fmt.Println("  euromarts build")
	return nil
}

const starterSeed = `country_code,country_name,eu_member_since,eurozone_member,region,subregion
AT,Austria,1995-01-01,true,Europe,Western Europe
BE,Belgium,1958-01-01,true,Europe,Western Europe
BG,Bulgaria,2007-01-01,false,Europe,Eastern Europe
HR,Croatia,2013-07-01,true,Europe,Southern Europe
CY,Cyprus,2004-05-01,true,Asia,Western Asia
CZ,Czechia,2004-05-01,false,Europe,Eastern Europe
DK,Denmark,1973-01-01,false,Europe,Northern Europe
EE,Estonia,2004-05-01,true,Europe,Northern Europe
FI,Finland,1995-01-01,true,Europe,Northern Europe
FR,France,1958-01-01,true,Europe,Western Europe
DE,Germany,1958-01-01,true,Europe,Western Europe
EL,Greece,1981-01-01,true,Europe,Southern Europe
HU,Hungary,2004-05-01,false,Europe,Eastern Europe
IE,Ireland,1973-01-01,true,Europe,Northern Europe
IT,Italy,1958-01-01,true,Europe,Southern Europe
LV,Latvia,2004-05-01,true,Europe,Northern Europe
LT,Lithuania,2004-05-01,true,Europe,Northern Europe
LU,Luxembourg,1958-01-01,true,Europe,Western Europe
MT,Malta,2004-05-01,true,Europe,Southern Europe
NL,Netherlands,1958-01-01,true,Europe,Western Europe
PL,Poland,2004-05-01,false,Europe,Eastern Europe
PT,Portugal,1986-01-01,true,Europe,Southern Europe
RO,Romania,2007-01-01,false,Europe,Eastern Europe
SK,Slovakia,2004-05-01,true,Europe,Eastern Europe
SI,Slovenia,2004-05-01,true,Europe,Southern Europe
ES,Spain,1986-01-01,true,Europe,Southern Europe
SE,Sweden,1995-01-01,false,Europe,Northern Europe
`
