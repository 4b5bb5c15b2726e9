// Package report renders the import scanner's record stream as a document:
// one block per import, annotated with the version resolved from the
// dependency CSV, plus a usage-count summary.
package report

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"

	"github.com/pyventory/pyventory/internal/model"
	"github.com/pyventory/pyventory/internal/pyenv"
)

// Block is one import together with every recorded usage of its alias.
type Block struct {
	Import model.ImportRecord
	Usages []model.ImportRecord
}

// Group partitions the ordered record stream back into blocks. Error
// records are tolerated by skipping them; the stream's ordering contract
// (an import, then its usages) does the rest.
func Group(records []model.ImportRecord) []Block {
	var blocks []Block
	for i := 0; i < len(records); {
		rec := records[i]
		if rec.Kind != model.Import {
			i++
			continue
		}
		block := Block{Import: rec}
		j := i + 1
		for j < len(records) && records[j].Kind == model.Usage && records[j].Alias == rec.Alias {
			block.Usages = append(block.Usages, records[j])
			j++
		}
		blocks = append(blocks, block)
		i = j
	}
	return blocks
}

// LoadVersions reads the dependency CSV and resolves each package to a
// concrete version: declared versions win, sentinels fall back to the
// locally installed version. Keys are the package names as recorded.
func LoadVersions(csvPath string, installed *pyenv.Installed) (map[string]string, error) {
	f, err := os.Open(csvPath)
	if err != nil {
		return nil, fmt.Errorf("dependency csv: %w", err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	rows, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("dependency csv: %w", err)
	}

	versions := make(map[string]string)
	for i, row := range rows {
		if i == 0 || len(row) < 3 { // header
			continue
		}
		pkg, declared := row[1], row[2]
		versions[pkg] = pyenv.Resolve(pkg, declared, installed)
	}
	return versions, nil
}

// Write renders the grouped records to w. Each import is annotated with the
// version of its root package, or "unknown" when the CSV has no entry for
// it. A summary table of usage counts per imported symbol closes the
// report.
func Write(w io.Writer, records []model.ImportRecord, versions map[string]string) error {
	blocks := Group(records)

	fmt.Fprintln(w, "SCA Report")
	fmt.Fprintln(w, "Static analysis of Python imports and their usage.")
	fmt.Fprintln(w)

	for n, block := range blocks {
		imp := block.Import
		pkg, _, _ := strings.Cut(imp.Symbol, ".")
		version, ok := versions[pkg]
		if !ok {
			version = model.VersionUnknown
		}

		fmt.Fprintf(w, "%d. %s (version: %s)\n", n+1, imp.Symbol, version)

		t := table.NewWriter()
		t.SetOutputMirror(w)
		t.AppendRow(table.Row{"File", filepathSlash(imp.File)})
		t.AppendRow(table.Row{"Type", "IMPORT"})
		t.AppendRow(table.Row{"Line", imp.Line})
		t.AppendRow(table.Row{"Code", strings.TrimSpace(imp.Code)})
		t.Render()

		if len(block.Usages) > 0 {
			u := table.NewWriter()
			u.SetOutputMirror(w)
			u.AppendHeader(table.Row{"Usage", "Line", "Code"})
			for _, usage := range block.Usages {
				u.AppendRow(table.Row{usage.Symbol, usage.Line, strings.TrimSpace(usage.Code)})
			}
			u.Render()
		}
		fmt.Fprintln(w)
	}

	writeSummary(w, blocks)
	return nil
}

// writeSummary renders usage counts per import, most used first.
func writeSummary(w io.Writer, blocks []Block) {
	type row struct {
		symbol string
		count  int
	}
	rows := make([]row, 0, len(blocks))
	for _, b := range blocks {
		rows = append(rows, row{symbol: b.Import.Symbol, count: len(b.Usages)})
	}
	sort.SliceStable(rows, func(i, j int) bool { return rows[i].count > rows[j].count })

	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.AppendHeader(table.Row{"Import", "Usages"})
	for _, r := range rows {
		t.AppendRow(table.Row{r.symbol, r.count})
	}
	t.Render()
}

func filepathSlash(p string) string {
	return strings.ReplaceAll(p, "\\", "/")
}
