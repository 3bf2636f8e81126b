package report

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/Xingyu-Yang915/RepuTrade-Method/internal/model"
)

const (
	ReputationCSV = "reputation_history.csv"
	DefaultsCSV   = "defaults_history.csv"
	RoundsCSV     = "round_summary.csv"
)

// WriteCSV emits the three tabular artifacts with the column layout the
// downstream analysis expects.
func WriteCSV(dir string, snaps []model.ReputationSnapshot, defaults []model.DefaultEvent, rounds []model.RoundSummary) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("failed to create output dir: %w", err)
	}

	err := writeFile(filepath.Join(dir, ReputationCSV), []string{"round", "user", "reputation"}, len(snaps), func(i int) []string {
		s := snaps[i]
		return []string{strconv.Itoa(s.Round), s.Participant, strconv.Itoa(s.Reputation)}
	})
	if err != nil {
		return err
	}

	err = writeFile(filepath.Join(dir, DefaultsCSV), []string{"round", "user"}, len(defaults), func(i int) []string {
		d := defaults[i]
		return []string{strconv.Itoa(d.Round), d.Participant}
	})
	if err != nil {
		return err
	}

	return writeFile(filepath.Join(dir, RoundsCSV),
		[]string{"round", "orders", "matched", "success", "defaults", "excluded_users"},
		len(rounds), func(i int) []string {
			r := rounds[i]
			return []string{
				strconv.Itoa(r.Round), strconv.Itoa(r.Orders), strconv.Itoa(r.Matched),
				strconv.Itoa(r.Success), strconv.Itoa(r.Defaults), strconv.Itoa(r.Excluded),
			}
		})
}

func writeFile(path string, header []string, n int, row func(i int) []string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write(header); err != nil {
		return err
	}
	for i := 0; i < n; i++ {
		if err := w.Write(row(i)); err != nil {
			return err
		}
	}
	w.Flush()
	return w.Error()
}

// LoadCSV reads back the artifacts written by WriteCSV; used by the
// reporter binary to re-render charts without a ledger.
func LoadCSV(dir string) ([]model.ReputationSnapshot, []model.DefaultEvent, []model.RoundSummary, error) {
	snapRows, err := readFile(filepath.Join(dir, ReputationCSV))
	if err != nil {
		return nil, nil, nil, err
	}
	var snaps []model.ReputationSnapshot
	for _, r := range snapRows {
		round, _ := strconv.Atoi(r[0])
		rep, _ := strconv.Atoi(r[2])
		snaps = append(snaps, model.ReputationSnapshot{Round: round, Participant: r[1], Reputation: rep})
	}

	defRows, err := readFile(filepath.Join(dir, DefaultsCSV))
	if err != nil {
		return nil, nil, nil, err
	}
	var defaults []model.DefaultEvent
	for _, r := range defRows {
		round, _ := strconv.Atoi(r[0])
		defaults = append(defaults, model.DefaultEvent{Round: round, Participant: r[1]})
	}

	roundRows, err := readFile(filepath.Join(dir, RoundsCSV))
	if err != nil {
		return nil, nil, nil, err
	}
	var rounds []model.RoundSummary
	for _, r := range roundRows {
		if len(r) < 6 {
			continue
		}
		var s model.RoundSummary
		s.Round, _ = strconv.Atoi(r[0])
		s.Orders, _ = strconv.Atoi(r[1])
		s.Matched, _ = strconv.Atoi(r[2])
		s.Success, _ = strconv.Atoi(r[3])
		s.Defaults, _ = strconv.Atoi(r[4])
		s.Excluded, _ = strconv.Atoi(r[5])
		rounds = append(rounds, s)
	}

	return snaps, defaults, rounds, nil
}

func readFile(path string) ([][]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer f.Close()

	rows, err := csv.NewReader(f).ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}
	if len(rows) <= 1 {
		return nil, nil
	}
	return rows[1:], nil // drop header
}
