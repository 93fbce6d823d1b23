package learn

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/vancomm/minesweeper-rl/internal/mines"
)

/*
Value files are headerless CSV, one record per (state, command):

	hash word 0, ..., hash word n-1, row, col, value

All records of a file carry the same number of hash words.
*/

var ErrMalformedValueFile = errors.New("malformed value file")

func (t *ValueTable) WriteCSV(w io.Writer) error {
	cw := csv.NewWriter(w)
	for _, s := range t.sorted() {
		record := make([]string, 0, len(s.hash)+3)
		for _, word := range s.hash {
			record = append(record, strconv.FormatUint(word, 10))
		}
		prefix := len(record)
		for _, a := range s.actions {
			record = append(record[:prefix],
				strconv.Itoa(a.cmd.Row),
				strconv.Itoa(a.cmd.Col),
				strconv.FormatFloat(a.value, 'g', -1, 64),
			)
			if err := cw.Write(record); err != nil {
				return err
			}
		}
	}
	cw.Flush()
	return cw.Error()
}

// ReadCSV loads a value file into a new table with the given step size.
func ReadCSV(r io.Reader, step float64) (*ValueTable, error) {
	t := NewValueTable(step)
	cr := csv.NewReader(r)
	cr.ReuseRecord = true

	for line := 1; ; line++ {
		record, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrMalformedValueFile, err)
		}
		if len(record) < 4 {
			return nil, fmt.Errorf(
				"%w: line %d: want at least 4 fields, got %d",
				ErrMalformedValueFile, line, len(record),
			)
		}

		words := len(record) - 3
		hash := make(mines.Hash, words)
		for i := range words {
			hash[i], err = strconv.ParseUint(record[i], 10, 64)
			if err != nil {
				return nil, fmt.Errorf("%w: line %d: %w", ErrMalformedValueFile, line, err)
			}
		}
		row, err := strconv.Atoi(record[words])
		if err != nil {
			return nil, fmt.Errorf("%w: line %d: %w", ErrMalformedValueFile, line, err)
		}
		col, err := strconv.Atoi(record[words+1])
		if err != nil {
			return nil, fmt.Errorf("%w: line %d: %w", ErrMalformedValueFile, line, err)
		}
		value, err := strconv.ParseFloat(record[words+2], 64)
		if err != nil {
			return nil, fmt.Errorf("%w: line %d: %w", ErrMalformedValueFile, line, err)
		}

		t.set(hash, mines.Command{Row: row, Col: col, Kind: mines.CommandOpen}, value)
	}
	return t, nil
}

func (t *ValueTable) SaveFile(path string) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := f.Close(); err == nil {
			err = cerr
		}
	}()
	return t.WriteCSV(f)
}

func LoadFile(path string, step float64) (*ValueTable, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return ReadCSV(f, step)
}
