package ingest

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/nxadm/tail"

	"crmdash/internal/sheet"
	"crmdash/internal/table"
)

// Follow streams rows appended to a CSV file after the call. The header is read
// once from the start of the file.
func Follow(ctx context.Context, path string) (<-chan table.Row, <-chan error) {
	out := make(chan table.Row, 256)
	errs := make(chan error, 1)

	go func() {
		defer close(out)
		defer close(errs)

		schema, err := readHeader(path)
		if err != nil {
			errs <- err
			return
		}
		t, err := tail.TailFile(path, tail.Config{
			Follow:    true,
			ReOpen:    true,
			MustExist: true,
			Logger:    tail.DiscardingLogger,
			Poll:      true,
			Location:  &tail.SeekInfo{Offset: 0, Whence: io.SeekEnd},
		})
		if err != nil {
			errs <- err
			return
		}
		defer t.Cleanup()
		for {
			select {
			case <-ctx.Done():
				t.Stop()
				return
			case l, ok := <-t.Lines:
				if !ok {
					return
				}
				if l.Err != nil {
					select {
					case errs <- l.Err:
					default:
					}
					continue
				}
				row, ok := parseLine(schema, l.Text)
				if !ok {
					continue
				}
				select {
				case out <- row:
				case <-ctx.Done():
					t.Stop()
					return
				}
			}
		}
	}()

	return out, errs
}

func readHeader(path string) (table.Schema, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	cr := csv.NewReader(f)
	header, err := cr.Read()
	if errors.Is(err, io.EOF) {
		return nil, sheet.ErrNoHeader
	}
	if err != nil {
		return nil, fmt.Errorf("follow: header: %w", err)
	}
	schema := make(table.Schema, len(header))
	for i, h := range header {
		schema[i] = strings.TrimSpace(strings.TrimPrefix(h, "\ufeff"))
	}
	return schema, nil
}

func parseLine(schema table.Schema, line string) (table.Row, bool) {
	if strings.TrimSpace(line) == "" {
		return nil, false
	}
	cr := csv.NewReader(strings.NewReader(line))
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true
	rec, err := cr.Read()
	if err != nil {
		return nil, false
	}
	return sheet.Record(schema, rec), true
}
