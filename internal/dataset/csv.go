package dataset

import (
	"bufio"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
)

// ParseCSV reads a delimited table with a header row. The delimiter is ','
// unless the header line only contains ';'.
func ParseCSV(r io.Reader, schema Schema, origin string) (*Dataset, error) {
	br := bufio.NewReaderSize(r, 64*1024)
	comma, err := sniffDelimiter(br)
	if err != nil {
		return nil, err
	}

	reader := csv.NewReader(br)
	reader.Comma = comma
	reader.ReuseRecord = true
	reader.TrimLeadingSpace = true

	headers, err := reader.Read()
	if err == io.EOF {
		return nil, fmt.Errorf("%w: %s is empty", ErrParse, origin)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: failed to read headers: %v", ErrParse, err)
	}
	// ReuseRecord shares the backing array with the next Read.
	headers = append([]string(nil), headers...)

	b, err := newBuilder(headers, schema)
	if err != nil {
		return nil, err
	}
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			var perr *csv.ParseError
			if errors.As(err, &perr) && errors.Is(perr.Err, csv.ErrFieldCount) {
				return nil, fmt.Errorf("%w: line %d: %v", ErrParse, perr.Line, perr.Err)
			}
			return nil, fmt.Errorf("%w: %v", ErrParse, err)
		}
		if err := b.add(record); err != nil {
			return nil, err
		}
	}
	return b.build(origin)
}

// ReadCSVFile opens and parses path.
func ReadCSVFile(path string, schema Schema) (*Dataset, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrParse, err)
	}
	defer f.Close()
	return ParseCSV(f, schema, path)
}

func sniffDelimiter(br *bufio.Reader) (rune, error) {
	line, err := br.Peek(br.Size())
	if err != nil && err != io.EOF && err != bufio.ErrBufferFull {
		return 0, fmt.Errorf("%w: %v", ErrParse, err)
	}
	head := string(line)
	if i := strings.IndexByte(head, '\n'); i >= 0 {
		head = head[:i]
	}
	if !strings.Contains(head, ",") && strings.Contains(head, ";") {
		return ';', nil
	}
	return ',', nil
}
