package adcode

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/miyamo2/amap-flomo-mcp/domain/model"
)

const (
	// delimiter separates the fields of a row.
	delimiter = ","

	// fieldCount is the number of fields in a row: name, code, serviceCode.
	fieldCount = 3

	// codeLength is the width of an adcode.
	codeLength = 6
)

// Open reads the table at path.
func Open(path string) (*Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, &DataSourceError{Source: path, Err: err}
	}
	defer f.Close()
	t, err := load(f, path)
	if err != nil {
		return nil, err
	}
	return t, nil
}

// Load reads a table from r.
//
// The first line is a header and is discarded, as are blank lines.
// Every other line must hold exactly three comma separated fields, the second a 6-digit code.
func Load(r io.Reader) (*Table, error) {
	return load(r, "reader")
}

func load(r io.Reader, source string) (*Table, error) {
	var rows []model.Location
	scanner := bufio.NewScanner(r)
	line := 0
	for scanner.Scan() {
		line++
		if line == 1 {
			continue
		}
		text := scanner.Text()
		if strings.TrimSpace(text) == "" {
			continue
		}
		loc, err := parseRow(text)
		if err != nil {
			return nil, &RowError{Line: line, Row: text, Reason: err.Error()}
		}
		rows = append(rows, loc)
	}
	if err := scanner.Err(); err != nil {
		return nil, &DataSourceError{Source: source, Err: err}
	}
	return newTable(rows), nil
}

// parseRow splits a row into a Location.
func parseRow(text string) (model.Location, error) {
	fields := strings.Split(text, delimiter)
	if len(fields) != fieldCount {
		return model.Location{}, fmt.Errorf("want %d fields, got %d", fieldCount, len(fields))
	}
	for i := range fields {
		fields[i] = strings.TrimSpace(fields[i])
	}
	loc := model.Location{
		Name:        fields[0],
		Code:        fields[1],
		ServiceCode: fields[2],
	}
	if loc.Name == "" {
		return model.Location{}, fmt.Errorf("empty name")
	}
	if !validCode(loc.Code) {
		return model.Location{}, fmt.Errorf("code %q is not %d digits", loc.Code, codeLength)
	}
	return loc, nil
}

func validCode(code string) bool {
	if len(code) != codeLength {
		return false
	}
	for i := 0; i < len(code); i++ {
		if code[i] < '0' || code[i] > '9' {
			return false
		}
	}
	return true
}
