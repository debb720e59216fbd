package zodiac

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
)

var requiredHeaders = []string{"name"}

// headerAliases maps alternate column spellings onto canonical names so a
// hand-edited sheet does not have to match the built-in vocabulary exactly.
var headerAliases = map[string]string{
	"sign":      "name",
	"horoscope": "forecast",
	"wealth":    "finance",
	"health":    "wellness",
}

// override carries one row of replacement texts. Empty cells keep the
// built-in fallback for that section.
type override struct {
	Line     int
	Name     string
	Forecast string
	Finance  string
	Wellness string
}

// LoadOverrides reads a CSV/TSV signs file and returns the full catalog with
// the file's texts merged over the built-in fallbacks. When validation issues
// are found, the returned error will be of type ValidationErrors and the
// returned signs still include every row that parsed cleanly, so callers can
// continue with partial data.
func LoadOverrides(path string) ([]Sign, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read signs file: %w", err)
	}

	if len(data) == 0 {
		return nil, errors.New("signs file is empty")
	}

	comma, err := detectDelimiter(data)
	if err != nil {
		return nil, err
	}

	reader := csv.NewReader(bytes.NewReader(data))
	reader.Comma = comma
	reader.FieldsPerRecord = -1

	var (
		overrides []override
		errs      ValidationErrors
		headerMap map[string]int
		line      = 0
	)

	for {
		record, err := reader.Read()
		if err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			return nil, fmt.Errorf("parse signs file: %w", err)
		}
		line++

		if line == 1 {
			headerMap, err = buildHeaderMap(record)
			if err != nil {
				return nil, err
			}
			continue
		}

		if isEmptyRecord(record) {
			continue
		}

		ov, rowErrs := parseRecord(record, headerMap, line)
		if len(rowErrs) > 0 {
			errs = append(errs, rowErrs...)
			continue
		}
		overrides = append(overrides, ov)
	}

	if headerMap == nil {
		return nil, errors.New("missing header row")
	}

	if len(overrides) == 0 && len(errs) == 0 {
		return nil, errors.New("no data rows found")
	}

	signs := apply(All(), overrides)
	if len(errs) > 0 {
		return signs, errs
	}

	return signs, nil
}

func detectDelimiter(data []byte) (rune, error) {
	// Skip UTF-8 BOM if present.
	dataStr := string(data)
	if strings.HasPrefix(dataStr, "\uFEFF") {
		dataStr = strings.TrimPrefix(dataStr, "\uFEFF")
	}

	newline := strings.IndexAny(dataStr, "\r\n")
	var headerLine string
	if newline == -1 {
		headerLine = dataStr
	} else {
		headerLine = dataStr[:newline]
	}

	if strings.Count(headerLine, "\t") > 0 {
		return '\t', nil
	}

	if strings.Count(headerLine, ",") > 0 {
		return ',', nil
	}

	return 0, errors.New("unable to detect delimiter (expected comma or tab)")
}

func buildHeaderMap(header []string) (map[string]int, error) {
	if len(header) == 0 {
		return nil, errors.New("header row is empty")
	}

	headerMap := make(map[string]int, len(header))
	for idx, raw := range header {
		name := normalizeHeader(raw)
		if canonical, ok := headerAliases[name]; ok {
			name = canonical
		}
		if _, exists := headerMap[name]; exists {
			return nil, fmt.Errorf("duplicate header: %s", name)
		}
		headerMap[name] = idx
	}

	for _, required := range requiredHeaders {
		if _, ok := headerMap[required]; !ok {
			return nil, fmt.Errorf("missing required header: %s", required)
		}
	}

	return headerMap, nil
}

func normalizeHeader(value string) string {
	value = strings.TrimSpace(value)
	if strings.HasPrefix(value, "\uFEFF") {
		value = strings.TrimPrefix(value, "\uFEFF")
	}
	return strings.ToLower(value)
}

func isEmptyRecord(record []string) bool {
	if len(record) == 0 {
		return true
	}
	for _, field := range record {
		if strings.TrimSpace(field) != "" {
			return false
		}
	}
	return true
}

func parseRecord(record []string, header map[string]int, line int) (override, []ValidationError) {
	var errs []ValidationError

	get := func(field string) string {
		pos, ok := header[field]
		if !ok {
			return ""
		}
		if pos >= len(record) {
			return ""
		}
		value := strings.TrimSpace(record[pos])
		if strings.HasPrefix(value, "\uFEFF") {
			value = strings.TrimPrefix(value, "\uFEFF")
		}
		return value
	}

	name := get("name")
	if name == "" {
		errs = append(errs, ValidationError{Line: line, Field: "name", Message: "name is required"})
	} else if !knownName(strings.ToLower(name)) {
		errs = append(errs, ValidationError{Line: line, Field: "name", Message: fmt.Sprintf("unknown sign %q", name)})
	}

	ov := override{
		Line:     line,
		Name:     name,
		Forecast: get("forecast"),
		Finance:  get("finance"),
		Wellness: get("wellness"),
	}

	return ov, errs
}

// apply merges overrides onto the catalog. Later rows win when a sign
// appears more than once.
func apply(signs []Sign, overrides []override) []Sign {
	index := make(map[string]int, len(signs))
	for i, s := range signs {
		index[strings.ToLower(s.Name)] = i
	}

	for _, ov := range overrides {
		i, ok := index[strings.ToLower(ov.Name)]
		if !ok {
			continue
		}
		if ov.Forecast != "" {
			signs[i].Forecast = ov.Forecast
		}
		if ov.Finance != "" {
			signs[i].Finance = ov.Finance
		}
		if ov.Wellness != "" {
			signs[i].Wellness = ov.Wellness
		}
	}

	return signs
}
