package header

import (
	"fmt"
	"strconv"
	"strings"
)

// PBWTSortPrefix is the synthetic INFO-descriptor key prefix that marks a
// FORMAT key for PBWT reordering; the real target key is named by the
// descriptor's Format= field.
const PBWTSortPrefix = "_PBWT_SORT_"

// Line is one parsed "##KEY=VALUE" meta-information line. If Value has
// the structured "<...>" form, Fields holds its comma-separated
// sub-fields; otherwise Fields is nil and Value carries the raw string.
type Line struct {
	Key    string
	Value  string
	Fields map[string]string
}

// ParseLine parses one header line, which must begin with "##". Lines
// that are not of that form are rejected; the "#CHROM..." column line is
// handled separately by the caller.
func ParseLine(raw string) (Line, error) {
	if !strings.HasPrefix(raw, "##") {
		return Line{}, fmt.Errorf("header: line missing \"##\" prefix: %q", raw)
	}
	body := raw[2:]
	eq := strings.IndexByte(body, '=')
	if eq == -1 {
		return Line{}, fmt.Errorf("header: line missing \"=\": %q", raw)
	}
	l := Line{Key: body[:eq], Value: body[eq+1:]}
	if strings.HasPrefix(l.Value, "<") && strings.HasSuffix(l.Value, ">") {
		fields, err := parseStructuredValue(l.Value[1 : len(l.Value)-1])
		if err != nil {
			return Line{}, fmt.Errorf("header: %q: %w", raw, err)
		}
		l.Fields = fields
	}
	return l, nil
}

// parseStructuredValue splits a "<ID=x,Number=y,Description=\"a, b\">"
// body into its key/value sub-fields, honoring double-quoted values that
// may themselves contain commas.
func parseStructuredValue(body string) (map[string]string, error) {
	fields := make(map[string]string)
	var key strings.Builder
	var val strings.Builder
	inQuotes := false
	inValue := false
	flush := func() error {
		if key.Len() == 0 {
			return nil
		}
		v := val.String()
		if len(v) >= 2 && v[0] == '"' && v[len(v)-1] == '"' {
			v = v[1 : len(v)-1]
		}
		fields[key.String()] = v
		key.Reset()
		val.Reset()
		inValue = false
		return nil
	}
	for i := 0; i < len(body); i++ {
		c := body[i]
		switch {
		case c == '"':
			inQuotes = !inQuotes
			val.WriteByte(c)
		case c == '=' && !inQuotes && !inValue:
			inValue = true
		case c == ',' && !inQuotes:
			if err := flush(); err != nil {
				return nil, err
			}
		default:
			if inValue {
				val.WriteByte(c)
			} else {
				key.WriteByte(c)
			}
		}
	}
	if inQuotes {
		return nil, fmt.Errorf("unterminated quoted value")
	}
	if err := flush(); err != nil {
		return nil, err
	}
	return fields, nil
}

// Field returns the named structured sub-field and whether it was
// present.
func (l Line) Field(name string) (string, bool) {
	v, ok := l.Fields[name]
	return v, ok
}

// Number returns the declared Number= cardinality field, defaulting to
// "" when absent (meaning: caller-specific default).
func (l Line) Number() string { v, _ := l.Field("Number"); return v }

// Type returns the declared Type= field.
func (l Line) Type() string { v, _ := l.Field("Type"); return v }

// IDX returns the declared IDX= sparse dictionary slot, if present.
func (l Line) IDX() (int32, bool, error) {
	v, ok := l.Field("IDX")
	if !ok {
		return 0, false, nil
	}
	n, err := strconv.ParseInt(v, 10, 32)
	if err != nil {
		return 0, true, fmt.Errorf("header: invalid IDX= value %q: %w", v, err)
	}
	return int32(n), true, nil
}

// PBWTTarget reports the FORMAT key a "_PBWT_SORT_*" descriptor targets,
// via its Format= sub-field. Both spellings are recognized: the synthetic
// INFO-descriptor form ##INFO=<ID=_PBWT_SORT_GT,...,Format=GT> and the
// bare ##_PBWT_SORT_GT=<Format=GT> form. ok is false if neither the Key
// nor the ID= sub-field carries the prefix, or no Format= field is
// present.
func (l Line) PBWTTarget() (target string, ok bool) {
	id, _ := l.Field("ID")
	if !strings.HasPrefix(l.Key, PBWTSortPrefix) && !strings.HasPrefix(id, PBWTSortPrefix) {
		return "", false
	}
	v, present := l.Field("Format")
	return v, present
}

// ParseColumnLine splits the tab-separated "#CHROM...\tFORMAT\tS0\tS1..."
// line into the sample ID list, assuming the eight fixed VCF columns
// (#CHROM, POS, ID, REF, ALT, QUAL, FILTER, INFO) precede an optional
// FORMAT column.
func ParseColumnLine(raw string) ([]string, error) {
	if !strings.HasPrefix(raw, "#CHROM") {
		return nil, fmt.Errorf("header: column line missing \"#CHROM\" prefix: %q", raw)
	}
	cols := strings.Split(raw, "\t")
	const fixedCols = 8
	if len(cols) < fixedCols {
		return nil, fmt.Errorf("header: column line has too few columns")
	}
	if len(cols) == fixedCols {
		return nil, nil
	}
	// cols[fixedCols] is "FORMAT"; samples follow.
	if len(cols) == fixedCols+1 {
		return nil, fmt.Errorf("header: column line declares FORMAT but no samples")
	}
	return cols[fixedCols+1:], nil
}
