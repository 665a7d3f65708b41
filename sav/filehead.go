package sav

import (
	"bufio"
	"bytes"
	"encoding/binary"
	"fmt"
	"io"
	"strings"

	"github.com/statgen/sav/dict"
	"github.com/statgen/sav/header"
)

// Magic is the 5-byte SAV file magic.
var Magic = [5]byte{'S', 'A', 'V', 0x02, 0x00}

// dictionaries holds the three header-derived lookup tables plus the set
// of FORMAT keys a _PBWT_SORT_* descriptor names for PBWT treatment.
type dictionaries struct {
	contigs     *dict.Dict
	ids         *dict.Dict // INFO/FORMAT/FILTER keys share one namespace
	samples     *dict.Dict
	pbwtTargets map[string]bool // FORMAT key name -> tracked
}

// buildDictionaries populates the three dictionaries from an ordered list
// of raw "##KEY=VALUE" header lines and a sample list, deterministically:
// lines are walked in file order, so contigs get codes in declaration
// order in their own dictionary, and INFO/FORMAT/FILTER IDs get codes in
// first-declaration order in one shared dictionary, regardless of which of
// the three they belong to.
func buildDictionaries(lines []string, samples []string) (*dictionaries, error) {
	d := &dictionaries{
		contigs:     dict.New(),
		ids:         dict.NewIDDict(),
		samples:     dict.New(),
		pbwtTargets: make(map[string]bool),
	}
	for _, raw := range lines {
		line, err := header.ParseLine(raw)
		if err != nil {
			return nil, wrap(CorruptHeader, "header line", err)
		}
		if target, ok := line.PBWTTarget(); ok {
			d.pbwtTargets[target] = true
			// The bare ##_PBWT_SORT_X= spelling declares nothing else; the
			// INFO-descriptor spelling still registers its ID like any
			// other INFO line, so the code space matches the header.
			if line.Key != "INFO" {
				continue
			}
		}
		switch line.Key {
		case "contig":
			id, ok := line.Field("ID")
			if !ok {
				return nil, wrap(CorruptHeader, fmt.Sprintf("##contig line missing ID=: %q", raw), nil)
			}
			if err := putEntry(d.contigs, line, id); err != nil {
				return nil, err
			}
		case "INFO", "FORMAT", "FILTER":
			id, ok := line.Field("ID")
			if !ok {
				return nil, wrap(CorruptHeader, fmt.Sprintf("##%s line missing ID=: %q", line.Key, raw), nil)
			}
			if err := putEntry(d.ids, line, id); err != nil {
				return nil, err
			}
		}
	}
	for _, s := range samples {
		d.samples.Put(s, dict.Entry{Name: s})
	}
	return d, nil
}

func putEntry(d *dict.Dict, line header.Line, id string) error {
	entry := dict.Entry{Number: line.Number(), Type: line.Type()}
	idx, present, err := line.IDX()
	if err != nil {
		return wrap(CorruptHeader, "IDX=", err)
	}
	if present {
		if err := d.PutAt(idx, id, entry); err != nil {
			return wrap(CorruptHeader, "IDX= collision", err)
		}
		return nil
	}
	d.Put(id, entry)
	return nil
}

// writeFileHeader writes the SAV magic, header byte-count, and header text
// (raw lines, the #CHROM column line, a trailing newline and NUL) to w.
func writeFileHeader(w io.Writer, lines []string, samples []string) error {
	var body bytes.Buffer
	for _, l := range lines {
		body.WriteString(l)
		body.WriteByte('\n')
	}
	body.WriteString(columnLine(samples))
	body.WriteByte('\n')
	body.WriteByte(0)

	if _, err := w.Write(Magic[:]); err != nil {
		return err
	}
	var sizeBuf [4]byte
	binary.LittleEndian.PutUint32(sizeBuf[:], uint32(body.Len()))
	if _, err := w.Write(sizeBuf[:]); err != nil {
		return err
	}
	_, err := w.Write(body.Bytes())
	return err
}

func columnLine(samples []string) string {
	cols := []string{"#CHROM", "POS", "ID", "REF", "ALT", "QUAL", "FILTER", "INFO"}
	if len(samples) == 0 {
		return strings.Join(cols, "\t")
	}
	cols = append(cols, "FORMAT")
	cols = append(cols, samples...)
	return strings.Join(cols, "\t")
}

// readFileHeader reads and validates the SAV magic and the declared-size
// header text from r, returning the raw "##..." lines and the sample list
// parsed out of the "#CHROM..." column line.
func readFileHeader(r io.Reader) (lines []string, samples []string, err error) {
	var got [5]byte
	if _, err := io.ReadFull(r, got[:]); err != nil {
		return nil, nil, wrap(CorruptHeader, "magic", err)
	}
	if got != Magic {
		return nil, nil, wrap(CorruptHeader, fmt.Sprintf("bad magic %x", got), nil)
	}
	var sizeBuf [4]byte
	if _, err := io.ReadFull(r, sizeBuf[:]); err != nil {
		return nil, nil, wrap(CorruptHeader, "header size", err)
	}
	size := binary.LittleEndian.Uint32(sizeBuf[:])
	body := make([]byte, size)
	if _, err := io.ReadFull(r, body); err != nil {
		return nil, nil, wrap(CorruptHeader, "header body", err)
	}
	scanner := bufio.NewScanner(bytes.NewReader(body))
	for scanner.Scan() {
		raw := scanner.Text()
		if raw == "" {
			continue
		}
		if strings.HasPrefix(raw, "##") {
			lines = append(lines, raw)
			continue
		}
		if strings.HasPrefix(raw, "#CHROM") {
			samples, err = header.ParseColumnLine(raw)
			if err != nil {
				return nil, nil, wrap(CorruptHeader, "column line", err)
			}
		}
	}
	return lines, samples, nil
}
