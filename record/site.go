package record

import (
	"fmt"

	"github.com/statgen/sav/typedvalue"
)

// missingID is the VCF "no ID" sentinel exchanged with typedvalue's
// missing-string encoding at this layer's boundary.
const missingID = "."

// pbwtResetBit is bit 23 of the shared block's (n_fmt<<24)|n_sample word;
// SAV records always carry n_sample_in_this_record == 0, so that bit is
// repurposed as the frame's PBWT-reset flag.
const pbwtResetBit = 1 << 23

// InfoField is one (key, value) pair in a site's INFO block. Key is an
// id-dictionary code, not a string.
type InfoField struct {
	Key int32
	Val typedvalue.Value
}

// SiteInfo is one record's shared (site-level) data: everything but the
// per-sample FORMAT values.
type SiteInfo struct {
	ChromIndex int32 // contig-dictionary code
	Position   int32 // zero-based, on the wire; SiteInfo.Position1() exposes one-based
	RefLength  int32
	Qual       float32 // typedvalue.MissingFloat32() denotes missing
	ID         string  // "." denotes missing
	Ref        string
	Alt        []string
	// FilterCodes are id-dictionary codes, dict.PassCode for an
	// unfiltered / PASS record.
	FilterCodes []int32
	Info        []InfoField
	// NFmt is the number of (key, value) pairs the paired individual
	// block carries; it is re-derived by DecodeShared and re-validated
	// by DecodeIndividual against what was actually decoded.
	NFmt int32
	// PBWTReset, when true, means every tracked PBWT permutation must be
	// re-initialized to identity before this record's individual block
	// is decoded: this is the first record of a new compression frame.
	PBWTReset bool
}

// Position1 returns the record's one-based position, the form callers
// outside this package see.
func (s SiteInfo) Position1() int64 { return int64(s.Position) + 1 }

// EncodeShared serializes s as a site-info ("shared") block.
func EncodeShared(s SiteInfo) []byte {
	buf := make([]byte, 0, 64)
	buf = putI32(buf, s.ChromIndex)
	buf = putI32(buf, s.Position)
	buf = putI32(buf, s.RefLength)
	buf = putF32(buf, s.Qual)

	nAllele := uint32(len(s.Alt) + 1)
	nInfo := uint32(len(s.Info))
	buf = putU32(buf, nAllele<<16|nInfo&0xffff)

	word2 := uint32(s.NFmt) << 24
	if s.PBWTReset {
		word2 |= pbwtResetBit
	}
	buf = putU32(buf, word2)

	buf = typedvalue.Serialize(encodeIDValue(s.ID), buf)
	buf = typedvalue.Serialize(typedvalue.NewString(s.Ref), buf)
	for _, alt := range s.Alt {
		buf = typedvalue.Serialize(typedvalue.NewString(alt), buf)
	}

	filters := make([]int64, len(s.FilterCodes))
	for i, c := range s.FilterCodes {
		filters[i] = int64(c)
	}
	buf = typedvalue.Serialize(typedvalue.Minimize(typedvalue.NewDenseInt(typedvalue.Int32, filters)), buf)

	for _, info := range s.Info {
		buf = append(buf, typedvalue.EncodeInt64(int64(info.Key))...)
		buf = typedvalue.Serialize(info.Val, buf)
	}
	return buf
}

func encodeIDValue(id string) typedvalue.Value {
	if id == missingID {
		return typedvalue.NewMissingString()
	}
	return typedvalue.NewString(id)
}

func decodeIDValue(v typedvalue.Value) string {
	if typedvalue.IsMissingString(v) {
		return missingID
	}
	return v.Str()
}

// DecodeShared parses a site-info block from buf, which must contain
// exactly one record's shared bytes (the framing layer enforces this).
func DecodeShared(buf []byte) (SiteInfo, error) {
	var s SiteInfo
	pos := 0
	var ok bool
	if s.ChromIndex, pos, ok = takeI32(buf, pos); !ok {
		return SiteInfo{}, ErrTruncated
	}
	if s.Position, pos, ok = takeI32(buf, pos); !ok {
		return SiteInfo{}, ErrTruncated
	}
	if s.RefLength, pos, ok = takeI32(buf, pos); !ok {
		return SiteInfo{}, ErrTruncated
	}
	if s.Qual, pos, ok = takeF32(buf, pos); !ok {
		return SiteInfo{}, ErrTruncated
	}
	word1, next, ok := takeU32(buf, pos)
	if !ok {
		return SiteInfo{}, ErrTruncated
	}
	pos = next
	nAllele := word1 >> 16
	nInfo := word1 & 0xffff

	word2, next, ok := takeU32(buf, pos)
	if !ok {
		return SiteInfo{}, ErrTruncated
	}
	pos = next
	s.NFmt = int32(word2 >> 24)
	s.PBWTReset = word2&pbwtResetBit != 0

	idVal, n, err := typedvalue.Deserialize(buf[pos:])
	if err != nil {
		return SiteInfo{}, err
	}
	pos += n
	s.ID = decodeIDValue(idVal)

	refVal, n, err := typedvalue.Deserialize(buf[pos:])
	if err != nil {
		return SiteInfo{}, err
	}
	pos += n
	s.Ref = refVal.Str()

	if nAllele == 0 {
		return SiteInfo{}, fmt.Errorf("record: n_allele must be >= 1")
	}
	s.Alt = make([]string, nAllele-1)
	for i := range s.Alt {
		altVal, n, err := typedvalue.Deserialize(buf[pos:])
		if err != nil {
			return SiteInfo{}, err
		}
		pos += n
		s.Alt[i] = altVal.Str()
	}

	filterVal, n, err := typedvalue.Deserialize(buf[pos:])
	if err != nil {
		return SiteInfo{}, err
	}
	pos += n
	filterInts := filterVal.ToDenseInts()
	s.FilterCodes = make([]int32, len(filterInts))
	for i, x := range filterInts {
		s.FilterCodes[i] = int32(x)
	}

	s.Info = make([]InfoField, nInfo)
	for i := range s.Info {
		key, n, err := typedvalue.DecodeInt64(buf[pos:])
		if err != nil {
			return SiteInfo{}, err
		}
		pos += n
		val, n, err := typedvalue.Deserialize(buf[pos:])
		if err != nil {
			return SiteInfo{}, err
		}
		pos += n
		s.Info[i] = InfoField{Key: int32(key), Val: val}
	}
	return s, nil
}

// Span returns the record's closed coordinate interval [begin, end]
// (zero-based), per the "pos, pos + max(|ref|, max|alt|) - 1" rule region
// bounding uses. RefLength, not len(Ref), is authoritative for the
// reference-allele length: symbolic ALT records may carry a ref_length
// without a fully materialized reference sequence.
func (s SiteInfo) Span() (begin, end uint64) {
	maxLen := int(s.RefLength)
	for _, a := range s.Alt {
		if len(a) > maxLen {
			maxLen = len(a)
		}
	}
	if maxLen == 0 {
		maxLen = 1
	}
	begin = uint64(s.Position)
	end = begin + uint64(maxLen) - 1
	return
}
