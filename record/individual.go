package record

import "github.com/statgen/sav/typedvalue"

// FormatField is one (key, value) pair in a record's individual block.
// Key is a FORMAT id-dictionary code.
type FormatField struct {
	Key int32
	Val typedvalue.Value
}

// EncodeIndividual serializes fields as a record's individual ("FORMAT")
// block: a flat sequence of (typed_int32 key, typed_value val) pairs.
func EncodeIndividual(fields []FormatField) []byte {
	buf := make([]byte, 0, 32*len(fields))
	for _, f := range fields {
		buf = append(buf, typedvalue.EncodeInt64(int64(f.Key))...)
		buf = typedvalue.Serialize(f.Val, buf)
	}
	return buf
}

// DecodeIndividual parses an individual block expected to carry exactly
// nFmt fields (the shared block's declared count). It fails with
// ErrFieldCountMismatch if decoding exhausts buf before nFmt fields are
// read, and ErrTrailingBytes if bytes remain afterward.
func DecodeIndividual(buf []byte, nFmt int32) ([]FormatField, error) {
	fields := make([]FormatField, 0, nFmt)
	pos := 0
	for int32(len(fields)) < nFmt {
		if pos >= len(buf) {
			return nil, ErrFieldCountMismatch
		}
		key, n, err := typedvalue.DecodeInt64(buf[pos:])
		if err != nil {
			return nil, err
		}
		pos += n
		val, n, err := typedvalue.Deserialize(buf[pos:])
		if err != nil {
			return nil, err
		}
		pos += n
		fields = append(fields, FormatField{Key: int32(key), Val: val})
	}
	if pos != len(buf) {
		return nil, ErrTrailingBytes
	}
	return fields, nil
}
