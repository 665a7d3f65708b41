package sav

import (
	"github.com/statgen/sav/pbwt"
	"github.com/statgen/sav/record"
	"github.com/statgen/sav/typedvalue"
)

// InfoField is one INFO entry keyed by its header-declared name, the
// caller-facing counterpart of record.InfoField's dictionary code.
type InfoField struct {
	Key string
	Val typedvalue.Value
}

// FormatField is one per-sample FORMAT entry keyed by its header-declared
// name, the caller-facing counterpart of record.FormatField's dictionary
// code.
type FormatField struct {
	Key string
	Val typedvalue.Value
}

// Variant is one caller-visible record: a site plus its per-sample FORMAT
// data, with dictionary codes already resolved to names.
type Variant struct {
	Chromosome string
	Position   int64 // one-based
	RefLength  int32
	ID         string
	Ref        string
	Alt        []string
	Qual       float32
	Filters    []string
	Info       []InfoField
	Format     []FormatField
}

// Span returns the variant's one-based closed coordinate interval
// [pos, pos + max(ref_length, max alt length) - 1], the interval
// bounding-point predicates test.
func (v Variant) Span() (begin, end uint64) {
	maxLen := int(v.RefLength)
	for _, a := range v.Alt {
		if len(a) > maxLen {
			maxLen = len(a)
		}
	}
	if maxLen == 0 {
		maxLen = 1
	}
	begin = uint64(v.Position)
	end = begin + uint64(maxLen) - 1
	return
}

// encodeSite resolves v's site-level fields to their SiteInfo wire form,
// failing with UnknownDictionaryKey if any name is absent from its
// dictionary (the codec can only emit codes the header already declared).
func encodeSite(d *dictionaries, v Variant, nFmt int32, pbwtReset bool) (record.SiteInfo, error) {
	chromCode, ok := d.contigs.Code(v.Chromosome)
	if !ok {
		return record.SiteInfo{}, wrap(UnknownDictionaryKey, "contig "+v.Chromosome, nil)
	}
	s := record.SiteInfo{
		ChromIndex: chromCode,
		Position:   int32(v.Position - 1),
		RefLength:  v.RefLength,
		Qual:       v.Qual,
		ID:         v.ID,
		Ref:        v.Ref,
		Alt:        append([]string(nil), v.Alt...),
		NFmt:       nFmt,
		PBWTReset:  pbwtReset,
	}
	if s.RefLength == 0 {
		s.RefLength = int32(len(v.Ref))
	}
	if s.ID == "" {
		s.ID = "."
	}
	s.FilterCodes = make([]int32, len(v.Filters))
	for i, f := range v.Filters {
		code, ok := d.ids.Code(f)
		if !ok {
			return record.SiteInfo{}, wrap(UnknownDictionaryKey, "filter "+f, nil)
		}
		s.FilterCodes[i] = code
	}
	s.Info = make([]record.InfoField, len(v.Info))
	for i, f := range v.Info {
		code, ok := d.ids.Code(f.Key)
		if !ok {
			return record.SiteInfo{}, wrap(UnknownDictionaryKey, "info "+f.Key, nil)
		}
		s.Info[i] = record.InfoField{Key: code, Val: f.Val}
	}
	return s, nil
}

// encodeFormat resolves v.Format to its wire form, applying the PBWT
// forward transform to any key the header flagged as PBWT-tracked.
func encodeFormat(d *dictionaries, mgr *pbwt.Manager, fields []FormatField) ([]record.FormatField, error) {
	out := make([]record.FormatField, len(fields))
	for i, f := range fields {
		code, ok := d.ids.Code(f.Key)
		if !ok {
			return nil, wrap(UnknownDictionaryKey, "format "+f.Key, nil)
		}
		val := f.Val
		if d.pbwtTargets[f.Key] {
			reordered, err := pbwtEncode(mgr, code, val)
			if err != nil {
				return nil, err
			}
			val = reordered
		}
		out[i] = record.FormatField{Key: code, Val: val}
	}
	return out, nil
}

// pbwtEncode applies State.Encode to a dense integer FORMAT value. The
// transform permutes the elements but never alters them, so the result
// keeps the source's element width and its missing sentinels intact.
func pbwtEncode(mgr *pbwt.Manager, code int32, v typedvalue.Value) (typedvalue.Value, error) {
	dense := v.ToDenseInts()
	state := mgr.StateFor(code, len(dense))
	if state.Len() != len(dense) {
		return typedvalue.Value{}, wrap(PbwtLengthMismatch, "format key changed length without reset", pbwt.ErrLengthMismatch)
	}
	out, err := state.Encode(dense)
	if err != nil {
		return typedvalue.Value{}, wrap(PbwtLengthMismatch, "pbwt encode", err)
	}
	return typedvalue.Minimize(typedvalue.NewDenseInt(intElemType(v), out)), nil
}

// intElemType returns the integer element type of a dense or sparse
// integer value.
func intElemType(v typedvalue.Value) typedvalue.Type {
	t := v.Type()
	if t == typedvalue.Sparse {
		t = v.Sparse.Val.Type
	}
	return t
}

// decodeVariant resolves a site-info + individual block pair back to
// caller-visible names, failing with UnknownDictionaryKey if a code
// doesn't resolve.
func decodeVariant(d *dictionaries, mgr *pbwt.Manager, s record.SiteInfo, fields []record.FormatField) (Variant, error) {
	if s.PBWTReset {
		mgr.ResetAll()
	}
	contig, err := d.contigs.Lookup(s.ChromIndex)
	if err != nil {
		return Variant{}, wrap(UnknownDictionaryKey, "contig code", err)
	}
	v := Variant{
		Chromosome: contig.Name,
		Position:   s.Position1(),
		RefLength:  s.RefLength,
		ID:         s.ID,
		Ref:        s.Ref,
		Alt:        s.Alt,
		Qual:       s.Qual,
	}
	v.Filters = make([]string, len(s.FilterCodes))
	for i, c := range s.FilterCodes {
		e, err := d.ids.Lookup(c)
		if err != nil {
			return Variant{}, wrap(UnknownDictionaryKey, "filter code", err)
		}
		v.Filters[i] = e.Name
	}
	v.Info = make([]InfoField, len(s.Info))
	for i, f := range s.Info {
		e, err := d.ids.Lookup(f.Key)
		if err != nil {
			return Variant{}, wrap(UnknownDictionaryKey, "info code", err)
		}
		v.Info[i] = InfoField{Key: e.Name, Val: f.Val}
	}
	v.Format = make([]FormatField, len(fields))
	for i, f := range fields {
		e, err := d.ids.Lookup(f.Key)
		if err != nil {
			return Variant{}, wrap(UnknownDictionaryKey, "format code", err)
		}
		val := f.Val
		if d.pbwtTargets[e.Name] {
			val, err = pbwtDecode(mgr, f.Key, val)
			if err != nil {
				return Variant{}, err
			}
		}
		v.Format[i] = FormatField{Key: e.Name, Val: val}
	}
	return v, nil
}

func pbwtDecode(mgr *pbwt.Manager, code int32, v typedvalue.Value) (typedvalue.Value, error) {
	enc := v.ToDenseInts()
	state := mgr.StateFor(code, len(enc))
	if state.Len() != len(enc) {
		return typedvalue.Value{}, wrap(PbwtLengthMismatch, "format key changed length without reset", pbwt.ErrLengthMismatch)
	}
	out, err := state.Decode(enc)
	if err != nil {
		return typedvalue.Value{}, wrap(PbwtLengthMismatch, "pbwt decode", err)
	}
	return typedvalue.Minimize(typedvalue.NewDenseInt(intElemType(v), out)), nil
}
