package core

import (
	"errors"

	"greenhouse/protocol"
)

// Kind identifies a format specifier, and the value variant it renders.
type Kind uint8

const (
	KindUnknown Kind = iota
	KindPercent
	KindCharacter
	KindSignedInt
	KindUnsignedInt
	KindLongSignedInt
	KindLongUnsignedInt
	KindLongLongSignedInt
	KindLongLongUnsignedInt
	KindPointer
	KindDouble
	KindString
)

var (
	ErrUnknownSpecifier = errors.New("unknown format specifier")
	ErrArgMismatch      = errors.New("format value does not match specifier")
	ErrMissingArg       = errors.New("missing format value")
)

// Value is one typed argument to Format. Build it with the constructors
// below; the variant must match the specifier it fills.
type Value struct {
	kind Kind
	bits uint64 // integers, characters and pointers
	f    float64
	s    string
}

// Kind returns the specifier kind this value renders as
func (v Value) Kind() Kind {
	return v.kind
}

// Integer widths follow a 32-bit MCU: int and long are 32 bits, long long is 64.

func Char(c byte) Value { return Value{kind: KindCharacter, bits: uint64(c)} }
func Int(n int32) Value { return Value{kind: KindSignedInt, bits: uint64(int64(n))} }
func Uint(n uint32) Value { return Value{kind: KindUnsignedInt, bits: uint64(n)} }
func Long(n int32) Value { return Value{kind: KindLongSignedInt, bits: uint64(int64(n))} }
func Ulong(n uint32) Value { return Value{kind: KindLongUnsignedInt, bits: uint64(n)} }
func LongLong(n int64) Value { return Value{kind: KindLongLongSignedInt, bits: uint64(n)} }
func UlongLong(n uint64) Value { return Value{kind: KindLongLongUnsignedInt, bits: n} }
func Pointer(p uintptr) Value { return Value{kind: KindPointer, bits: uint64(p)} }
func Double(f float64) Value { return Value{kind: KindDouble, f: f} }
func String(s string) Value { return Value{kind: KindString, s: s} }
func percentValue() Value { return Value{kind: KindPercent} }

// Classify recognises the specifier at the start of spec, which is the
// pattern text just past a '%'. It returns the kind and the number of
// bytes the specifier occupies; KindUnknown consumes nothing.
func Classify(spec string) (Kind, int) {
	if len(spec) == 0 {
		return KindUnknown, 0
	}

	switch spec[0] {
	case '%':
		return KindPercent, 1
	case 'c':
		return KindCharacter, 1
	case 'd', 'i':
		return KindSignedInt, 1
	case 'u':
		return KindUnsignedInt, 1
	case 'p':
		return KindPointer, 1
	case 'f':
		return KindDouble, 1
	case 's':
		return KindString, 1
	case 'l':
		if len(spec) < 2 {
			return KindUnknown, 0
		}
		switch spec[1] {
		case 'd', 'i':
			return KindLongSignedInt, 2
		case 'u':
			return KindLongUnsignedInt, 2
		case 'l':
			if len(spec) < 3 {
				return KindUnknown, 0
			}
			switch spec[2] {
			case 'd', 'i':
				return KindLongLongSignedInt, 3
			case 'u':
				return KindLongLongUnsignedInt, 3
			}
		}
	}
	return KindUnknown, 0
}

// scratchSize fits a signed 64-bit integer or a fixed-point double
const scratchSize = 24

// Conversion renders single values into a reusable scratch buffer.
// It is not reentrant: each Render overwrites the previous result.
type Conversion struct {
	scratch [scratchSize]byte
}

// Render returns the text form of v. The slice aliases the scratch buffer
// and is only valid until the next call. Strings are not copied through
// scratch, so Render returns nil for them.
func (c *Conversion) Render(v Value) []byte {
	buf := c.scratch[:]
	var pos int
	switch v.kind {
	case KindPercent:
		buf[0] = '%'
		return buf[:1]
	case KindCharacter:
		buf[0] = byte(v.bits)
		return buf[:1]
	case KindSignedInt, KindLongSignedInt, KindLongLongSignedInt:
		pos = formatInt(buf, int64(v.bits))
	case KindUnsignedInt, KindLongUnsignedInt, KindLongLongUnsignedInt, KindPointer:
		pos = formatUint(buf, v.bits)
	case KindDouble:
		pos = formatFixed(buf, v.f)
	default:
		return nil
	}
	return buf[pos:]
}

// Formatter renders patterns with a closed set of specifiers into a Sink.
type Formatter struct {
	conv Conversion
}

// Format walks pattern, pushing literal bytes and rendered values to sink
// one byte at a time. It returns the number of specifiers rendered.
//
// The first Push that fails ends the call: the rest of the pattern is
// dropped and no error is reported. An unknown specifier, a value of the
// wrong kind or a missing value also ends the call, with an error; bytes
// already pushed stay queued.
func (f *Formatter) Format(sink protocol.Sink, pattern string, values ...Value) (int, error) {
	rendered := 0
	next := 0

	for i := 0; i < len(pattern); {
		ch := pattern[i]
		if ch != '%' {
			if !sink.Push(ch) {
				return rendered, nil
			}
			i++
			continue
		}

		kind, n := Classify(pattern[i+1:])
		if kind == KindUnknown {
			return rendered, ErrUnknownSpecifier
		}
		i += 1 + n

		v := percentValue()
		if kind != KindPercent {
			if next >= len(values) {
				return rendered, ErrMissingArg
			}
			v = values[next]
			next++
			if v.kind != kind {
				return rendered, ErrArgMismatch
			}
		}

		if !f.emit(sink, v) {
			return rendered, nil
		}
		rendered++
	}
	return rendered, nil
}

// emit pushes the text of one value, stopping on the first failed push
func (f *Formatter) emit(sink protocol.Sink, v Value) bool {
	if v.kind == KindString {
		for i := 0; i < len(v.s); i++ {
			if !sink.Push(v.s[i]) {
				return false
			}
		}
		return true
	}

	for _, b := range f.conv.Render(v) {
		if !sink.Push(b) {
			return false
		}
	}
	return true
}
