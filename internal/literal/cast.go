package literal

import (
	"strconv"

	"github.com/cockroachdb/apd/v3"
)

// Cast converts a literal to the target datatype under the XPath
// constructor-function rules, restricted by an explicit allow-list:
//
//   - URIs cast only to xsd:string; blank nodes cast to nothing.
//   - Strings cast to any implemented datatype, with strict lexical
//     validation (a failure here is a type error, not a UDT retype).
//   - Numerics cast among the numeric types, to xsd:boolean and to
//     xsd:string, never to the temporal types.
//   - xsd:date and xsd:dateTime cast to each other, to xsd:string, and
//     from strings; a missing timezone defaults to UTC.
//
// A disallowed pair returns a TypeError.
func Cast(l *Literal, datatype string) (*Literal, error) {
	target := KindForDatatype(datatype)
	if target == KindUDT {
		return nil, castErr(l, datatype)
	}
	switch l.kind {
	case KindURI:
		if target == KindXSDString {
			return NewString(l.lexical), nil
		}
		return nil, castErr(l, datatype)
	case KindBlank:
		return nil, castErr(l, datatype)
	case KindPlain, KindXSDString, KindUDT:
		return castFromString(l, datatype, target)
	case KindBoolean:
		return castFromBoolean(l, datatype, target)
	case KindInteger, KindFloat, KindDouble, KindDecimal:
		return castNumeric(l, datatype, target)
	case KindDate, KindDateTime:
		return castTemporal(l, datatype, target)
	default:
		return nil, castErr(l, datatype)
	}
}

func castErr(l *Literal, datatype string) error {
	return &TypeError{Op: "cast to <" + datatype + ">", A: l.kind, B: l.kind}
}

func castFromString(l *Literal, datatype string, target Kind) (*Literal, error) {
	if target == KindXSDString {
		return NewString(l.lexical), nil
	}
	// Strict validation: unlike construction, a cast of a malformed
	// lexical form fails instead of degrading to UDT.
	out := NewTyped(l.lexical, datatype)
	if out.Kind() == KindUDT {
		return nil, castErr(l, datatype)
	}
	return out, nil
}

func castFromBoolean(l *Literal, datatype string, target Kind) (*Literal, error) {
	switch target {
	case KindBoolean:
		return l, nil
	case KindXSDString:
		return NewString(l.lexical), nil
	case KindInteger:
		if l.boolean {
			return NewInteger(1), nil
		}
		return NewInteger(0), nil
	case KindDecimal:
		if l.boolean {
			return NewDecimalString("1")
		}
		return NewDecimalString("0")
	case KindFloat:
		return NewFloat(boolToFloat(l.boolean)), nil
	case KindDouble:
		return NewDouble(boolToFloat(l.boolean)), nil
	default:
		return nil, castErr(l, datatype)
	}
}

func boolToFloat(b bool) float64 {
	if b {
		return 1
	}
	return 0
}

func castNumeric(l *Literal, datatype string, target Kind) (*Literal, error) {
	switch target {
	case KindXSDString:
		return NewString(l.lexical), nil
	case KindBoolean:
		ebv, err := EBV(l)
		if err != nil {
			return nil, err
		}
		return NewBoolean(ebv), nil
	case KindInteger:
		switch l.kind {
		case KindInteger:
			if l.datatype == datatype {
				return l, nil
			}
			if !integerInRange(datatype, l.integer) {
				return nil, castErr(l, datatype)
			}
			out := NewInteger(l.integer)
			out.datatype = datatype
			return out, nil
		case KindDecimal:
			// Truncate toward zero; fractional decimals are valid
			// integer cast sources.
			var whole apd.Decimal
			l.decimal.Modf(&whole, nil)
			i, err := whole.Int64()
			if err != nil {
				return nil, castErr(l, datatype)
			}
			return integerWithDatatype(i, datatype, l)
		default:
			f := l.double
			if f != f { // NaN
				return nil, castErr(l, datatype)
			}
			return integerWithDatatype(int64(f), datatype, l)
		}
	case KindDecimal:
		switch l.kind {
		case KindDecimal:
			return l, nil
		case KindInteger:
			return NewDecimalString(l.lexical)
		default:
			d, _, err := decimalCtx.NewFromString(strconv.FormatFloat(l.double, 'f', -1, 64))
			if err != nil {
				return nil, castErr(l, datatype)
			}
			return NewDecimal(d), nil
		}
	case KindFloat:
		return NewFloat(l.asDouble()), nil
	case KindDouble:
		return NewDouble(l.asDouble()), nil
	default:
		// Numeric to date or dateTime is never allowed.
		return nil, castErr(l, datatype)
	}
}

func integerWithDatatype(i int64, datatype string, src *Literal) (*Literal, error) {
	if !integerInRange(datatype, i) {
		return nil, castErr(src, datatype)
	}
	out := NewInteger(i)
	out.datatype = datatype
	return out, nil
}

func castTemporal(l *Literal, datatype string, target Kind) (*Literal, error) {
	switch target {
	case KindXSDString:
		return NewString(l.lexical), nil
	case KindDate:
		return NewDate(l.when, true), nil
	case KindDateTime:
		if l.kind == KindDateTime {
			return l, nil
		}
		// Date widens to midnight UTC; the timezone defaults to UTC when
		// the source had none.
		return NewDateTime(l.when, true), nil
	default:
		return nil, castErr(l, datatype)
	}
}
