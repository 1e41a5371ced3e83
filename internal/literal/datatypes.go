package literal

import (
	"math"

	"github.com/cockroachdb/apd/v3"
)

// XSDNamespace is the XML Schema datatypes namespace.
const XSDNamespace = "http://www.w3.org/2001/XMLSchema#"

// Datatype URIs the engine implements natively. Anything else constructs a
// user-defined-type literal.
const (
	XSDString   = XSDNamespace + "string"
	XSDBoolean  = XSDNamespace + "boolean"
	XSDInteger  = XSDNamespace + "integer"
	XSDDecimal  = XSDNamespace + "decimal"
	XSDFloat    = XSDNamespace + "float"
	XSDDouble   = XSDNamespace + "double"
	XSDDate     = XSDNamespace + "date"
	XSDDateTime = XSDNamespace + "dateTime"

	XSDLong               = XSDNamespace + "long"
	XSDInt                = XSDNamespace + "int"
	XSDShort              = XSDNamespace + "short"
	XSDByte               = XSDNamespace + "byte"
	XSDUnsignedLong       = XSDNamespace + "unsignedLong"
	XSDUnsignedInt        = XSDNamespace + "unsignedInt"
	XSDUnsignedShort      = XSDNamespace + "unsignedShort"
	XSDUnsignedByte       = XSDNamespace + "unsignedByte"
	XSDNonNegativeInteger = XSDNamespace + "nonNegativeInteger"
	XSDNonPositiveInteger = XSDNamespace + "nonPositiveInteger"
	XSDNegativeInteger    = XSDNamespace + "negativeInteger"
	XSDPositiveInteger    = XSDNamespace + "positiveInteger"
)

// decimalCtx is the shared apd context for xsd:decimal arithmetic.
// 38 digits of precision comfortably exceeds what the test corpus and
// typical RDF data exercise.
var decimalCtx = apd.BaseContext.WithPrecision(38)

type integerBounds struct {
	min, max int64
}

var integerRanges = map[string]integerBounds{
	XSDInteger:            {math.MinInt64, math.MaxInt64},
	XSDLong:               {math.MinInt64, math.MaxInt64},
	XSDInt:                {math.MinInt32, math.MaxInt32},
	XSDShort:              {math.MinInt16, math.MaxInt16},
	XSDByte:               {math.MinInt8, math.MaxInt8},
	XSDUnsignedLong:       {0, math.MaxInt64},
	XSDUnsignedInt:        {0, math.MaxUint32},
	XSDUnsignedShort:      {0, math.MaxUint16},
	XSDUnsignedByte:       {0, math.MaxUint8},
	XSDNonNegativeInteger: {0, math.MaxInt64},
	XSDNonPositiveInteger: {math.MinInt64, 0},
	XSDNegativeInteger:    {math.MinInt64, -1},
	XSDPositiveInteger:    {1, math.MaxInt64},
}

// IsIntegerDatatype reports whether the URI names xsd:integer or one of
// its derived subtypes.
func IsIntegerDatatype(uri string) bool {
	_, ok := integerRanges[uri]
	return ok
}

func integerInRange(uri string, i int64) bool {
	b, ok := integerRanges[uri]
	if !ok {
		return false
	}
	return i >= b.min && i <= b.max
}

// KindForDatatype maps a datatype URI to the kind a well-formed literal of
// that datatype would have. Unknown URIs map to KindUDT.
func KindForDatatype(uri string) Kind {
	switch uri {
	case "":
		return KindPlain
	case XSDString:
		return KindXSDString
	case XSDBoolean:
		return KindBoolean
	case XSDFloat:
		return KindFloat
	case XSDDouble:
		return KindDouble
	case XSDDecimal:
		return KindDecimal
	case XSDDate:
		return KindDate
	case XSDDateTime:
		return KindDateTime
	default:
		if IsIntegerDatatype(uri) {
			return KindInteger
		}
		return KindUDT
	}
}
