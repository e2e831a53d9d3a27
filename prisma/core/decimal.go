package core

import (
	"errors"
	"fmt"
	"math"
	"math/big"
	"strconv"
	"strings"

	"github.com/jackc/pgx/v5/pgtype"
)

// ErrDecimalNotFinite is returned when decimal text names NaN or an infinity.
// Canonical decimals are always finite.
var ErrDecimalNotFinite = errors.New("decimal must be finite")

var bigTen = big.NewInt(10)

// maxPlainScale bounds the zeros DecimalString pads with; larger exponents
// are written in exponent notation.
const maxPlainScale = 64

// ParseDecimal parses decimal text such as "1.5", "-20" or "1.25e-3" into a
// canonical decimal.
func ParseDecimal(s string) (pgtype.Numeric, error) {
	s = strings.TrimSpace(s)
	mantissa, exp := s, int64(0)
	if i := strings.IndexAny(s, "eE"); i >= 0 {
		var err error
		exp, err = strconv.ParseInt(s[i+1:], 10, 32)
		if err != nil {
			return pgtype.Numeric{}, fmt.Errorf("invalid decimal exponent in %q: %w", s, err)
		}
		mantissa = s[:i]
	}
	mantissa = strings.TrimPrefix(mantissa, "+")
	switch strings.ToLower(strings.TrimPrefix(mantissa, "-")) {
	case "nan", "inf", "infinity":
		return pgtype.Numeric{}, fmt.Errorf("%w: %q", ErrDecimalNotFinite, s)
	}

	var n pgtype.Numeric
	if err := n.Scan(mantissa); err != nil {
		return pgtype.Numeric{}, fmt.Errorf("invalid decimal %q: %w", s, err)
	}
	if n.NaN || n.InfinityModifier != pgtype.Finite {
		return pgtype.Numeric{}, fmt.Errorf("%w: %q", ErrDecimalNotFinite, s)
	}
	if !n.Valid {
		return pgtype.Numeric{}, fmt.Errorf("invalid decimal %q", s)
	}
	exp += int64(n.Exp)
	if exp < math.MinInt32 || exp > math.MaxInt32 {
		return pgtype.Numeric{}, fmt.Errorf("invalid decimal exponent in %q: out of range", s)
	}
	n.Exp = int32(exp)
	return n, nil
}

// MustParseDecimal is ParseDecimal for literals known to be valid.
func MustParseDecimal(s string) pgtype.Numeric {
	n, err := ParseDecimal(s)
	if err != nil {
		panic(err)
	}
	return n
}

// DecimalString renders a finite decimal in plain positional notation,
// keeping the scale it was created with ("1.50" stays "1.50"). Exponents
// needing more than maxPlainScale padding zeros are written as "1e2000".
func DecimalString(n pgtype.Numeric) string {
	switch {
	case !n.Valid:
		return "NULL"
	case n.NaN:
		return "NaN"
	case n.InfinityModifier == pgtype.Infinity:
		return "Infinity"
	case n.InfinityModifier == pgtype.NegativeInfinity:
		return "-Infinity"
	}

	digits := "0"
	if n.Int != nil {
		digits = n.Int.String()
	}
	neg := strings.HasPrefix(digits, "-")
	digits = strings.TrimPrefix(digits, "-")

	var out string
	switch {
	case n.Exp > maxPlainScale || -int64(n.Exp)-int64(len(digits)) > maxPlainScale:
		out = digits + "e" + strconv.FormatInt(int64(n.Exp), 10)
	case n.Exp >= 0:
		if digits == "0" {
			out = digits
		} else {
			out = digits + strings.Repeat("0", int(n.Exp))
		}
	default:
		scale := int(-int64(n.Exp))
		if len(digits) <= scale {
			digits = strings.Repeat("0", scale-len(digits)+1) + digits
		}
		out = digits[:len(digits)-scale] + "." + digits[len(digits)-scale:]
	}
	if neg {
		return "-" + out
	}
	return out
}

// DecimalFloat64 converts a canonical decimal to the nearest float64. The
// conversion is lossy for values that need more than double precision;
// magnitudes beyond the float64 range become ±Inf or 0.
func DecimalFloat64(n pgtype.Numeric) (float64, error) {
	if !n.Valid || n.NaN || n.InfinityModifier != pgtype.Finite {
		return 0, fmt.Errorf("%w: %s", ErrDecimalNotFinite, DecimalString(n))
	}
	digits := "0"
	if n.Int != nil {
		digits = n.Int.String()
	}
	f, err := strconv.ParseFloat(digits+"e"+strconv.FormatInt(int64(n.Exp), 10), 64)
	if err != nil && !errors.Is(err, strconv.ErrRange) {
		return 0, fmt.Errorf("decimal %s: %w", DecimalString(n), err)
	}
	return f, nil
}

// CompareDecimal compares two finite decimals by numeric value.
func CompareDecimal(a, b pgtype.Numeric) int {
	ai, ae := normalizeDecimal(a)
	bi, be := normalizeDecimal(b)
	if ae == be {
		return ai.Cmp(bi)
	}
	// Align to the smaller exponent before comparing.
	if ae > be {
		ai = new(big.Int).Mul(ai, new(big.Int).Exp(bigTen, big.NewInt(int64(ae-be)), nil))
	} else {
		bi = new(big.Int).Mul(bi, new(big.Int).Exp(bigTen, big.NewInt(int64(be-ae)), nil))
	}
	return ai.Cmp(bi)
}

// normalizeDecimal strips trailing zeros from the coefficient.
func normalizeDecimal(n pgtype.Numeric) (*big.Int, int32) {
	if n.Int == nil || n.Int.Sign() == 0 {
		return new(big.Int), 0
	}
	i := new(big.Int).Set(n.Int)
	exp := n.Exp
	q, r := new(big.Int), new(big.Int)
	for {
		q.QuoRem(i, bigTen, r)
		if r.Sign() != 0 {
			break
		}
		i.Set(q)
		exp++
	}
	return i, exp
}
