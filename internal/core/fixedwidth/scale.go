package fixedwidth

import (
	"math/big"
	"strconv"
	"strings"

	perr "ipumsprep/internal/platform/errors"

	"github.com/shopspring/decimal"
)

// maxInt64Digits is the longest digit run that always fits an int64
const maxInt64Digits = 18

// Scale reads raw as an implied-decimal signed integer and renders it with
// exactly decimals digits after the point
//
// A blank field, or one holding only '.' fill, is missing: Scale returns
// missing=true and no value. The sign is a single optional leading '+' or '-'.
func Scale(raw string, decimals int) (value string, missing bool, err error) {
	s := strings.TrimSpace(raw)
	if s == "" || strings.Trim(s, ".") == "" {
		return "", true, nil
	}

	neg := false
	digits := s
	switch s[0] {
	case '-':
		neg = true
		digits = s[1:]
	case '+':
		digits = s[1:]
	}
	if !isDigits(digits) {
		return "", false, perr.WithRaw(perr.NonNumericf("not a signed integer"), raw)
	}

	exp := int32(-decimals)
	var d decimal.Decimal
	if len(digits) <= maxInt64Digits {
		n, _ := strconv.ParseInt(digits, 10, 64)
		if neg {
			n = -n
		}
		d = decimal.New(n, exp)
	} else {
		n, _ := new(big.Int).SetString(digits, 10)
		if neg {
			n.Neg(n)
		}
		d = decimal.NewFromBigInt(n, exp)
	}
	return d.StringFixed(int32(decimals)), false, nil
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}
