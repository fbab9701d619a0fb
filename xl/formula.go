package xl

import (
	"fmt"
	"strings"

	"github.com/xuri/efp"
)

// prepareFormula validates a formula and rewrites calls to functions newer
// than Excel 2007 with the prefixes the file format requires.
func prepareFormula(expr string) (string, error) {
	expr = strings.TrimSpace(expr)
	expr = strings.TrimPrefix(expr, "=")
	if expr == "" {
		return "", fmt.Errorf("empty formula: %w", ErrInvalidFormula)
	}
	if len(expr) > 8192 {
		return "", fmt.Errorf("formula: %w", ErrStringTooLong)
	}
	ps := efp.ExcelParser()
	depth := 0
	for _, tok := range ps.Parse(expr) {
		switch {
		case tok.TType == efp.TokenTypeUnknown:
			return "", fmt.Errorf("formula %q: unexpected %q: %w", expr, tok.TValue, ErrInvalidFormula)
		case tok.TSubType == efp.TokenSubTypeStart:
			depth++
		case tok.TSubType == efp.TokenSubTypeStop:
			depth--
		}
		if depth < 0 {
			break
		}
	}
	if depth != 0 {
		return "", fmt.Errorf("formula %q: unbalanced parentheses: %w", expr, ErrInvalidFormula)
	}
	return prefixFutureFunctions(expr), nil
}

func prefixFutureFunctions(expr string) string {
	var b strings.Builder
	b.Grow(len(expr) + 16)
	for i := 0; i < len(expr); {
		c := expr[i]
		switch {
		case c == '"' || c == '\'':
			j := i + 1
			for j < len(expr) {
				if expr[j] == c {
					if j+1 < len(expr) && expr[j+1] == c {
						j += 2
						continue
					}
					break
				}
				j++
			}
			if j < len(expr) {
				j++
			}
			b.WriteString(expr[i:j])
			i = j
		case isNameStart(c):
			j := i
			for j < len(expr) && isNameChar(expr[j]) {
				j++
			}
			name := expr[i:j]
			if j < len(expr) && expr[j] == '(' {
				if p, ok := futureFunctions[strings.ToUpper(name)]; ok {
					b.WriteString(p)
				}
			}
			b.WriteString(name)
			i = j
		default:
			b.WriteByte(c)
			i++
		}
	}
	return b.String()
}

func isNameStart(c byte) bool {
	return c == '_' || (c >= 'A' && c <= 'Z') || (c >= 'a' && c <= 'z')
}

func isNameChar(c byte) bool {
	return isNameStart(c) || c == '.' || (c >= '0' && c <= '9')
}

const (
	xlfn = "_xlfn."
	xlws = "_xlfn._xlws."
)

var futureFunctions = func() map[string]string {
	m := map[string]string{}
	for _, s := range strings.Fields(`
		ACOT ACOTH AGGREGATE ARABIC BASE BETA.DIST BETA.INV BINOM.DIST
		BINOM.DIST.RANGE BINOM.INV BITAND BITLSHIFT BITOR BITRSHIFT BITXOR
		CEILING.MATH CEILING.PRECISE CHISQ.DIST CHISQ.DIST.RT CHISQ.INV
		CHISQ.INV.RT CHISQ.TEST COMBINA CONCAT CONFIDENCE.NORM CONFIDENCE.T
		COT COTH COVARIANCE.P COVARIANCE.S CSC CSCH DAYS DECIMAL ERF.PRECISE
		ERFC.PRECISE EXPON.DIST F.DIST F.DIST.RT F.INV F.INV.RT F.TEST
		FILTERXML FLOOR.MATH FLOOR.PRECISE FORECAST.ETS FORECAST.ETS.CONFINT
		FORECAST.ETS.SEASONALITY FORECAST.ETS.STAT FORECAST.LINEAR FORMULATEXT
		GAMMA GAMMA.DIST GAMMA.INV GAMMALN.PRECISE GAUSS HYPGEOM.DIST IFNA IFS
		IMCOSH IMCOT IMCSC IMCSCH IMSEC IMSECH IMSINH IMTAN ISFORMULA
		ISOWEEKNUM LOGNORM.DIST LOGNORM.INV MAXIFS MINIFS MODE.MULT MODE.SNGL
		MUNIT NEGBINOM.DIST NORM.DIST NORM.INV NORM.S.DIST NORM.S.INV
		NUMBERVALUE PDURATION PERCENTILE.EXC PERCENTILE.INC PERCENTRANK.EXC
		PERCENTRANK.INC PERMUTATIONA PHI POISSON.DIST QUARTILE.EXC
		QUARTILE.INC QUERYSTRING RANK.AVG RANK.EQ RRI SEC SECH SHEET SHEETS
		SKEW.P STDEV.P STDEV.S SWITCH T.DIST T.DIST.2T T.DIST.RT T.INV
		T.INV.2T T.TEST TEXTJOIN UNICHAR UNICODE VAR.P VAR.S WEBSERVICE
		WEIBULL.DIST XOR Z.TEST ANCHORARRAY LAMBDA LET RANDARRAY SEQUENCE
		SINGLE SORTBY XLOOKUP XMATCH TEXTBEFORE TEXTAFTER TEXTSPLIT VSTACK
		HSTACK TOCOL TOROW WRAPCOLS WRAPROWS TAKE DROP CHOOSECOLS CHOOSEROWS
		EXPAND UNIQUE`) {
		m[s] = xlfn
	}
	for _, s := range []string{"FILTER", "SORT"} {
		m[s] = xlws
	}
	return m
}()
