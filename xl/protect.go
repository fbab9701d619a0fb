package xl

import (
	"fmt"
	"unicode/utf8"
)

// SheetProtection lists what users may still do on a protected sheet.
// The zero value allows selecting cells and nothing else.
type SheetProtection struct {
	NoSelectLockedCells   bool
	NoSelectUnlockedCells bool
	FormatCells           bool
	FormatColumns         bool
	FormatRows            bool
	InsertColumns         bool
	InsertRows            bool
	InsertHyperlinks      bool
	DeleteColumns         bool
	DeleteRows            bool
	Sort                  bool
	Autofilter            bool
	PivotTables           bool
	Scenarios             bool
	Objects               bool
}

type sheetProtection struct {
	SheetProtection
	hash string
}

// Protect protects the sheet, optionally with a password. The password only
// deters editing in the UI; it is stored as the legacy 16-bit hash.
func (s *Sheet) Protect(password string, opts *SheetProtection) error {
	if n := utf8.RuneCountInString(password); n > 255 {
		return fmt.Errorf("password of %d characters: %w", n, ErrStringTooLong)
	}
	p := &sheetProtection{}
	if opts != nil {
		p.SheetProtection = *opts
	}
	if password != "" {
		p.hash = passwordHash(password)
	}
	s.protection = p
	return nil
}

// passwordHash is the legacy Excel password verifier.
func passwordHash(password string) string {
	b := []byte(password)
	hash := 0
	for i := len(b) - 1; i >= 0; i-- {
		hash = ((hash >> 14) & 0x01) | ((hash << 1) & 0x7fff)
		hash ^= int(b[i])
	}
	hash = ((hash >> 14) & 0x01) | ((hash << 1) & 0x7fff)
	hash ^= len(b)
	hash ^= 0xCE4B
	return fmt.Sprintf("%X", hash)
}
