package xl

import (
	"fmt"
	"strings"
	"unicode/utf8"
)

const (
	maxURLLength = 2079
	maxURLTip    = 255
)

func (u URL) internal() bool { return strings.HasPrefix(u.Target, "internal:") }

// location is the in-workbook target of an internal link.
func (u URL) location() string { return strings.TrimPrefix(u.Target, "internal:") }

// display is the cell text shown for the link.
func (u URL) display() string {
	if u.Text != "" {
		return u.Text
	}
	if u.internal() {
		return u.location()
	}
	return strings.TrimPrefix(u.Target, "mailto:")
}

// external is the relationship target of an external link.
func (u URL) external() string {
	return strings.ReplaceAll(u.Target, " ", "%20")
}

func (u URL) validate() error {
	if u.Target == "" || u.Target == "internal:" {
		return fmt.Errorf("empty url: %w", ErrInvalidRange)
	}
	if n := utf8.RuneCountInString(u.Target); n > maxURLLength {
		return fmt.Errorf("url of %d characters: %w", n, ErrStringTooLong)
	}
	if n := utf8.RuneCountInString(u.Tip); n > maxURLTip {
		return fmt.Errorf("url tip of %d characters: %w", n, ErrStringTooLong)
	}
	return checkText(u.Text)
}
