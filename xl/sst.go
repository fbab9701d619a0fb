package xl

// maxStringLength is the longest text a cell can hold.
const maxStringLength = 32767

// TextRun is a fragment of a rich string. Only the font of Format is used.
type TextRun struct {
	Text   string
	Format *Format
}

type sstKey struct {
	text string
	rich int // 0 for plain text, otherwise a unique sequence number
}

// sharedStrings is the workbook-wide shared-string table. Plain strings are
// deduplicated by text; every rich string gets its own entry.
type sharedStrings struct {
	tab   *table[sstKey]
	runs  map[int][]TextRun
	nrich int
}

func newSharedStrings() *sharedStrings {
	return &sharedStrings{
		tab:  newTable[sstKey](),
		runs: map[int][]TextRun{},
	}
}

func (s *sharedStrings) internString(text string) int {
	id, _ := s.tab.intern(sstKey{text: text})
	return id
}

func (s *sharedStrings) internRich(runs []TextRun) int {
	s.nrich++
	id, _ := s.tab.intern(sstKey{rich: s.nrich})
	s.runs[id] = append([]TextRun(nil), runs...)
	return id
}

func (s *sharedStrings) len() int { return s.tab.len() }

// text returns the plain text of entry id, concatenating rich runs.
func (s *sharedStrings) text(id int) string {
	if runs, ok := s.runs[id]; ok {
		n := 0
		for _, r := range runs {
			n += len(r.Text)
		}
		b := make([]byte, 0, n)
		for _, r := range runs {
			b = append(b, r.Text...)
		}
		return string(b)
	}
	return s.tab.at(id).text
}
