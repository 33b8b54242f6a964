package roster

import (
	"fmt"
	"log/slog"
	"regexp"
	"sort"
	"strings"

	"interviewcheck/internal/dataprocessing"
	apperrors "interviewcheck/internal/errors"
	"interviewcheck/pkg/contracts/domain"
)

// Roster column names as they appear in the candidate workbook.
const (
	ColName        = "이름"
	ColNameAlias   = "name"
	ColStudentID   = "학번"
	ColMark        = "학번표시"
	ColLevel       = "예상레벨"
	ColLegacyLevel = "레벨추정"
	ColCategory    = "분류"
	ColDuplicate   = "중복지원"
	ColEmail       = "이메일"
	ColPhone       = "전화번호"
	ColCandidateID = "_candidate_id"
)

const (
	defaultCohort    = "26"
	collisionPattern = "%s#%d"
)

// passageColumn maps a free-text column to the label it is shown under.
type passageColumn struct {
	column string
	label  string
}

var answerColumns = []passageColumn{
	{column: "지원서답변1(동기)", label: "지원서답변1(동기)"},
	{column: "지원서답변2(기대/매력)", label: "지원서답변2(기대/매력)"},
	{column: "지원서답변3(관심/경험)", label: "지원서답변3(관심/경험)"},
}

var questionColumns = []passageColumn{
	{column: "공통Q1", label: "공통Q1"},
	{column: "공통Q2", label: "공통Q2"},
	{column: "공통Q3", label: "공통Q3"},
	{column: "맞춤Q1(심화)", label: "맞춤Q1"},
	{column: "맞춤Q2(규정/운영 연결)", label: "맞춤Q2"},
	{column: "맞춤Q3(관심/경험 기반)", label: "맞춤Q3"},
}

var trailingZero = regexp.MustCompile(`\.0$`)

// Options controls how roster rows are normalized.
type Options struct {
	// CohortPrefix is the two-character student id prefix of the current cohort.
	// Candidates outside it get a warning mark when the workbook has none.
	CohortPrefix string
	// PinnedPrefixes are the older cohorts View can pin to the top.
	PinnedPrefixes []string
}

// Roster is the loaded candidate table in workbook order.
type Roster struct {
	candidates []domain.Candidate
	index      map[string]int
	opts       Options

	// Warnings lists candidate id collisions resolved at load time.
	Warnings []string
	// Defaulted lists the optional columns that were absent and filled in.
	Defaulted []string
}

// Load reads the first sheet of the workbook at path.
func Load(path string, opts Options, logger *slog.Logger) (*Roster, error) {
	sheet, err := dataprocessing.ParseFile(path, "")
	if err != nil {
		return nil, apperrors.NewReadFailure(path, err)
	}
	return FromSheet(sheet, path, opts, logger)
}

// FromSheet builds a roster from an already parsed sheet. source names the
// workbook in errors and log lines.
func FromSheet(sheet *dataprocessing.Sheet, source string, opts Options, logger *slog.Logger) (*Roster, error) {
	if logger == nil {
		logger = slog.Default()
	}
	logger = logger.With(slog.String("component", "roster"))
	if opts.CohortPrefix == "" {
		opts.CohortPrefix = defaultCohort
	}

	nameCol := ColName
	if !sheet.HasColumn(ColName) {
		if !sheet.HasColumn(ColNameAlias) {
			return nil, apperrors.NewSchemaError(ColName, source)
		}
		nameCol = ColNameAlias
	}

	r := &Roster{
		candidates: make([]domain.Candidate, 0, len(sheet.Records)),
		index:      make(map[string]int, len(sheet.Records)),
		opts:       opts,
	}

	hasMark := sheet.HasColumn(ColMark)
	levelCol := ColLevel
	if !sheet.HasColumn(ColLevel) {
		levelCol = ColLegacyLevel
	}

	for _, col := range []string{ColStudentID, ColMark, ColLevel, ColCategory} {
		if sheet.HasColumn(col) {
			continue
		}
		if col == ColLevel && sheet.HasColumn(ColLegacyLevel) {
			continue
		}
		gap := apperrors.NewValidationGap(col, source)
		logger.Debug(gap.Message, slog.String("column", col), slog.String("source", source))
		r.Defaulted = append(r.Defaulted, col)
	}

	for _, rec := range sheet.Records {
		c := domain.Candidate{
			Name:      rec.Get(nameCol),
			StudentID: NormalizeStudentID(rec.Get(ColStudentID)),
			Category:  rec.Get(ColCategory),
			Level:     rec.Get(levelCol),
			Duplicate: rec.Get(ColDuplicate),
			Email:     rec.Get(ColEmail),
			Phone:     rec.Get(ColPhone),
		}
		if hasMark {
			c.Mark = rec.Get(ColMark)
		} else {
			c.Mark = CohortMark(c.StudentID, opts.CohortPrefix)
		}
		c.Answers = passages(rec, answerColumns)
		c.Questions = passages(rec, questionColumns)

		r.add(c, logger)
	}

	logger.Info("Roster loaded",
		slog.String("source", source),
		slog.Int("candidates", len(r.candidates)),
		slog.Int("collisions", len(r.Warnings)))

	return r, nil
}

// add assigns the candidate id, suffixing #2, #3... when an earlier row already owns it.
func (r *Roster) add(c domain.Candidate, logger *slog.Logger) {
	base := domain.CandidateID(c.StudentID, c.Name)
	id := base
	for n := 2; ; n++ {
		if _, taken := r.index[id]; !taken {
			break
		}
		id = fmt.Sprintf(collisionPattern, base, n)
	}
	if id != base {
		msg := fmt.Sprintf("duplicate candidate id %q renamed to %q", base, id)
		r.Warnings = append(r.Warnings, msg)
		logger.Warn("Duplicate candidate id",
			slog.String("candidate_id", base),
			slog.String("assigned", id))
	}
	c.ID = id
	r.index[id] = len(r.candidates)
	r.candidates = append(r.candidates, c)
}

func passages(rec dataprocessing.Record, cols []passageColumn) []domain.Passage {
	out := make([]domain.Passage, 0, len(cols))
	for _, pc := range cols {
		out = append(out, domain.Passage{Label: pc.label, Text: rec.Get(pc.column)})
	}
	return out
}

// NormalizeStudentID drops the ".0" left behind when a numeric id was stored as a float.
func NormalizeStudentID(sid string) string {
	return strings.TrimSpace(trailingZero.ReplaceAllString(strings.TrimSpace(sid), ""))
}

// CohortMark returns the warning mark for ids outside the cohort, or "".
// An empty student id is outside every cohort.
func CohortMark(studentID, cohortPrefix string) string {
	if domain.StudentPrefix(studentID) == cohortPrefix {
		return ""
	}
	return fmt.Sprintf("%s %s학번 아님", domain.WarningGlyph, cohortPrefix)
}

// Len returns the number of candidates.
func (r *Roster) Len() int {
	return len(r.candidates)
}

// Candidates returns the roster in workbook order.
func (r *Roster) Candidates() []domain.Candidate {
	out := make([]domain.Candidate, len(r.candidates))
	copy(out, r.candidates)
	return out
}

// Find looks a candidate up by id.
func (r *Roster) Find(id string) (domain.Candidate, bool) {
	i, ok := r.index[id]
	if !ok {
		return domain.Candidate{}, false
	}
	return r.candidates[i], true
}

// Search returns candidates whose name or student id contains query,
// ignoring case. An empty query matches everyone.
func (r *Roster) Search(query string) []domain.Candidate {
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return r.Candidates()
	}

	var out []domain.Candidate
	for _, c := range r.candidates {
		if strings.Contains(strings.ToLower(c.Name), q) || strings.Contains(strings.ToLower(c.StudentID), q) {
			out = append(out, c)
		}
	}
	return out
}

// ViewOptions selects and orders the candidate list.
type ViewOptions struct {
	Query    string
	PinOlder bool
}

// View returns the searched candidates sorted by name, with older cohorts
// first when PinOlder is set.
func (r *Roster) View(opts ViewOptions) []domain.Candidate {
	list := r.Search(opts.Query)
	sort.SliceStable(list, func(i, j int) bool {
		if opts.PinOlder {
			pi, pj := r.pinned(list[i]), r.pinned(list[j])
			if pi != pj {
				return pi
			}
		}
		return list[i].Name < list[j].Name
	})
	return list
}

func (r *Roster) pinned(c domain.Candidate) bool {
	prefix := domain.StudentPrefix(c.StudentID)
	for _, p := range r.opts.PinnedPrefixes {
		if prefix == p {
			return true
		}
	}
	return false
}

// Label renders the one-line description used in candidate pickers,
// e.g. "⚠️ Kim (250001) - A / 중".
func Label(c domain.Candidate) string {
	prefix := ""
	if c.Flagged() {
		prefix = domain.WarningGlyph + " "
	}

	var tail []string
	if c.Category != "" {
		tail = append(tail, c.Category)
	}
	if c.Level != "" {
		tail = append(tail, c.Level)
	}
	tailStr := ""
	if len(tail) > 0 {
		tailStr = " - " + strings.Join(tail, " / ")
	}

	return strings.TrimSpace(fmt.Sprintf("%s%s (%s)%s", prefix, c.Name, c.StudentID, tailStr))
}

// SnapshotColumns is the header of the CandidatesSnapshot sheet.
var SnapshotColumns = []string{
	ColCandidateID, ColName, ColStudentID, ColMark, ColCategory, ColLevel, ColDuplicate, ColEmail, ColPhone,
}

// SnapshotRow renders a candidate under SnapshotColumns.
func SnapshotRow(c domain.Candidate) []interface{} {
	return []interface{}{c.ID, c.Name, c.StudentID, c.Mark, c.Category, c.Level, c.Duplicate, c.Email, c.Phone}
}
