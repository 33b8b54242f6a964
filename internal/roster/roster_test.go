package roster

import (
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"interviewcheck/internal/dataprocessing"
	apperrors "interviewcheck/internal/errors"
	"interviewcheck/internal/shared/testutil"
	"interviewcheck/pkg/contracts/domain"
)

var testOptions = Options{
	CohortPrefix:   "26",
	PinnedPrefixes: []string{"21", "22", "23", "24", "25"},
}

func writeRoster(t *testing.T, rows ...[]interface{}) string {
	t.Helper()
	return testutil.WriteWorkbook(t, t.TempDir(), "candidates.xlsx", testutil.SheetData{Name: "Sheet1", Rows: rows})
}

func TestLoad_FullWorkbook(t *testing.T) {
	path := writeRoster(t,
		[]interface{}{"이름", "학번", "학번표시", "예상레벨", "분류", "중복지원", "이메일", "전화번호", "지원서답변1(동기)", "공통Q1", "맞춤Q2(규정/운영 연결)"},
		[]interface{}{"Kim", 260123, "", "상", "개발", "", "kim@example.com", "010-1111-2222", "motivation", "q1", "custom"},
		[]interface{}{"Lee", "250002.0", "⚠️ 26학번 아님", "중", "기획", "Y", "", "", "", "", ""},
	)

	r, err := Load(path, testOptions, nil)
	require.NoError(t, err)
	require.Equal(t, 2, r.Len())
	assert.Empty(t, r.Warnings)
	assert.Empty(t, r.Defaulted)

	kim, ok := r.Find("260123_Kim")
	require.True(t, ok)
	assert.Equal(t, "260123", kim.StudentID)
	assert.Equal(t, "상", kim.Level)
	assert.Equal(t, "개발", kim.Category)
	assert.Equal(t, "kim@example.com", kim.Email)
	assert.False(t, kim.Flagged())
	require.Len(t, kim.Answers, 3)
	assert.Equal(t, domain.Passage{Label: "지원서답변1(동기)", Text: "motivation"}, kim.Answers[0])
	require.Len(t, kim.Questions, 6)
	assert.Equal(t, "q1", kim.Questions[0].Text)
	assert.Equal(t, domain.Passage{Label: "맞춤Q2", Text: "custom"}, kim.Questions[4])

	lee, ok := r.Find("250002_Lee")
	require.True(t, ok, "trailing .0 is stripped from student ids")
	assert.True(t, lee.Flagged())
	assert.Equal(t, "Y", lee.Duplicate)

	ids := []string{}
	for _, c := range r.Candidates() {
		ids = append(ids, c.ID)
	}
	assert.Equal(t, []string{"260123_Kim", "250002_Lee"}, ids, "workbook order is preserved")
}

func TestLoad_MissingNameColumn(t *testing.T) {
	path := writeRoster(t,
		[]interface{}{"학번", "분류"},
		[]interface{}{"260001", "A"},
	)

	_, err := Load(path, testOptions, nil)
	require.Error(t, err)
	assert.True(t, apperrors.IsType(err, apperrors.ErrTypeSchema))
}

func TestLoad_NameAlias(t *testing.T) {
	path := writeRoster(t,
		[]interface{}{"name", "학번"},
		[]interface{}{"Park", "260777"},
	)

	r, err := Load(path, testOptions, nil)
	require.NoError(t, err)
	c, ok := r.Find("260777_Park")
	require.True(t, ok)
	assert.Equal(t, "Park", c.Name)
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load("does-not-exist.xlsx", testOptions, nil)
	require.Error(t, err)
	assert.True(t, apperrors.IsType(err, apperrors.ErrTypeReadFailure))
}

func TestFromSheet_SynthesizedColumns(t *testing.T) {
	logger, logs := testutil.NewTestLogger(t)

	sheet := &dataprocessing.Sheet{
		Name:   "Sheet1",
		Header: []string{"이름", "레벨추정"},
		Records: []dataprocessing.Record{
			{"이름": "Choi", "레벨추정": "하"},
		},
	}

	r, err := FromSheet(sheet, "inline", testOptions, logger)
	require.NoError(t, err)

	c := r.Candidates()[0]
	assert.Equal(t, "Choi", c.ID, "no student id leaves the bare name")
	assert.Equal(t, "", c.StudentID)
	assert.Equal(t, "하", c.Level, "legacy level column is used")
	assert.Equal(t, "", c.Category)
	assert.Equal(t, "⚠️ 26학번 아님", c.Mark)

	assert.ElementsMatch(t, []string{ColStudentID, ColMark, ColCategory}, r.Defaulted)
	testutil.AssertLogContains(t, logs, slog.LevelDebug, "optional column")
}

func TestFromSheet_IDCollision(t *testing.T) {
	logger, logs := testutil.NewTestLogger(t)

	sheet := &dataprocessing.Sheet{
		Header: []string{"이름", "학번"},
		Records: []dataprocessing.Record{
			{"이름": "Kim", "학번": "260123"},
			{"이름": "Kim", "학번": "260123"},
			{"이름": "Kim", "학번": "260123"},
		},
	}

	r, err := FromSheet(sheet, "inline", testOptions, logger)
	require.NoError(t, err)
	require.Equal(t, 3, r.Len())

	var ids []string
	for _, c := range r.Candidates() {
		ids = append(ids, c.ID)
	}
	assert.Equal(t, []string{"260123_Kim", "260123_Kim#2", "260123_Kim#3"}, ids)
	assert.Len(t, r.Warnings, 2)
	testutil.AssertLogContains(t, logs, slog.LevelWarn, "Duplicate candidate id")
}

func TestNormalizeStudentID(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"260123", "260123"},
		{"260123.0", "260123"},
		{" 260123.0 ", "260123"},
		{"260123.05", "260123.05"},
		{"", ""},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, NormalizeStudentID(tt.in), "input %q", tt.in)
	}
}

func TestCohortMark(t *testing.T) {
	assert.Equal(t, "", CohortMark("260001", "26"))
	assert.Equal(t, "⚠️ 26학번 아님", CohortMark("250001", "26"))
	assert.Equal(t, "⚠️ 26학번 아님", CohortMark("", "26"))
	assert.Equal(t, "", CohortMark("270001", "27"))
}

func rosterOf(t *testing.T, rows ...dataprocessing.Record) *Roster {
	t.Helper()
	r, err := FromSheet(&dataprocessing.Sheet{Header: []string{"이름", "학번", "분류", "예상레벨", "학번표시"}, Records: rows}, "inline", testOptions, nil)
	require.NoError(t, err)
	return r
}

func TestRoster_SearchAndView(t *testing.T) {
	r := rosterOf(t,
		dataprocessing.Record{"이름": "Yoon", "학번": "260003"},
		dataprocessing.Record{"이름": "Ahn", "학번": "240001"},
		dataprocessing.Record{"이름": "Baek", "학번": "260002"},
		dataprocessing.Record{"이름": "Cho", "학번": "220009"},
	)

	names := func(cs []domain.Candidate) []string {
		out := []string{}
		for _, c := range cs {
			out = append(out, c.Name)
		}
		return out
	}

	tests := []struct {
		name string
		opts ViewOptions
		want []string
	}{
		{name: "sorted by name", opts: ViewOptions{}, want: []string{"Ahn", "Baek", "Cho", "Yoon"}},
		{name: "older cohorts pinned", opts: ViewOptions{PinOlder: true}, want: []string{"Ahn", "Cho", "Baek", "Yoon"}},
		{name: "search by name ignores case", opts: ViewOptions{Query: "YOO"}, want: []string{"Yoon"}},
		{name: "search by student id", opts: ViewOptions{Query: "2600"}, want: []string{"Baek", "Yoon"}},
		{name: "no match", opts: ViewOptions{Query: "zzz"}, want: []string{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, names(r.View(tt.opts)))
		})
	}
}

func TestLabel(t *testing.T) {
	tests := []struct {
		name string
		c    domain.Candidate
		want string
	}{
		{
			name: "plain",
			c:    domain.Candidate{Name: "Kim", StudentID: "260123"},
			want: "Kim (260123)",
		},
		{
			name: "flagged with category and level",
			c:    domain.Candidate{Name: "Lee", StudentID: "250001", Mark: "⚠️ 26학번 아님", Category: "개발", Level: "중"},
			want: "⚠️ Lee (250001) - 개발 / 중",
		},
		{
			name: "level only",
			c:    domain.Candidate{Name: "Park", StudentID: "260002", Level: "상"},
			want: "Park (260002) - 상",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Label(tt.c))
		})
	}
}

func TestSnapshotRow(t *testing.T) {
	c := domain.Candidate{ID: "260123_Kim", Name: "Kim", StudentID: "260123", Email: "k@example.com"}
	row := SnapshotRow(c)
	require.Len(t, row, len(SnapshotColumns))
	assert.Equal(t, "260123_Kim", row[0])
	assert.Equal(t, "k@example.com", row[7])
}
