package layout

import (
	"errors"
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/require"

	"formctl/internal/model"
	"formctl/internal/testsupport"
)

func TestBuild_EmptyFormHasOneSection(t *testing.T) {
	x := Build(nil)
	secs := x.Sections()
	require.Len(t, secs, 1)
	require.Equal(t, 0, secs[0].StartIndex)
	require.Equal(t, 0, secs[0].EndIndex)
	require.Nil(t, secs[0].Break)
}

func TestBuild_BreakOpensSection(t *testing.T) {
	x := Build(testsupport.Items("Q:a B:b Q:c Q:d"))
	secs := x.Sections()
	require.Len(t, secs, 2)

	require.Equal(t, 1, secs[0].Number)
	require.Equal(t, 0, secs[0].StartIndex)
	require.Equal(t, 1, secs[0].EndIndex)
	require.Nil(t, secs[0].Break)
	require.Equal(t, 1, secs[0].QuestionCount)

	require.Equal(t, 2, secs[1].Number)
	require.Equal(t, 1, secs[1].StartIndex)
	require.Equal(t, 4, secs[1].EndIndex)
	require.NotNil(t, secs[1].Break)
	require.Equal(t, "b", secs[1].Break.ID)
	require.Equal(t, 2, secs[1].QuestionCount)
	require.Equal(t, "Section b", secs[1].Title)
}

func TestBuild_LeadingAndTrailingBreaks(t *testing.T) {
	x := Build(testsupport.Items("B:a Q:b B:c"))
	secs := x.Sections()
	require.Len(t, secs, 3)
	// Section 1 exists but is empty when the form opens with a break.
	require.Equal(t, 0, secs[0].Len())
	require.Equal(t, [2]int{0, 2}, [2]int{secs[1].StartIndex, secs[1].EndIndex})
	require.Equal(t, [2]int{2, 3}, [2]int{secs[2].StartIndex, secs[2].EndIndex})
	require.Equal(t, 0, secs[2].QuestionCount)
}

func TestSection_OutOfRangeReportsCount(t *testing.T) {
	x := Build(testsupport.Items("Q:a B:b Q:c"))

	_, err := x.Section(3)
	var nf model.NotFoundError
	require.ErrorAs(t, err, &nf)
	require.Equal(t, 2, nf.Available)
	require.ErrorIs(t, err, model.ErrNotFound)

	_, err = x.Section(0)
	require.ErrorIs(t, err, model.ErrInvalidArgument)
}

func TestQuestions_NumberingSkipsBreaksAndOthers(t *testing.T) {
	x := Build(testsupport.Items("Q:a O:x Q:b B:s2 O:y Q:c B:s3 Q:d Q:e"))

	all, err := x.Questions(0)
	require.NoError(t, err)
	require.Len(t, all, 5)

	type coord struct {
		id                    string
		index, sec, n, global int
	}
	got := make([]coord, 0, len(all))
	for _, q := range all {
		got = append(got, coord{q.Item.ID, q.Index, q.SectionNumber, q.NumberInSection, q.GlobalNumber})
	}
	require.Equal(t, []coord{
		{"a", 0, 1, 1, 1},
		{"b", 2, 1, 2, 2},
		{"c", 5, 2, 1, 3},
		{"d", 7, 3, 1, 4},
		{"e", 8, 3, 2, 5},
	}, got)

	sec3, err := x.Questions(3)
	require.NoError(t, err)
	require.Equal(t, []string{"d", "e"}, []string{sec3[0].Item.ID, sec3[1].Item.ID})

	_, err = x.Questions(4)
	require.ErrorIs(t, err, model.ErrNotFound)
}

func TestQuestionByNumber(t *testing.T) {
	x := Build(testsupport.Items("Q:a B:b Q:c Q:d"))
	q, err := x.QuestionByNumber(3)
	require.NoError(t, err)
	require.Equal(t, "d", q.Item.ID)
	require.Equal(t, 2, q.SectionNumber)
	require.Equal(t, 2, q.NumberInSection)

	_, err = x.QuestionByNumber(4)
	require.ErrorIs(t, err, model.ErrNotFound)
}

// For any placement of B breaks, the index yields B+1 sections numbered
// 1..B+1 that cover [0, N) with no gaps or overlaps.
func TestBuild_PartitionProperty(t *testing.T) {
	rng := rand.New(rand.NewPCG(7, 11))
	for iter := 0; iter < 500; iter++ {
		n := rng.IntN(30)
		items := make([]model.Item, 0, n)
		breaks := 0
		for i := 0; i < n; i++ {
			id := string(rune('a'+i%26)) + string(rune('0'+i/26))
			switch rng.IntN(4) {
			case 0:
				items = append(items, testsupport.Break(id))
				breaks++
			case 1:
				items = append(items, testsupport.Other(id))
			default:
				items = append(items, testsupport.Q(id))
			}
		}

		secs := Build(items).Sections()
		if len(secs) != breaks+1 {
			t.Fatalf("iter %d: %d breaks produced %d sections (%s)", iter, breaks, len(secs), testsupport.Spec(items))
		}
		next := 0
		for i, s := range secs {
			if s.Number != i+1 {
				t.Fatalf("iter %d: section %d numbered %d", iter, i+1, s.Number)
			}
			if s.StartIndex != next {
				t.Fatalf("iter %d: section %d starts at %d; want %d (%s)", iter, s.Number, s.StartIndex, next, testsupport.Spec(items))
			}
			if s.EndIndex < s.StartIndex {
				t.Fatalf("iter %d: section %d ends before it starts", iter, s.Number)
			}
			if i == 0 && s.Break != nil {
				t.Fatalf("iter %d: section 1 must not have a break item", iter)
			}
			if i > 0 && (s.Break == nil || !items[s.StartIndex].IsSectionBreak() || items[s.StartIndex].ID != s.Break.ID) {
				t.Fatalf("iter %d: section %d break item mismatch", iter, s.Number)
			}
			next = s.EndIndex
		}
		if next != n {
			t.Fatalf("iter %d: last section ends at %d; want %d", iter, next, n)
		}
	}
}

func TestSectionOf(t *testing.T) {
	x := Build(testsupport.Items("Q:a B:b Q:c"))
	s, ok := x.SectionOf(2)
	require.True(t, ok)
	require.Equal(t, 2, s.Number)
	_, ok = x.SectionOf(3)
	require.False(t, ok)
	if _, ok := x.Item(-1); ok {
		t.Fatalf("expected no item at -1")
	}
	if !errors.Is(model.NotFoundError{}, model.ErrNotFound) {
		t.Fatalf("NotFoundError must match ErrNotFound")
	}
}
