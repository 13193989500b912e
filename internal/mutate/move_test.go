package mutate

import (
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"formctl/internal/layout"
	"formctl/internal/model"
	"formctl/internal/testsupport"
)

func TestMoveTarget_AdjustsForwardMoves(t *testing.T) {
	// Insertion point past the source closes the gap left by the removal.
	require.Equal(t, 4, MoveTarget(1, 5))
	// Backward and in-place insertion points are unchanged.
	require.Equal(t, 0, MoveTarget(3, 0))
	require.Equal(t, 3, MoveTarget(3, 3))
	// Inserting right after itself is a no-op.
	require.Equal(t, 3, MoveTarget(3, 4))
}

func TestPlanMoveQuestion(t *testing.T) {
	form := testsupport.Items("Q:a Q:b B:c Q:d Q:e")
	cases := []struct {
		name     string
		src, dst model.Location
		ops      []model.Op
		want     string
	}{
		{
			name: "forward after a later question",
			src:  model.Location{Section: 1, Question: 1},
			dst:  model.Location{Section: 2, Question: 1, Position: model.PositionAfter},
			ops:  []model.Op{model.MoveItem(0, 3)},
			want: "b c d a e",
		},
		{
			name: "forward before a later question",
			src:  model.Location{Section: 1, Question: 1},
			dst:  model.Location{Section: 2, Question: 2, Position: model.PositionBefore},
			ops:  []model.Op{model.MoveItem(0, 3)},
			want: "b c d a e",
		},
		{
			name: "backward before an earlier question",
			src:  model.Location{Section: 2, Question: 2},
			dst:  model.Location{Section: 1, Question: 1, Position: model.PositionBefore},
			ops:  []model.Op{model.MoveItem(4, 0)},
			want: "e a b c d",
		},
		{
			name: "to section end",
			src:  model.Location{Section: 1, Question: 1},
			dst:  model.Location{Section: 2, Position: model.PositionSectionEnd},
			ops:  []model.Op{model.MoveItem(0, 4)},
			want: "b c d e a",
		},
		{
			name: "to start of next section",
			src:  model.Location{Section: 1, Question: 2},
			dst:  model.Location{Section: 2, Position: model.PositionSectionStart},
			ops:  []model.Op{model.MoveItem(1, 2)},
			want: "a c b d e",
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			b, err := PlanMoveQuestion(layout.Build(form), tc.src, tc.dst)
			require.NoError(t, err)
			require.Equal(t, tc.ops, b.Ops)
			testsupport.RequireOrder(t, tc.want, apply(t, form, b))
		})
	}
}

func TestPlanMoveQuestion_NoOpWhenAlreadyThere(t *testing.T) {
	form := testsupport.Items("Q:a Q:b")
	b, err := PlanMoveQuestion(layout.Build(form), model.Location{Section: 1, Question: 1}, model.Location{Section: 1, Question: 1, Position: model.PositionAfter})
	require.NoError(t, err)
	require.True(t, b.Empty())
}

func TestPlanMoveQuestion_Strict(t *testing.T) {
	ix := layout.Build(testsupport.Items("Q:a B:b Q:c"))
	_, err := PlanMoveQuestion(ix, model.Location{Section: 1, Question: 2}, model.Location{Section: 2, Question: 1, Position: model.PositionAfter})
	require.ErrorIs(t, err, model.ErrNotFound)
	_, err = PlanMoveQuestion(ix, model.Location{Section: 1, Question: 1}, model.Location{Section: 2, Question: 3, Position: model.PositionAfter})
	require.ErrorIs(t, err, model.ErrNotFound)
	_, err = PlanMoveQuestion(ix, model.Location{Section: 0, Question: 1}, model.Location{Section: 2, Question: 1})
	require.ErrorIs(t, err, model.ErrInvalidArgument)
}

func fourSections() []model.Item {
	return testsupport.Items("Q:a1 Q:a2 B:b0 Q:b1 B:c0 Q:c1 Q:c2 B:d0 Q:d1")
}

func TestPlanMoveSection_FirstAfterThird(t *testing.T) {
	form := fourSections()
	b, err := PlanMoveSection(layout.Build(form), 1, 3, model.PositionAfter)
	require.NoError(t, err)

	// Fixed-length plan: same source and destination for every step.
	require.Equal(t, []model.Op{model.MoveItem(0, 6), model.MoveItem(0, 6)}, b.Ops)

	out := apply(t, form, b)
	testsupport.RequireOrder(t, "b0 b1 c0 c1 c2 a1 a2 d0 d1", out)
}

func TestPlanMoveSection_Backward(t *testing.T) {
	form := fourSections()
	b, err := PlanMoveSection(layout.Build(form), 3, 2, model.PositionBefore)
	require.NoError(t, err)
	require.Equal(t, []model.Op{model.MoveItem(6, 2), model.MoveItem(6, 2), model.MoveItem(6, 2)}, b.Ops)
	testsupport.RequireOrder(t, "a1 a2 c0 c1 c2 b0 b1 d0 d1", apply(t, form, b))
}

func TestPlanMoveSection_NoOps(t *testing.T) {
	ix := layout.Build(fourSections())
	for _, tc := range []struct {
		src, dst int
		pos      model.Position
	}{
		{2, 2, model.PositionBefore},
		{2, 2, model.PositionAfter},
		{2, 1, model.PositionAfter},
		{2, 3, model.PositionBefore},
	} {
		b, err := PlanMoveSection(ix, tc.src, tc.dst, tc.pos)
		require.NoError(t, err)
		require.True(t, b.Empty(), "%d %s %d", tc.src, tc.pos, tc.dst)
	}

	_, err := PlanMoveSection(ix, 2, 9, model.PositionAfter)
	require.ErrorIs(t, err, model.ErrNotFound)
	_, err = PlanMoveSection(ix, 2, 3, model.PositionSectionEnd)
	require.ErrorIs(t, err, model.ErrInvalidArgument)
}

// Every (source, target, before/after) combination keeps the run contiguous
// and in order, and leaves every other item in its relative order.
func TestPlanMoveSection_AllPairsPreserveOrder(t *testing.T) {
	form := testsupport.Items("Q:a1 O:a2 B:b0 Q:b1 Q:b2 B:c0 B:d0 Q:d1 O:d2 Q:d3 B:e0 Q:e1")
	ix := layout.Build(form)
	secs := ix.Sections()

	for _, src := range secs {
		run := testsupport.IDs(form[src.StartIndex:src.EndIndex])
		for _, dst := range secs {
			for _, pos := range []model.Position{model.PositionBefore, model.PositionAfter} {
				name := fmt.Sprintf("%d_%s_%d", src.Number, pos, dst.Number)
				b, err := PlanMoveSection(ix, src.Number, dst.Number, pos)
				require.NoError(t, err, name)
				require.Contains(t, []int{0, len(run)}, len(b.Ops), name)

				got := testsupport.IDs(apply(t, form, b))
				require.Len(t, got, len(form), name)

				// Expected: remove the run, then insert it before/after the target's items.
				rest := []string{}
				for i, it := range form {
					if i < src.StartIndex || i >= src.EndIndex {
						rest = append(rest, it.ID)
					}
				}
				anchorIdx := dst.StartIndex
				if pos == model.PositionAfter {
					anchorIdx = dst.EndIndex
				}
				insertAt := anchorIdx
				if anchorIdx > src.StartIndex {
					insertAt = anchorIdx - len(run)
					if insertAt < src.StartIndex {
						insertAt = src.StartIndex
					}
				}
				want := append(append(append([]string{}, rest[:insertAt]...), run...), rest[insertAt:]...)
				require.Equal(t, strings.Join(want, " "), strings.Join(got, " "), name)
			}
		}
	}
}
