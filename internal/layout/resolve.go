package layout

import "formctl/internal/model"

// Policy decides what happens when a requested question number exceeds the
// questions present in the section.
type Policy int

const (
	// Strict surfaces NotFound. Used by delete, move and update.
	Strict Policy = iota
	// Permissive falls back to the section's end index. Used only by
	// create call sites, where "append at section end" is an acceptable
	// reading of a reference past the last question.
	Permissive
)

func (p Policy) String() string {
	if p == Permissive {
		return "permissive"
	}
	return "strict"
}

// Resolve converts a logical location into a physical index in the snapshot.
//
//   - FormEnd ignores both numbers and returns len(items).
//   - SectionStart returns the first insertion point inside the section
//     (after its break item); SectionEnd returns the section's end index.
//   - Exact and Before return the Nth question's index; After returns index+1.
func (x *Index) Resolve(loc model.Location, policy Policy) (int, error) {
	if err := loc.Validate(); err != nil {
		return 0, err
	}
	if loc.Position == model.PositionFormEnd {
		return len(x.items), nil
	}

	s, err := x.Section(loc.Section)
	if err != nil {
		return 0, err
	}

	switch loc.Position {
	case model.PositionSectionStart:
		return s.ContentStart(), nil
	case model.PositionSectionEnd:
		return s.EndIndex, nil
	case model.PositionExact, model.PositionBefore, model.PositionAfter:
	default:
		return 0, model.InvalidArgument("position", "unknown position %v", loc.Position)
	}

	found := 0
	for i := s.StartIndex; i < s.EndIndex; i++ {
		if !x.items[i].IsQuestion() {
			continue
		}
		found++
		if found != loc.Question {
			continue
		}
		if loc.Position == model.PositionAfter {
			return i + 1, nil
		}
		return i, nil
	}

	if policy == Permissive {
		return s.EndIndex, nil
	}
	return 0, model.NotFoundError{Kind: "question", Number: loc.Question, Section: s.Number, Available: found}
}
