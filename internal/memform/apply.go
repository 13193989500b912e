// Package memform is an in-memory form that applies primitive operations with
// the same index semantics as the remote forms service. It backs the engine's
// tests and the CLI's --fixture mode.
package memform

import (
	"fmt"
	"slices"

	"formctl/internal/model"
)

// Apply runs ops against a copy of items and returns the result. The input is
// never modified; on error nothing is applied and the error carries the index
// of the first rejected op.
func Apply(items []model.Item, info model.FormInfo, ops []model.Op, newID func() string) ([]model.Item, model.FormInfo, []model.Reply, error) {
	cur := slices.Clone(items)
	replies := make([]model.Reply, 0, len(ops))

	reject := func(i int, format string, args ...any) error {
		return &model.RemoteFailureError{OpIndex: i, Status: 400, Message: fmt.Sprintf(format, args...)}
	}

	for i, op := range ops {
		var reply model.Reply
		switch op.Type {
		case model.OpCreateItem:
			if op.Item == nil {
				return nil, info, nil, reject(i, "createItem: missing item")
			}
			if op.Index < 0 || op.Index > len(cur) {
				return nil, info, nil, reject(i, "createItem: index %d out of range [0, %d]", op.Index, len(cur))
			}
			it := *op.Item
			if newID != nil {
				it.ID = newID()
			}
			cur = slices.Insert(cur, op.Index, it)
			reply.CreatedItemID = it.ID

		case model.OpUpdateItem:
			at, err := updateTarget(cur, op)
			if err != nil {
				return nil, info, nil, reject(i, "updateItem: %v", err)
			}
			cur[at] = patchItem(cur[at], op)

		case model.OpDeleteItem:
			if op.Index < 0 || op.Index >= len(cur) {
				return nil, info, nil, reject(i, "deleteItem: index %d out of range [0, %d)", op.Index, len(cur))
			}
			cur = slices.Delete(cur, op.Index, op.Index+1)

		case model.OpMoveItem:
			if op.Index < 0 || op.Index >= len(cur) {
				return nil, info, nil, reject(i, "moveItem: original index %d out of range [0, %d)", op.Index, len(cur))
			}
			if op.To < 0 || op.To >= len(cur) {
				return nil, info, nil, reject(i, "moveItem: new index %d out of range [0, %d)", op.To, len(cur))
			}
			it := cur[op.Index]
			cur = slices.Delete(cur, op.Index, op.Index+1)
			cur = slices.Insert(cur, op.To, it)

		case model.OpUpdateInfo:
			if op.Info == nil {
				return nil, info, nil, reject(i, "updateFormInfo: missing info")
			}
			for _, f := range op.Mask {
				switch f {
				case "title":
					info.Title = op.Info.Title
				case "description":
					info.Description = op.Info.Description
				case "documentTitle":
					info.DocumentTitle = op.Info.DocumentTitle
				default:
					return nil, info, nil, reject(i, "updateFormInfo: unknown mask field %q", f)
				}
			}

		default:
			return nil, info, nil, reject(i, "unsupported op %s", op.Type)
		}
		replies = append(replies, reply)
	}
	return cur, info, replies, nil
}

func updateTarget(items []model.Item, op model.Op) (int, error) {
	if op.Item == nil {
		return 0, fmt.Errorf("missing item")
	}
	if op.ItemID != "" {
		for i := range items {
			if items[i].ID == op.ItemID {
				return i, nil
			}
		}
		return 0, fmt.Errorf("item %s does not exist", op.ItemID)
	}
	if op.Index < 0 || op.Index >= len(items) {
		return 0, fmt.Errorf("index %d out of range [0, %d)", op.Index, len(items))
	}
	return op.Index, nil
}

func patchItem(cur model.Item, op model.Op) model.Item {
	next := *op.Item
	if len(op.Mask) == 0 || slices.Contains(op.Mask, "*") {
		next.ID = cur.ID
		return next
	}
	out := cur
	for _, f := range op.Mask {
		switch f {
		case "title":
			out.Title = next.Title
		case "description":
			out.Description = next.Description
		case "questionItem", "pageBreakItem":
			out.Body = next.Body
		}
	}
	return out
}
