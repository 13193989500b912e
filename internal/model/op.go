package model

import (
	"encoding/json"
	"fmt"
	"time"
)

// OpType represents the primitive operation the remote service understands.
type OpType uint8

const (
	// OpCreateItem inserts Item at Index.
	OpCreateItem OpType = iota
	// OpUpdateItem rewrites the fields named in Mask, addressed by ItemID when set.
	OpUpdateItem
	// OpDeleteItem removes the item at Index.
	OpDeleteItem
	// OpMoveItem removes the item at Index and reinserts it at To.
	// To is an index into the array after the removal.
	OpMoveItem
	// OpUpdateInfo rewrites form-level metadata.
	OpUpdateInfo
)

func (t OpType) String() string {
	switch t {
	case OpCreateItem:
		return "createItem"
	case OpUpdateItem:
		return "updateItem"
	case OpDeleteItem:
		return "deleteItem"
	case OpMoveItem:
		return "moveItem"
	case OpUpdateInfo:
		return "updateFormInfo"
	default:
		return "unknown"
	}
}

func (t OpType) MarshalJSON() ([]byte, error) { return json.Marshal(t.String()) }

func (t *OpType) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return err
	}
	for _, c := range []OpType{OpCreateItem, OpUpdateItem, OpDeleteItem, OpMoveItem, OpUpdateInfo} {
		if c.String() == s {
			*t = c
			return nil
		}
	}
	return fmt.Errorf("unknown op type %q", s)
}

// Op is one primitive operation. Which fields are meaningful depends on Type.
type Op struct {
	Type OpType `json:"type"`

	Index int `json:"index"`
	To    int `json:"to"`

	ItemID string    `json:"itemId,omitempty"`
	Item   *Item     `json:"item,omitempty"`
	Info   *FormInfo `json:"info,omitempty"`
	Mask   []string  `json:"mask,omitempty"`
}

func (op Op) String() string {
	switch op.Type {
	case OpCreateItem:
		kind := "item"
		if op.Item != nil {
			kind = op.Item.Kind().String()
		}
		return fmt.Sprintf("create %s at %d", kind, op.Index)
	case OpUpdateItem:
		if op.ItemID != "" {
			return fmt.Sprintf("update %s (at %d)", op.ItemID, op.Index)
		}
		return fmt.Sprintf("update item at %d", op.Index)
	case OpDeleteItem:
		return fmt.Sprintf("delete at %d", op.Index)
	case OpMoveItem:
		return fmt.Sprintf("move %d -> %d", op.Index, op.To)
	case OpUpdateInfo:
		return "update form info"
	default:
		return op.Type.String()
	}
}

func CreateItem(index int, it Item) Op {
	return Op{Type: OpCreateItem, Index: index, Item: &it}
}

func UpdateItem(index int, itemID string, it Item, mask ...string) Op {
	it.ID = itemID
	return Op{Type: OpUpdateItem, Index: index, ItemID: itemID, Item: &it, Mask: mask}
}

func DeleteItem(index int) Op {
	return Op{Type: OpDeleteItem, Index: index}
}

func MoveItem(from, to int) Op {
	return Op{Type: OpMoveItem, Index: from, To: to}
}

// Batch is an ordered list of ops submitted together; the remote service
// applies all of them or none.
type Batch struct {
	Operation string `json:"operation"`
	Ops       []Op   `json:"ops"`
}

func (b Batch) Empty() bool { return len(b.Ops) == 0 }

type Reply struct {
	CreatedItemID string `json:"createdItemId,omitempty"`
}

type BatchResult struct {
	Replies    []Reply `json:"replies"`
	RevisionID string  `json:"revisionId,omitempty"`
}

// BatchRecord is one journal entry: what was submitted and how it ended.
type BatchRecord struct {
	ID         string    `json:"id"`
	FormID     string    `json:"formId"`
	Operation  string    `json:"operation"`
	Ops        []Op      `json:"ops"`
	Status     string    `json:"status"`
	Error      string    `json:"error,omitempty"`
	RevisionID string    `json:"revisionId,omitempty"`
	CreatedAt  time.Time `json:"createdAt"`
}

const (
	BatchStatusOK    = "ok"
	BatchStatusError = "error"
)
