package types

import (
	"bytes"
	"strconv"
)

// Pagination defaults. page_size is capped at MaxPageSize.
const (
	DefaultPage     = 1
	DefaultPageSize = 20
	MaxPageSize     = 50
)

type PageQuery struct {
	Page     int `form:"page" binding:"omitempty,min=1"`
	PageSize int `form:"page_size" binding:"omitempty,min=1"`
}

// Normalize fills defaults and clamps the page size.
func (q PageQuery) Normalize() (page, size int) {
	page, size = q.Page, q.PageSize
	if page < 1 {
		page = DefaultPage
	}
	if size < 1 {
		size = DefaultPageSize
	}
	if size > MaxPageSize {
		size = MaxPageSize
	}
	return page, size
}

type PageResp[T any] struct {
	Count    int64 `json:"count"`
	Page     int   `json:"page"`
	PageSize int   `json:"page_size"`
	Results  []T   `json:"results"`
}

func NewPage[T any](items []T, total int64, page, size int) *PageResp[T] {
	if items == nil {
		items = []T{}
	}
	return &PageResp[T]{Count: total, Page: page, PageSize: size, Results: items}
}

// ID is a snowflake id. It is written as a JSON string and read from either
// a string or a number.
type ID int64

func (id ID) Int64() int64 { return int64(id) }

func (id ID) MarshalJSON() ([]byte, error) {
	return []byte(`"` + strconv.FormatInt(int64(id), 10) + `"`), nil
}

func (id *ID) UnmarshalJSON(b []byte) error {
	b = bytes.Trim(b, `"`)
	if len(b) == 0 || string(b) == "null" {
		*id = 0
		return nil
	}
	n, err := strconv.ParseInt(string(b), 10, 64)
	if err != nil {
		return err
	}
	*id = ID(n)
	return nil
}

func IDs(in []ID) []int64 {
	out := make([]int64, 0, len(in))
	for _, id := range in {
		out = append(out, int64(id))
	}
	return out
}

type PhotoIDsReq struct {
	PhotoIDs []ID `json:"photo_ids" binding:"required,min=1,max=100"`
}

// MembershipResp reports a batch add or remove. Skipped ids were missing or already in the requested state.
type MembershipResp struct {
	Added   int   `json:"added"`
	Removed int   `json:"removed"`
	Skipped int   `json:"skipped"`
	Count   int64 `json:"photos_count"`
}
