package utils

import (
	"bytes"
	"fmt"
	"runtime"
	"strings"

	"github.com/gosimple/slug"
	"github.com/speps/go-hashids/v2"
)

func PanicTrace(err interface{}) string {
	buf := new(bytes.Buffer)
	fmt.Fprintf(buf, "%v\n", err)
	for i := 2; ; i++ {
		pc, file, line, ok := runtime.Caller(i)
		if !ok {
			break
		}
		fmt.Fprintf(buf, "%s:%d (0x%x)\n", file, line, pc)
	}
	return buf.String()
}

// GenHashID encodes id into a short, salted, url-safe string.
func GenHashID(salt string, id int64) string {
	hd := hashids.NewData()
	hd.Salt = salt
	hd.MinLength = 6
	hd.Alphabet = "abcdefghijklmnopqrstuvwxyz0123456789"
	h, _ := hashids.NewWithData(hd)
	e, _ := h.EncodeInt64([]int64{id})
	return e
}

// CollectionSlug is slug(name) plus a hashid of the collection id, so two
// collections with the same name never collide.
func CollectionSlug(salt, name string, id int64) string {
	base := slug.Make(name)
	if len(base) > 80 {
		base = strings.Trim(base[:80], "-")
	}
	suffix := GenHashID(salt, id)
	if base == "" {
		return suffix
	}
	return base + "-" + suffix
}

// Dedupe keeps the first occurrence of each id.
func Dedupe(ids []int64) []int64 {
	seen := make(map[int64]struct{}, len(ids))
	out := make([]int64, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}
